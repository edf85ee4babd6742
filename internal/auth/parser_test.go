package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/agency-finance/internal/model"
)

func sign(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestParseIssuedToken(t *testing.T) {
	parser := NewParser("secret")
	want := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}

	token, err := parser.Issue(want, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := parser.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != want {
		t.Fatalf("principal = %+v, want %+v", got, want)
	}
}

func TestParseDefaultsRoleToUser(t *testing.T) {
	id := uuid.New()
	token := sign(t, "secret", jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	got, err := NewParser("secret").Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.UserID != id || got.Role != model.RoleUser {
		t.Fatalf("principal = %+v", got)
	}
}

func TestParseRejects(t *testing.T) {
	valid := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	badSubject := valid
	badSubject.Subject = "user-42"

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, "other", jwt.SigningMethodHS256, Claims{RegisteredClaims: valid})},
		{"wrong algorithm", sign(t, "secret", jwt.SigningMethodHS512, Claims{RegisteredClaims: valid})},
		{"expired", sign(t, "secret", jwt.SigningMethodHS256, Claims{RegisteredClaims: expired})},
		{"subject not uuid", sign(t, "secret", jwt.SigningMethodHS256, Claims{RegisteredClaims: badSubject})},
		{"unknown role", sign(t, "secret", jwt.SigningMethodHS256, Claims{Role: "root", RegisteredClaims: valid})},
		{"garbage", "not-a-token"},
	}
	parser := NewParser("secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
