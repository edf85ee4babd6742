package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "development" || cfg.Backend != BackendPostgres {
		t.Errorf("environment = %q, backend = %q", cfg.Environment, cfg.Backend)
	}
	if cfg.HTTP.Host != "0.0.0.0" || cfg.HTTP.Port != 7090 {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if len(cfg.HTTP.AllowedOrigins) != 1 || cfg.HTTP.AllowedOrigins[0] != "*" {
		t.Errorf("origins = %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Finance.Location == nil || cfg.Finance.Location.String() != "UTC" {
		t.Errorf("location = %v", cfg.Finance.Location)
	}
	if !cfg.Finance.DefaultTaxRate.Equal(decimal.NewFromInt(11)) || cfg.Finance.AlertWindowDays != 7 {
		t.Errorf("finance = %+v", cfg.Finance)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("APP_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("FINANCE_DEFAULT_TAX_RATE", "6.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendMemory {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.Finance.Location.String() != "America/Sao_Paulo" {
		t.Errorf("location = %v", cfg.Finance.Location)
	}
	if !cfg.Finance.DefaultTaxRate.Equal(decimal.RequireFromString("6.5")) {
		t.Errorf("tax rate = %s", cfg.Finance.DefaultTaxRate)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_ACCESS_SECRET": ""}},
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "sqlite"}},
		{"unknown timezone", map[string]string{"APP_TIMEZONE": "Mars/Olympus"}},
		{"tax rate above 100", map[string]string{"FINANCE_DEFAULT_TAX_RATE": "101"}},
		{"tax rate not a number", map[string]string{"FINANCE_DEFAULT_TAX_RATE": "eleven"}},
		{"negative alert window", map[string]string{"FINANCE_ALERT_WINDOW_DAYS": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_ACCESS_SECRET", "secret")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load succeeded, want error")
			}
		})
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{" , ", 0},
		{"a", 1},
		{"a, b ,c", 3},
	}
	for _, tt := range tests {
		if got := parseList(tt.raw); len(got) != tt.want {
			t.Errorf("parseList(%q) = %v", tt.raw, got)
		}
	}
}
