package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type FinanceConfig struct {
	Timezone        string
	Location        *time.Location
	DefaultTaxRate  decimal.Decimal
	AlertWindowDays int
}

type Config struct {
	Environment string
	Backend     string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Finance     FinanceConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	v.SetDefault("FINANCE_DEFAULT_TAX_RATE", "11")
	v.SetDefault("FINANCE_ALERT_WINDOW_DAYS", 7)

	_ = v.ReadInConfig()

	taxRate, err := decimal.NewFromString(strings.TrimSpace(v.GetString("FINANCE_DEFAULT_TAX_RATE")))
	if err != nil {
		return nil, fmt.Errorf("FINANCE_DEFAULT_TAX_RATE: %w", err)
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		Backend:     strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND"))),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Finance: FinanceConfig{
			Timezone:        strings.TrimSpace(v.GetString("APP_TIMEZONE")),
			DefaultTaxRate:  taxRate,
			AlertWindowDays: v.GetInt("FINANCE_ALERT_WINDOW_DAYS"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendPostgres
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.Finance.Timezone == "" {
		cfg.Finance.Timezone = "UTC"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Backend != BackendPostgres && cfg.Backend != BackendMemory {
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q", BackendPostgres, BackendMemory)
	}
	loc, err := time.LoadLocation(cfg.Finance.Timezone)
	if err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	cfg.Finance.Location = loc
	if cfg.Finance.DefaultTaxRate.IsNegative() || cfg.Finance.DefaultTaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("FINANCE_DEFAULT_TAX_RATE must be between 0 and 100")
	}
	if cfg.Finance.AlertWindowDays < 0 {
		return fmt.Errorf("FINANCE_ALERT_WINDOW_DAYS must not be negative")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
