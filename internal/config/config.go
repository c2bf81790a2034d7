package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Skufu/heartcheck/internal/store"
)

type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	EnableDB         bool   `mapstructure:"ENABLE_DB"`
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32  `mapstructure:"DB_MAX_CONNS"`
	AssessmentsTable string `mapstructure:"ASSESSMENTS_TABLE"`

	OpenAIAPIKey string        `mapstructure:"OPENAI_API_KEY"`
	ChatAPIURL   string        `mapstructure:"CHAT_API_URL"`
	ChatModel    string        `mapstructure:"CHAT_MODEL"`
	ChatTimeout  time.Duration `mapstructure:"CHAT_TIMEOUT"`

	JWTSecret string `mapstructure:"SUPABASE_JWT_SECRET"`
	SentryDSN string `mapstructure:"SENTRY_DSN"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	CORSOrigins    []string      `mapstructure:"-"`
	MaxBodyBytes   int64         `mapstructure:"MAX_BODY_BYTES"`
	MaxUploadBytes int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	FetchTimeout   time.Duration `mapstructure:"FETCH_TIMEOUT"`
}

var defaults = map[string]any{
	"PORT":                "8080",
	"GIN_MODE":            "release",
	"ENABLE_DB":           false,
	"DATABASE_URL":        "",
	"DB_MAX_CONNS":        10,
	"ASSESSMENTS_TABLE":   "heart_health_assessments",
	"OPENAI_API_KEY":      "",
	"CHAT_API_URL":        "https://api.openai.com/v1",
	"CHAT_MODEL":          "gpt-4o-mini",
	"CHAT_TIMEOUT":        "60s",
	"SUPABASE_JWT_SECRET": "",
	"SENTRY_DSN":          "",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"CORS_ORIGINS":        "*",
	"MAX_BODY_BYTES":      2 << 20,
	"MAX_UPLOAD_BYTES":    10 << 20,
	"FETCH_TIMEOUT":       "30s",
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if !store.ValidTableName(cfg.AssessmentsTable) {
		return nil, fmt.Errorf("ASSESSMENTS_TABLE %q is not a valid table name", cfg.AssessmentsTable)
	}
	if cfg.MaxBodyBytes <= 0 || cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_BODY_BYTES and MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}
