package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/yukikurage/team-task-tracker/internal/constants"
)

type Config struct {
	ServerPort string
	GinMode    string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBLogLevel string

	JWTSecret         string
	JWTIssuer         string
	AccessTokenExpiry time.Duration

	SessionSecret string
	SessionStore  string
	RedisHost     string
	RedisPort     string

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	OpenAIAPIKey string

	DailyHoursCap decimal.Decimal
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in release mode")

// Load reads the configuration from the environment once at startup.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		ServerPort:         v.GetString("SERVER_PORT"),
		GinMode:            v.GetString("GIN_MODE"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSLMODE"),
		DBLogLevel:         v.GetString("DB_LOG_LEVEL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		AccessTokenExpiry:  time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		SessionSecret:      v.GetString("SESSION_SECRET"),
		SessionStore:       strings.ToLower(v.GetString("SESSION_STORE")),
		RedisHost:          v.GetString("REDIS_HOST"),
		RedisPort:          v.GetString("REDIS_PORT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
	}

	dailyCap, err := decimal.NewFromString(v.GetString("DAILY_HOURS_CAP"))
	if err != nil || !dailyCap.IsPositive() {
		return nil, fmt.Errorf("invalid DAILY_HOURS_CAP %q", v.GetString("DAILY_HOURS_CAP"))
	}
	cfg.DailyHoursCap = dailyCap.Round(constants.HoursPrecision)

	if cfg.AccessTokenExpiry <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return nil, ErrMissingJWTSecret
		}
		cfg.JWTSecret = "insecure-development-secret"
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "taskuser")
	v.SetDefault("DB_PASSWORD", "taskpassword")
	v.SetDefault("DB_NAME", "task_management")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "team-task-tracker")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("SESSION_STORE", "cookie")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("DAILY_HOURS_CAP", constants.DefaultDailyHoursCap)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
