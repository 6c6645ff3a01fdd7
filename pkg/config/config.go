package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	BaseURL            string
	JWTSecret          string
	SessionTTL         time.Duration
	RedisURL           string
	CORSAllowedOrigins []string
	LoginRatePerMinute int
	LoginBurst         int
	TrustProxyHeaders  bool
	LogLevel           string
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

var defaults = map[string]any{
	"port":                  "8080",
	"database_url":          "file:interne.db",
	"app_env":               "local",
	"base_url":              "http://localhost:8080",
	"jwt_secret":            "secret",
	"session_ttl":           "720h",
	"redis_url":             "",
	"cors_allowed_origins":  "http://localhost:8080",
	"login_rate_per_minute": 10,
	"login_burst":           5,
	"trust_proxy_headers":   false,
	"log_level":             "info",
}

// Load resolves settings from defaults, an optional configs/config.yaml and
// the environment, in increasing priority. A .env file is folded into the
// environment first.
func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	ttl := v.GetDuration("session_ttl")
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid session_ttl %q", v.GetString("session_ttl"))
	}

	return &Config{
		Port:               v.GetString("port"),
		DatabaseURL:        v.GetString("database_url"),
		AppEnv:             v.GetString("app_env"),
		BaseURL:            v.GetString("base_url"),
		JWTSecret:          v.GetString("jwt_secret"),
		SessionTTL:         ttl,
		RedisURL:           v.GetString("redis_url"),
		CORSAllowedOrigins: splitList(v.GetStringSlice("cors_allowed_origins")),
		LoginRatePerMinute: v.GetInt("login_rate_per_minute"),
		LoginBurst:         v.GetInt("login_burst"),
		TrustProxyHeaders:  v.GetBool("trust_proxy_headers"),
		LogLevel:           v.GetString("log_level"),
	}, nil
}

// splitList accepts both a YAML list and a comma separated env value.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
