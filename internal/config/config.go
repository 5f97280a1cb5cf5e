package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                 int    `env:"PORT" envDefault:"8080"`
	DatabaseURL          string `env:"DATABASE_URL,required"`
	RedisURL             string `env:"REDIS_URL,required"`
	SessionSecret        string `env:"SESSION_SECRET"`
	BootstrapAdminHandle string `env:"BOOTSTRAP_ADMIN_HANDLE" envDefault:"admin"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`

	// External text-generation service
	AssistBaseURL            string `env:"ASSIST_BASE_URL" envDefault:"https://api.openai.com/v1"`
	AssistAPIKey             string `env:"ASSIST_API_KEY"`
	AssistModel              string `env:"ASSIST_MODEL" envDefault:"gpt-4o-mini"`
	AssistTimeoutSeconds     int    `env:"ASSIST_TIMEOUT_SECONDS" envDefault:"30"`
	AssistQuota              int    `env:"ASSIST_QUOTA" envDefault:"20"`
	AssistQuotaWindowSeconds int    `env:"ASSIST_QUOTA_WINDOW_SECONDS" envDefault:"3600"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) AssistTimeout() time.Duration {
	return time.Duration(c.AssistTimeoutSeconds) * time.Second
}

func (c *Config) AssistQuotaWindow() time.Duration {
	return time.Duration(c.AssistQuotaWindowSeconds) * time.Second
}

func (c *Config) Validate(isProduction bool) error {
	if c.BootstrapAdminHandle == "" {
		return fmt.Errorf("BOOTSTRAP_ADMIN_HANDLE must not be empty")
	}

	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}

		if c.AssistAPIKey == "" {
			log.Warn().Msg("ASSIST_API_KEY is empty in production: text suggestions disabled")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
