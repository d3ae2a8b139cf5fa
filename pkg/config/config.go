// Package config provides environment-based configuration loading and
// validation for a queue replica.
//
// This package reads configuration from environment variables (and
// .env files) using struct tags, then validates the loaded
// configuration.
//
// Usage:
//
//	import "github.com/quorumq/quorumq/pkg/config"
//
//	type AppConfig struct {
//		QueueName string `env:"QUEUE_NAME" env-default:"default" validate:"required"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	apperrors "github.com/quorumq/quorumq/pkg/errors"
)

// Load reads configuration from .env file or environment variables and
// validates it.
func Load[T any](cfg *T) error {
	// 1. Load from .env if it exists
	if err := cleanenv.ReadConfig(".env", cfg); err != nil {
		// Fall back to plain environment variables if no .env is present.
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidArgument, "failed to read env config", err)
		}
	}

	// 2. Validate the struct
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "config validation failed", err)
	}

	return nil
}
