package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by the service.
const EnvPrefix = "DICEROLL_"

// ParseEnv loads configuration from DICEROLL_-prefixed environment variables.
// Struct tags name the variable without the prefix, e.g. `env:"HTTP_ADDR"`.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
