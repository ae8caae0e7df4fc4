package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are the environment variables the binary honours.
type EnvOverrides struct {
	ConfigDir    string `env:"SAFETELEOP_CONFIG_DIR" envDefault:"./config"`
	SafetyConfig string `env:"SAFETELEOP_SAFETY_CONFIG"`
	Port         int    `env:"PORT"`
	LogLevel     string `env:"SAFETELEOP_LOG_LEVEL"`
}

// ParseEnv loads EnvOverrides from the environment.
func ParseEnv() (EnvOverrides, error) {
	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return overrides, fmt.Errorf("parse env: %w", err)
	}
	return overrides, nil
}

// Apply layers the overrides on top of cfg. A standalone safety file replaces
// the bootstrap safety section entirely. The result is validated again.
func (o EnvOverrides) Apply(cfg *BootstrapConfig) error {
	if o.SafetyConfig != "" {
		safety, err := LoadSafetyConfig(o.SafetyConfig)
		if err != nil {
			return err
		}
		cfg.Safety = *safety
	}
	if o.Port != 0 {
		cfg.Server.HTTPPort = o.Port
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	return cfg.Validate()
}
