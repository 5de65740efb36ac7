package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the server.
type Config struct {
	// PolicyPath is the path to the YAML policy file. Empty selects
	// the embedded default policy.
	PolicyPath string `env:"SENTINEL_POLICY"`
	// LogLevel sets the logger level.
	LogLevel string `env:"SENTINEL_LOG_LEVEL" envDefault:"info"`
	// AWSRegion selects the AWS region to query.
	AWSRegion string `env:"AWS_REGION" envDefault:"us-east-1"`
	// AWSAccessKeyID enables static credentials when set.
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	// AWSSecretAccessKey is the static credential secret.
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"SENTINEL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// SkipPreflight disables the startup backend connectivity check.
	SkipPreflight bool `env:"SENTINEL_SKIP_PREFLIGHT" envDefault:"false"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
