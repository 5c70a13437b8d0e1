// Package config loads client configuration from the environment.
package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

// Config carries everything the CLI and the clients need. Timeouts are per
// operation; connection establishment has its own 5s bound in the transport.
type Config struct {
	BaseURL   string `env:"BUGBOARD_BASE_URL, default=http://localhost:8080"`
	LogLevel  string `env:"BUGBOARD_LOG_LEVEL, default=info"`
	LogPretty bool   `env:"BUGBOARD_LOG_PRETTY, default=true"`

	Timeouts Timeouts
}

// Timeouts mirrors the per-call deadlines of the backend operations; upload
// and download get the longest budget because they move the largest payloads.
type Timeouts struct {
	Login    time.Duration `env:"BUGBOARD_TIMEOUT_LOGIN, default=10s"`
	List     time.Duration `env:"BUGBOARD_TIMEOUT_LIST, default=12s"`
	Mutate   time.Duration `env:"BUGBOARD_TIMEOUT_MUTATE, default=15s"`
	Upload   time.Duration `env:"BUGBOARD_TIMEOUT_UPLOAD, default=20s"`
	Download time.Duration `env:"BUGBOARD_TIMEOUT_DOWNLOAD, default=15s"`
	Register time.Duration `env:"BUGBOARD_TIMEOUT_REGISTER, default=12s"`
}

// Load reads the configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &cfg, nil
}
