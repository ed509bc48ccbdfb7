package broker

import (
	"fmt"
	"time"
)

// Config holds broker settings loadable from the environment via the
// core/config package.
//
// Example:
//
//	var cfg broker.Config
//	config.MustLoad(&cfg)
//	b, err := broker.NewFromConfig(cfg, broker.WithLogger(logger))
type Config struct {
	DefaultTopicCapacity int           `env:"BROKER_DEFAULT_TOPIC_CAPACITY" envDefault:"1000"`
	ShutdownTimeout      time.Duration `env:"BROKER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// NewFromConfig creates a broker from a loaded configuration. Explicit
// options are applied after the configuration and take precedence. Invalid
// configuration values fail fast.
func NewFromConfig(cfg Config, opts ...Option) (*Broker, error) {
	if cfg.DefaultTopicCapacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, cfg.DefaultTopicCapacity)
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("shutdown timeout must be positive: got %s", cfg.ShutdownTimeout)
	}

	base := []Option{
		WithDefaultTopicCapacity(cfg.DefaultTopicCapacity),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	return New(append(base, opts...)...), nil
}
