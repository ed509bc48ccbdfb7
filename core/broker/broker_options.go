package broker

import (
	"log/slog"
	"time"
)

// Option configures a Broker.
type Option func(*Broker)

// WithLogger configures structured logging for the broker and its topics.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDefaultTopicCapacity sets the buffer bound used for topics created
// without an explicit capacity. Nonpositive values are ignored.
// Default is DefaultTopicCapacity.
func WithDefaultTopicCapacity(capacity int) Option {
	return func(b *Broker) {
		if capacity > 0 {
			b.defaultCapacity = capacity
		}
	}
}

// WithShutdownTimeout bounds how long Close waits for in-flight deliveries.
// Nonpositive values are ignored. Default is DefaultShutdownTimeout.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(b *Broker) {
		if timeout > 0 {
			b.shutdownTimeout = timeout
		}
	}
}

type topicConfig struct {
	capacity int
}

// TopicOption configures a topic at creation time.
type TopicOption func(*topicConfig)

// WithCapacity sets the topic's buffer bound. CreateTopic fails with
// ErrInvalidCapacity when the value is not positive; capacity is never
// silently clamped.
func WithCapacity(capacity int) TopicOption {
	return func(cfg *topicConfig) {
		cfg.capacity = capacity
	}
}
