package broker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/broker/core/logger"
)

const (
	// DefaultTopicCapacity is the buffer bound for topics created without an
	// explicit capacity.
	DefaultTopicCapacity = 1000

	// DefaultShutdownTimeout bounds how long Close waits for in-flight
	// deliveries.
	DefaultShutdownTimeout = 30 * time.Second
)

// BrokerStats aggregates per-topic snapshots with registry totals.
type BrokerStats struct {
	Topics        map[string]TopicStats `json:"topics"`
	TopicCount    int                   `json:"topic_count"`
	ConsumerCount int                   `json:"consumer_count"`
}

// Broker routes publish and subscription calls to topics, creating topics
// lazily on first reference. Construct one per process scope with New and
// pass it by reference; there is no ambient singleton.
type Broker struct {
	logger          *slog.Logger
	defaultCapacity int
	shutdownTimeout time.Duration

	mu     sync.RWMutex
	topics map[string]*Topic

	// consumers is the global registry of every consumer ever subscribed,
	// kept for accounting and for detaching back-references on topic
	// deletion. Guarded separately from the topic registry.
	cmu       sync.RWMutex
	consumers map[string]*Consumer

	closed atomic.Bool
}

// New creates a new broker.
//
// Example:
//
//	b := broker.New(
//	    broker.WithLogger(logger),
//	    broker.WithDefaultTopicCapacity(500),
//	)
func New(opts ...Option) *Broker {
	b := &Broker{
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultCapacity: DefaultTopicCapacity,
		shutdownTimeout: DefaultShutdownTimeout,
		topics:          make(map[string]*Topic),
		consumers:       make(map[string]*Consumer),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.logger = b.logger.With(logger.Component("broker"))
	return b
}

// CreateTopic returns the existing topic for name or creates it with the
// given options. Creation is idempotent: options are ignored when the topic
// already exists. A missing capacity option falls back to the broker default;
// a nonpositive capacity fails fast with ErrInvalidCapacity.
func (b *Broker) CreateTopic(name string, opts ...TopicOption) (*Topic, error) {
	if b.closed.Load() {
		return nil, ErrBrokerClosed
	}
	if name == "" {
		return nil, ErrEmptyTopicName
	}

	cfg := topicConfig{capacity: b.defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.topics[name]; ok {
		return t, nil
	}

	t := newTopic(name, cfg.capacity, b.logger)
	b.topics[name] = t

	b.logger.Debug("topic created",
		slog.String("topic", name),
		slog.Int("capacity", cfg.capacity))
	return t, nil
}

// getOrCreateTopic resolves an existing topic under the read lock so the hot
// publish path does not serialize unrelated topics on registry writes.
func (b *Broker) getOrCreateTopic(name string) (*Topic, error) {
	if b.closed.Load() {
		return nil, ErrBrokerClosed
	}
	if name == "" {
		return nil, ErrEmptyTopicName
	}

	b.mu.RLock()
	t, ok := b.topics[name]
	b.mu.RUnlock()
	if ok {
		return t, nil
	}
	return b.CreateTopic(name)
}

// DeleteTopic removes the topic from the registry and detaches it from every
// known consumer's subscription set. Returns false if the name was unknown.
// In-flight deliveries for already-admitted messages are allowed to finish.
func (b *Broker) DeleteTopic(name string) bool {
	b.mu.Lock()
	t, ok := b.topics[name]
	if ok {
		delete(b.topics, name)
	}
	b.mu.Unlock()

	if !ok {
		return false
	}

	b.cmu.RLock()
	consumers := make([]*Consumer, 0, len(b.consumers))
	for _, c := range b.consumers {
		consumers = append(consumers, c)
	}
	b.cmu.RUnlock()

	for _, c := range consumers {
		t.unsubscribe(c)
	}
	t.stop()

	b.logger.Info("topic deleted", slog.String("topic", name))
	return true
}

// Publish constructs a message and routes it to the named topic, creating the
// topic with the default capacity if it does not exist yet. It returns the
// new message's ID whether or not the buffer admitted it; a drop on a full
// buffer is observable only through Stats. Publish returns once dispatch has
// been initiated and never waits for subscribers.
func (b *Broker) Publish(ctx context.Context, topicName string, payload []byte, headers map[string]string) (string, error) {
	t, err := b.getOrCreateTopic(topicName)
	if err != nil {
		return "", err
	}

	msg := NewMessage(topicName, payload, headers)
	if t.enqueue(msg) {
		t.deliver(ctx, msg)
	}
	return msg.ID, nil
}

// Subscribe attaches the consumer to the named topic, creating the topic if
// needed, and records the consumer in the global registry. It is idempotent.
func (b *Broker) Subscribe(c *Consumer, topicName string) error {
	if c == nil {
		return ErrNilConsumer
	}

	t, err := b.getOrCreateTopic(topicName)
	if err != nil {
		return err
	}
	t.subscribe(c)

	b.cmu.Lock()
	b.consumers[c.ID()] = c
	b.cmu.Unlock()

	b.logger.Debug("consumer subscribed",
		slog.String("topic", topicName),
		slog.String("consumer_id", c.ID()))
	return nil
}

// Unsubscribe detaches the consumer from the named topic. Unknown topics and
// consumers that were never subscribed are a no-op, never an error.
func (b *Broker) Unsubscribe(c *Consumer, topicName string) error {
	if c == nil {
		return ErrNilConsumer
	}

	b.mu.RLock()
	t, ok := b.topics[topicName]
	b.mu.RUnlock()

	if ok {
		t.unsubscribe(c)
		b.logger.Debug("consumer unsubscribed",
			slog.String("topic", topicName),
			slog.String("consumer_id", c.ID()))
	}
	return nil
}

// Stats returns the snapshot for one topic and whether the topic exists.
func (b *Broker) Stats(name string) (TopicStats, bool) {
	b.mu.RLock()
	t, ok := b.topics[name]
	b.mu.RUnlock()

	if !ok {
		return TopicStats{}, false
	}
	return t.Stats(), true
}

// AllStats returns snapshots for every registered topic plus registry totals.
func (b *Broker) AllStats() BrokerStats {
	b.mu.RLock()
	topics := make(map[string]*Topic, len(b.topics))
	for name, t := range b.topics {
		topics[name] = t
	}
	b.mu.RUnlock()

	b.cmu.RLock()
	consumerCount := len(b.consumers)
	b.cmu.RUnlock()

	stats := BrokerStats{
		Topics:        make(map[string]TopicStats, len(topics)),
		TopicCount:    len(topics),
		ConsumerCount: consumerCount,
	}
	for name, t := range topics {
		stats.Topics[name] = t.Stats()
	}
	return stats
}

// Close shuts the broker down: it rejects further publishes and subscribes,
// stops every known consumer, and waits for in-flight deliveries across all
// topics, bounded by ctx and the configured shutdown timeout. Calling Close
// again returns ErrBrokerClosed.
func (b *Broker) Close(ctx context.Context) error {
	if !b.closed.CompareAndSwap(false, true) {
		return ErrBrokerClosed
	}

	b.mu.Lock()
	topics := make([]*Topic, 0, len(b.topics))
	for _, t := range b.topics {
		topics = append(topics, t)
	}
	b.topics = make(map[string]*Topic)
	b.mu.Unlock()

	b.cmu.Lock()
	consumers := make([]*Consumer, 0, len(b.consumers))
	for _, c := range b.consumers {
		consumers = append(consumers, c)
	}
	b.consumers = make(map[string]*Consumer)
	b.cmu.Unlock()

	for _, c := range consumers {
		c.Stop()
	}

	ctx, cancel := context.WithTimeout(ctx, b.shutdownTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range topics {
		t := t
		g.Go(func() error {
			return t.close(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.Warn("shutdown incomplete, some deliveries may be abandoned",
			logger.Error(err),
			logger.Count("topics", len(topics)))
		return err
	}

	b.logger.Info("broker closed",
		logger.Count("topics", len(topics)),
		logger.Count("consumers", len(consumers)))
	return nil
}
