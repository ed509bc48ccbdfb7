package broker

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Consumer is an addressable message sink. It wraps a Handler with an
// identity, a terminal activation flag, and the set of topics it is
// subscribed to.
//
// A consumer may be subscribed to several topics at once; its internal state
// uses its own lock so concurrent fan-outs from multiple topics never contend
// on topic or broker locks through it.
type Consumer struct {
	id      string
	handler Handler
	active  atomic.Bool

	mu     sync.RWMutex
	topics map[string]struct{}
}

// NewConsumer creates a new active consumer. An empty id is replaced with a
// generated UUID. Returns ErrNilHandler if handler is nil.
func NewConsumer(id string, handler Handler) (*Consumer, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if id == "" {
		id = uuid.New().String()
	}

	c := &Consumer{
		id:      id,
		handler: handler,
		topics:  make(map[string]struct{}),
	}
	c.active.Store(true)
	return c, nil
}

// ID returns the consumer's identifier.
func (c *Consumer) ID() string {
	return c.id
}

// Active reports whether the consumer still accepts deliveries.
func (c *Consumer) Active() bool {
	return c.active.Load()
}

// Stop permanently deactivates the consumer. The transition is one-way:
// future fan-outs skip the consumer and lazily prune it from subscriber
// lists. A dispatch already in flight when Stop is called may still complete.
func (c *Consumer) Stop() {
	c.active.Store(false)
}

// SubscribedTopics returns a copy of the topic names the consumer is
// currently subscribed to.
func (c *Consumer) SubscribedTopics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	topics := make([]string, 0, len(c.topics))
	for name := range c.topics {
		topics = append(topics, name)
	}
	return topics
}

func (c *Consumer) addTopic(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[name] = struct{}{}
}

func (c *Consumer) removeTopic(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.topics, name)
}
