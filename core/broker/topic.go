package broker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/broker/core/logger"
)

// TopicStats is a point-in-time snapshot of a topic's counters. Each field is
// read under its own momentary lock, so the snapshot is best-effort under
// concurrent mutation.
type TopicStats struct {
	Name            string `json:"name"`
	MessageCount    int64  `json:"message_count"`    // Messages ever admitted
	DroppedCount    int64  `json:"dropped_count"`    // Messages rejected because the buffer was full
	BufferedCount   int    `json:"buffered_count"`   // Messages currently held by the buffer
	SubscriberCount int    `json:"subscriber_count"` // Current subscriber list size
	Capacity        int    `json:"capacity"`         // Buffer bound
}

// Topic owns the bounded buffer and subscriber set for one topic name.
// Topics are created by the broker and shared with subscribed consumers via
// back-references; removing a subscription never destroys the topic.
type Topic struct {
	name     string
	capacity int

	// buffer bounds admission. It is an accounting structure, not a
	// consumer-pull queue: delivery is fire-and-forget from the admission
	// path and the buffer is never drained.
	buffer chan Message

	mu          sync.RWMutex
	subscribers []*Consumer

	messageCount atomic.Int64
	droppedCount atomic.Int64
	closed       atomic.Bool

	dispatches sync.WaitGroup
	logger     *slog.Logger
}

func newTopic(name string, capacity int, log *slog.Logger) *Topic {
	return &Topic{
		name:     name,
		capacity: capacity,
		buffer:   make(chan Message, capacity),
		logger:   log,
	}
}

// Name returns the topic name.
func (t *Topic) Name() string {
	return t.name
}

// Capacity returns the buffer bound the topic was created with.
func (t *Topic) Capacity() int {
	return t.capacity
}

// enqueue admits the message into the bounded buffer. Admission is
// drop-newest-on-full: a full buffer rejects the message without blocking.
// The channel send serializes concurrent enqueues per topic, so admitted
// messages land in call order.
func (t *Topic) enqueue(msg Message) bool {
	if t.closed.Load() {
		return false
	}

	select {
	case t.buffer <- msg:
		t.messageCount.Add(1)
		return true
	default:
		t.droppedCount.Add(1)
		t.logger.Warn("topic buffer full, message dropped",
			slog.String("topic", t.name),
			slog.String("message_id", msg.ID))
		return false
	}
}

// deliver fans the message out to a point-in-time snapshot of the subscriber
// list. Inactive subscribers discovered in the snapshot are pruned and
// skipped; each active subscriber gets its own dispatch goroutine so handler
// code never runs under a topic lock and one subscriber cannot stall another.
// deliver does not wait for dispatches to complete.
func (t *Topic) deliver(ctx context.Context, msg Message) {
	t.mu.RLock()
	snapshot := make([]*Consumer, len(t.subscribers))
	copy(snapshot, t.subscribers)
	t.mu.RUnlock()

	for _, c := range snapshot {
		if !c.Active() {
			t.unsubscribe(c)
			continue
		}

		t.dispatches.Add(1)
		go t.dispatch(ctx, c, msg)
	}
}

// dispatch hands the message to one consumer. Errors and panics stop at this
// boundary: they are logged and never reach the publisher or other
// subscribers, and the delivery is not retried.
func (t *Topic) dispatch(ctx context.Context, c *Consumer, msg Message) {
	defer t.dispatches.Done()
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("consumer handler panicked",
				slog.String("topic", t.name),
				slog.String("consumer_id", c.ID()),
				slog.String("message_id", msg.ID),
				slog.Any("panic", r))
		}
	}()

	// Re-check after the snapshot; the consumer may have stopped since.
	if !c.Active() {
		return
	}

	start := time.Now()
	if err := c.handler.Handle(ctx, msg); err != nil {
		t.logger.Error("consumer handler failed",
			slog.String("topic", t.name),
			slog.String("consumer_id", c.ID()),
			slog.String("message_id", msg.ID),
			logger.Error(err),
			logger.Elapsed(start))
		return
	}

	t.logger.Debug("message delivered",
		slog.String("topic", t.name),
		slog.String("consumer_id", c.ID()),
		slog.String("message_id", msg.ID),
		logger.Elapsed(start))
}

// subscribe adds the consumer to the subscriber list and records the
// back-reference on the consumer. It is idempotent.
func (t *Topic) subscribe(c *Consumer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, sub := range t.subscribers {
		if sub.ID() == c.ID() {
			return
		}
	}

	t.subscribers = append(t.subscribers, c)
	c.addTopic(t.name)
}

// unsubscribe removes the consumer from the subscriber list and clears the
// back-reference. It is idempotent; unknown consumers are a no-op.
func (t *Topic) unsubscribe(c *Consumer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, sub := range t.subscribers {
		if sub.ID() == c.ID() {
			t.subscribers = append(t.subscribers[:i], t.subscribers[i+1:]...)
			c.removeTopic(t.name)
			return
		}
	}
}

// Stats returns a point-in-time snapshot of the topic's counters.
func (t *Topic) Stats() TopicStats {
	t.mu.RLock()
	subscriberCount := len(t.subscribers)
	t.mu.RUnlock()

	return TopicStats{
		Name:            t.name,
		MessageCount:    t.messageCount.Load(),
		DroppedCount:    t.droppedCount.Load(),
		BufferedCount:   len(t.buffer),
		SubscriberCount: subscriberCount,
		Capacity:        t.capacity,
	}
}

// stop marks the topic closed so late publishers holding a stale reference
// drop their messages instead of touching a deleted topic.
func (t *Topic) stop() {
	t.closed.Store(true)
}

// close stops admission and waits for in-flight dispatches, bounded by ctx.
func (t *Topic) close(ctx context.Context) error {
	t.stop()

	done := make(chan struct{})
	go func() {
		t.dispatches.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
