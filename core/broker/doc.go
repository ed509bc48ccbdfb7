// Package broker provides an in-memory, topic-based publish/subscribe message
// broker. Messages published to a topic are admitted into a bounded per-topic
// buffer and fanned out to every active subscriber of that topic, with full
// isolation between slow or failing consumers.
//
// # Core Components
//
// Message is an immutable value carrying a unique ID, topic name, payload,
// headers, and creation timestamp. IDs are UUIDs assigned on construction.
//
// Handler is the capability a consumer is built around. It is invoked at most
// once per accepted message per subscription; any error or panic it raises is
// caught at the delivery boundary and logged, never propagated to the
// publisher or to other subscribers, and never retried.
//
// Consumer is an addressable sink with a terminal activation flag. Stop flips
// it off permanently; inactive consumers are pruned lazily from subscriber
// lists when the next fan-out discovers them.
//
// Topic owns a bounded FIFO buffer and the subscriber set for one topic name.
// Admission is drop-newest-on-full: once the buffer holds its capacity, new
// messages are dropped (observable via stats), never blocked on or evicted.
//
// Broker owns the topic registry and the global consumer registry, creating
// topics lazily on first reference.
//
// # Basic Usage
//
//	import (
//		"context"
//		"log/slog"
//		"os"
//
//		"github.com/dmitrymomot/broker/core/broker"
//	)
//
//	func main() {
//		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//
//		b := broker.New(broker.WithLogger(logger))
//
//		consumer, err := broker.NewConsumer("billing", broker.HandlerFunc(
//			func(ctx context.Context, msg broker.Message) error {
//				logger.Info("order received", "payload", string(msg.Payload))
//				return nil
//			},
//		))
//		if err != nil {
//			logger.Error("consumer setup failed", "error", err)
//			os.Exit(1)
//		}
//
//		if err := b.Subscribe(consumer, "orders"); err != nil {
//			logger.Error("subscribe failed", "error", err)
//			os.Exit(1)
//		}
//
//		ctx := context.Background()
//		msgID, err := b.Publish(ctx, "orders", []byte("order #1001 created"), nil)
//		if err != nil {
//			logger.Error("publish failed", "error", err)
//		}
//		logger.Info("published", "message_id", msgID)
//
//		// Graceful shutdown waits for in-flight deliveries.
//		if err := b.Close(ctx); err != nil {
//			logger.Error("shutdown failed", "error", err)
//		}
//	}
//
// # Delivery Semantics
//
// Publish returns as soon as the message has been admitted and dispatch has
// been initiated; it never waits for subscribers. Each (message, subscriber)
// pair is dispatched on its own goroutine, so a slow or hung handler cannot
// stall other subscribers, other topics, or the publisher.
//
// Fan-out works from a point-in-time snapshot of the subscriber list taken
// under the topic's read lock; handler code always runs with no broker or
// topic lock held. A subscribe racing with an in-flight fan-out may or may
// not see that message. Delivery order to a single consumer across multiple
// messages is not guaranteed; dispatches are independent and may complete out
// of order.
//
// # Backpressure
//
// Each topic's buffer is a capacity-accounting structure, not a consumer-pull
// queue: admitted messages are counted against capacity and delivery is
// fire-and-forget from the admission path. When the buffer is full, new
// messages are dropped silently from the caller's perspective - Publish still
// returns the message ID - and the drop is visible through TopicStats.
//
// # Observability
//
// Stats and AllStats return point-in-time, best-effort snapshots of per-topic
// counters (admitted, dropped, buffered, subscribers). The counters are read
// under momentary independent locks, not one combined lock, so a snapshot is
// not transactionally consistent under concurrent mutation.
//
// # Thread Safety
//
// All exported types are safe for concurrent use. Each topic's buffer and
// subscriber list are protected independently, so unrelated topics never
// serialize against each other. The broker's registries use their own locks
// and registry mutation never happens while holding a topic's internal lock.
package broker
