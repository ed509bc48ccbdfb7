package broker

import "context"

// Producer is a thin, identified pass-through over Broker.Publish. It exists
// so publishing code can be handed a named capability instead of the whole
// broker.
type Producer struct {
	id     string
	broker *Broker
}

// NewProducer creates a producer bound to the given broker.
func NewProducer(id string, b *Broker) *Producer {
	return &Producer{id: id, broker: b}
}

// ID returns the producer's identifier.
func (p *Producer) ID() string {
	return p.id
}

// Publish publishes a message to the named topic via the underlying broker.
func (p *Producer) Publish(ctx context.Context, topic string, payload []byte, headers map[string]string) (string, error) {
	return p.broker.Publish(ctx, topic, payload, headers)
}
