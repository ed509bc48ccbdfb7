package broker

import "context"

// Handler processes messages delivered to a subscription.
//
// The broker invokes Handle at most once per accepted message per
// subscription. Errors and panics are caught at the delivery boundary and
// logged; the broker never retries a failed delivery.
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// HandlerFunc adapts a plain function to the Handler interface.
//
// Example:
//
//	consumer, err := broker.NewConsumer("audit", broker.HandlerFunc(
//	    func(ctx context.Context, msg broker.Message) error {
//	        return appendToAuditLog(ctx, msg)
//	    },
//	))
type HandlerFunc func(ctx context.Context, msg Message) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
