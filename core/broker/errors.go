package broker

import "errors"

var (
	// ErrBrokerClosed is returned when publishing or subscribing after Close.
	ErrBrokerClosed = errors.New("broker is closed")

	// ErrEmptyTopicName is returned when a topic name is empty.
	ErrEmptyTopicName = errors.New("topic name must not be empty")

	// ErrInvalidCapacity is returned when a topic capacity is not positive.
	ErrInvalidCapacity = errors.New("topic capacity must be positive")

	// ErrNilConsumer is returned when a nil consumer is passed to Subscribe or Unsubscribe.
	ErrNilConsumer = errors.New("consumer must not be nil")

	// ErrNilHandler is returned when a consumer is constructed without a handler.
	ErrNilHandler = errors.New("handler must not be nil")
)
