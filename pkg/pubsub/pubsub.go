package pubsub

import (
	"context"
	"time"
)

// Pack is one message on the bus. Key decides the partition, so every event
// of an identity is keyed by its id.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}

type SubscribeHandler func(ctx context.Context, pack *Pack, t time.Time)

type Subscriber interface {
	Subscribe(ctx context.Context) error
	Stop(ctx context.Context) error
}

type noopPublisher struct{}

// NewNoopPublisher drops every message. It stands in for a broker when none
// is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, *Pack) error {
	return nil
}

func (noopPublisher) Stop(context.Context) error {
	return nil
}
