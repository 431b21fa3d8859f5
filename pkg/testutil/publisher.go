package testutil

import (
	"context"
	"sync"

	"github.com/facepass-lab/backend/pkg/pubsub"
)

// MockPublisher records every published pack. PublishFunc, when set, decides
// the returned error.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mu        sync.Mutex
	published map[string][]*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.mu.Lock()
	if m.published == nil {
		m.published = map[string][]*pubsub.Pack{}
	}
	m.published[topic] = append(m.published[topic], pack)
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

func (m *MockPublisher) Stop(context.Context) error {
	return nil
}

// Published returns the packs sent to topic so far.
func (m *MockPublisher) Published(topic string) []*pubsub.Pack {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*pubsub.Pack{}, m.published[topic]...)
}
