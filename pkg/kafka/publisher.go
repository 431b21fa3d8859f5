package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/facepass-lab/backend/pkg/pubsub"
)

type publisher struct {
	producer sarama.SyncProducer
}

// NewPublisher returns a synchronous producer. Messages with the same key land
// on the same partition, so events of one identity keep their order.
func NewPublisher(clientID string, brokerAddrs []string) (*publisher, error) {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Producer.Retry.Max = 3
	config.Producer.Retry.Backoff = 200 * time.Millisecond

	producer, err := sarama.NewSyncProducer(brokerAddrs, config)
	if err != nil {
		return nil, err
	}

	return &publisher{producer: producer}, nil
}

func (p *publisher) Stop(ctx context.Context) error {
	return p.producer.Close()
}

func (p *publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.ByteEncoder(pack.Key),
		Value:     sarama.ByteEncoder(pack.Msg),
		Timestamp: time.Now().UTC(),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("cannot send message to %s: %w", topic, err)
	}

	return nil
}
