package kafka

import (
	"context"
	"errors"

	"github.com/Shopify/sarama"
	"github.com/facepass-lab/backend/pkg/pubsub"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

type subscriber struct {
	topics  []string
	client  sarama.ConsumerGroup
	handler pubsub.SubscribeHandler
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) (*subscriber, error) {
	config := sarama.NewConfig()
	config.ClientID = groupID
	config.Consumer.Return.Errors = false
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &subscriber{topics: topics, client: client, handler: handler}, nil
}

func (g *subscriber) Stop(ctx context.Context) error {
	return g.client.Close()
}

// Subscribe consumes until ctx is cancelled. Consume returns on every
// server-side rebalance, so it is called in a loop.
func (g *subscriber) Subscribe(ctx context.Context) error {
	consumer := consumerGroupHandler{ctx: ctx, fn: g.handler}
	for {
		if err := g.client.Consume(ctx, g.topics, &consumer); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}

			return err
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

type consumerGroupHandler struct {
	ctx context.Context
	fn  pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		xcontext.Logger(h.ctx).Debugf("Received message topic=%s partition=%d offset=%d",
			message.Topic, message.Partition, message.Offset)

		h.fn(h.ctx, &pubsub.Pack{Key: message.Key, Msg: message.Value}, message.Timestamp)
		session.MarkMessage(message, "")
	}

	return nil
}
