package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"fastfoodie/internal/domain"

	"github.com/segmentio/kafka-go"
)

// KafkaEventPublisher emits order status changes to the order_events
// topic for monitoring and analytics consumers. Keys are order ids so a
// single order's events stay in one partition, in order.
type KafkaEventPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaEventPublisher(writer *kafka.Writer) *KafkaEventPublisher {
	return &KafkaEventPublisher{Writer: writer}
}

func (p *KafkaEventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: payload,
	})
}
