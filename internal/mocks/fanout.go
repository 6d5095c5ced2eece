package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fastfoodie/internal/domain"
	"fastfoodie/internal/push"
)

type Pusher struct {
	mock.Mock
}

func NewPusher(t constructorT) *Pusher {
	m := &Pusher{}
	register(t, &m.Mock, m)
	return m
}

func (m *Pusher) SendToRecipient(ctx context.Context, to domain.Recipient, msg push.Message) error {
	return m.Called(ctx, to, msg).Error(0)
}

func (m *Pusher) SendToTopic(ctx context.Context, topic string, msg push.Message) error {
	return m.Called(ctx, topic, msg).Error(0)
}

type Broadcaster struct {
	mock.Mock
}

func NewBroadcaster(t constructorT) *Broadcaster {
	m := &Broadcaster{}
	register(t, &m.Mock, m)
	return m
}

func (m *Broadcaster) EmitOrderUpdate(event string, order *domain.Order) {
	m.Called(event, order)
}

func (m *Broadcaster) EmitNewAvailableOrder(order *domain.Order) {
	m.Called(order)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t constructorT) *EventPublisher {
	m := &EventPublisher{}
	register(t, &m.Mock, m)
	return m
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

// SyncQueue runs every submitted task inline, so fanout assertions can
// run right after the call that triggered them.
type SyncQueue struct{}

func (SyncQueue) Submit(name string, fn func(context.Context) error) bool {
	fn(context.Background())
	return true
}

type Notifier struct {
	mock.Mock
}

func NewNotifier(t constructorT) *Notifier {
	m := &Notifier{}
	register(t, &m.Mock, m)
	return m
}

func (m *Notifier) OrderPlaced(order *domain.Order) {
	m.Called(order)
}

func (m *Notifier) StatusChanged(order *domain.Order) {
	m.Called(order)
}
