// Package push delivers notifications to device registrations through
// FCM: multicast sends to a recipient's tokens and topic broadcasts for
// the admin channel.
package push

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"firebase.google.com/go/v4/messaging"

	"fastfoodie/internal/domain"
)

// MessagingClient is the slice of *messaging.Client the dispatcher uses,
// kept as an interface so tests can stand in for the provider.
type MessagingClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// TokenSource lists the active registrations for a recipient.
type TokenSource interface {
	ActiveTokens(ctx context.Context, to domain.Recipient) ([]string, error)
}

// Message is one push payload: visible notification plus the data map
// the mobile clients route on.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// OrderData builds the data payload the apps expect on order pushes.
func OrderData(notificationType string, orderID int, status string) map[string]string {
	return map[string]string{
		"notification_type": notificationType,
		"order_id":          strconv.Itoa(orderID),
		"status":            status,
		"click_action":      "FLUTTER_NOTIFICATION_CLICK",
	}
}

// Disabled drops every send. Used when no FCM credentials are
// configured, so the rest of the fanout still runs locally.
type Disabled struct{}

func (Disabled) SendToRecipient(ctx context.Context, to domain.Recipient, msg Message) error {
	return nil
}

func (Disabled) SendToTopic(ctx context.Context, topic string, msg Message) error {
	return nil
}

type Dispatcher struct {
	client MessagingClient
	source TokenSource
	health *TokenHealth
}

func NewDispatcher(client MessagingClient, source TokenSource, health *TokenHealth) *Dispatcher {
	return &Dispatcher{client: client, source: source, health: health}
}

// SendToRecipient multicasts one message to every active token of the
// recipient. Per-token failures are routed through the health manager;
// they never fail the send as a whole.
func (d *Dispatcher) SendToRecipient(ctx context.Context, to domain.Recipient, msg Message) error {
	tokens, err := d.source.ActiveTokens(ctx, to)
	if err != nil {
		return fmt.Errorf("load tokens for %s %d: %w", to.Role, to.ID, err)
	}
	if len(tokens) == 0 {
		return nil
	}

	resp, err := d.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("multicast to %s %d: %w", to.Role, to.ID, err)
	}

	if resp.FailureCount > 0 {
		log.Printf("[push] %d/%d sends failed for %s %d", resp.FailureCount, len(tokens), to.Role, to.ID)
		d.health.HandleBatch(ctx, tokens, resp.Responses)
	}
	return nil
}

// SendToTopic broadcasts to every device subscribed to a topic. Topic
// sends are not addressed to registrations, so no token health applies.
func (d *Dispatcher) SendToTopic(ctx context.Context, topic string, msg Message) error {
	_, err := d.client.Send(ctx, &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("topic broadcast to %s: %w", topic, err)
	}
	return nil
}
