package push

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"

	"fastfoodie/internal/domain"
)

type fakeMessaging struct {
	multicast *messaging.MulticastMessage
	topicMsg  *messaging.Message
	resp      *messaging.BatchResponse
	err       error
}

func (f *fakeMessaging) SendEachForMulticast(ctx context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.multicast = m
	return f.resp, f.err
}

func (f *fakeMessaging) Send(ctx context.Context, m *messaging.Message) (string, error) {
	f.topicMsg = m
	return "projects/fastfoodie/messages/1", f.err
}

type fakeTokens struct {
	active      []string
	activeErr   error
	deactivated []string
}

func (f *fakeTokens) ActiveTokens(ctx context.Context, to domain.Recipient) ([]string, error) {
	return f.active, f.activeErr
}

func (f *fakeTokens) Deactivate(ctx context.Context, tokens []string) (int, error) {
	f.deactivated = append(f.deactivated, tokens...)
	return len(tokens), nil
}

func success() *messaging.SendResponse {
	return &messaging.SendResponse{Success: true, MessageID: "m"}
}

func failure(err error) *messaging.SendResponse {
	return &messaging.SendResponse{Success: false, Error: err}
}

func TestDispatcher_SendToRecipient_Multicasts(t *testing.T) {
	client := &fakeMessaging{resp: &messaging.BatchResponse{
		SuccessCount: 2,
		Responses:    []*messaging.SendResponse{success(), success()},
	}}
	tokens := &fakeTokens{active: []string{"tok-a", "tok-b"}}
	d := NewDispatcher(client, tokens, NewTokenHealth(tokens))

	msg := Message{Title: "Order Confirmed! 🎉", Body: "Restaurant has accepted your order #62.",
		Data: OrderData(domain.NotificationOrderUpdate, 62, "accepted")}
	err := d.SendToRecipient(context.Background(), domain.CustomerRecipient(5), msg)

	assert.NoError(t, err)
	assert.Equal(t, []string{"tok-a", "tok-b"}, client.multicast.Tokens)
	assert.Equal(t, "Order Confirmed! 🎉", client.multicast.Notification.Title)
	assert.Equal(t, "62", client.multicast.Data["order_id"])
	assert.Empty(t, tokens.deactivated)
}

func TestDispatcher_SendToRecipient_NoTokens(t *testing.T) {
	client := &fakeMessaging{}
	tokens := &fakeTokens{}
	d := NewDispatcher(client, tokens, NewTokenHealth(tokens))

	err := d.SendToRecipient(context.Background(), domain.PartnerRecipient(9), Message{Title: "t"})

	assert.NoError(t, err)
	assert.Nil(t, client.multicast)
}

func TestDispatcher_DeadTokensDeactivated(t *testing.T) {
	client := &fakeMessaging{resp: &messaging.BatchResponse{
		SuccessCount: 1,
		FailureCount: 2,
		Responses: []*messaging.SendResponse{
			success(),
			failure(errors.New("Requested entity was not found")),
			failure(errors.New("fcm: unavailable, try again later")),
		},
	}}
	tokens := &fakeTokens{active: []string{"tok-live", "tok-dead", "tok-flaky"}}
	d := NewDispatcher(client, tokens, NewTokenHealth(tokens))

	err := d.SendToRecipient(context.Background(), domain.CustomerRecipient(5), Message{Title: "t"})

	assert.NoError(t, err)
	// Only the permanently invalid token is retired; the transient one
	// stays active for the next fanout.
	assert.Equal(t, []string{"tok-dead"}, tokens.deactivated)
}

func TestDispatcher_SendToTopic(t *testing.T) {
	client := &fakeMessaging{}
	tokens := &fakeTokens{}
	d := NewDispatcher(client, tokens, NewTokenHealth(tokens))

	err := d.SendToTopic(context.Background(), "admin_updates", Message{
		Title: "Order #62: accepted",
		Body:  "Order 62 has moved to accepted",
		Data:  OrderData(domain.NotificationAdminOrderRefresh, 62, "accepted"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "admin_updates", client.topicMsg.Topic)
	assert.Empty(t, tokens.deactivated)
}

func TestDeadToken(t *testing.T) {
	assert.False(t, DeadToken(nil))
	assert.True(t, DeadToken(errors.New("registration-token-not-registered: not-found")))
	assert.True(t, DeadToken(errors.New("invalid-registration token supplied")))
	assert.True(t, DeadToken(errors.New("Requested entity was not found")))
	assert.False(t, DeadToken(errors.New("quota exceeded, retry later")))
}
