package push

import (
	"context"
	"log"
	"strings"

	"firebase.google.com/go/v4/messaging"
)

// TokenDeactivator is the slice of the token repository the health
// manager needs.
type TokenDeactivator interface {
	Deactivate(ctx context.Context, tokens []string) (int, error)
}

// TokenHealth inspects per-token send outcomes and retires registrations
// the provider reports as permanently invalid. Transient failures (rate
// limiting, temporary unavailability) leave the token active so the next
// fanout retries it.
type TokenHealth struct {
	tokens TokenDeactivator
}

func NewTokenHealth(tokens TokenDeactivator) *TokenHealth {
	return &TokenHealth{tokens: tokens}
}

// HandleBatch deactivates every dead token from a multicast response in
// a single batched update.
func (h *TokenHealth) HandleBatch(ctx context.Context, tokens []string, responses []*messaging.SendResponse) {
	var dead []string
	for i, resp := range responses {
		if resp.Success || i >= len(tokens) {
			continue
		}
		if DeadToken(resp.Error) {
			dead = append(dead, tokens[i])
		} else {
			log.Printf("[push] transient error for token %s...: %v", prefix(tokens[i]), resp.Error)
		}
	}
	if len(dead) == 0 {
		return
	}

	n, err := h.tokens.Deactivate(ctx, dead)
	if err != nil {
		log.Printf("[push] failed to deactivate %d dead tokens: %v", len(dead), err)
		return
	}
	log.Printf("[push] deactivated %d dead tokens", n)
}

// DeadToken reports whether a send error means the registration is gone
// for good. FCM signals this as unregistered; older provider responses
// surface it as not-found or invalid-registration text.
func DeadToken(err error) bool {
	if err == nil {
		return false
	}
	if messaging.IsUnregistered(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not-found") ||
		strings.Contains(msg, "invalid-registration") ||
		strings.Contains(msg, "requested entity was not found")
}

func prefix(token string) string {
	if len(token) > 20 {
		return token[:20]
	}
	return token
}
