package service

import (
	"context"
	"errors"
	"fmt"

	"fastfoodie/internal/domain"
)

var ErrNotificationNotFound = errors.New("notification not found")
var ErrTokenRequired = errors.New("device token is required")

// NotificationService backs the notification inbox and device-token
// registration endpoints.
type NotificationService struct {
	notifications NotificationRepository
	tokens        TokenRepository
}

func NewNotificationService(notifications NotificationRepository, tokens TokenRepository) *NotificationService {
	return &NotificationService{notifications: notifications, tokens: tokens}
}

func (s *NotificationService) List(ctx context.Context, to domain.Recipient, limit int) ([]domain.Notification, error) {
	return s.notifications.ListForRecipient(ctx, to, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id int, to domain.Recipient) error {
	ok, err := s.notifications.MarkRead(ctx, id, to)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// RegisterDevice binds a push token to the caller. Registering a token
// that already exists reactivates it in place.
func (s *NotificationService) RegisterDevice(ctx context.Context, to domain.Recipient, token string) (*domain.DeviceToken, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	t, err := domain.NewDeviceToken(token, to)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Register(ctx, t); err != nil {
		return nil, fmt.Errorf("register device token: %w", err)
	}
	return t, nil
}
