package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fastfoodie/internal/domain"
)

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// Create appends one notification row. The recipient invariant is checked
// before the insert so a bad caller fails loudly instead of tripping the
// table CHECK.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if _, err := n.Recipient(); err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO notifications (owner_id, customer_id, delivery_partner_id, title, message, notification_type, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, n.OwnerID, n.CustomerID, n.DeliveryPartnerID, n.Title, n.Message, n.NotificationType, n.OrderID).
		Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, to domain.Recipient, limit int) ([]domain.Notification, error) {
	column, err := recipientColumn(to.Role)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, customer_id, delivery_partner_id, title, message, notification_type, order_id, is_read, created_at
		FROM notifications
		WHERE `+column+` = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, to.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.OwnerID, &n.CustomerID, &n.DeliveryPartnerID,
			&n.Title, &n.Message, &n.NotificationType, &n.OrderID, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flips is_read for a notification owned by the caller. It
// reports whether a row matched.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int, to domain.Recipient) (bool, error) {
	column, err := recipientColumn(to.Role)
	if err != nil {
		return false, err
	}
	result, err := r.DB.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND `+column+` = $2
	`, id, to.ID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func recipientColumn(role domain.Role) (string, error) {
	switch role {
	case domain.RoleOwner:
		return "owner_id", nil
	case domain.RoleCustomer:
		return "customer_id", nil
	case domain.RoleDeliveryPartner:
		return "delivery_partner_id", nil
	}
	return "", fmt.Errorf("no recipient column for role %q", role)
}
