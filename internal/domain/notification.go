package domain

import (
	"errors"
	"time"
)

const (
	NotificationOrderUpdate       = "order_update"
	NotificationNewOrder          = "new_order"
	NotificationNewAvailableOrder = "new_available_order"
	NotificationAdminOrderRefresh = "admin_order_refresh"
)

// Notification is the durable record of an event for one recipient.
// Exactly one of the three recipient columns is set; rows are append-only.
type Notification struct {
	ID                int       `json:"id"`
	OwnerID           *int      `json:"owner_id,omitempty"`
	CustomerID        *int      `json:"customer_id,omitempty"`
	DeliveryPartnerID *int      `json:"delivery_partner_id,omitempty"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	NotificationType  string    `json:"notification_type"`
	OrderID           *int      `json:"order_id,omitempty"`
	IsRead            bool      `json:"is_read"`
	CreatedAt         time.Time `json:"created_at"`
}

var ErrAmbiguousRecipient = errors.New("exactly one recipient id must be set")

// NewNotification builds a notification addressed to a single recipient.
func NewNotification(to Recipient, title, message, notificationType string, orderID int) *Notification {
	n := &Notification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
	}
	if orderID != 0 {
		n.OrderID = &orderID
	}
	id := to.ID
	switch to.Role {
	case RoleOwner:
		n.OwnerID = &id
	case RoleCustomer:
		n.CustomerID = &id
	case RoleDeliveryPartner:
		n.DeliveryPartnerID = &id
	}
	return n
}

// Recipient returns the single recipient the notification is addressed to.
func (n *Notification) Recipient() (Recipient, error) {
	set := 0
	var r Recipient
	if n.OwnerID != nil {
		set++
		r = OwnerRecipient(*n.OwnerID)
	}
	if n.CustomerID != nil {
		set++
		r = CustomerRecipient(*n.CustomerID)
	}
	if n.DeliveryPartnerID != nil {
		set++
		r = PartnerRecipient(*n.DeliveryPartnerID)
	}
	if set != 1 {
		return Recipient{}, ErrAmbiguousRecipient
	}
	return r, nil
}
