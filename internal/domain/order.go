package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the restaurant-owned track of an order's lifecycle.
// The wire representation is always lowercase; ParseOrderStatus normalizes
// whatever casing a client or an old database row carries.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusHandedOver OrderStatus = "handed_over"
	StatusRejected   OrderStatus = "rejected"
	StatusCancelled  OrderStatus = "cancelled"
)

// DeliveryStatus is the delivery-partner-owned track. It advances
// independently of the restaurant track: handover and assignment can
// happen in either order.
type DeliveryStatus string

const (
	DeliveryUnassigned        DeliveryStatus = "unassigned"
	DeliveryAssigned          DeliveryStatus = "assigned"
	DeliveryReachedRestaurant DeliveryStatus = "reached_restaurant"
	DeliveryPickedUp          DeliveryStatus = "picked_up"
	DeliveryDelivered         DeliveryStatus = "delivered"
)

var orderStatuses = map[OrderStatus]bool{
	StatusPending:    true,
	StatusAccepted:   true,
	StatusPreparing:  true,
	StatusReady:      true,
	StatusHandedOver: true,
	StatusRejected:   true,
	StatusCancelled:  true,
}

var deliveryStatuses = map[DeliveryStatus]bool{
	DeliveryUnassigned:        true,
	DeliveryAssigned:          true,
	DeliveryReachedRestaurant: true,
	DeliveryPickedUp:          true,
	DeliveryDelivered:         true,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !orderStatuses[status] {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	status := DeliveryStatus(strings.ToLower(strings.TrimSpace(s)))
	if !deliveryStatuses[status] {
		return "", fmt.Errorf("unknown delivery status %q", s)
	}
	return status, nil
}

// Terminal reports whether the order can no longer move on either track.
func (o *Order) Terminal() bool {
	return o.Status == StatusRejected || o.Status == StatusCancelled ||
		o.DeliveryStatus == DeliveryDelivered
}

// Dispatchable statuses are the restaurant-track statuses at which
// delivery-partner matching is attempted. handed_over is included: the
// kitchen can release the food before any partner has claimed the order.
func (s OrderStatus) Dispatchable() bool {
	switch s {
	case StatusAccepted, StatusPreparing, StatusReady, StatusHandedOver:
		return true
	}
	return false
}

// Claimable statuses are the restaurant-track statuses at which a partner
// may bind itself to an unassigned order.
func (s OrderStatus) Claimable() bool {
	return s == StatusReady || s == StatusHandedOver
}

// Display returns the human-facing form of a status ("handed over").
func (s OrderStatus) Display() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

type Order struct {
	ID                int            `json:"id"`
	RestaurantID      int            `json:"restaurant_id"`
	OwnerID           int            `json:"owner_id"`
	CustomerID        int            `json:"customer_id"`
	DeliveryPartnerID *int           `json:"delivery_partner_id"`
	Status            OrderStatus    `json:"status"`
	DeliveryStatus    DeliveryStatus `json:"delivery_status"`
	RejectionReason   string         `json:"rejection_reason,omitempty"`
	TotalAmount       float64        `json:"total_amount"`
	CreatedAt         time.Time      `json:"created_at"`

	AcceptedAt          *time.Time `json:"accepted_at,omitempty"`
	ReadyAt             *time.Time `json:"ready_at,omitempty"`
	HandedOverAt        *time.Time `json:"handed_over_at,omitempty"`
	AssignedAt          *time.Time `json:"assigned_at,omitempty"`
	ReachedRestaurantAt *time.Time `json:"reached_restaurant_at,omitempty"`
	PickedUpAt          *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt         *time.Time `json:"delivered_at,omitempty"`
	ReleasedAt          *time.Time `json:"released_at,omitempty"`
}

// EffectiveStatus is the externally visible status: the restaurant-track
// value until a partner is bound, the partner-track value afterwards.
func (o *Order) EffectiveStatus() string {
	if o.DeliveryPartnerID != nil && o.DeliveryStatus != DeliveryUnassigned {
		return string(o.DeliveryStatus)
	}
	return string(o.Status)
}
