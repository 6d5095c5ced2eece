package domain

import "time"

// OrderEvent is the message published to the order_events stream on every
// status change, for monitoring and analytics consumers.
type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      int       `json:"order_id"`
	RestaurantID int       `json:"restaurant_id"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

const OrderEventStatusChanged = "order_status_changed"

// Realtime event names, mirrored by the mobile and dashboard clients.
const (
	EventOrderUpdate       = "order_update"
	EventNewOrder          = "new_order"
	EventNewAvailableOrder = "new_available_order"
)
