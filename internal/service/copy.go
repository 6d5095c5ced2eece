package service

import (
	"fmt"
	"strings"

	"fastfoodie/internal/domain"
)

type notificationCopy struct {
	Title   string
	Message string
}

// customerStatusCopy keys the customer-facing wording by the order's
// effective (jointly observed) status.
var customerStatusCopy = map[string]notificationCopy{
	"rejected":  {"Order Rejected", "Sorry, the restaurant cannot fulfill your order right now."},
	"accepted":  {"Order Confirmed! 🎉", "Restaurant has accepted your order #%d."},
	"preparing": {"Chef is preparing your food 👨‍🍳", "Your delicious meal is being cooked with care."},
	"ready":     {"Food is ready! 🛍️", "Your order is packed and waiting for the delivery partner."},
	"picked_up": {"Partner is on the way! 🛵", "Your delivery partner has picked up your order and is coming to you."},
	"delivered": {"Order Delivered! 🍽️", "Enjoy your meal! Don't forget to rate your experience."},
}

func customerCopy(order *domain.Order) notificationCopy {
	status := order.EffectiveStatus()
	if c, ok := customerStatusCopy[status]; ok {
		if strings.Contains(c.Message, "%d") {
			c.Message = fmt.Sprintf(c.Message, order.ID)
		}
		return c
	}
	return notificationCopy{
		Title:   "Order Update",
		Message: fmt.Sprintf("Your order #%d is now %s.", order.ID, displayStatus(status)),
	}
}

func ownerCopy(order *domain.Order, placed bool) (notificationCopy, string) {
	if placed {
		return notificationCopy{
			Title:   "New Order Received! 🛍️",
			Message: fmt.Sprintf("You have a new order #%d.", order.ID),
		}, domain.NotificationNewOrder
	}
	return notificationCopy{
		Title:   fmt.Sprintf("Order #%d Update", order.ID),
		Message: fmt.Sprintf("Order status changed to %s", displayStatus(order.EffectiveStatus())),
	}, domain.NotificationOrderUpdate
}

func availableOrderCopy(order *domain.Order) notificationCopy {
	return notificationCopy{
		Title:   fmt.Sprintf("New Order #%d Available!", order.ID),
		Message: "A new order is available nearby. Tap to see details.",
	}
}

func adminCopy(order *domain.Order) notificationCopy {
	status := order.EffectiveStatus()
	return notificationCopy{
		Title:   fmt.Sprintf("Order #%d: %s", order.ID, status),
		Message: fmt.Sprintf("Order %d has moved to %s", order.ID, status),
	}
}

func displayStatus(status string) string {
	return domain.OrderStatus(status).Display()
}
