package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"fastfoodie/internal/domain"
	"fastfoodie/internal/push"
	"fastfoodie/internal/realtime"
)

const adminTopic = "admin_updates"

// Notifier is the fanout orchestrator invoked on every successful status
// change. It persists one notification per recipient, triggers push
// delivery, dispatches to nearby partners when the order is still
// claimable, and emits realtime room events.
//
// Everything here is best-effort and isolated per recipient: one failed
// push or broadcast never blocks another recipient and never reaches the
// caller that triggered the transition.
type Notifier struct {
	notifications NotificationRepository
	partners      PartnerRepository
	orders        OrderRepository
	pusher        Pusher
	broadcaster   Broadcaster
	events        EventPublisher
	queue         TaskQueue
	radiusKM      float64
}

func NewNotifier(
	notifications NotificationRepository,
	partners PartnerRepository,
	orders OrderRepository,
	pusher Pusher,
	broadcaster Broadcaster,
	events EventPublisher,
	queue TaskQueue,
	radiusKM float64,
) *Notifier {
	if radiusKM <= 0 {
		radiusKM = DefaultGeofenceRadiusKM
	}
	return &Notifier{
		notifications: notifications,
		partners:      partners,
		orders:        orders,
		pusher:        pusher,
		broadcaster:   broadcaster,
		events:        events,
		queue:         queue,
		radiusKM:      radiusKM,
	}
}

func (n *Notifier) OrderPlaced(order *domain.Order) {
	n.submit(order, true)
}

func (n *Notifier) StatusChanged(order *domain.Order) {
	n.submit(order, false)
}

// submit hands the fanout to the background pool with a copy of the
// order, so the transition response returns without waiting on any
// delivery work.
func (n *Notifier) submit(order *domain.Order, placed bool) {
	o := *order
	name := fmt.Sprintf("fanout-order-%d-%s", o.ID, o.EffectiveStatus())
	n.queue.Submit(name, func(ctx context.Context) error {
		n.fanout(ctx, &o, placed)
		// Fanout failures are handled per step; re-running the whole job
		// would duplicate persisted notifications.
		return nil
	})
}

func (n *Notifier) fanout(ctx context.Context, order *domain.Order, placed bool) {
	status := order.EffectiveStatus()

	// Durable notification per recipient, each pushed independently.
	custCopy := customerCopy(order)
	n.notifyRecipient(ctx, domain.CustomerRecipient(order.CustomerID), custCopy,
		domain.NotificationOrderUpdate, order, status)

	ownCopy, ownerType := ownerCopy(order, placed)
	n.notifyRecipient(ctx, domain.OwnerRecipient(order.OwnerID), ownCopy, ownerType, order, status)

	if order.DeliveryPartnerID != nil {
		n.notifyRecipient(ctx, domain.PartnerRecipient(*order.DeliveryPartnerID), custCopy,
			domain.NotificationOrderUpdate, order, status)
	}

	// Dispatch to nearby partners while the order is still unclaimed.
	if order.Status.Dispatchable() && order.DeliveryPartnerID == nil {
		n.dispatchToPartners(ctx, order, status)
	}

	// Admin topic broadcast runs regardless of the recipient fanout.
	admin := adminCopy(order)
	if err := n.pusher.SendToTopic(ctx, adminTopic, push.Message{
		Title: admin.Title,
		Body:  admin.Message,
		Data:  push.OrderData(domain.NotificationAdminOrderRefresh, order.ID, status),
	}); err != nil {
		log.Printf("[fanout] admin topic broadcast for order %d: %v", order.ID, err)
	}

	if err := n.events.PublishOrderEvent(ctx, domain.OrderEvent{
		Type:         domain.OrderEventStatusChanged,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		Status:       status,
		Timestamp:    time.Now().UTC(),
	}); err != nil {
		log.Printf("[fanout] publish order event for order %d: %v", order.ID, err)
	}

	event := domain.EventOrderUpdate
	if placed {
		event = domain.EventNewOrder
	}
	n.broadcaster.EmitOrderUpdate(event, order)
	if order.Status.Dispatchable() && order.DeliveryPartnerID == nil {
		n.broadcaster.EmitNewAvailableOrder(order)
	}
}

// notifyRecipient persists the durable record first, then schedules the
// push as its own retryable task. Push delivery never gates persistence.
func (n *Notifier) notifyRecipient(ctx context.Context, to domain.Recipient, c notificationCopy, notificationType string, order *domain.Order, status string) {
	notification := domain.NewNotification(to, c.Title, c.Message, notificationType, order.ID)
	if err := n.notifications.Create(ctx, notification); err != nil {
		log.Printf("[fanout] persist notification for %s %d (order %d): %v", to.Role, to.ID, order.ID, err)
		return
	}

	msg := push.Message{
		Title: c.Title,
		Body:  c.Message,
		Data:  push.OrderData(notificationType, order.ID, status),
	}
	recipient := to
	n.queue.Submit(fmt.Sprintf("push-%s-%d-order-%d", to.Role, to.ID, order.ID), func(ctx context.Context) error {
		return n.pusher.SendToRecipient(ctx, recipient, msg)
	})
}

func (n *Notifier) dispatchToPartners(ctx context.Context, order *domain.Order, status string) {
	var restaurantLoc *domain.RestaurantLocation
	loc, err := n.orders.RestaurantLocation(ctx, order.RestaurantID)
	if err != nil {
		log.Printf("[fanout] restaurant location for order %d: %v", order.ID, err)
	} else {
		restaurantLoc = loc
	}

	candidates, err := n.partners.Online(ctx)
	if err != nil {
		log.Printf("[fanout] list online partners for order %d: %v", order.ID, err)
		return
	}

	matched := MatchPartners(restaurantLoc, candidates, n.radiusKM)
	c := availableOrderCopy(order)
	for _, partner := range matched {
		n.notifyRecipient(ctx, domain.PartnerRecipient(partner.ID), c,
			domain.NotificationNewAvailableOrder, order, status)
	}
	if len(matched) > 0 {
		log.Printf("[fanout] dispatched order %d to %d partners", order.ID, len(matched))
	}
}

// ensure the hub satisfies the orchestrator's broadcaster dependency.
var _ Broadcaster = (*realtime.Hub)(nil)
