package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fastfoodie/internal/domain"
	"fastfoodie/internal/mocks"
	"fastfoodie/internal/service"
)

type notifierFixture struct {
	notifications *mocks.NotificationRepository
	partners      *mocks.PartnerRepository
	orders        *mocks.OrderRepository
	pusher        *mocks.Pusher
	broadcaster   *mocks.Broadcaster
	events        *mocks.EventPublisher
	notifier      *service.Notifier
}

func newNotifierFixture(t *testing.T) *notifierFixture {
	f := &notifierFixture{
		notifications: mocks.NewNotificationRepository(t),
		partners:      mocks.NewPartnerRepository(t),
		orders:        mocks.NewOrderRepository(t),
		pusher:        mocks.NewPusher(t),
		broadcaster:   mocks.NewBroadcaster(t),
		events:        mocks.NewEventPublisher(t),
	}
	f.notifier = service.NewNotifier(
		f.notifications, f.partners, f.orders, f.pusher, f.broadcaster, f.events,
		mocks.SyncQueue{}, 5.0,
	)
	return f
}

func notificationFor(to domain.Recipient) interface{} {
	return mock.MatchedBy(func(n *domain.Notification) bool {
		r, err := n.Recipient()
		return err == nil && r == to
	})
}

func TestNotifier_StatusChanged_FanoutPerRecipient(t *testing.T) {
	f := newNotifierFixture(t)
	ctx := context.Background()

	order := pendingOrder(62, 3)
	order.Status = domain.StatusAccepted

	nearby := domain.DeliveryPartner{ID: 5, IsOnline: true, IsActive: true, Latitude: ptrFloat(12.98), Longitude: ptrFloat(77.60)}
	faraway := domain.DeliveryPartner{ID: 6, IsOnline: true, IsActive: true, Latitude: ptrFloat(13.20), Longitude: ptrFloat(77.90)}

	f.notifications.On("Create", ctx, notificationFor(domain.CustomerRecipient(7))).Return(nil).Once()
	f.notifications.On("Create", ctx, notificationFor(domain.OwnerRecipient(3))).Return(nil).Once()
	f.notifications.On("Create", ctx, notificationFor(domain.PartnerRecipient(5))).Return(nil).Once()

	f.orders.On("RestaurantLocation", ctx, 10).Return(&domain.RestaurantLocation{
		RestaurantID: 10, Latitude: ptrFloat(12.97), Longitude: ptrFloat(77.59),
	}, nil).Once()
	f.partners.On("Online", ctx).Return([]domain.DeliveryPartner{nearby, faraway}, nil).Once()

	f.pusher.On("SendToRecipient", ctx, domain.CustomerRecipient(7), mock.Anything).Return(nil).Once()
	f.pusher.On("SendToRecipient", ctx, domain.OwnerRecipient(3), mock.Anything).Return(nil).Once()
	f.pusher.On("SendToRecipient", ctx, domain.PartnerRecipient(5), mock.Anything).Return(nil).Once()
	f.pusher.On("SendToTopic", ctx, "admin_updates", mock.Anything).Return(nil).Once()

	f.events.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.OrderID == 62 && e.Status == "accepted"
	})).Return(nil).Once()

	f.broadcaster.On("EmitOrderUpdate", domain.EventOrderUpdate, mock.Anything).Once()
	f.broadcaster.On("EmitNewAvailableOrder", mock.Anything).Once()

	f.notifier.StatusChanged(order)
}

func TestNotifier_OrderPlaced_NotifiesOwnerAsNewOrder(t *testing.T) {
	f := newNotifierFixture(t)
	ctx := context.Background()

	order := pendingOrder(62, 3)

	f.notifications.On("Create", ctx, notificationFor(domain.CustomerRecipient(7))).Return(nil).Once()
	f.notifications.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.OwnerID != nil && n.NotificationType == domain.NotificationNewOrder
	})).Return(nil).Once()

	f.pusher.On("SendToRecipient", ctx, domain.CustomerRecipient(7), mock.Anything).Return(nil).Once()
	f.pusher.On("SendToRecipient", ctx, domain.OwnerRecipient(3), mock.Anything).Return(nil).Once()
	f.pusher.On("SendToTopic", ctx, "admin_updates", mock.Anything).Return(nil).Once()
	f.events.On("PublishOrderEvent", ctx, mock.Anything).Return(nil).Once()

	// Pending orders are not dispatchable: no partner matching, no
	// available-order room event.
	f.broadcaster.On("EmitOrderUpdate", domain.EventNewOrder, mock.Anything).Once()

	f.notifier.OrderPlaced(order)
}

func TestNotifier_PushFailureDoesNotBlockOtherRecipients(t *testing.T) {
	f := newNotifierFixture(t)
	ctx := context.Background()

	order := pendingOrder(62, 3)

	f.notifications.On("Create", ctx, notificationFor(domain.CustomerRecipient(7))).Return(nil).Once()
	f.notifications.On("Create", ctx, notificationFor(domain.OwnerRecipient(3))).Return(nil).Once()

	f.pusher.On("SendToRecipient", ctx, domain.CustomerRecipient(7), mock.Anything).
		Return(errors.New("fcm unavailable")).Once()
	f.pusher.On("SendToRecipient", ctx, domain.OwnerRecipient(3), mock.Anything).Return(nil).Once()
	f.pusher.On("SendToTopic", ctx, "admin_updates", mock.Anything).Return(nil).Once()
	f.events.On("PublishOrderEvent", ctx, mock.Anything).Return(nil).Once()
	f.broadcaster.On("EmitOrderUpdate", domain.EventNewOrder, mock.Anything).Once()

	f.notifier.OrderPlaced(order)
}

func TestNotifier_PersistFailureSkipsPushForThatRecipient(t *testing.T) {
	f := newNotifierFixture(t)
	ctx := context.Background()

	order := pendingOrder(62, 3)

	f.notifications.On("Create", ctx, notificationFor(domain.CustomerRecipient(7))).
		Return(errors.New("db down")).Once()
	f.notifications.On("Create", ctx, notificationFor(domain.OwnerRecipient(3))).Return(nil).Once()

	// No push for the customer whose durable record failed.
	f.pusher.On("SendToRecipient", ctx, domain.OwnerRecipient(3), mock.Anything).Return(nil).Once()
	f.pusher.On("SendToTopic", ctx, "admin_updates", mock.Anything).Return(nil).Once()
	f.events.On("PublishOrderEvent", ctx, mock.Anything).Return(nil).Once()
	f.broadcaster.On("EmitOrderUpdate", domain.EventNewOrder, mock.Anything).Once()

	f.notifier.OrderPlaced(order)
}

func TestNotifier_AssignedOrderSkipsDispatch(t *testing.T) {
	f := newNotifierFixture(t)
	ctx := context.Background()

	order := pendingOrder(62, 3)
	order.Status = domain.StatusReady
	order.DeliveryPartnerID = ptrInt(5)
	order.DeliveryStatus = domain.DeliveryAssigned

	f.notifications.On("Create", ctx, notificationFor(domain.CustomerRecipient(7))).Return(nil).Once()
	f.notifications.On("Create", ctx, notificationFor(domain.OwnerRecipient(3))).Return(nil).Once()
	f.notifications.On("Create", ctx, notificationFor(domain.PartnerRecipient(5))).Return(nil).Once()

	f.pusher.On("SendToRecipient", ctx, mock.Anything, mock.Anything).Return(nil).Times(3)
	f.pusher.On("SendToTopic", ctx, "admin_updates", mock.Anything).Return(nil).Once()
	f.events.On("PublishOrderEvent", ctx, mock.Anything).Return(nil).Once()
	f.broadcaster.On("EmitOrderUpdate", domain.EventOrderUpdate, mock.Anything).Once()

	// Bound order: no Online() lookup and no available-order event.
	f.notifier.StatusChanged(order)
	f.partners.AssertNotCalled(t, "Online", mock.Anything)
	f.broadcaster.AssertNotCalled(t, "EmitNewAvailableOrder", mock.Anything)
}

func TestMatchPartners(t *testing.T) {
	restaurant := &domain.RestaurantLocation{RestaurantID: 10, Latitude: ptrFloat(12.97), Longitude: ptrFloat(77.59)}

	nearby := domain.DeliveryPartner{ID: 1, IsOnline: true, IsActive: true, Latitude: ptrFloat(12.98), Longitude: ptrFloat(77.60)}
	faraway := domain.DeliveryPartner{ID: 2, IsOnline: true, IsActive: true, Latitude: ptrFloat(13.20), Longitude: ptrFloat(77.90)}
	offline := domain.DeliveryPartner{ID: 3, IsOnline: false, IsActive: true, Latitude: ptrFloat(12.98), Longitude: ptrFloat(77.60)}
	noLocation := domain.DeliveryPartner{ID: 4, IsOnline: true, IsActive: true}

	matched := service.MatchPartners(restaurant, []domain.DeliveryPartner{nearby, faraway, offline, noLocation}, 5.0)

	ids := []int{}
	for _, p := range matched {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{1, 4}, ids)
}

func TestMatchPartners_UnknownRestaurantLocationFailsOpen(t *testing.T) {
	partners := []domain.DeliveryPartner{
		{ID: 1, IsOnline: true, IsActive: true, Latitude: ptrFloat(13.20), Longitude: ptrFloat(77.90)},
	}

	matched := service.MatchPartners(nil, partners, 5.0)
	assert.Len(t, matched, 1)
}
