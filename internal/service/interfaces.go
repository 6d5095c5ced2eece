package service

import (
	"context"

	"fastfoodie/internal/domain"
	"fastfoodie/internal/push"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, from []domain.OrderStatus, to domain.OrderStatus, stampColumn string, reason string) (bool, error)
	Claim(ctx context.Context, orderID, partnerID int) (bool, error)
	UpdateDeliveryStatus(ctx context.Context, orderID, partnerID int, from, to domain.DeliveryStatus, stampColumn string) (bool, error)
	Release(ctx context.Context, orderID, partnerID int) (bool, error)
	Available(ctx context.Context) ([]domain.DispatchOrder, error)
	ActiveForPartner(ctx context.Context, partnerID int) ([]domain.Order, error)
	CompletedForPartner(ctx context.Context, partnerID int) ([]domain.Order, error)
	ByRestaurantView(ctx context.Context, restaurantID int, view string) ([]domain.Order, error)
	ByCustomer(ctx context.Context, customerID int) ([]domain.Order, error)
	RestaurantOwner(ctx context.Context, restaurantID int) (int, error)
	RestaurantLocation(ctx context.Context, restaurantID int) (*domain.RestaurantLocation, error)
	QRCode(ctx context.Context, orderID int) ([]byte, error)
	StoreQRCode(ctx context.Context, orderID int, code []byte) error
}

type PartnerRepository interface {
	Online(ctx context.Context) ([]domain.DeliveryPartner, error)
	GetByID(ctx context.Context, id int) (*domain.DeliveryPartner, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForRecipient(ctx context.Context, to domain.Recipient, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int, to domain.Recipient) (bool, error)
}

type TokenRepository interface {
	Register(ctx context.Context, t *domain.DeviceToken) error
}

type Pusher interface {
	SendToRecipient(ctx context.Context, to domain.Recipient, msg push.Message) error
	SendToTopic(ctx context.Context, topic string, msg push.Message) error
}

type Broadcaster interface {
	EmitOrderUpdate(event string, order *domain.Order)
	EmitNewAvailableOrder(order *domain.Order)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

// TaskQueue is the bounded background pool fanout work is submitted to.
type TaskQueue interface {
	Submit(name string, fn func(context.Context) error) bool
}

// OrderNotifier is what the state machine calls after a transition
// commits; implementations must return immediately.
type OrderNotifier interface {
	OrderPlaced(order *domain.Order)
	StatusChanged(order *domain.Order)
}

// OrderServiceInterface is the handler-facing surface of the order state
// machine and its listings.
type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, customerID int, order *domain.Order) error
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	OrderQRCode(ctx context.Context, orderID int) ([]byte, error)

	AcceptOrder(ctx context.Context, ownerID, orderID int) (*domain.Order, error)
	RejectOrder(ctx context.Context, ownerID, orderID int, reason string) (*domain.Order, error)
	StartPreparing(ctx context.Context, ownerID, orderID int) (*domain.Order, error)
	MarkReady(ctx context.Context, ownerID, orderID int) (*domain.Order, error)
	HandOver(ctx context.Context, ownerID, orderID int) (*domain.Order, error)

	ClaimOrder(ctx context.Context, partnerID, orderID int) (*domain.Order, error)
	ReachRestaurant(ctx context.Context, partnerID, orderID int) (*domain.Order, error)
	PickUp(ctx context.Context, partnerID, orderID int) (*domain.Order, error)
	CompleteDelivery(ctx context.Context, partnerID, orderID int) (*domain.Order, error)
	ReleaseOrder(ctx context.Context, partnerID, orderID int) (*domain.Order, error)

	AvailableForPartner(ctx context.Context, partnerID int) ([]domain.Order, error)
	ActiveForPartner(ctx context.Context, partnerID int) ([]domain.Order, error)
	CompletedForPartner(ctx context.Context, partnerID int) ([]domain.Order, error)
	RestaurantOrders(ctx context.Context, ownerID, restaurantID int, view string) ([]domain.Order, error)
	CustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error)
}

// NotificationServiceInterface covers the notification inbox and device
// registration endpoints.
type NotificationServiceInterface interface {
	List(ctx context.Context, to domain.Recipient, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int, to domain.Recipient) error
	RegisterDevice(ctx context.Context, to domain.Recipient, token string) (*domain.DeviceToken, error)
}
