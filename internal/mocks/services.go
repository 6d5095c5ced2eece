package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fastfoodie/internal/domain"
)

type OrderService struct {
	mock.Mock
}

func NewOrderService(t constructorT) *OrderService {
	m := &OrderService{}
	register(t, &m.Mock, m)
	return m
}

func (m *OrderService) PlaceOrder(ctx context.Context, customerID int, order *domain.Order) error {
	return m.Called(ctx, customerID, order).Error(0)
}

func (m *OrderService) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, orderID))
}

func (m *OrderService) OrderQRCode(ctx context.Context, orderID int) ([]byte, error) {
	args := m.Called(ctx, orderID)
	var code []byte
	if v := args.Get(0); v != nil {
		code = v.([]byte)
	}
	return code, args.Error(1)
}

func (m *OrderService) AcceptOrder(ctx context.Context, ownerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, ownerID, orderID))
}

func (m *OrderService) RejectOrder(ctx context.Context, ownerID, orderID int, reason string) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, ownerID, orderID, reason))
}

func (m *OrderService) StartPreparing(ctx context.Context, ownerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, ownerID, orderID))
}

func (m *OrderService) MarkReady(ctx context.Context, ownerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, ownerID, orderID))
}

func (m *OrderService) HandOver(ctx context.Context, ownerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, ownerID, orderID))
}

func (m *OrderService) ClaimOrder(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, partnerID, orderID))
}

func (m *OrderService) ReachRestaurant(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, partnerID, orderID))
}

func (m *OrderService) PickUp(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, partnerID, orderID))
}

func (m *OrderService) CompleteDelivery(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, partnerID, orderID))
}

func (m *OrderService) ReleaseOrder(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	return singleOrder(m.Called(ctx, partnerID, orderID))
}

func (m *OrderService) AvailableForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return orderList(m.Called(ctx, partnerID))
}

func (m *OrderService) ActiveForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return orderList(m.Called(ctx, partnerID))
}

func (m *OrderService) CompletedForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return orderList(m.Called(ctx, partnerID))
}

func (m *OrderService) RestaurantOrders(ctx context.Context, ownerID, restaurantID int, view string) ([]domain.Order, error) {
	return orderList(m.Called(ctx, ownerID, restaurantID, view))
}

func (m *OrderService) CustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error) {
	return orderList(m.Called(ctx, customerID))
}

func singleOrder(args mock.Arguments) (*domain.Order, error) {
	var order *domain.Order
	if v := args.Get(0); v != nil {
		order = v.(*domain.Order)
	}
	return order, args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func NewNotificationService(t constructorT) *NotificationService {
	m := &NotificationService{}
	register(t, &m.Mock, m)
	return m
}

func (m *NotificationService) List(ctx context.Context, to domain.Recipient, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, to, limit)
	var notifications []domain.Notification
	if v := args.Get(0); v != nil {
		notifications = v.([]domain.Notification)
	}
	return notifications, args.Error(1)
}

func (m *NotificationService) MarkRead(ctx context.Context, id int, to domain.Recipient) error {
	return m.Called(ctx, id, to).Error(0)
}

func (m *NotificationService) RegisterDevice(ctx context.Context, to domain.Recipient, token string) (*domain.DeviceToken, error) {
	args := m.Called(ctx, to, token)
	var t *domain.DeviceToken
	if v := args.Get(0); v != nil {
		t = v.(*domain.DeviceToken)
	}
	return t, args.Error(1)
}
