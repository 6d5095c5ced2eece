// Package mocks holds testify-backed doubles for the service and
// storage interfaces, used by the tests under internal/tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fastfoodie/internal/domain"
)

type constructorT interface {
	mock.TestingT
	Cleanup(func())
}

func register(t constructorT, m *mock.Mock, target interface{ AssertExpectations(mock.TestingT) bool }) {
	m.Test(t)
	t.Cleanup(func() { target.AssertExpectations(t) })
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t constructorT) *OrderRepository {
	m := &OrderRepository{}
	register(t, &m.Mock, m)
	return m
}

func (m *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetByID(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	var order *domain.Order
	if v := args.Get(0); v != nil {
		order = v.(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, orderID int, from []domain.OrderStatus, to domain.OrderStatus, stampColumn string, reason string) (bool, error) {
	args := m.Called(ctx, orderID, from, to, stampColumn, reason)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) Claim(ctx context.Context, orderID, partnerID int) (bool, error) {
	args := m.Called(ctx, orderID, partnerID)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) UpdateDeliveryStatus(ctx context.Context, orderID, partnerID int, from, to domain.DeliveryStatus, stampColumn string) (bool, error) {
	args := m.Called(ctx, orderID, partnerID, from, to, stampColumn)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) Release(ctx context.Context, orderID, partnerID int) (bool, error) {
	args := m.Called(ctx, orderID, partnerID)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) Available(ctx context.Context) ([]domain.DispatchOrder, error) {
	args := m.Called(ctx)
	var orders []domain.DispatchOrder
	if v := args.Get(0); v != nil {
		orders = v.([]domain.DispatchOrder)
	}
	return orders, args.Error(1)
}

func (m *OrderRepository) ActiveForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return orderList(m.Called(ctx, partnerID))
}

func (m *OrderRepository) CompletedForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return orderList(m.Called(ctx, partnerID))
}

func (m *OrderRepository) ByRestaurantView(ctx context.Context, restaurantID int, view string) ([]domain.Order, error) {
	return orderList(m.Called(ctx, restaurantID, view))
}

func (m *OrderRepository) ByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return orderList(m.Called(ctx, customerID))
}

func (m *OrderRepository) RestaurantOwner(ctx context.Context, restaurantID int) (int, error) {
	args := m.Called(ctx, restaurantID)
	return args.Int(0), args.Error(1)
}

func (m *OrderRepository) RestaurantLocation(ctx context.Context, restaurantID int) (*domain.RestaurantLocation, error) {
	args := m.Called(ctx, restaurantID)
	var loc *domain.RestaurantLocation
	if v := args.Get(0); v != nil {
		loc = v.(*domain.RestaurantLocation)
	}
	return loc, args.Error(1)
}

func (m *OrderRepository) QRCode(ctx context.Context, orderID int) ([]byte, error) {
	args := m.Called(ctx, orderID)
	var code []byte
	if v := args.Get(0); v != nil {
		code = v.([]byte)
	}
	return code, args.Error(1)
}

func (m *OrderRepository) StoreQRCode(ctx context.Context, orderID int, code []byte) error {
	return m.Called(ctx, orderID, code).Error(0)
}

func orderList(args mock.Arguments) ([]domain.Order, error) {
	var orders []domain.Order
	if v := args.Get(0); v != nil {
		orders = v.([]domain.Order)
	}
	return orders, args.Error(1)
}

type PartnerRepository struct {
	mock.Mock
}

func NewPartnerRepository(t constructorT) *PartnerRepository {
	m := &PartnerRepository{}
	register(t, &m.Mock, m)
	return m
}

func (m *PartnerRepository) Online(ctx context.Context) ([]domain.DeliveryPartner, error) {
	args := m.Called(ctx)
	var partners []domain.DeliveryPartner
	if v := args.Get(0); v != nil {
		partners = v.([]domain.DeliveryPartner)
	}
	return partners, args.Error(1)
}

func (m *PartnerRepository) GetByID(ctx context.Context, id int) (*domain.DeliveryPartner, error) {
	args := m.Called(ctx, id)
	var partner *domain.DeliveryPartner
	if v := args.Get(0); v != nil {
		partner = v.(*domain.DeliveryPartner)
	}
	return partner, args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func NewNotificationRepository(t constructorT) *NotificationRepository {
	m := &NotificationRepository{}
	register(t, &m.Mock, m)
	return m
}

func (m *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *NotificationRepository) ListForRecipient(ctx context.Context, to domain.Recipient, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, to, limit)
	var notifications []domain.Notification
	if v := args.Get(0); v != nil {
		notifications = v.([]domain.Notification)
	}
	return notifications, args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, id int, to domain.Recipient) (bool, error) {
	args := m.Called(ctx, id, to)
	return args.Bool(0), args.Error(1)
}

type TokenRepository struct {
	mock.Mock
}

func NewTokenRepository(t constructorT) *TokenRepository {
	m := &TokenRepository{}
	register(t, &m.Mock, m)
	return m
}

func (m *TokenRepository) Register(ctx context.Context, token *domain.DeviceToken) error {
	return m.Called(ctx, token).Error(0)
}
