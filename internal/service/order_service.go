package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fastfoodie/internal/domain"

	"github.com/skip2/go-qrcode"
)

// OrderService owns the order state machine: it validates and applies
// status transitions on both tracks and triggers notification fanout
// after a transition commits. All writes go through conditional updates
// in the repository, so concurrent or duplicate requests resolve to
// exactly one applied transition.
type OrderService struct {
	orders   OrderRepository
	partners PartnerRepository
	notifier OrderNotifier
	radiusKM float64

	trackingBaseURL string
}

func NewOrderService(orders OrderRepository, partners PartnerRepository, notifier OrderNotifier, radiusKM float64, trackingBaseURL string) *OrderService {
	if radiusKM <= 0 {
		radiusKM = DefaultGeofenceRadiusKM
	}
	return &OrderService{
		orders:          orders,
		partners:        partners,
		notifier:        notifier,
		radiusKM:        radiusKM,
		trackingBaseURL: trackingBaseURL,
	}
}

func (s *OrderService) PlaceOrder(ctx context.Context, customerID int, order *domain.Order) error {
	order.CustomerID = customerID
	order.Status = domain.StatusPending
	order.DeliveryStatus = domain.DeliveryUnassigned
	if err := s.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	created, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("reload order %d: %w", order.ID, err)
	}
	*order = *created

	s.notifier.OrderPlaced(created)
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	return s.loadOrder(ctx, orderID)
}

// OrderQRCode returns the cached tracking QR for an order, generating
// and storing it on first use.
func (s *OrderService) OrderQRCode(ctx context.Context, orderID int) ([]byte, error) {
	code, err := s.orders.QRCode(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(code) > 0 {
		return code, nil
	}

	code, err = qrcode.Encode(fmt.Sprintf("%s/track?order_id=%d", s.trackingBaseURL, orderID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr for order %d: %w", orderID, err)
	}
	if err := s.orders.StoreQRCode(ctx, orderID, code); err != nil {
		return nil, err
	}
	return code, nil
}

// Restaurant track.

func (s *OrderService) AcceptOrder(ctx context.Context, ownerID, orderID int) (*domain.Order, error) {
	return s.restaurantTransition(ctx, ownerID, orderID,
		[]domain.OrderStatus{domain.StatusPending}, domain.StatusAccepted, "accepted_at", "")
}

func (s *OrderService) RejectOrder(ctx context.Context, ownerID, orderID int, reason string) (*domain.Order, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.restaurantTransition(ctx, ownerID, orderID,
		[]domain.OrderStatus{domain.StatusPending}, domain.StatusRejected, "", reason)
}

func (s *OrderService) StartPreparing(ctx context.Context, ownerID, orderID int) (*domain.Order, error) {
	return s.restaurantTransition(ctx, ownerID, orderID,
		[]domain.OrderStatus{domain.StatusAccepted}, domain.StatusPreparing, "", "")
}

func (s *OrderService) MarkReady(ctx context.Context, ownerID, orderID int) (*domain.Order, error) {
	return s.restaurantTransition(ctx, ownerID, orderID,
		[]domain.OrderStatus{domain.StatusPreparing}, domain.StatusReady, "ready_at", "")
}

// HandOver records the kitchen releasing the food. It does not require
// an assigned partner: handover-before-assignment keeps the order in the
// available pool until someone claims it.
func (s *OrderService) HandOver(ctx context.Context, ownerID, orderID int) (*domain.Order, error) {
	return s.restaurantTransition(ctx, ownerID, orderID,
		[]domain.OrderStatus{domain.StatusReady}, domain.StatusHandedOver, "handed_over_at", "")
}

func (s *OrderService) restaurantTransition(ctx context.Context, ownerID, orderID int, from []domain.OrderStatus, to domain.OrderStatus, stampColumn, reason string) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerID != ownerID {
		return nil, ErrNotOrderOwner
	}

	applied, err := s.orders.UpdateStatus(ctx, orderID, from, to, stampColumn, reason)
	if err != nil {
		return nil, fmt.Errorf("transition order %d to %s: %w", orderID, to, err)
	}
	if !applied {
		return nil, s.rejectedError(ctx, orderID, string(to))
	}

	fresh, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.StatusChanged(fresh)
	return fresh, nil
}

// Partner track.

// ClaimOrder binds the calling partner to an unassigned order. The
// repository performs the compare-and-swap, so of N concurrent claims on
// the same order exactly one lands here with applied=true.
func (s *OrderService) ClaimOrder(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPartnerUnavailable
	}
	if err != nil {
		return nil, err
	}
	if !partner.IsOnline || !partner.IsActive {
		return nil, ErrPartnerUnavailable
	}

	if _, err := s.loadOrder(ctx, orderID); err != nil {
		return nil, err
	}

	applied, err := s.orders.Claim(ctx, orderID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("claim order %d: %w", orderID, err)
	}
	if !applied {
		current, err := s.loadOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if current.DeliveryPartnerID != nil {
			// A retry from the partner who already holds the order is a
			// duplicate request, not a lost race: answer it like the
			// original claim, without re-notifying.
			if *current.DeliveryPartnerID == partnerID {
				return current, nil
			}
			return nil, ErrAssignmentConflict
		}
		return nil, &TransitionRejectedError{
			OrderID:   orderID,
			Current:   string(current.Status),
			Requested: string(domain.DeliveryAssigned),
		}
	}

	fresh, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.StatusChanged(fresh)
	return fresh, nil
}

func (s *OrderService) ReachRestaurant(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	return s.partnerTransition(ctx, partnerID, orderID,
		domain.DeliveryAssigned, domain.DeliveryReachedRestaurant, "reached_restaurant_at")
}

func (s *OrderService) PickUp(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	return s.partnerTransition(ctx, partnerID, orderID,
		domain.DeliveryReachedRestaurant, domain.DeliveryPickedUp, "picked_up_at")
}

func (s *OrderService) CompleteDelivery(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	return s.partnerTransition(ctx, partnerID, orderID,
		domain.DeliveryPickedUp, domain.DeliveryDelivered, "delivered_at")
}

// ReleaseOrder is the explicit unassignment operation: the only way
// delivery_partner_id ever returns to NULL. The order rejoins the
// available pool.
func (s *OrderService) ReleaseOrder(ctx context.Context, partnerID, orderID int) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != partnerID {
		return nil, ErrNotAssignedPartner
	}

	applied, err := s.orders.Release(ctx, orderID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("release order %d: %w", orderID, err)
	}
	if !applied {
		return nil, s.rejectedError(ctx, orderID, string(domain.DeliveryUnassigned))
	}

	fresh, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.StatusChanged(fresh)
	return fresh, nil
}

func (s *OrderService) partnerTransition(ctx context.Context, partnerID, orderID int, from, to domain.DeliveryStatus, stampColumn string) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != partnerID {
		return nil, ErrNotAssignedPartner
	}

	applied, err := s.orders.UpdateDeliveryStatus(ctx, orderID, partnerID, from, to, stampColumn)
	if err != nil {
		return nil, fmt.Errorf("transition order %d to %s: %w", orderID, to, err)
	}
	if !applied {
		return nil, &TransitionRejectedError{
			OrderID:   orderID,
			Current:   string(order.DeliveryStatus),
			Requested: string(to),
		}
	}

	fresh, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notifier.StatusChanged(fresh)
	return fresh, nil
}

// Listings.

// AvailableForPartner lists dispatchable unassigned orders within the
// caller's geofence. Orders or partners without coordinates pass the
// fence unconditionally.
func (s *OrderService) AvailableForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPartnerUnavailable
	}
	if err != nil {
		return nil, err
	}

	candidates, err := s.orders.Available(ctx)
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{}
	for _, c := range candidates {
		if partnerWithinReach(c.RestaurantLocation(), partner, s.radiusKM) {
			orders = append(orders, c.Order)
		}
	}
	return orders, nil
}

func (s *OrderService) ActiveForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return s.orders.ActiveForPartner(ctx, partnerID)
}

func (s *OrderService) CompletedForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return s.orders.CompletedForPartner(ctx, partnerID)
}

func (s *OrderService) RestaurantOrders(ctx context.Context, ownerID, restaurantID int, view string) ([]domain.Order, error) {
	owner, err := s.orders.RestaurantOwner(ctx, restaurantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != ownerID {
		return nil, ErrNotOrderOwner
	}
	return s.orders.ByRestaurantView(ctx, restaurantID, view)
}

func (s *OrderService) CustomerOrders(ctx context.Context, customerID int) ([]domain.Order, error) {
	return s.orders.ByCustomer(ctx, customerID)
}

func (s *OrderService) loadOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	return order, nil
}

func (s *OrderService) rejectedError(ctx context.Context, orderID int, requested string) error {
	current, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return &TransitionRejectedError{
		OrderID:   orderID,
		Current:   string(current.Status),
		Requested: requested,
	}
}
