package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fastfoodie/internal/domain"

	"github.com/lib/pq"
)

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `o.id, o.restaurant_id, r.owner_id, o.customer_id, o.delivery_partner_id,
	o.status, o.delivery_status, COALESCE(o.rejection_reason, ''), o.total_amount, o.created_at,
	o.accepted_at, o.ready_at, o.handed_over_at, o.assigned_at,
	o.reached_restaurant_at, o.picked_up_at, o.delivered_at, o.released_at`

// stampColumns whitelists the per-stage timestamp column a transition may
// touch; anything else is a programming error, not caller input.
var stampColumns = map[string]bool{
	"accepted_at":           true,
	"ready_at":              true,
	"handed_over_at":        true,
	"assigned_at":           true,
	"reached_restaurant_at": true,
	"picked_up_at":          true,
	"delivered_at":          true,
	"released_at":           true,
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status, deliveryStatus string
	err := row.Scan(
		&o.ID, &o.RestaurantID, &o.OwnerID, &o.CustomerID, &o.DeliveryPartnerID,
		&status, &deliveryStatus, &o.RejectionReason, &o.TotalAmount, &o.CreatedAt,
		&o.AcceptedAt, &o.ReadyAt, &o.HandedOverAt, &o.AssignedAt,
		&o.ReachedRestaurantAt, &o.PickedUpAt, &o.DeliveredAt, &o.ReleasedAt,
	)
	if err != nil {
		return nil, err
	}
	if o.Status, err = domain.ParseOrderStatus(status); err != nil {
		return nil, err
	}
	if o.DeliveryStatus, err = domain.ParseDeliveryStatus(deliveryStatus); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (restaurant_id, customer_id, status, delivery_status, total_amount)
		VALUES ($1, $2, 'pending', 'unassigned', $3)
		RETURNING id, created_at
	`, order.RestaurantID, order.CustomerID, order.TotalAmount).
		Scan(&order.ID, &order.CreatedAt)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*domain.Order, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN restaurants r ON o.restaurant_id = r.id
		WHERE o.id = $1
	`, id)
	return scanOrder(row)
}

// UpdateStatus advances the restaurant track with a single conditional
// UPDATE: the write only lands if the current status is one of from, so
// retries and duplicate requests observe zero rows instead of
// re-applying the transition.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int, from []domain.OrderStatus, to domain.OrderStatus, stampColumn string, reason string) (bool, error) {
	if !stampColumns[stampColumn] && stampColumn != "" {
		return false, fmt.Errorf("invalid stamp column %q", stampColumn)
	}

	set := "status = $1"
	if stampColumn != "" {
		set += ", " + stampColumn + " = NOW()"
	}
	if reason != "" {
		set += ", rejection_reason = $4"
	}

	query := `UPDATE orders SET ` + set + ` WHERE id = $2 AND status = ANY($3)`
	args := []interface{}{string(to), orderID, pq.Array(statusStrings(from))}
	if reason != "" {
		args = append(args, reason)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Claim binds a partner to an order with a compare-and-swap: the row is
// only written when delivery_partner_id is still NULL and the restaurant
// track is at a claimable status. Of N concurrent claims exactly one
// succeeds; the rest see zero rows affected.
func (r *OrderRepository) Claim(ctx context.Context, orderID, partnerID int) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET delivery_partner_id = $1, delivery_status = 'assigned', assigned_at = NOW()
		WHERE id = $2
		  AND delivery_partner_id IS NULL
		  AND status IN ('ready', 'handed_over')
	`, partnerID, orderID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// UpdateDeliveryStatus advances the partner track, guarded both by the
// expected current value and by the bound partner id.
func (r *OrderRepository) UpdateDeliveryStatus(ctx context.Context, orderID, partnerID int, from, to domain.DeliveryStatus, stampColumn string) (bool, error) {
	if !stampColumns[stampColumn] {
		return false, fmt.Errorf("invalid stamp column %q", stampColumn)
	}

	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET delivery_status = $1, `+stampColumn+` = NOW()
		WHERE id = $2 AND delivery_partner_id = $3 AND delivery_status = $4
	`, string(to), orderID, partnerID, string(from))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Release unbinds the partner before pickup, returning the order to the
// available pool. This is the only operation that clears
// delivery_partner_id.
func (r *OrderRepository) Release(ctx context.Context, orderID, partnerID int) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET delivery_partner_id = NULL, delivery_status = 'unassigned', released_at = NOW()
		WHERE id = $1 AND delivery_partner_id = $2
		  AND delivery_status IN ('assigned', 'reached_restaurant')
	`, orderID, partnerID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Available lists dispatchable unassigned orders together with their
// restaurant coordinates; the geofence is applied by the caller.
func (r *OrderRepository) Available(ctx context.Context) ([]domain.DispatchOrder, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`, r.latitude, r.longitude
		FROM orders o
		JOIN restaurants r ON o.restaurant_id = r.id
		WHERE o.delivery_partner_id IS NULL
		  AND o.status IN ('accepted', 'preparing', 'ready', 'handed_over')
		ORDER BY o.created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.DispatchOrder
	for rows.Next() {
		var d domain.DispatchOrder
		var status, deliveryStatus string
		err := rows.Scan(
			&d.ID, &d.RestaurantID, &d.OwnerID, &d.CustomerID, &d.DeliveryPartnerID,
			&status, &deliveryStatus, &d.RejectionReason, &d.TotalAmount, &d.CreatedAt,
			&d.AcceptedAt, &d.ReadyAt, &d.HandedOverAt, &d.AssignedAt,
			&d.ReachedRestaurantAt, &d.PickedUpAt, &d.DeliveredAt, &d.ReleasedAt,
			&d.RestaurantLat, &d.RestaurantLon,
		)
		if err != nil {
			return nil, err
		}
		if d.Status, err = domain.ParseOrderStatus(status); err != nil {
			return nil, err
		}
		if d.DeliveryStatus, err = domain.ParseDeliveryStatus(deliveryStatus); err != nil {
			return nil, err
		}
		orders = append(orders, d)
	}
	return orders, rows.Err()
}

// ActiveForPartner lists the orders bound to a partner that have not
// reached a terminal state. An order handed over after assignment stays
// here and never reappears in Available.
func (r *OrderRepository) ActiveForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		WHERE o.delivery_partner_id = $1
		  AND o.delivery_status <> 'delivered'
		  AND o.status NOT IN ('rejected', 'cancelled')
		ORDER BY o.assigned_at ASC
	`, partnerID)
}

// ByRestaurantView returns the role-appropriate restaurant listings:
// "new" (awaiting a decision), "ongoing" (in flight on either track) and
// "completed" (delivered or terminated).
func (r *OrderRepository) ByRestaurantView(ctx context.Context, restaurantID int, view string) ([]domain.Order, error) {
	var where string
	switch view {
	case "new":
		where = `WHERE o.restaurant_id = $1 AND o.status = 'pending'`
	case "ongoing":
		where = `WHERE o.restaurant_id = $1
			AND o.status IN ('accepted', 'preparing', 'ready', 'handed_over')
			AND o.delivery_status <> 'delivered'`
	case "completed":
		where = `WHERE o.restaurant_id = $1
			AND (o.delivery_status = 'delivered' OR o.status IN ('rejected', 'cancelled'))`
	default:
		return nil, fmt.Errorf("unknown restaurant view %q", view)
	}
	return r.queryOrders(ctx, where+` ORDER BY o.created_at DESC`, restaurantID)
}

// RestaurantOwner resolves the owner account for a restaurant, used for
// role gating on restaurant-track transitions.
func (r *OrderRepository) RestaurantOwner(ctx context.Context, restaurantID int) (int, error) {
	var ownerID int
	err := r.DB.QueryRowContext(ctx, `SELECT owner_id FROM restaurants WHERE id = $1`, restaurantID).Scan(&ownerID)
	return ownerID, err
}

func (r *OrderRepository) ByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC
	`, customerID)
}

func (r *OrderRepository) CompletedForPartner(ctx context.Context, partnerID int) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		WHERE o.delivery_partner_id = $1 AND o.delivery_status = 'delivered'
		ORDER BY o.delivered_at DESC
	`, partnerID)
}

func (r *OrderRepository) queryOrders(ctx context.Context, where string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN restaurants r ON o.restaurant_id = r.id
	`+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) RestaurantLocation(ctx context.Context, restaurantID int) (*domain.RestaurantLocation, error) {
	loc := domain.RestaurantLocation{RestaurantID: restaurantID}
	err := r.DB.QueryRowContext(ctx, `
		SELECT latitude, longitude FROM restaurants WHERE id = $1
	`, restaurantID).Scan(&loc.Latitude, &loc.Longitude)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *OrderRepository) QRCode(ctx context.Context, orderID int) ([]byte, error) {
	var code []byte
	err := r.DB.QueryRowContext(ctx, `SELECT qr_code FROM orders WHERE id = $1`, orderID).Scan(&code)
	return code, err
}

func (r *OrderRepository) StoreQRCode(ctx context.Context, orderID int, code []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, code, orderID)
	return err
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
