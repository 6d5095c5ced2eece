package storage

import (
	"context"
	"database/sql"

	"fastfoodie/internal/domain"

	"github.com/lib/pq"
)

type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Register upserts a device registration. Re-registering a token the
// provider previously invalidated reactivates the same row and rebinds it
// to the caller instead of duplicating it.
func (r *TokenRepository) Register(ctx context.Context, t *domain.DeviceToken) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO device_tokens (token, owner_id, customer_id, delivery_partner_id, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (token) DO UPDATE
		SET owner_id = EXCLUDED.owner_id,
		    customer_id = EXCLUDED.customer_id,
		    delivery_partner_id = EXCLUDED.delivery_partner_id,
		    is_active = TRUE
		RETURNING id, created_at
	`, t.Token, t.OwnerID, t.CustomerID, t.DeliveryPartnerID).
		Scan(&t.ID, &t.CreatedAt)
}

// ActiveTokens returns the active push registrations for a recipient.
func (r *TokenRepository) ActiveTokens(ctx context.Context, to domain.Recipient) ([]string, error) {
	column, err := recipientColumn(to.Role)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT token FROM device_tokens WHERE `+column+` = $1 AND is_active = TRUE
	`, to.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// Deactivate marks dead tokens inactive in one batched update. The update
// is idempotent, so concurrent fanout calls deactivating overlapping
// token sets are safe.
func (r *TokenRepository) Deactivate(ctx context.Context, tokens []string) (int, error) {
	if len(tokens) == 0 {
		return 0, nil
	}
	result, err := r.DB.ExecContext(ctx, `
		UPDATE device_tokens SET is_active = FALSE WHERE token = ANY($1)
	`, pq.Array(tokens))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}
