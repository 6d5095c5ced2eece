package storage

import (
	"context"
	"database/sql"

	"fastfoodie/internal/domain"
)

type PartnerRepository struct {
	DB *sql.DB
}

func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{DB: db}
}

// Online returns every partner currently accepting work. Dispatch
// matching filters this set by geofence.
func (r *PartnerRepository) Online(ctx context.Context) ([]domain.DeliveryPartner, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, is_online, is_active, latitude, longitude, rating
		FROM delivery_partners
		WHERE is_online = TRUE AND is_active = TRUE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []domain.DeliveryPartner
	for rows.Next() {
		var p domain.DeliveryPartner
		if err := rows.Scan(&p.ID, &p.Name, &p.IsOnline, &p.IsActive, &p.Latitude, &p.Longitude, &p.Rating); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (r *PartnerRepository) GetByID(ctx context.Context, id int) (*domain.DeliveryPartner, error) {
	var p domain.DeliveryPartner
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, is_online, is_active, latitude, longitude, rating
		FROM delivery_partners
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.IsOnline, &p.IsActive, &p.Latitude, &p.Longitude, &p.Rating)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
