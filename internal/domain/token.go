package domain

import "time"

// DeviceToken is one push registration. Exactly one of the three owner
// columns is set (enforced both here and by a table CHECK); tokens are
// deactivated when the push provider reports them dead, never deleted.
type DeviceToken struct {
	ID                int       `json:"id"`
	Token             string    `json:"token"`
	OwnerID           *int      `json:"owner_id,omitempty"`
	CustomerID        *int      `json:"customer_id,omitempty"`
	DeliveryPartnerID *int      `json:"delivery_partner_id,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewDeviceToken builds a registration bound to a single recipient.
func NewDeviceToken(token string, owner Recipient) (*DeviceToken, error) {
	t := &DeviceToken{Token: token, IsActive: true}
	id := owner.ID
	switch owner.Role {
	case RoleOwner:
		t.OwnerID = &id
	case RoleCustomer:
		t.CustomerID = &id
	case RoleDeliveryPartner:
		t.DeliveryPartnerID = &id
	default:
		return nil, ErrUnknownRole
	}
	return t, nil
}
