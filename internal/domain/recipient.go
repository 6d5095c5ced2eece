package domain

import "errors"

// Role identifies which of the three actors a recipient id refers to.
type Role string

const (
	RoleOwner           Role = "owner"
	RoleCustomer        Role = "customer"
	RoleDeliveryPartner Role = "delivery_partner"
)

var ErrUnknownRole = errors.New("unknown recipient role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleCustomer, RoleDeliveryPartner:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Recipient is a (role, id) pair. Device tokens and notifications carry the
// id in exactly one of three role columns; Recipient is the in-memory form.
type Recipient struct {
	Role Role
	ID   int
}

func OwnerRecipient(id int) Recipient    { return Recipient{Role: RoleOwner, ID: id} }
func CustomerRecipient(id int) Recipient { return Recipient{Role: RoleCustomer, ID: id} }
func PartnerRecipient(id int) Recipient  { return Recipient{Role: RoleDeliveryPartner, ID: id} }
