package service

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrAssignmentConflict = errors.New("order already claimed by another delivery partner")
	ErrNotOrderOwner      = errors.New("caller does not own this order's restaurant")
	ErrNotAssignedPartner = errors.New("order is not assigned to this delivery partner")
	ErrPartnerUnavailable = errors.New("delivery partner is not online and active")
	ErrReasonRequired     = errors.New("a rejection reason is required")

	// ErrTransitionRejected is the errors.Is target for
	// TransitionRejectedError values.
	ErrTransitionRejected = errors.New("invalid status transition")
)

// TransitionRejectedError reports an attempted move the state machine
// does not allow, naming both sides so the caller can see why.
type TransitionRejectedError struct {
	OrderID   int
	Current   string
	Requested string
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("order %d: cannot transition from %s to %s", e.OrderID, e.Current, e.Requested)
}

func (e *TransitionRejectedError) Is(target error) bool {
	return target == ErrTransitionRejected
}
