package service

import "errors"

var (
	// ErrForbidden is returned when the caller lacks the role or ownership
	// relationship a transition requires.
	ErrForbidden = errors.New("caller is not allowed to perform this action")

	// ErrAlreadyReserved is the buyer-facing claim conflict: the creation was
	// reserved or sold by the time the claim reached the store.
	ErrAlreadyReserved = errors.New("creation is already reserved or sold")

	// ErrAlreadyValidated rejects transitions on a reservation whose sale has
	// been confirmed. A buyer cannot unilaterally undo a confirmed sale.
	ErrAlreadyValidated = errors.New("reservation is already validated")

	ErrAlreadyCancelled = errors.New("reservation is already cancelled")

	// ErrActiveReservation blocks deleting a creation that still carries a
	// pending claim.
	ErrActiveReservation = errors.New("creation has an active reservation")
)
