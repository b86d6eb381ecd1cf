package entity

import (
	"errors"
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationValidated ReservationStatus = "validated"
	ReservationCancelled ReservationStatus = "cancelled"
)

type CancelActor string

const (
	CancelledByAdmin CancelActor = "admin"
	CancelledByUser  CancelActor = "user"
)

type Reservation struct {
	ID            string            `json:"id"`
	CreationID    string            `json:"creation_id"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	Message       string            `json:"message,omitempty"`
	Status        ReservationStatus `json:"status"`
	CancelReason  string            `json:"cancel_reason,omitempty"`
	CancelledBy   CancelActor       `json:"cancelled_by,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`

	// Creation is populated on list/read paths only. It is nil when the
	// referenced creation has been deleted; that is missing data, not an error.
	Creation *Creation `json:"creation,omitempty"`
}

func NewReservation(creationID, customerName, customerEmail, message string) (*Reservation, error) {
	if creationID == "" {
		return nil, errors.New("reservation creation ID cannot be empty")
	}
	if customerName == "" {
		return nil, errors.New("reservation customer name cannot be empty")
	}
	if customerEmail == "" {
		return nil, errors.New("reservation customer email cannot be empty")
	}
	return &Reservation{
		CreationID:    creationID,
		CustomerName:  customerName,
		CustomerEmail: strings.ToLower(customerEmail),
		Message:       message,
		Status:        ReservationPending,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// IsPending reports whether the reservation is still the active claim on its creation.
func (r *Reservation) IsPending() bool {
	return r.Status == ReservationPending
}

func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationValidated || r.Status == ReservationCancelled
}

// IsOwnedBy matches the reservation against a caller identity by contact email.
func (r *Reservation) IsOwnedBy(email string) bool {
	return email != "" && strings.EqualFold(r.CustomerEmail, email)
}

func ValidReservationStatus(s string) bool {
	switch ReservationStatus(s) {
	case ReservationPending, ReservationValidated, ReservationCancelled:
		return true
	default:
		return false
	}
}
