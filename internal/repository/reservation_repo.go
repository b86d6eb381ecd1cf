package repository

import (
	"context"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
)

type CreateReservationParams struct {
	CreationID    string
	CustomerName  string
	CustomerEmail string
	Message       string
}

// UpdateReservationStatusParams describes a guarded status transition. The
// write must match FromStatus at the store, mirroring the atomic-claim
// discipline: a reservation that is no longer in FromStatus loses with
// ErrConflict instead of being silently overwritten.
type UpdateReservationStatusParams struct {
	ReservationID string
	FromStatus    entity.ReservationStatus
	ToStatus      entity.ReservationStatus
	CancelReason  string
	CancelledBy   entity.CancelActor
}

type ListReservationsParams struct {
	Status        string
	CustomerEmail string
	Search        string
	Page          int
	PageSize      int
}

type ListReservationsResult struct {
	Reservations []entity.Reservation
	TotalCount   int64
	CurrentPage  int
	PageSize     int
	TotalPages   int
}

type ReservationRepository interface {
	Create(ctx context.Context, params CreateReservationParams) (string, error)
	GetByID(ctx context.Context, reservationID string) (*entity.Reservation, error)
	UpdateStatus(ctx context.Context, params UpdateReservationStatusParams) error
	Delete(ctx context.Context, reservationID string) error

	// List returns reservations with their referenced creation populated;
	// the creation is nil for orphaned reservations.
	List(ctx context.Context, params ListReservationsParams) (*ListReservationsResult, error)
	CountByStatus(ctx context.Context, status entity.ReservationStatus) (int64, error)

	// FindPendingByCreation returns the active claim on a creation, or
	// ErrNotFound when none exists.
	FindPendingByCreation(ctx context.Context, creationID string) (*entity.Reservation, error)
}
