package repository

import (
	"context"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
)

type CreateCreationParams struct {
	Title       string
	Description string
	Images      []string
	Price       *float64
	Color       string
	Rank        int
}

// UpdateCreationParams is the closed set of admin-editable fields. Availability
// flags are deliberately absent: only the state-machine operations touch them.
type UpdateCreationParams struct {
	CreationID  string
	Title       string
	Description string
	Images      []string
	Price       *float64
	Color       string
	Rank        int
}

type ListCreationsParams struct {
	OnlyAvailable bool
	Page          int
	PageSize      int
}

type ListCreationsResult struct {
	Creations   []entity.Creation
	TotalCount  int64
	CurrentPage int
	PageSize    int
	TotalPages  int
}

type CreationRepository interface {
	Create(ctx context.Context, params CreateCreationParams) (string, error)
	GetByID(ctx context.Context, creationID string) (*entity.Creation, error)
	Update(ctx context.Context, params UpdateCreationParams) error
	Delete(ctx context.Context, creationID string) error
	List(ctx context.Context, params ListCreationsParams) (*ListCreationsResult, error)

	// Claim atomically flips reserved=true iff the creation is currently
	// neither reserved nor sold. Returns ErrConflict when the claim loses
	// the race, ErrNotFound when the id does not resolve.
	Claim(ctx context.Context, creationID string) error

	// MarkSold sets sold=true, reserved=false iff the creation is not
	// already sold.
	MarkSold(ctx context.Context, creationID string) error

	// Release returns the creation to availability (reserved=false and,
	// defensively, sold=false).
	Release(ctx context.Context, creationID string) error
}
