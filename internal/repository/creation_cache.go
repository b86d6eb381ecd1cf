package repository

import (
	"context"
	"time"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
)

type CreationCache interface {
	Get(ctx context.Context, creationID string) (*entity.Creation, error)
	Set(ctx context.Context, creation *entity.Creation, ttl time.Duration) error
	Delete(ctx context.Context, creationID string) error
}
