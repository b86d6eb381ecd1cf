package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/platform/logger"
	"github.com/atelierlaine/reservation-service/internal/repository"
)

type CreationInput struct {
	Title       string
	Description string
	Images      []string
	Price       *float64
	Color       string
	Rank        int
}

type ListCreationsInput struct {
	OnlyAvailable bool
	Page          int
	PageSize      int
}

type CatalogService interface {
	CreateCreation(ctx context.Context, caller entity.Principal, in CreationInput) (*entity.Creation, error)
	UpdateCreation(ctx context.Context, caller entity.Principal, creationID string, in CreationInput) (*entity.Creation, error)
	DeleteCreation(ctx context.Context, caller entity.Principal, creationID string) error
	GetCreation(ctx context.Context, creationID string) (*entity.Creation, error)
	ListCreations(ctx context.Context, in ListCreationsInput) (*repository.ListCreationsResult, error)
}

type catalogService struct {
	creationRepo    repository.CreationRepository
	reservationRepo repository.ReservationRepository
	creationCache   repository.CreationCache
	cacheTTL        time.Duration
	log             logger.Logger
}

func NewCatalogService(
	creationRepo repository.CreationRepository,
	reservationRepo repository.ReservationRepository,
	creationCache repository.CreationCache,
	cacheTTL time.Duration,
	log logger.Logger,
) CatalogService {
	return &catalogService{
		creationRepo:    creationRepo,
		reservationRepo: reservationRepo,
		creationCache:   creationCache,
		cacheTTL:        cacheTTL,
		log:             log,
	}
}

func (s *catalogService) CreateCreation(ctx context.Context, caller entity.Principal, in CreationInput) (*entity.Creation, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	creation, err := entity.NewCreation(in.Title, in.Description, in.Color, in.Price, in.Rank, in.Images)
	if err != nil {
		return nil, fmt.Errorf("invalid creation: %w", err)
	}

	creationID, err := s.creationRepo.Create(ctx, repository.CreateCreationParams{
		Title:       creation.Title,
		Description: creation.Description,
		Images:      creation.Images,
		Price:       creation.Price,
		Color:       creation.Color,
		Rank:        creation.Rank,
	})
	if err != nil {
		s.log.Errorf("Failed to create creation %q: %v", in.Title, err)
		return nil, fmt.Errorf("failed to create creation: %w", err)
	}
	creation.ID = creationID

	s.log.Infof("Creation %s (%q) created by admin %s", creationID, creation.Title, caller.UserID)
	return creation, nil
}

func (s *catalogService) UpdateCreation(ctx context.Context, caller entity.Principal, creationID string, in CreationInput) (*entity.Creation, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	// Validation reuses the constructor so create and update share one rule set.
	if _, err := entity.NewCreation(in.Title, in.Description, in.Color, in.Price, in.Rank, in.Images); err != nil {
		return nil, fmt.Errorf("invalid creation: %w", err)
	}

	err := s.creationRepo.Update(ctx, repository.UpdateCreationParams{
		CreationID:  creationID,
		Title:       in.Title,
		Description: in.Description,
		Images:      in.Images,
		Price:       in.Price,
		Color:       in.Color,
		Rank:        in.Rank,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, creationID)

	creation, err := s.creationRepo.GetByID(ctx, creationID)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Creation %s updated by admin %s", creationID, caller.UserID)
	return creation, nil
}

// DeleteCreation refuses to remove a creation that still carries a pending
// claim. The admin must first cancel or validate the reservation, which keeps
// reservation records from silently becoming orphans.
func (s *catalogService) DeleteCreation(ctx context.Context, caller entity.Principal, creationID string) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	_, err := s.reservationRepo.FindPendingByCreation(ctx, creationID)
	if err == nil {
		s.log.Warnf("Refusing to delete creation %s: a pending reservation exists", creationID)
		return ErrActiveReservation
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Errorf("Failed to check pending reservations for creation %s: %v", creationID, err)
		return fmt.Errorf("failed to check pending reservations: %w", err)
	}

	if err := s.creationRepo.Delete(ctx, creationID); err != nil {
		return err
	}

	s.invalidateCache(ctx, creationID)
	s.log.Infof("Creation %s deleted by admin %s", creationID, caller.UserID)
	return nil
}

func (s *catalogService) GetCreation(ctx context.Context, creationID string) (*entity.Creation, error) {
	cached, err := s.creationCache.Get(ctx, creationID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warnf("Cache lookup for creation %s failed, falling back to store: %v", creationID, err)
	}

	creation, err := s.creationRepo.GetByID(ctx, creationID)
	if err != nil {
		return nil, err
	}

	if errCache := s.creationCache.Set(ctx, creation, s.cacheTTL); errCache != nil {
		s.log.Warnf("Failed to cache creation %s: %v", creationID, errCache)
	}
	return creation, nil
}

func (s *catalogService) ListCreations(ctx context.Context, in ListCreationsInput) (*repository.ListCreationsResult, error) {
	result, err := s.creationRepo.List(ctx, repository.ListCreationsParams{
		OnlyAvailable: in.OnlyAvailable,
		Page:          in.Page,
		PageSize:      in.PageSize,
	})
	if err != nil {
		s.log.Errorf("Failed to list creations: %v", err)
		return nil, fmt.Errorf("failed to list creations: %w", err)
	}
	return result, nil
}

func (s *catalogService) invalidateCache(ctx context.Context, creationID string) {
	if err := s.creationCache.Delete(ctx, creationID); err != nil {
		s.log.Warnf("Failed to invalidate cached creation %s: %v", creationID, err)
	}
}
