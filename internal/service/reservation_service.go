package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelierlaine/reservation-service/internal/adapter/nats"
	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/platform/logger"
	"github.com/atelierlaine/reservation-service/internal/repository"
	"github.com/google/uuid"
)

const (
	natsSubjectReservationClaimed   = "reservation.claimed"
	natsSubjectReservationValidated = "reservation.validated"
	natsSubjectReservationCancelled = "reservation.cancelled"
	natsSubjectReservationDeleted   = "reservation.deleted"
)

type reservationEvent struct {
	EventID     string              `json:"event_id"`
	OccurredAt  time.Time           `json:"occurred_at"`
	Reservation *entity.Reservation `json:"reservation"`
}

type ClaimInput struct {
	CreationID string
	Message    string
}

type ListReservationsInput struct {
	Status     string
	OwnerEmail string
	Search     string
	Page       int
	PageSize   int
}

type ReservationService interface {
	Claim(ctx context.Context, caller entity.Principal, in ClaimInput) (*entity.Reservation, error)
	Validate(ctx context.Context, caller entity.Principal, reservationID string) (*entity.Reservation, error)
	Cancel(ctx context.Context, caller entity.Principal, reservationID, reason string) (*entity.Reservation, error)
	Delete(ctx context.Context, caller entity.Principal, reservationID string) error
	List(ctx context.Context, caller entity.Principal, in ListReservationsInput) (*repository.ListReservationsResult, error)
	CountByStatus(ctx context.Context, caller entity.Principal, status string) (int64, error)
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	creationRepo    repository.CreationRepository
	creationCache   repository.CreationCache
	notifier        Notifier
	msgPublisher    nats.MessagePublisher
	log             logger.Logger
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	creationRepo repository.CreationRepository,
	creationCache repository.CreationCache,
	notifier Notifier,
	msgPublisher nats.MessagePublisher,
	log logger.Logger,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		creationRepo:    creationRepo,
		creationCache:   creationCache,
		notifier:        notifier,
		msgPublisher:    msgPublisher,
		log:             log,
	}
}

// Claim is the only entry point into the reservation lifecycle. The
// availability check and the reserved-flag flip happen in one conditional
// store update, so of two racing claims exactly one wins and the loser gets
// ErrAlreadyReserved. No email is sent on claim: the storefront UI confirms
// the reservation inline.
func (s *reservationService) Claim(ctx context.Context, caller entity.Principal, in ClaimInput) (*entity.Reservation, error) {
	if !caller.IsAuthenticated() {
		s.log.Warnf("Anonymous claim attempt on creation %s", in.CreationID)
		return nil, ErrForbidden
	}
	s.log.Infof("User %s claiming creation %s", caller.UserID, in.CreationID)

	reservation, err := entity.NewReservation(in.CreationID, caller.Name, caller.Email, in.Message)
	if err != nil {
		return nil, fmt.Errorf("invalid claim: %w", err)
	}

	err = s.creationRepo.Claim(ctx, in.CreationID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.log.Infof("Claim on creation %s lost: already reserved or sold", in.CreationID)
			return nil, ErrAlreadyReserved
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.log.Errorf("Failed to claim creation %s: %v", in.CreationID, err)
		return nil, fmt.Errorf("failed to claim creation: %w", err)
	}

	reservationID, err := s.reservationRepo.Create(ctx, repository.CreateReservationParams{
		CreationID:    reservation.CreationID,
		CustomerName:  reservation.CustomerName,
		CustomerEmail: reservation.CustomerEmail,
		Message:       reservation.Message,
	})
	if err != nil {
		// The claim flag is already set; releasing keeps the creation from
		// being stuck reserved with no reservation record behind it.
		s.log.Errorf("Failed to record reservation for creation %s, releasing claim: %v", in.CreationID, err)
		if errRelease := s.creationRepo.Release(ctx, in.CreationID); errRelease != nil {
			s.log.Errorf("Failed to release creation %s after reservation write failure: %v", in.CreationID, errRelease)
		}
		return nil, fmt.Errorf("failed to record reservation: %w", err)
	}
	reservation.ID = reservationID

	s.invalidateCreationCache(ctx, in.CreationID)
	s.publishEvent(ctx, natsSubjectReservationClaimed, reservation)

	s.log.Infof("Creation %s reserved by %s (reservation %s)", in.CreationID, reservation.CustomerEmail, reservationID)
	return reservation, nil
}

// Validate confirms the sale. Re-validating a terminal reservation is
// rejected both before and at the store write, so the buyer and seller are
// notified exactly once.
func (s *reservationService) Validate(ctx context.Context, caller entity.Principal, reservationID string) (*entity.Reservation, error) {
	if !caller.IsAdmin() {
		s.log.Warnf("User %s attempted to validate reservation %s without admin role", caller.UserID, reservationID)
		return nil, ErrForbidden
	}
	s.log.Infof("Admin %s validating reservation %s", caller.UserID, reservationID)

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if err := rejectTerminal(reservation); err != nil {
		s.log.Warnf("Validate rejected for reservation %s: status is %s", reservationID, reservation.Status)
		return nil, err
	}

	err = s.reservationRepo.UpdateStatus(ctx, repository.UpdateReservationStatusParams{
		ReservationID: reservationID,
		FromStatus:    entity.ReservationPending,
		ToStatus:      entity.ReservationValidated,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.log.Warnf("Validate lost a race on reservation %s: no longer pending", reservationID)
			return nil, fmt.Errorf("reservation %s is no longer pending: %w", reservationID, repository.ErrConflict)
		}
		return nil, err
	}
	reservation.Status = entity.ReservationValidated

	if err := s.creationRepo.MarkSold(ctx, reservation.CreationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Creation %s referenced by validated reservation %s no longer exists", reservation.CreationID, reservationID)
		} else {
			s.log.Errorf("Failed to mark creation %s sold after validating reservation %s: %v", reservation.CreationID, reservationID, err)
		}
	}

	creation := s.lookupCreation(ctx, reservation.CreationID)

	s.invalidateCreationCache(ctx, reservation.CreationID)
	s.publishEvent(ctx, natsSubjectReservationValidated, reservation)
	s.notifier.ReservationValidated(ctx, reservation, creation)

	s.log.Infof("Reservation %s validated by admin %s", reservationID, caller.UserID)
	return reservation, nil
}

// Cancel releases a pending claim. Admins may cancel any pending
// reservation; a buyer may cancel only their own, and never after the sale
// has been validated.
func (s *reservationService) Cancel(ctx context.Context, caller entity.Principal, reservationID, reason string) (*entity.Reservation, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrForbidden
	}

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	var actor entity.CancelActor
	switch {
	case caller.IsAdmin():
		actor = entity.CancelledByAdmin
	case reservation.IsOwnedBy(caller.Email):
		actor = entity.CancelledByUser
	default:
		s.log.Warnf("User %s attempted to cancel reservation %s owned by %s", caller.UserID, reservationID, reservation.CustomerEmail)
		return nil, ErrForbidden
	}

	if err := rejectTerminal(reservation); err != nil {
		s.log.Warnf("Cancel rejected for reservation %s: status is %s", reservationID, reservation.Status)
		return nil, err
	}

	err = s.reservationRepo.UpdateStatus(ctx, repository.UpdateReservationStatusParams{
		ReservationID: reservationID,
		FromStatus:    entity.ReservationPending,
		ToStatus:      entity.ReservationCancelled,
		CancelReason:  reason,
		CancelledBy:   actor,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.log.Warnf("Cancel lost a race on reservation %s: no longer pending", reservationID)
			return nil, fmt.Errorf("reservation %s is no longer pending: %w", reservationID, repository.ErrConflict)
		}
		return nil, err
	}
	reservation.Status = entity.ReservationCancelled
	reservation.CancelReason = reason
	reservation.CancelledBy = actor

	if err := s.creationRepo.Release(ctx, reservation.CreationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Creation %s referenced by cancelled reservation %s no longer exists", reservation.CreationID, reservationID)
		} else {
			s.log.Errorf("Failed to release creation %s after cancelling reservation %s: %v", reservation.CreationID, reservationID, err)
		}
	}

	creation := s.lookupCreation(ctx, reservation.CreationID)

	s.invalidateCreationCache(ctx, reservation.CreationID)
	s.publishEvent(ctx, natsSubjectReservationCancelled, reservation)
	s.notifier.ReservationCancelled(ctx, reservation, creation)

	s.log.Infof("Reservation %s cancelled by %s (actor: %s)", reservationID, caller.UserID, actor)
	return reservation, nil
}

// Delete is a hard administrative correction: it removes the record without
// notifications, releasing the creation only when the reservation was its
// active claim.
func (s *reservationService) Delete(ctx context.Context, caller entity.Principal, reservationID string) error {
	if !caller.IsAdmin() {
		s.log.Warnf("User %s attempted to delete reservation %s without admin role", caller.UserID, reservationID)
		return ErrForbidden
	}

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	if reservation.IsPending() {
		if err := s.creationRepo.Release(ctx, reservation.CreationID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.log.Warnf("Creation %s referenced by deleted reservation %s no longer exists", reservation.CreationID, reservationID)
			} else {
				s.log.Errorf("Failed to release creation %s while deleting reservation %s: %v", reservation.CreationID, reservationID, err)
			}
		}
	}

	if err := s.reservationRepo.Delete(ctx, reservationID); err != nil {
		return err
	}

	s.invalidateCreationCache(ctx, reservation.CreationID)
	s.publishEvent(ctx, natsSubjectReservationDeleted, reservation)

	s.log.Infof("Reservation %s deleted by admin %s", reservationID, caller.UserID)
	return nil
}

func (s *reservationService) List(ctx context.Context, caller entity.Principal, in ListReservationsInput) (*repository.ListReservationsResult, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrForbidden
	}
	if in.Status != "" && !entity.ValidReservationStatus(in.Status) {
		return nil, fmt.Errorf("invalid reservation status %q", in.Status)
	}

	params := repository.ListReservationsParams{
		Status:        in.Status,
		CustomerEmail: in.OwnerEmail,
		Search:        in.Search,
		Page:          in.Page,
		PageSize:      in.PageSize,
	}
	// Buyers only ever see their own reservations.
	if !caller.IsAdmin() {
		params.CustomerEmail = caller.Email
		params.Search = ""
	}

	result, err := s.reservationRepo.List(ctx, params)
	if err != nil {
		s.log.Errorf("Failed to list reservations: %v", err)
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return result, nil
}

func (s *reservationService) CountByStatus(ctx context.Context, caller entity.Principal, status string) (int64, error) {
	if !caller.IsAdmin() {
		return 0, ErrForbidden
	}
	if !entity.ValidReservationStatus(status) {
		return 0, fmt.Errorf("invalid reservation status %q", status)
	}
	return s.reservationRepo.CountByStatus(ctx, entity.ReservationStatus(status))
}

// rejectTerminal maps a terminal reservation status to its explicit conflict.
func rejectTerminal(reservation *entity.Reservation) error {
	switch reservation.Status {
	case entity.ReservationValidated:
		return ErrAlreadyValidated
	case entity.ReservationCancelled:
		return ErrAlreadyCancelled
	default:
		return nil
	}
}

// lookupCreation fetches the referenced creation for flag updates and
// notification content. A missing creation is an orphaned reservation and is
// returned as nil, not an error.
func (s *reservationService) lookupCreation(ctx context.Context, creationID string) *entity.Creation {
	creation, err := s.creationRepo.GetByID(ctx, creationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Creation %s not found; treating reservation as orphaned", creationID)
		} else {
			s.log.Errorf("Failed to load creation %s: %v", creationID, err)
		}
		return nil
	}
	return creation
}

func (s *reservationService) invalidateCreationCache(ctx context.Context, creationID string) {
	if err := s.creationCache.Delete(ctx, creationID); err != nil {
		s.log.Warnf("Failed to invalidate cached creation %s: %v", creationID, err)
	}
}

func (s *reservationService) publishEvent(ctx context.Context, subject string, reservation *entity.Reservation) {
	event := reservationEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Reservation: reservation,
	}
	if err := s.msgPublisher.Publish(ctx, subject, event); err != nil {
		s.log.Warnf("Failed to publish %s event for reservation %s: %v", subject, reservation.ID, err)
	}
}
