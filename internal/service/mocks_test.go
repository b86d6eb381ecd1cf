package service

import (
	"context"
	"time"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/platform/logger"
	"github.com/atelierlaine/reservation-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockCreationRepository struct {
	mock.Mock
}

func (m *MockCreationRepository) Create(ctx context.Context, params repository.CreateCreationParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *MockCreationRepository) GetByID(ctx context.Context, creationID string) (*entity.Creation, error) {
	args := m.Called(ctx, creationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creation), args.Error(1)
}

func (m *MockCreationRepository) Update(ctx context.Context, params repository.UpdateCreationParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCreationRepository) Delete(ctx context.Context, creationID string) error {
	args := m.Called(ctx, creationID)
	return args.Error(0)
}

func (m *MockCreationRepository) List(ctx context.Context, params repository.ListCreationsParams) (*repository.ListCreationsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListCreationsResult), args.Error(1)
}

func (m *MockCreationRepository) Claim(ctx context.Context, creationID string) error {
	args := m.Called(ctx, creationID)
	return args.Error(0)
}

func (m *MockCreationRepository) MarkSold(ctx context.Context, creationID string) error {
	args := m.Called(ctx, creationID)
	return args.Error(0)
}

func (m *MockCreationRepository) Release(ctx context.Context, creationID string) error {
	args := m.Called(ctx, creationID)
	return args.Error(0)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, params repository.CreateReservationParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, reservationID string) (*entity.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, params repository.UpdateReservationStatusParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockReservationRepository) Delete(ctx context.Context, reservationID string) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockReservationRepository) List(ctx context.Context, params repository.ListReservationsParams) (*repository.ListReservationsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListReservationsResult), args.Error(1)
}

func (m *MockReservationRepository) CountByStatus(ctx context.Context, status entity.ReservationStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) FindPendingByCreation(ctx context.Context, creationID string) (*entity.Reservation, error) {
	args := m.Called(ctx, creationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reservation), args.Error(1)
}

type MockCreationCache struct {
	mock.Mock
}

func (m *MockCreationCache) Get(ctx context.Context, creationID string) (*entity.Creation, error) {
	args := m.Called(ctx, creationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Creation), args.Error(1)
}

func (m *MockCreationCache) Set(ctx context.Context, creation *entity.Creation, ttl time.Duration) error {
	args := m.Called(ctx, creation, ttl)
	return args.Error(0)
}

func (m *MockCreationCache) Delete(ctx context.Context, creationID string) error {
	args := m.Called(ctx, creationID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ReservationValidated(ctx context.Context, reservation *entity.Reservation, creation *entity.Creation) {
	m.Called(ctx, reservation, creation)
}

func (m *MockNotifier) ReservationCancelled(ctx context.Context, reservation *entity.Reservation, creation *entity.Creation) {
	m.Called(ctx, reservation, creation)
}

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func (m *MockMessagePublisher) PublishRaw(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	args := m.Called(ctx, to, subject, bodyHTML, bodyText)
	return args.Error(0)
}

type NoOpLogger struct{}

func (l *NoOpLogger) Init()                                       {}
func (l *NoOpLogger) Debug(args ...interface{})                   {}
func (l *NoOpLogger) Debugf(template string, args ...interface{}) {}
func (l *NoOpLogger) Info(args ...interface{})                    {}
func (l *NoOpLogger) Infof(template string, args ...interface{})  {}
func (l *NoOpLogger) Warn(args ...interface{})                    {}
func (l *NoOpLogger) Warnf(template string, args ...interface{})  {}
func (l *NoOpLogger) Error(args ...interface{})                   {}
func (l *NoOpLogger) Errorf(template string, args ...interface{}) {}
func (l *NoOpLogger) Fatal(args ...interface{})                   {}
func (l *NoOpLogger) Fatalf(template string, args ...interface{}) {}
func (l *NoOpLogger) With(args ...interface{}) logger.Logger      { return l }

func NewNoOpLogger() logger.Logger {
	return &NoOpLogger{}
}
