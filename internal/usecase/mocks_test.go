package usecase

import (
	"context"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// ==================== MOCK REPOSITORIES ====================

type MockStudioRepository struct {
	mock.Mock
}

func (m *MockStudioRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Studio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Studio), args.Error(1)
}

func (m *MockStudioRepository) FindAllActive(ctx context.Context, limit, offset int) ([]*entity.Studio, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Studio), args.Error(1)
}

func (m *MockStudioRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudioRepository) UpdateRating(ctx context.Context, studioID uuid.UUID, rating float64, reviewCount int) error {
	args := m.Called(ctx, studioID, rating, reviewCount)
	return args.Error(0)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByStudioID(ctx context.Context, studioID uuid.UUID) ([]*entity.Room, error) {
	args := m.Called(ctx, studioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Room), args.Error(1)
}

func (m *MockRoomRepository) FindActiveWithStudio(ctx context.Context, roomID, studioID uuid.UUID) (*entity.Room, error) {
	args := m.Called(ctx, roomID, studioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Room), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindByRequesterID(ctx context.Context, requesterID uuid.UUID, status string, limit, offset int) ([]*entity.Reservation, error) {
	args := m.Called(ctx, requesterID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CountByRequesterID(ctx context.Context, requesterID uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, requesterID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) FindByStudioID(ctx context.Context, studioID uuid.UUID, status string, limit, offset int) ([]*entity.Reservation, error) {
	args := m.Called(ctx, studioID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CountByStudioID(ctx context.Context, studioID uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, studioID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, reservation *entity.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) HasConflict(ctx context.Context, roomID uuid.UUID, date, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, roomID, date, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindActiveByRoomDateForUpdate(ctx context.Context, roomID uuid.UUID, date time.Time) ([]*entity.Reservation, error) {
	args := m.Called(ctx, roomID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindElapsedConfirmed(ctx context.Context, now time.Time) ([]*entity.Reservation, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Reservation), args.Error(1)
}

// InTx runs fn against the mock itself so expectations cover the
// transactional path too.
func (m *MockReservationRepository) InTx(ctx context.Context, fn func(repository.ReservationRepository) error) error {
	return fn(m)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByStudioID(ctx context.Context, studioID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	args := m.Called(ctx, studioID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByAuthorAndStudio(ctx context.Context, authorID, studioID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, authorID, studioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) CountByStudioID(ctx context.Context, studioID uuid.UUID) (int64, error) {
	args := m.Called(ctx, studioID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) ListRatingsByStudio(ctx context.Context, studioID uuid.UUID) ([]int, error) {
	args := m.Called(ctx, studioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// ==================== FIXTURES ====================

func testConfig() *utils.Config {
	return &utils.Config{
		Booking:  utils.BookingConfig{FeeRate: 0.03, SweepInterval: 15 * time.Minute},
		Database: utils.DatabaseConfig{Timeout: 5 * time.Second},
	}
}

func testRepository(studio *MockStudioRepository, room *MockRoomRepository, reservation *MockReservationRepository, review *MockReviewRepository) *repository.Repository {
	return &repository.Repository{
		Studio:      studio,
		Room:        room,
		Reservation: reservation,
		Review:      review,
	}
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
