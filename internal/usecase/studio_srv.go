package usecase

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StudioService is the read side of the catalog: studios and their rooms.
type StudioService interface {
	GetStudio(ctx context.Context, studioID string) (*response.StudioResponse, error)
	ListStudios(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.StudioResponse], error)
	GetRoom(ctx context.Context, roomID string) (*response.RoomResponse, error)
	ListRooms(ctx context.Context, studioID string) ([]response.RoomResponse, error)
}

type studioService struct {
	repo      *repository.Repository
	dbTimeout time.Duration
	log       *zap.Logger
}

func NewStudioService(repo *repository.Repository, config *utils.Config, log *zap.Logger) StudioService {
	return &studioService{
		repo:      repo,
		dbTimeout: config.Database.Timeout,
		log:       log.With(zap.String("service", "studio")),
	}
}

func (s *studioService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.dbTimeout)
}

func (s *studioService) GetStudio(ctx context.Context, studioID string) (*response.StudioResponse, error) {
	id, err := uuid.Parse(studioID)
	if err != nil {
		return nil, fmt.Errorf("studio %s: %w", studioID, ErrNotFound)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	studio, err := s.repo.Studio.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if studio == nil || !studio.IsActive {
		return nil, fmt.Errorf("studio %s: %w", studioID, ErrNotFound)
	}

	resp := response.StudioToResponse(studio)
	return &resp, nil
}

func (s *studioService) ListStudios(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.StudioResponse], error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	studios, err := s.repo.Studio.FindAllActive(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageError(err)
	}
	total, err := s.repo.Studio.CountActive(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	items := make([]response.StudioResponse, 0, len(studios))
	for _, studio := range studios {
		items = append(items, response.StudioToResponse(studio))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

func (s *studioService) GetRoom(ctx context.Context, roomID string) (*response.RoomResponse, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if room == nil || !room.IsActive {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	// Rooms of a deactivated studio disappear with it.
	studio, err := s.repo.Studio.FindByID(ctx, room.StudioID)
	if err != nil {
		return nil, storageError(err)
	}
	if studio == nil || !studio.IsActive {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *studioService) ListRooms(ctx context.Context, studioID string) ([]response.RoomResponse, error) {
	id, err := uuid.Parse(studioID)
	if err != nil {
		return nil, fmt.Errorf("studio %s: %w", studioID, ErrNotFound)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	studio, err := s.repo.Studio.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if studio == nil || !studio.IsActive {
		return nil, fmt.Errorf("studio %s: %w", studioID, ErrNotFound)
	}

	rooms, err := s.repo.Room.FindByStudioID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	items := make([]response.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, response.RoomToResponse(room))
	}
	return items, nil
}
