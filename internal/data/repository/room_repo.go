package repository

import (
	"context"
	"fmt"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindByStudioID(ctx context.Context, studioID uuid.UUID) ([]*entity.Room, error)

	// FindActiveWithStudio returns the room only when both the room and its
	// studio are active; used for the hourly rate snapshot at request time.
	FindActiveWithStudio(ctx context.Context, roomID, studioID uuid.UUID) (*entity.Room, error)
}

type roomRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomRepository(db database.PgxIface, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `
		SELECT id, studio_id, name, hourly_rate, capacity, is_active, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	var room entity.Room
	err := r.db.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.StudioID,
		&room.Name,
		&room.HourlyRate,
		&room.Capacity,
		&room.IsActive,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room by ID",
			zap.Error(err),
			zap.String("room_id", id.String()),
		)
		return nil, fmt.Errorf("find room by ID %s: %w", id.String(), err)
	}

	return &room, nil
}

func (r *roomRepository) FindActiveWithStudio(ctx context.Context, roomID, studioID uuid.UUID) (*entity.Room, error) {
	query := `
		SELECT r.id, r.studio_id, r.name, r.hourly_rate, r.capacity, r.is_active, r.created_at, r.updated_at
		FROM rooms r
		JOIN studios s ON r.studio_id = s.id
		WHERE r.id = $1 AND r.studio_id = $2 AND r.is_active AND s.is_active
	`

	var room entity.Room
	err := r.db.QueryRow(ctx, query, roomID, studioID).Scan(
		&room.ID,
		&room.StudioID,
		&room.Name,
		&room.HourlyRate,
		&room.Capacity,
		&room.IsActive,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active room",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.String("studio_id", studioID.String()),
		)
		return nil, fmt.Errorf("find active room %s: %w", roomID.String(), err)
	}

	return &room, nil
}

func (r *roomRepository) FindByStudioID(ctx context.Context, studioID uuid.UUID) ([]*entity.Room, error) {
	query := `
		SELECT id, studio_id, name, hourly_rate, capacity, is_active, created_at, updated_at
		FROM rooms
		WHERE studio_id = $1 AND is_active
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, studioID)
	if err != nil {
		r.log.Error("Failed to find rooms by studio ID",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
		)
		return nil, fmt.Errorf("find rooms by studio ID %s: %w", studioID.String(), err)
	}
	defer rows.Close()

	var rooms []*entity.Room
	for rows.Next() {
		var room entity.Room
		err := rows.Scan(
			&room.ID,
			&room.StudioID,
			&room.Name,
			&room.HourlyRate,
			&room.Capacity,
			&room.IsActive,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan room row", zap.Error(err))
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}
