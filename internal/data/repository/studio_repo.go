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

type StudioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Studio, error)
	FindAllActive(ctx context.Context, limit, offset int) ([]*entity.Studio, error)
	CountActive(ctx context.Context) (int64, error)

	// UpdateRating writes the recomputed aggregate pair in one statement.
	UpdateRating(ctx context.Context, studioID uuid.UUID, rating float64, reviewCount int) error
}

type studioRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStudioRepository(db database.PgxIface, log *zap.Logger) StudioRepository {
	return &studioRepository{
		db:  db,
		log: log.With(zap.String("repository", "studio")),
	}
}

func (r *studioRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Studio, error) {
	query := `
		SELECT id, owner_id, name, city, is_active, rating, review_count, created_at, updated_at
		FROM studios
		WHERE id = $1
	`

	var studio entity.Studio
	err := r.db.QueryRow(ctx, query, id).Scan(
		&studio.ID,
		&studio.OwnerID,
		&studio.Name,
		&studio.City,
		&studio.IsActive,
		&studio.Rating,
		&studio.ReviewCount,
		&studio.CreatedAt,
		&studio.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find studio by ID",
			zap.Error(err),
			zap.String("studio_id", id.String()),
		)
		return nil, fmt.Errorf("find studio by ID %s: %w", id.String(), err)
	}

	return &studio, nil
}

func (r *studioRepository) FindAllActive(ctx context.Context, limit, offset int) ([]*entity.Studio, error) {
	query := `
		SELECT id, owner_id, name, city, is_active, rating, review_count, created_at, updated_at
		FROM studios
		WHERE is_active
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find active studios",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find active studios: %w", err)
	}
	defer rows.Close()

	var studios []*entity.Studio
	for rows.Next() {
		var studio entity.Studio
		err := rows.Scan(
			&studio.ID,
			&studio.OwnerID,
			&studio.Name,
			&studio.City,
			&studio.IsActive,
			&studio.Rating,
			&studio.ReviewCount,
			&studio.CreatedAt,
			&studio.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan studio row", zap.Error(err))
			return nil, fmt.Errorf("scan studio row: %w", err)
		}
		studios = append(studios, &studio)
	}

	return studios, rows.Err()
}

func (r *studioRepository) CountActive(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM studios WHERE is_active`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count active studios", zap.Error(err))
		return 0, fmt.Errorf("count active studios: %w", err)
	}

	return count, nil
}

func (r *studioRepository) UpdateRating(ctx context.Context, studioID uuid.UUID, rating float64, reviewCount int) error {
	query := `
		UPDATE studios
		SET rating = $2, review_count = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, studioID, rating, reviewCount)
	if err != nil {
		r.log.Error("Failed to update studio rating",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
			zap.Float64("rating", rating),
			zap.Int("review_count", reviewCount),
		)
		return fmt.Errorf("update studio %s rating: %w", studioID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("studio %s not found", studioID.String())
	}

	return nil
}
