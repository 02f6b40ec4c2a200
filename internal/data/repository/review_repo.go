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

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByStudioID(ctx context.Context, studioID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	FindByAuthorAndStudio(ctx context.Context, authorID, studioID uuid.UUID) (*entity.Review, error)
	CountByStudioID(ctx context.Context, studioID uuid.UUID) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListRatingsByStudio feeds the full rating recompute.
	ListRatingsByStudio(ctx context.Context, studioID uuid.UUID) ([]int, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, studio_id, author_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.StudioID,
		review.AuthorID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("author_id", review.AuthorID.String()),
			zap.String("studio_id", review.StudioID.String()),
		)
		return fmt.Errorf("create review for studio %s by author %s: %w",
			review.StudioID.String(), review.AuthorID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, studio_id, author_id, rating, comment, created_at
		FROM reviews
		WHERE id = $1
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.StudioID,
		&review.AuthorID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) FindByStudioID(ctx context.Context, studioID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT id, studio_id, author_id, rating, comment, created_at
		FROM reviews
		WHERE studio_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, studioID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by studio ID",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by studio ID %s: %w", studioID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		var review entity.Review
		err := rows.Scan(
			&review.ID,
			&review.StudioID,
			&review.AuthorID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}

func (r *reviewRepository) FindByAuthorAndStudio(ctx context.Context, authorID, studioID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, studio_id, author_id, rating, comment, created_at
		FROM reviews
		WHERE author_id = $1 AND studio_id = $2
	`

	var review entity.Review
	err := r.db.QueryRow(ctx, query, authorID, studioID).Scan(
		&review.ID,
		&review.StudioID,
		&review.AuthorID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by author and studio",
			zap.Error(err),
			zap.String("author_id", authorID.String()),
			zap.String("studio_id", studioID.String()),
		)
		return nil, fmt.Errorf("find review by author %s and studio %s: %w",
			authorID.String(), studioID.String(), err)
	}

	return &review, nil
}

func (r *reviewRepository) CountByStudioID(ctx context.Context, studioID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE studio_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, studioID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by studio ID",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
		)
		return 0, fmt.Errorf("count reviews by studio ID %s: %w", studioID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, comment = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, review.ID, review.Rating, review.Comment)
	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID.String())
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	return nil
}

func (r *reviewRepository) ListRatingsByStudio(ctx context.Context, studioID uuid.UUID) ([]int, error) {
	query := `SELECT rating FROM reviews WHERE studio_id = $1`

	rows, err := r.db.Query(ctx, query, studioID)
	if err != nil {
		r.log.Error("Failed to list ratings by studio ID",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
		)
		return nil, fmt.Errorf("list ratings by studio ID %s: %w", studioID.String(), err)
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			r.log.Error("Failed to scan rating row", zap.Error(err))
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}
