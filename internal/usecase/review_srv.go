package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService manages reviews and keeps the studio rating aggregate in
// step with them. Every review write triggers a full recompute from the
// stored reviews, never an incremental adjustment.
type ReviewService interface {
	CreateReview(ctx context.Context, authorID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, reviewID string, authorID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID string, authorID uuid.UUID) error
	GetStudioReviews(ctx context.Context, studioID string, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetStudioRating(ctx context.Context, studioID string) (*response.StudioRatingResponse, error)

	// RecomputeRating rebuilds the aggregate for one studio. Exposed for
	// external triggers; review writes call it themselves.
	RecomputeRating(ctx context.Context, studioID string) (*response.StudioRatingResponse, error)
}

type reviewService struct {
	repo      *repository.Repository
	dbTimeout time.Duration
	log       *zap.Logger
}

func NewReviewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:      repo,
		dbTimeout: config.Database.Timeout,
		log:       log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.dbTimeout)
}

func (s *reviewService) CreateReview(ctx context.Context, authorID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	studioID, err := uuid.Parse(req.StudioID)
	if err != nil {
		return nil, fmt.Errorf("studio %s: %w", req.StudioID, ErrNotFound)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	studio, err := s.repo.Studio.FindByID(ctx, studioID)
	if err != nil {
		return nil, storageError(err)
	}
	if studio == nil || !studio.IsActive {
		return nil, fmt.Errorf("studio %s: %w", req.StudioID, ErrNotFound)
	}

	existing, err := s.repo.Review.FindByAuthorAndStudio(ctx, authorID, studioID)
	if err != nil {
		return nil, storageError(err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: author already reviewed studio %s", ErrConflict, req.StudioID)
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		StudioID: studioID,
		AuthorID: authorID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, storageError(err)
	}

	if _, err := s.recompute(ctx, studioID); err != nil {
		return nil, err
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("studio_id", studioID.String()),
		zap.Int("rating", review.Rating),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID string, authorID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if review == nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
	}
	if review.AuthorID != authorID {
		return nil, fmt.Errorf("%w: actor did not write review %s", ErrForbidden, reviewID)
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = req.Comment
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, storageError(err)
	}

	if _, err := s.recompute(ctx, review.StudioID); err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string, authorID uuid.UUID) error {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return storageError(err)
	}
	if review == nil {
		return fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
	}
	if review.AuthorID != authorID {
		return fmt.Errorf("%w: actor did not write review %s", ErrForbidden, reviewID)
	}

	if err := s.repo.Review.Delete(ctx, id); err != nil {
		return storageError(err)
	}

	_, err = s.recompute(ctx, review.StudioID)
	return err
}

func (s *reviewService) GetStudioReviews(ctx context.Context, studioID string, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := uuid.Parse(studioID)
	if err != nil {
		return nil, fmt.Errorf("studio %s: %w", studioID, ErrNotFound)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	reviews, err := s.repo.Review.FindByStudioID(ctx, id, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageError(err)
	}
	total, err := s.repo.Review.CountByStudioID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}

	items := make([]response.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, response.ReviewToResponse(review))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

func (s *reviewService) GetStudioRating(ctx context.Context, studioID string) (*response.StudioRatingResponse, error) {
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
	if studio == nil {
		return nil, fmt.Errorf("studio %s: %w", studioID, ErrNotFound)
	}

	return &response.StudioRatingResponse{
		Rating:      studio.Rating,
		ReviewCount: studio.ReviewCount,
	}, nil
}

func (s *reviewService) RecomputeRating(ctx context.Context, studioID string) (*response.StudioRatingResponse, error) {
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
	if studio == nil {
		return nil, fmt.Errorf("studio %s: %w", studioID, ErrNotFound)
	}

	return s.recompute(ctx, id)
}

// recompute rebuilds the aggregate from every stored review and writes the
// pair in one statement. A studio with no reviews resets to 0 / 0.
func (s *reviewService) recompute(ctx context.Context, studioID uuid.UUID) (*response.StudioRatingResponse, error) {
	ratings, err := s.repo.Review.ListRatingsByStudio(ctx, studioID)
	if err != nil {
		return nil, storageError(err)
	}

	rating := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		rating = math.Round(float64(sum)/float64(len(ratings))*100) / 100
	}

	if err := s.repo.Studio.UpdateRating(ctx, studioID, rating, len(ratings)); err != nil {
		return nil, storageError(err)
	}

	s.log.Debug("Studio rating recomputed",
		zap.String("studio_id", studioID.String()),
		zap.Float64("rating", rating),
		zap.Int("review_count", len(ratings)),
	)

	return &response.StudioRatingResponse{Rating: rating, ReviewCount: len(ratings)}, nil
}
