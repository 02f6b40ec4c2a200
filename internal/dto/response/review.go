package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	StudioID  string    `json:"studio_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type StudioRatingResponse struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		StudioID:  review.StudioID.String(),
		AuthorID:  review.AuthorID.String(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
