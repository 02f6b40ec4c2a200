package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES (require actor identity) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor(log))

		// POST /api/reviews - Write a review (artist)
		r.Post("/api/reviews", reviewHandler.CreateReview)

		// PUT /api/reviews/{id} - Edit own review
		r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)

		// DELETE /api/reviews/{id} - Remove own review
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)

		// POST /api/studios/{id}/rating/recompute - Force a rating rebuild
		r.Post("/api/studios/{id}/rating/recompute", reviewHandler.RecomputeStudioRating)
	})

	// ==================== PUBLIC ROUTES ====================
	// GET /api/studios/{id}/reviews - Reviews of a studio
	r.Get("/api/studios/{id}/reviews", reviewHandler.GetStudioReviews)

	// GET /api/studios/{id}/rating - Aggregate rating of a studio
	r.Get("/api/studios/{id}/rating", reviewHandler.GetStudioRating)
}
