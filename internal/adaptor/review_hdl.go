package adaptor

import (
	"encoding/json"
	"net/http"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (protected, artist)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	if role != entity.RoleArtist {
		utils.ResponseForbidden(w, "Only artists can review studios")
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.CreateReview(r.Context(), actorID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// UpdateReview handles PUT /api/reviews/{id} (protected, author)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), chi.URLParam(r, "id"), actorID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /api/reviews/{id} (protected, author)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteReview(r.Context(), chi.URLParam(r, "id"), actorID); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetStudioReviews handles GET /api/studios/{id}/reviews (public)
func (h *ReviewHandler) GetStudioReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetStudioReviews(r.Context(), chi.URLParam(r, "id"), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get studio reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetStudioRating handles GET /api/studios/{id}/rating (public)
func (h *ReviewHandler) GetStudioRating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.service.GetStudioRating(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get studio rating")
		return
	}

	utils.ResponseSuccess(w, "success", rating)
}

// RecomputeStudioRating handles POST /api/studios/{id}/rating/recompute (protected)
func (h *ReviewHandler) RecomputeStudioRating(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := actorFromContext(r); !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	rating, err := h.service.RecomputeRating(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "recompute studio rating")
		return
	}

	utils.ResponseSuccess(w, "success", rating)
}
