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

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// CreateReservation handles POST /api/reservations (protected, artist)
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	if role != entity.RoleArtist {
		utils.ResponseForbidden(w, "Only artists can request reservations")
		return
	}

	var req request.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.CreateRequest(r.Context(), actorID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}

// ApproveReservation handles POST /api/reservations/{id}/approve (protected, studio)
func (h *ReservationHandler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservation, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"), actorID)
	if err != nil {
		handleServiceError(w, h.log, err, "approve reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// RejectReservation handles POST /api/reservations/{id}/reject (protected, studio)
func (h *ReservationHandler) RejectReservation(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RejectReservationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
		if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
			utils.ResponseBadRequest(w, "Validation failed", validationErrors)
			return
		}
	}

	reservation, err := h.service.Reject(r.Context(), chi.URLParam(r, "id"), actorID, req.Reason)
	if err != nil {
		handleServiceError(w, h.log, err, "reject reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// CancelReservation handles POST /api/reservations/{id}/cancel (protected)
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservation, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), actorID, role)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// CompleteReservation handles POST /api/reservations/{id}/complete (protected, studio)
func (h *ReservationHandler) CompleteReservation(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservation, err := h.service.Complete(r.Context(), chi.URLParam(r, "id"), actorID, role)
	if err != nil {
		handleServiceError(w, h.log, err, "complete reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// GetReservation handles GET /api/reservations/{id} (protected)
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservation, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"), actorID, role)
	if err != nil {
		handleServiceError(w, h.log, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// GetMyReservations handles GET /api/reservations (protected, artist)
func (h *ReservationHandler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservations, err := h.service.ListByRequester(r.Context(), actorID,
		r.URL.Query().Get("status"), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}

// GetStudioReservations handles GET /api/studios/{id}/reservations (protected, studio owner)
func (h *ReservationHandler) GetStudioReservations(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actorFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	reservations, err := h.service.ListByStudio(r.Context(), chi.URLParam(r, "id"), actorID,
		r.URL.Query().Get("status"), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list studio reservations")
		return
	}

	utils.ResponseSuccess(w, "success", reservations)
}
