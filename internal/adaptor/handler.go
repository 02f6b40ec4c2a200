package adaptor

import (
	"errors"
	"net/http"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Reservation *ReservationHandler
	Review      *ReviewHandler
	Studio      *StudioHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Reservation: NewReservationHandler(service.Reservation, log),
		Review:      NewReviewHandler(service.Review, log),
		Studio:      NewStudioHandler(service.Studio, log),
	}
}

// actorFromContext pulls the authenticated actor injected by the Actor
// middleware.
func actorFromContext(r *http.Request) (uuid.UUID, entity.ActorRole, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, entity.ActorRole(role), true
}

func paginationFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Conflicts answer 409 so clients can offer an alternate slot; transition
// and timing refusals answer 422 because the request was well formed but
// the reservation state does not admit it.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidWindow), errors.Is(err, usecase.ErrInvalidFilter),
		errors.Is(err, usecase.ErrPaymentMethodRequired):
		log.Warn("Rejected "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" target not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn("Forbidden "+operation, zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" hit a slot conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), conflictData(err))

	case errors.Is(err, usecase.ErrIllegalTransition), errors.Is(err, usecase.ErrTooEarly):
		log.Warn(operation+" refused by lifecycle rules", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error())

	case errors.Is(err, usecase.ErrUnavailable):
		log.Error(operation+" hit unavailable storage", zap.Error(err))
		utils.ResponseUnavailable(w, "Service temporarily unavailable, retry later")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// conflictData surfaces the conflicting window when the service attached one.
func conflictData(err error) any {
	var conflict *usecase.ConflictError
	if !errors.As(err, &conflict) {
		return nil
	}
	return map[string]string{
		"room_id": conflict.RoomID.String(),
		"date":    conflict.Date.Format("2006-01-02"),
		"start":   conflict.Start.Format("15:04"),
		"end":     conflict.End.Format("15:04"),
	}
}
