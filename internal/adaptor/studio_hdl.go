package adaptor

import (
	"net/http"

	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StudioHandler struct {
	service usecase.StudioService
	log     *zap.Logger
}

func NewStudioHandler(service usecase.StudioService, log *zap.Logger) *StudioHandler {
	return &StudioHandler{
		service: service,
		log:     log.With(zap.String("handler", "studio")),
	}
}

// GetStudios handles GET /api/studios (public)
func (h *StudioHandler) GetStudios(w http.ResponseWriter, r *http.Request) {
	studios, err := h.service.ListStudios(r.Context(), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list studios")
		return
	}

	utils.ResponseSuccess(w, "success", studios)
}

// GetStudioByID handles GET /api/studios/{id} (public)
func (h *StudioHandler) GetStudioByID(w http.ResponseWriter, r *http.Request) {
	studio, err := h.service.GetStudio(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get studio")
		return
	}

	utils.ResponseSuccess(w, "success", studio)
}

// GetRoomByID handles GET /api/rooms/{id} (public)
func (h *StudioHandler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get room")
		return
	}

	utils.ResponseSuccess(w, "success", room)
}

// GetStudioRooms handles GET /api/studios/{id}/rooms (public)
func (h *StudioHandler) GetStudioRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get studio rooms")
		return
	}

	utils.ResponseSuccess(w, "success", rooms)
}
