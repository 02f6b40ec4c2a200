package wire

import (
	"studio-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStudio(r chi.Router, studioHandler *adaptor.StudioHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/studios - Browse active studios
	r.Get("/api/studios", studioHandler.GetStudios)

	// GET /api/studios/{id} - Studio details
	r.Get("/api/studios/{id}", studioHandler.GetStudioByID)

	// GET /api/studios/{id}/rooms - Rooms of a studio
	r.Get("/api/studios/{id}/rooms", studioHandler.GetStudioRooms)

	// GET /api/rooms/{id} - Room details
	r.Get("/api/rooms/{id}", studioHandler.GetRoomByID)
}
