package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES (require actor identity) ====================
	r.Route("/api/reservations", func(r chi.Router) {
		r.Use(middleware.Actor(log))

		// POST /api/reservations - Request a new reservation (artist)
		r.Post("/", reservationHandler.CreateReservation)

		// GET /api/reservations - Requester's own reservations
		r.Get("/", reservationHandler.GetMyReservations)

		// GET /api/reservations/{id} - Reservation details (requester or studio owner)
		r.Get("/{id}", reservationHandler.GetReservation)

		// POST /api/reservations/{id}/approve - Confirm a pending request (studio owner)
		r.Post("/{id}/approve", reservationHandler.ApproveReservation)

		// POST /api/reservations/{id}/reject - Reject a pending request (studio owner)
		r.Post("/{id}/reject", reservationHandler.RejectReservation)

		// POST /api/reservations/{id}/cancel - Cancel (artist or studio owner)
		r.Post("/{id}/cancel", reservationHandler.CancelReservation)

		// POST /api/reservations/{id}/complete - Mark elapsed reservation completed (studio owner)
		r.Post("/{id}/complete", reservationHandler.CompleteReservation)
	})

	// GET /api/studios/{id}/reservations - Studio's inbox (studio owner)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor(log))
		r.Get("/api/studios/{id}/reservations", reservationHandler.GetStudioReservations)
	})
}
