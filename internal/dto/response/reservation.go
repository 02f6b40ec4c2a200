package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type ReservationResponse struct {
	ID               string                   `json:"id"`
	StudioID         string                   `json:"studio_id"`
	RoomID           string                   `json:"room_id"`
	RequesterID      string                   `json:"requester_id"`
	Date             string                   `json:"date"`
	StartTime        string                   `json:"start_time"`
	EndTime          string                   `json:"end_time"`
	DurationHours    float64                  `json:"duration_hours"`
	HourlyRate       float64                  `json:"hourly_rate"`
	Subtotal         float64                  `json:"subtotal"`
	FeeAmount        float64                  `json:"fee_amount"`
	TotalAmount      float64                  `json:"total_amount"`
	Status           entity.ReservationStatus `json:"status"`
	Message          *string                  `json:"message,omitempty"`
	DecisionReason   *string                  `json:"decision_reason,omitempty"`
	PaymentMethodRef string                   `json:"payment_method_ref"`
	DecidedAt        *time.Time               `json:"decided_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// Helper converter
func ReservationToResponse(reservation *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:               reservation.ID.String(),
		StudioID:         reservation.StudioID.String(),
		RoomID:           reservation.RoomID.String(),
		RequesterID:      reservation.RequesterID.String(),
		Date:             reservation.Date.Format("2006-01-02"),
		StartTime:        reservation.StartTime.Format("15:04"),
		EndTime:          reservation.EndTime.Format("15:04"),
		DurationHours:    reservation.DurationHours,
		HourlyRate:       reservation.HourlyRate,
		Subtotal:         reservation.Subtotal,
		FeeAmount:        reservation.FeeAmount,
		TotalAmount:      reservation.TotalAmount,
		Status:           reservation.Status,
		Message:          reservation.Message,
		DecisionReason:   reservation.DecisionReason,
		PaymentMethodRef: reservation.PaymentMethodRef,
		DecidedAt:        reservation.DecidedAt,
		CreatedAt:        reservation.CreatedAt,
		UpdatedAt:        reservation.UpdatedAt,
	}
}
