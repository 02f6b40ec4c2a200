package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusRejected  ReservationStatus = "rejected"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

type ActorRole string

const (
	RoleArtist ActorRole = "artist"
	RoleStudio ActorRole = "studio"
	RoleSystem ActorRole = "system"
)

// Reservation is the unified request/booking record. It is created in
// pending status and only ever leaves it through Transition.
type Reservation struct {
	Base
	StudioID         uuid.UUID         `db:"studio_id"`
	RoomID           uuid.UUID         `db:"room_id"`
	RequesterID      uuid.UUID         `db:"requester_id"`
	Date             time.Time         `db:"date"`
	StartTime        time.Time         `db:"start_time"`
	EndTime          time.Time         `db:"end_time"`
	DurationHours    float64           `db:"duration_hours"`
	HourlyRate       float64           `db:"hourly_rate"`
	Subtotal         float64           `db:"subtotal"`
	FeeAmount        float64           `db:"fee_amount"`
	TotalAmount      float64           `db:"total_amount"`
	Status           ReservationStatus `db:"status"`
	Message          *string           `db:"message"`
	DecisionReason   *string           `db:"decision_reason"`
	PaymentMethodRef string            `db:"payment_method_ref"`
	DecidedAt        *time.Time        `db:"decided_at"`
}

// transitions maps current status to the set of statuses reachable from it.
// Terminal statuses (rejected, cancelled, completed) have no outgoing edges.
var transitions = map[ReservationStatus]map[ReservationStatus]bool{
	ReservationStatusPending: {
		ReservationStatusConfirmed: true,
		ReservationStatusRejected:  true,
		ReservationStatusCancelled: true,
	},
	ReservationStatusConfirmed: {
		ReservationStatusCompleted: true,
		ReservationStatusCancelled: true,
	},
}

// edgeActors maps a transition edge to the roles allowed to trigger it.
var edgeActors = map[ReservationStatus]map[ReservationStatus][]ActorRole{
	ReservationStatusPending: {
		ReservationStatusConfirmed: {RoleStudio},
		ReservationStatusRejected:  {RoleStudio},
		ReservationStatusCancelled: {RoleArtist},
	},
	ReservationStatusConfirmed: {
		ReservationStatusCompleted: {RoleStudio, RoleSystem},
		ReservationStatusCancelled: {RoleStudio, RoleArtist},
	},
}

// CanTransition reports whether the edge current -> target exists.
func CanTransition(current, target ReservationStatus) bool {
	return transitions[current][target]
}

// RoleMayTransition reports whether role is authorized for the edge.
func RoleMayTransition(current, target ReservationStatus, role ActorRole) bool {
	for _, allowed := range edgeActors[current][target] {
		if allowed == role {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status ReservationStatus) bool {
	return len(transitions[status]) == 0
}

// Transition moves the reservation to target, stamping UpdatedAt and, for
// decision edges (confirmed/rejected), DecidedAt. The caller must have
// validated the edge with CanTransition/RoleMayTransition first.
func (r *Reservation) Transition(target ReservationStatus, now time.Time) {
	r.Status = target
	r.UpdatedAt = now
	if target == ReservationStatusConfirmed || target == ReservationStatusRejected {
		decided := now
		r.DecidedAt = &decided
	}
}

// Elapsed reports whether the reservation window has fully passed. Elapsed
// windows are excluded from conflict checks regardless of stored status.
func (r *Reservation) Elapsed(now time.Time) bool {
	return !r.EndTime.After(now)
}
