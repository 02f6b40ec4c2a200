package usecase

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService coordinates the booking lifecycle: request creation,
// the studio's decision, cancellation and completion. Every mutating
// operation runs in a single transaction and is idempotent on the target
// status.
type ReservationService interface {
	CreateRequest(ctx context.Context, requesterID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
	Approve(ctx context.Context, reservationID string, actorID uuid.UUID) (*response.ReservationResponse, error)
	Reject(ctx context.Context, reservationID string, actorID uuid.UUID, reason string) (*response.ReservationResponse, error)
	Cancel(ctx context.Context, reservationID string, actorID uuid.UUID, role entity.ActorRole) (*response.ReservationResponse, error)
	Complete(ctx context.Context, reservationID string, actorID uuid.UUID, role entity.ActorRole) (*response.ReservationResponse, error)
	GetByID(ctx context.Context, reservationID string, actorID uuid.UUID, role entity.ActorRole) (*response.ReservationResponse, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	ListByStudio(ctx context.Context, studioID string, actorID uuid.UUID, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)

	// CompleteElapsed transitions every confirmed reservation whose window
	// has passed to completed. Returns how many were completed.
	CompleteElapsed(ctx context.Context) (int, error)
}

type reservationService struct {
	repo      *repository.Repository
	feeRate   float64
	dbTimeout time.Duration
	log       *zap.Logger
}

func NewReservationService(repo *repository.Repository, config *utils.Config, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:      repo,
		feeRate:   config.Booking.FeeRate,
		dbTimeout: config.Database.Timeout,
		log:       log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.dbTimeout)
}

// ==================== CREATE ====================

func (s *reservationService) CreateRequest(ctx context.Context, requesterID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	studioID, err := uuid.Parse(req.StudioID)
	if err != nil {
		return nil, fmt.Errorf("studio %s: %w", req.StudioID, ErrNotFound)
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", req.RoomID, ErrNotFound)
	}

	date, start, end, err := parseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidWindow, req.Date)
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	room, err := s.repo.Room.FindActiveWithStudio(ctx, roomID, studioID)
	if err != nil {
		return nil, storageError(err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %s in studio %s: %w", req.RoomID, req.StudioID, ErrNotFound)
	}

	quote, err := Price(room.HourlyRate, start, end, s.feeRate)
	if err != nil {
		return nil, err
	}

	// Informational probe: the request is refused up front when the slot is
	// already taken, but the authoritative check happens at approval.
	conflict, err := s.repo.Reservation.HasConflict(ctx, roomID, date, start, end, uuid.Nil)
	if err != nil {
		return nil, storageError(err)
	}
	if conflict {
		return nil, &ConflictError{RoomID: roomID, Date: date, Start: start, End: end}
	}

	reservation := &entity.Reservation{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		StudioID:         studioID,
		RoomID:           roomID,
		RequesterID:      requesterID,
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		DurationHours:    quote.DurationHours,
		HourlyRate:       room.HourlyRate,
		Subtotal:         quote.Subtotal,
		FeeAmount:        quote.FeeAmount,
		TotalAmount:      quote.TotalAmount,
		Status:           entity.ReservationStatusPending,
		PaymentMethodRef: req.PaymentMethodRef,
	}
	if req.Message != "" {
		message := req.Message
		reservation.Message = &message
	}

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		return nil, storageError(err)
	}

	s.log.Info("Reservation request created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("room_id", roomID.String()),
		zap.String("requester_id", requesterID.String()),
		zap.Float64("total_amount", reservation.TotalAmount),
	)

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

// parseWindow builds the half-open [start, end) window in UTC from the wire
// date and clock strings. The DTO validator has already checked the formats.
func parseWindow(dateStr, startStr, endStr string) (date, start, end time.Time, err error) {
	date, err = time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return date, start, end, fmt.Errorf("%w: bad date %s", ErrInvalidWindow, dateStr)
	}

	startClock, err := time.Parse("15:04", startStr)
	if err != nil {
		return date, start, end, fmt.Errorf("%w: bad start time %s", ErrInvalidWindow, startStr)
	}
	endClock, err := time.Parse("15:04", endStr)
	if err != nil {
		return date, start, end, fmt.Errorf("%w: bad end time %s", ErrInvalidWindow, endStr)
	}

	start = time.Date(date.Year(), date.Month(), date.Day(), startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)
	end = time.Date(date.Year(), date.Month(), date.Day(), endClock.Hour(), endClock.Minute(), 0, 0, time.UTC)

	if !end.After(start) {
		return date, start, end, fmt.Errorf("%w: end %s must be after start %s", ErrInvalidWindow, endStr, startStr)
	}
	return date, start, end, nil
}

// ==================== DECISIONS ====================

// Approve confirms a pending reservation. The conflict re-check inside the
// transaction is authoritative: rows for the room and date are locked, so
// two approvals for overlapping windows serialize and the loser gets
// ErrConflict while its reservation stays pending.
func (s *reservationService) Approve(ctx context.Context, reservationID string, actorID uuid.UUID) (*response.ReservationResponse, error) {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var out *entity.Reservation
	err = s.repo.Reservation.InTx(ctx, func(tx repository.ReservationRepository) error {
		reservation, err := tx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if reservation == nil {
			return fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
		}

		if err := s.authorizeOwner(ctx, reservation.StudioID, actorID); err != nil {
			return err
		}

		// Replaying an approve is a no-op success.
		if reservation.Status == entity.ReservationStatusConfirmed {
			out = reservation
			return nil
		}
		if !entity.CanTransition(reservation.Status, entity.ReservationStatusConfirmed) {
			return fmt.Errorf("%w: %s -> confirmed", ErrIllegalTransition, reservation.Status)
		}
		if reservation.PaymentMethodRef == "" {
			return fmt.Errorf("reservation %s: %w", reservationID, ErrPaymentMethodRequired)
		}

		active, err := tx.FindActiveByRoomDateForUpdate(ctx, reservation.RoomID, reservation.Date)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, other := range active {
			if other.ID == reservation.ID || other.Elapsed(now) {
				continue
			}
			if entity.Overlaps(reservation.StartTime, reservation.EndTime, other.StartTime, other.EndTime) {
				return &ConflictError{
					RoomID: reservation.RoomID,
					Date:   reservation.Date,
					Start:  other.StartTime,
					End:    other.EndTime,
				}
			}
		}

		reservation.Transition(entity.ReservationStatusConfirmed, now)
		if err := tx.UpdateStatus(ctx, reservation); err != nil {
			return err
		}
		out = reservation
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	s.log.Info("Reservation approved",
		zap.String("reservation_id", out.ID.String()),
		zap.String("studio_id", out.StudioID.String()),
	)

	resp := response.ReservationToResponse(out)
	return &resp, nil
}

func (s *reservationService) Reject(ctx context.Context, reservationID string, actorID uuid.UUID, reason string) (*response.ReservationResponse, error) {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var out *entity.Reservation
	err = s.repo.Reservation.InTx(ctx, func(tx repository.ReservationRepository) error {
		reservation, err := tx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if reservation == nil {
			return fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
		}

		if err := s.authorizeOwner(ctx, reservation.StudioID, actorID); err != nil {
			return err
		}

		if reservation.Status == entity.ReservationStatusRejected {
			out = reservation
			return nil
		}
		if !entity.CanTransition(reservation.Status, entity.ReservationStatusRejected) {
			return fmt.Errorf("%w: %s -> rejected", ErrIllegalTransition, reservation.Status)
		}

		if reason != "" {
			reservation.DecisionReason = &reason
		}
		reservation.Transition(entity.ReservationStatusRejected, time.Now().UTC())
		if err := tx.UpdateStatus(ctx, reservation); err != nil {
			return err
		}
		out = reservation
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	s.log.Info("Reservation rejected",
		zap.String("reservation_id", out.ID.String()),
		zap.String("studio_id", out.StudioID.String()),
	)

	resp := response.ReservationToResponse(out)
	return &resp, nil
}

// ==================== CANCEL / COMPLETE ====================

func (s *reservationService) Cancel(ctx context.Context, reservationID string, actorID uuid.UUID, role entity.ActorRole) (*response.ReservationResponse, error) {
	out, err := s.transition(ctx, reservationID, actorID, role, entity.ReservationStatusCancelled, nil)
	if err != nil {
		return nil, err
	}

	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", out.ID.String()),
		zap.String("role", string(role)),
	)

	resp := response.ReservationToResponse(out)
	return &resp, nil
}

func (s *reservationService) Complete(ctx context.Context, reservationID string, actorID uuid.UUID, role entity.ActorRole) (*response.ReservationResponse, error) {
	guard := func(reservation *entity.Reservation) error {
		if !reservation.Elapsed(time.Now().UTC()) {
			return fmt.Errorf("reservation %s: %w", reservationID, ErrTooEarly)
		}
		return nil
	}

	out, err := s.transition(ctx, reservationID, actorID, role, entity.ReservationStatusCompleted, guard)
	if err != nil {
		return nil, err
	}

	s.log.Info("Reservation completed",
		zap.String("reservation_id", out.ID.String()),
		zap.String("role", string(role)),
	)

	resp := response.ReservationToResponse(out)
	return &resp, nil
}

// transition is the shared locked single-edge move used by Cancel and
// Complete. guard, when set, runs after the edge is validated and before the
// write.
func (s *reservationService) transition(ctx context.Context, reservationID string, actorID uuid.UUID, role entity.ActorRole, target entity.ReservationStatus, guard func(*entity.Reservation) error) (*entity.Reservation, error) {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var out *entity.Reservation
	err = s.repo.Reservation.InTx(ctx, func(tx repository.ReservationRepository) error {
		reservation, err := tx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if reservation == nil {
			return fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
		}

		if err := s.authorizeActor(ctx, reservation, actorID, role); err != nil {
			return err
		}

		if reservation.Status == target {
			out = reservation
			return nil
		}
		if !entity.CanTransition(reservation.Status, target) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, reservation.Status, target)
		}
		if !entity.RoleMayTransition(reservation.Status, target, role) {
			return fmt.Errorf("%w: role %s may not move %s -> %s", ErrForbidden, role, reservation.Status, target)
		}
		if guard != nil {
			if err := guard(reservation); err != nil {
				return err
			}
		}

		reservation.Transition(target, time.Now().UTC())
		if err := tx.UpdateStatus(ctx, reservation); err != nil {
			return err
		}
		out = reservation
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	return out, nil
}

// ==================== QUERIES ====================

func (s *reservationService) GetByID(ctx context.Context, reservationID string, actorID uuid.UUID, role entity.ActorRole) (*response.ReservationResponse, error) {
	id, err := parseReservationID(reservationID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
	}

	if err := s.authorizeActor(ctx, reservation, actorID, role); err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(reservation)
	return &resp, nil
}

func (s *reservationService) ListByRequester(ctx context.Context, requesterID uuid.UUID, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	reservations, err := s.repo.Reservation.FindByRequesterID(ctx, requesterID, status, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageError(err)
	}
	total, err := s.repo.Reservation.CountByRequesterID(ctx, requesterID, status)
	if err != nil {
		return nil, storageError(err)
	}

	return paginateReservations(reservations, page, total), nil
}

func (s *reservationService) ListByStudio(ctx context.Context, studioID string, actorID uuid.UUID, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	sid, err := uuid.Parse(studioID)
	if err != nil {
		return nil, fmt.Errorf("studio %s: %w", studioID, ErrNotFound)
	}
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.authorizeOwner(ctx, sid, actorID); err != nil {
		return nil, err
	}

	reservations, err := s.repo.Reservation.FindByStudioID(ctx, sid, status, page.Limit(), page.Offset())
	if err != nil {
		return nil, storageError(err)
	}
	total, err := s.repo.Reservation.CountByStudioID(ctx, sid, status)
	if err != nil {
		return nil, storageError(err)
	}

	return paginateReservations(reservations, page, total), nil
}

// ==================== COMPLETION SWEEP ====================

// CompleteElapsed is the system-side completion pass. Each reservation moves
// in its own transaction so one failure does not hold the rest back.
func (s *reservationService) CompleteElapsed(ctx context.Context) (int, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	elapsed, err := s.repo.Reservation.FindElapsedConfirmed(ctx, now)
	if err != nil {
		return 0, storageError(err)
	}

	completed := 0
	for _, candidate := range elapsed {
		id := candidate.ID
		moved := false
		err := s.repo.Reservation.InTx(ctx, func(tx repository.ReservationRepository) error {
			reservation, err := tx.FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			// Another actor may have moved it between the scan and the lock.
			if reservation == nil || reservation.Status != entity.ReservationStatusConfirmed {
				return nil
			}
			reservation.Transition(entity.ReservationStatusCompleted, now)
			if err := tx.UpdateStatus(ctx, reservation); err != nil {
				return err
			}
			moved = true
			return nil
		})
		if err != nil {
			s.log.Error("Failed to complete elapsed reservation",
				zap.Error(err),
				zap.String("reservation_id", id.String()),
			)
			continue
		}
		if moved {
			completed++
		}
	}

	if completed > 0 {
		s.log.Info("Completed elapsed reservations", zap.Int("count", completed))
	}
	return completed, nil
}

// ==================== HELPERS ====================

func parseReservationID(reservationID string) (uuid.UUID, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("reservation %s: %w", reservationID, ErrNotFound)
	}
	return id, nil
}

func validateStatusFilter(status string) error {
	switch entity.ReservationStatus(status) {
	case "", entity.ReservationStatusPending, entity.ReservationStatusConfirmed,
		entity.ReservationStatusRejected, entity.ReservationStatusCancelled,
		entity.ReservationStatusCompleted:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidFilter, status)
}

// authorizeOwner checks that actorID owns the studio.
func (s *reservationService) authorizeOwner(ctx context.Context, studioID, actorID uuid.UUID) error {
	studio, err := s.repo.Studio.FindByID(ctx, studioID)
	if err != nil {
		return err
	}
	if studio == nil {
		return fmt.Errorf("studio %s: %w", studioID.String(), ErrNotFound)
	}
	if studio.OwnerID != actorID {
		return fmt.Errorf("%w: actor does not own studio %s", ErrForbidden, studioID.String())
	}
	return nil
}

// authorizeActor checks reservation-level access: the requester, the studio
// owner, or the system.
func (s *reservationService) authorizeActor(ctx context.Context, reservation *entity.Reservation, actorID uuid.UUID, role entity.ActorRole) error {
	switch role {
	case entity.RoleSystem:
		return nil
	case entity.RoleArtist:
		if reservation.RequesterID != actorID {
			return fmt.Errorf("%w: actor is not the requester", ErrForbidden)
		}
		return nil
	case entity.RoleStudio:
		return s.authorizeOwner(ctx, reservation.StudioID, actorID)
	}
	return fmt.Errorf("%w: unknown role %s", ErrForbidden, role)
}

func paginateReservations(reservations []*entity.Reservation, page request.PaginatedRequest, total int64) *response.PaginatedResponse[response.ReservationResponse] {
	items := make([]response.ReservationResponse, 0, len(reservations))
	for _, reservation := range reservations {
		items = append(items, response.ReservationToResponse(reservation))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total)
}
