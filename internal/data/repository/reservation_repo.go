package repository

import (
	"context"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID, status string, limit, offset int) ([]*entity.Reservation, error)
	CountByRequesterID(ctx context.Context, requesterID uuid.UUID, status string) (int64, error)
	FindByStudioID(ctx context.Context, studioID uuid.UUID, status string, limit, offset int) ([]*entity.Reservation, error)
	CountByStudioID(ctx context.Context, studioID uuid.UUID, status string) (int64, error)
	UpdateStatus(ctx context.Context, reservation *entity.Reservation) error

	// Business queries
	HasConflict(ctx context.Context, roomID uuid.UUID, date time.Time, start, end time.Time, excludeID uuid.UUID) (bool, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindActiveByRoomDateForUpdate(ctx context.Context, roomID uuid.UUID, date time.Time) ([]*entity.Reservation, error)
	FindElapsedConfirmed(ctx context.Context, now time.Time) ([]*entity.Reservation, error)

	// InTx runs fn with a repository bound to a single transaction; the
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(ReservationRepository) error) error
}

const reservationColumns = `id, studio_id, room_id, requester_id, date, start_time, end_time,
		duration_hours, hourly_rate, subtotal, fee_amount, total_amount,
		status, message, decision_reason, payment_method_ref, decided_at, created_at, updated_at`

type reservationRepository struct {
	q   database.Querier
	db  database.PgxIface // nil when bound to a transaction
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		q:   db,
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) InTx(ctx context.Context, fn func(ReservationRepository) error) error {
	if r.db == nil {
		return fmt.Errorf("nested reservation transaction")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reservation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	txRepo := &reservationRepository{q: tx, log: r.log}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reservation tx: %w", err)
	}
	return nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.q.Exec(ctx, query,
		reservation.ID,
		reservation.StudioID,
		reservation.RoomID,
		reservation.RequesterID,
		reservation.Date,
		reservation.StartTime,
		reservation.EndTime,
		reservation.DurationHours,
		reservation.HourlyRate,
		reservation.Subtotal,
		reservation.FeeAmount,
		reservation.TotalAmount,
		reservation.Status,
		reservation.Message,
		reservation.DecisionReason,
		reservation.PaymentMethodRef,
		reservation.DecidedAt,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("room_id", reservation.RoomID.String()),
			zap.String("requester_id", reservation.RequesterID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", reservation.ID.String(), err)
	}

	return nil
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var reservation entity.Reservation
	err := row.Scan(
		&reservation.ID,
		&reservation.StudioID,
		&reservation.RoomID,
		&reservation.RequesterID,
		&reservation.Date,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.DurationHours,
		&reservation.HourlyRate,
		&reservation.Subtotal,
		&reservation.FeeAmount,
		&reservation.TotalAmount,
		&reservation.Status,
		&reservation.Message,
		&reservation.DecisionReason,
		&reservation.PaymentMethodRef,
		&reservation.DecidedAt,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	reservation, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return reservation, nil
}

// FindByIDForUpdate locks the reservation row for the rest of the
// transaction. Only meaningful on a tx-bound repository.
func (r *reservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`

	reservation, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("lock reservation %s: %w", id.String(), err)
	}

	return reservation, nil
}

// HasConflict is the informational conflict probe used at request creation.
// The overlap inequality (s1 < e2 AND s2 < e1) matches entity.Overlaps;
// fully elapsed windows are excluded.
func (r *reservationRepository) HasConflict(ctx context.Context, roomID uuid.UUID, date time.Time, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE room_id = $1
			  AND date = $2
			  AND status IN ('pending', 'confirmed')
			  AND id <> $3
			  AND start_time < $5 AND $4 < end_time
			  AND end_time > NOW()
		)
	`

	var conflict bool
	err := r.q.QueryRow(ctx, query, roomID, date, excludeID, start, end).Scan(&conflict)
	if err != nil {
		r.log.Error("Failed to check reservation conflict",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("date", date),
		)
		return false, fmt.Errorf("check conflict for room %s: %w", roomID.String(), err)
	}

	return conflict, nil
}

// FindActiveByRoomDateForUpdate fetches and locks every active reservation
// for the room and date. This is the authoritative read inside the approve
// transaction; the lock serializes concurrent approvals for the same slot.
func (r *reservationRepository) FindActiveByRoomDateForUpdate(ctx context.Context, roomID uuid.UUID, date time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE room_id = $1 AND date = $2 AND status IN ('pending', 'confirmed')
		ORDER BY start_time
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, roomID, date)
	if err != nil {
		r.log.Error("Failed to find active reservations",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("date", date),
		)
		return nil, fmt.Errorf("find active reservations for room %s: %w", roomID.String(), err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) FindByRequesterID(ctx context.Context, requesterID uuid.UUID, status string, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE requester_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY date DESC, start_time DESC
		LIMIT $3 OFFSET $4
	`

	return r.queryReservations(ctx, query, "find reservations by requester", requesterID, status, limit, offset)
}

func (r *reservationRepository) CountByRequesterID(ctx context.Context, requesterID uuid.UUID, status string) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE requester_id = $1 AND ($2 = '' OR status = $2)`

	var count int64
	if err := r.q.QueryRow(ctx, query, requesterID, status).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations by requester",
			zap.Error(err),
			zap.String("requester_id", requesterID.String()),
		)
		return 0, fmt.Errorf("count reservations by requester %s: %w", requesterID.String(), err)
	}

	return count, nil
}

func (r *reservationRepository) FindByStudioID(ctx context.Context, studioID uuid.UUID, status string, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE studio_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY date DESC, start_time DESC
		LIMIT $3 OFFSET $4
	`

	return r.queryReservations(ctx, query, "find reservations by studio", studioID, status, limit, offset)
}

func (r *reservationRepository) CountByStudioID(ctx context.Context, studioID uuid.UUID, status string) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE studio_id = $1 AND ($2 = '' OR status = $2)`

	var count int64
	if err := r.q.QueryRow(ctx, query, studioID, status).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations by studio",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
		)
		return 0, fmt.Errorf("count reservations by studio %s: %w", studioID.String(), err)
	}

	return count, nil
}

// UpdateStatus persists the outcome of a state transition in one statement.
func (r *reservationRepository) UpdateStatus(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, decision_reason = $3, decided_at = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		reservation.ID,
		reservation.Status,
		reservation.DecisionReason,
		reservation.DecidedAt,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("status", string(reservation.Status)),
		)
		return fmt.Errorf("update reservation %s status to %s: %w",
			reservation.ID.String(), string(reservation.Status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", reservation.ID.String())
	}

	return nil
}

// FindElapsedConfirmed returns confirmed reservations whose window has fully
// passed. Used by the completion sweep.
func (r *reservationRepository) FindElapsedConfirmed(ctx context.Context, now time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'confirmed' AND end_time <= $1
		ORDER BY end_time
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to find elapsed confirmed reservations", zap.Error(err))
		return nil, fmt.Errorf("find elapsed confirmed reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) queryReservations(ctx context.Context, query, operation string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+operation, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}
