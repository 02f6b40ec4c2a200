package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error taxonomy of the booking engine. Handlers map these to HTTP status
// codes with errors.Is; only ErrUnavailable is safe to retry.
var (
	ErrInvalidWindow         = errors.New("invalid time window")
	ErrInvalidFilter         = errors.New("invalid status filter")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("time slot conflict")
	ErrIllegalTransition     = errors.New("illegal status transition")
	ErrForbidden             = errors.New("forbidden")
	ErrTooEarly              = errors.New("reservation window has not elapsed")
	ErrPaymentMethodRequired = errors.New("payment method required")
	ErrUnavailable           = errors.New("storage unavailable")
)

// ConflictError carries the conflicting window so the caller can offer
// alternate slots. It unwraps to ErrConflict.
type ConflictError struct {
	RoomID uuid.UUID
	Date   time.Time
	Start  time.Time
	End    time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot conflict for room %s on %s between %s and %s",
		e.RoomID.String(),
		e.Date.Format("2006-01-02"),
		e.Start.Format("15:04"),
		e.End.Format("15:04"),
	)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// pg error codes of the storage-level overlap backstop
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// storageError classifies a repository failure. Engine sentinels pass
// through untouched; constraint refusals become ErrConflict; timeouts and
// transport failures become the retry-safe ErrUnavailable.
func storageError(err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{
		ErrInvalidWindow, ErrInvalidFilter, ErrNotFound, ErrConflict, ErrIllegalTransition,
		ErrForbidden, ErrTooEarly, ErrPaymentMethodRequired, ErrUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: rejected by storage constraint", ErrConflict)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}

	return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
}
