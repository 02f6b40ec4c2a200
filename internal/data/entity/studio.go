package entity

import "github.com/google/uuid"

type Studio struct {
	Base
	OwnerID  uuid.UUID `db:"owner_id"`
	Name     string    `db:"name"`
	City     string    `db:"city"`
	IsActive bool      `db:"is_active"`

	// Aggregate pair owned by the rating recompute; never written directly.
	Rating      float64 `db:"rating"`
	ReviewCount int     `db:"review_count"`
}
