package entity

import "github.com/google/uuid"

type Room struct {
	Base
	StudioID   uuid.UUID `db:"studio_id"`
	Name       string    `db:"name"`
	HourlyRate float64   `db:"hourly_rate"`
	Capacity   int       `db:"capacity"`
	IsActive   bool      `db:"is_active"`
}
