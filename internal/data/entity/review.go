package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	StudioID uuid.UUID `db:"studio_id"`
	AuthorID uuid.UUID `db:"author_id"`
	Rating   int       `db:"rating"` // 1-5
	Comment  *string   `db:"comment"`
}
