package repository

import (
	"studio-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Studio      StudioRepository
	Room        RoomRepository
	Reservation ReservationRepository
	Review      ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Studio:      NewStudioRepository(db, log),
		Room:        NewRoomRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Review:      NewReviewRepository(db, log),
	}
}
