package usecase

import (
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Reservation ReservationService
	Review      ReviewService
	Studio      StudioService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Reservation: NewReservationService(repo, config, log),
		Review:      NewReviewService(repo, config, log),
		Studio:      NewStudioService(repo, config, log),
	}
}
