package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper periodically runs the completion pass over elapsed confirmed
// reservations.
type Sweeper struct {
	reservations ReservationService
	interval     time.Duration
	cron         *cron.Cron
	log          *zap.Logger
}

func NewSweeper(reservations ReservationService, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		reservations: reservations,
		interval:     interval,
		cron:         cron.New(),
		log:          log.With(zap.String("service", "sweeper")),
	}
}

func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		count, err := s.reservations.CompleteElapsed(context.Background())
		if err != nil {
			s.log.Error("Completion sweep failed", zap.Error(err))
			return
		}
		s.log.Debug("Completion sweep finished", zap.Int("completed", count))
	})
	if err != nil {
		return fmt.Errorf("schedule completion sweep: %w", err)
	}

	s.cron.Start()
	s.log.Info("Completion sweep scheduled", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
