package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"

	"github.com/lottohaus/worldlotto-backend/internal/services"
)

// Scheduler runs periodic checks that settle due drawings. The check is
// idempotent: the lottery service refuses to settle a drawing twice, so
// an overlapping or duplicate tick is harmless.
type Scheduler struct {
	lotteryService services.LotteryService
	cron           *cron.Cron
	spec           string
}

// New creates a scheduler that checks for due drawings on the given cron
// spec.
func New(lotteryService services.LotteryService, spec string) *Scheduler {
	return &Scheduler{
		lotteryService: lotteryService,
		cron:           cron.New(),
		spec:           spec,
	}
}

// Start registers the drawing check and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.checkDueDrawing); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Drawing scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running check to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Drawing scheduler stopped")
}

func (s *Scheduler) checkDueDrawing() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	drawing, err := s.lotteryService.CurrentDrawing(ctx)
	if err != nil {
		if !errors.Is(err, services.ErrNoActiveDrawing) {
			slog.Error("Scheduler failed to load active drawing", "error", err)
		}
		return
	}
	if time.Now().Before(drawing.Date) {
		return
	}

	slog.Info("Drawing due, settling", "drawingId", drawing.ID, "date", drawing.Date)
	if _, err := s.lotteryService.PerformDrawing(ctx, nil, nil); err != nil {
		if errors.Is(err, services.ErrNoActiveDrawing) {
			// Settled concurrently by an admin. Nothing to do.
			return
		}
		slog.Error("Scheduled drawing failed", "error", err, "drawingId", drawing.ID)
	}
}
