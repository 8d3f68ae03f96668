package worker

import (
	"context"
	"time"

	"bcvrates-service/internal/application"
	infraconfig "bcvrates-service/internal/infrastructure/config"

	"go.uber.org/zap"
)

var _ application.Worker = (*RefreshWorker)(nil)

// RefreshWorker keeps the cache and the historical store warm by polling
// the current rate; rate fetches stay cheap for interactive callers.
type RefreshWorker struct {
	Service   *application.RateService
	PollEvery time.Duration
	Log       *zap.Logger
}

func (w *RefreshWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.PollEvery <= 0 {
		w.PollEvery = infraconfig.DefaultRefreshInterval
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("refresh_worker_started", zap.Duration("poll_every", w.PollEvery))
	w.tick(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("refresh_worker_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *RefreshWorker) tick(ctx context.Context, log *zap.Logger) {
	c, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	rec, err := w.Service.CurrentRate(c)
	if err != nil {
		log.Warn("refresh_failed", zap.Error(err))
		return
	}
	log.Info("refresh_done",
		zap.Float64("rate", rec.Value),
		zap.Time("effective_date", rec.EffectiveDate),
		zap.String("source", string(rec.Source)),
	)
}
