package fallback

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/logging"
)

// Refresher reloads a Dataset from its source on a cron schedule.
type Refresher struct {
	dataset *Dataset
	source  Source
	timeout time.Duration
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewRefresher(dataset *Dataset, source Source, logger *zap.Logger) *Refresher {
	return &Refresher{
		dataset: dataset,
		source:  source,
		timeout: 30 * time.Second,
		logger:  logging.OrNop(logger),
		cron:    cron.New(),
	}
}

// Start loads once right away, then on every tick of schedule ("@every 15m", "0 * * * *").
func (r *Refresher) Start(schedule string) error {
	r.Refresh()
	if _, err := r.cron.AddFunc(schedule, r.Refresh); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("fallback dataset refresher started",
		zap.String("source", r.source.Name()),
		zap.String("schedule", schedule),
	)
	return nil
}

// Refresh runs one reload. Failures keep the previous snapshot.
func (r *Refresher) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.dataset.Reload(ctx, r.source); err != nil {
		r.logger.Warn("fallback dataset refresh failed", zap.String("source", r.source.Name()), zap.Error(err))
		return
	}
	r.logger.Info("fallback dataset refreshed",
		zap.String("source", r.source.Name()),
		zap.Time("loaded_at", r.dataset.LoadedAt()),
	)
}

func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
