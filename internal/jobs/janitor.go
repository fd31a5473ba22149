// Package jobs runs the periodic housekeeping of the service.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/logging"
)

// FormSweeper drops idle booking forms.
type FormSweeper interface {
	Sweep() int
}

// SessionPurger deletes expired sessions. Redis expires keys itself and
// needs none.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Janitor struct {
	forms    FormSweeper
	sessions SessionPurger
	logger   *zap.Logger
	timeout  time.Duration
	cron     *cron.Cron
}

func NewJanitor(forms FormSweeper, sessions SessionPurger, logger *zap.Logger) *Janitor {
	return &Janitor{
		forms:    forms,
		sessions: sessions,
		logger:   logging.OrNop(logger).Named("janitor"),
		timeout:  30 * time.Second,
		cron:     cron.New(),
	}
}

// Start schedules Run on schedule, e.g. "@every 1m".
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Run does one pass.
func (j *Janitor) Run() {
	if j.forms != nil {
		if n := j.forms.Sweep(); n > 0 {
			j.logger.Debug("idle forms swept", zap.Int("count", n))
		}
	}

	if j.sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.sessions.PurgeExpired(ctx)
	if err != nil {
		j.logger.Warn("session purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.logger.Debug("expired sessions purged", zap.Int64("count", n))
	}
}
