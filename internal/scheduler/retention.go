package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Cleaner deletes expired rows and reports how many were removed.
type Cleaner interface {
	AutoDelete(ctx context.Context) (int64, error)
}

type Retention struct {
	cron    *cron.Cron
	cleaner Cleaner
	timeout time.Duration
	logger  *slog.Logger
}

// NewRetention schedules cleaner on the given cron spec. An empty spec
// returns a nil *Retention, whose Start and Stop are no-ops.
func NewRetention(spec string, cleaner Cleaner, logger *slog.Logger) (*Retention, error) {
	if spec == "" {
		return nil, nil
	}

	r := &Retention{
		cleaner: cleaner,
		timeout: 5 * time.Minute,
		logger:  logger,
	}
	cl := cronLogger{logger: logger}
	r.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := r.cron.AddFunc(spec, r.Run); err != nil {
		logger.Error("Invalid retention schedule", slog.String("schedule", spec), slog.String("error", err.Error()))
		return nil, err
	}

	return r, nil
}

// cronLogger routes cron's own messages (recovered panics, skipped runs)
// through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err.Error())...)
}

// Run performs one cleanup pass.
func (r *Retention) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	deleted, err := r.cleaner.AutoDelete(ctx)
	if err != nil {
		r.logger.Error("Scheduled activity log cleanup failed", slog.String("error", err.Error()))
		return
	}

	r.logger.Info("Scheduled activity log cleanup", slog.Int64("deleted", deleted))
}

func (r *Retention) Start() {
	if r == nil {
		return
	}
	r.cron.Start()
}

// Stop halts scheduling and waits for a running pass to finish.
func (r *Retention) Stop() {
	if r == nil {
		return
	}
	<-r.cron.Stop().Done()
}
