package scheduler

import (
	"context"
	"fmt"
	"time"

	"social-publisher/infrastructure/logger"
	"social-publisher/usecase"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers the poster in-process on a cron schedule. It is the
// alternative to calling /functions/post-scheduler from external cron.
type Scheduler struct {
	poster   usecase.IPosterUseCase
	schedule cron.Schedule
	expr     string
	timeout  time.Duration
}

// New parses expr with the standard five-field parser (descriptors such as
// "@every 1m" are accepted). An empty expr returns a disabled Scheduler.
func New(poster usecase.IPosterUseCase, expr string, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{poster: poster, expr: expr, timeout: timeout}
	if expr == "" {
		return s, nil
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid poster schedule %q: %w", expr, err)
	}
	s.schedule = sched
	return s, nil
}

func (s *Scheduler) Enabled() bool { return s.schedule != nil }

// Run blocks until ctx is done. Ticks that fire while a poll is still running
// are skipped. On shutdown it waits for the running poll to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.Enabled() {
		logger.GetLogger().Info("Poster schedule not set; waiting for external triggers only")
		return nil
	}
	cronLogger := cron.PrintfLogger(logger.GetLogger().WithField("component", "scheduler"))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx) }))
	c.Start()
	logger.GetLogger().WithField("schedule", s.expr).Info("Poster scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	logger.GetLogger().Info("Poster scheduler stopped")
	return nil
}

// RunOnce performs a single poll bounded by the configured timeout. A poll
// that has started is not cut short by shutdown; Run waits for it instead.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx := context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, s.timeout)
		defer cancel()
	}
	res, err := s.poster.PollOnce(runCtx)
	if err != nil {
		logger.GetLogger().WithField("error", err.Error()).Error("Scheduled poll failed")
		return
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"outcome": res.Outcome,
		"post_id": res.PostID,
	}).Debug(res.Message)
}
