package snapshot

import (
	"context"
	"fmt"
	"time"

	"gametracker/internal/logger"
)

// SnapshotChecker is the slice of the store the scheduler needs for its
// catch-up decision on startup.
type SnapshotChecker interface {
	HasSnapshot(ctx context.Context, date string) (bool, error)
}

// Scheduler fires the recorder once per day at a fixed wall-clock time in
// the reference timezone. Mutual exclusion lives in the recorder's guard;
// the scheduler only decides when to fire.
type Scheduler struct {
	Recorder *Recorder
	Store    SnapshotChecker
	Logger   *logger.Logger

	Location *time.Location
	Hour     int
	Minute   int

	Now func() time.Time
}

func NewScheduler(rec *Recorder, store SnapshotChecker, log *logger.Logger,
	loc *time.Location, hour, minute int) *Scheduler {
	return &Scheduler{
		Recorder: rec,
		Store:    store,
		Logger:   log,
		Location: loc,
		Hour:     hour,
		Minute:   minute,
		Now:      time.Now,
	}
}

// Start launches the scheduling loop. The loop stops when ctx is cancelled;
// a failed cycle never stops it.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	s.CatchUp(ctx)

	for {
		next := s.NextTrigger(s.Now())
		s.Logger.Info("SCHEDULER", fmt.Sprintf("Next snapshot cycle at %s", next.Format(time.RFC3339)))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.Logger.Info("SCHEDULER", "Scheduler stopped")
			return
		case <-timer.C:
		}

		result := s.Recorder.Run(ctx, TriggerScheduled)
		s.logResult(result)
	}
}

// CatchUp records an out-of-band snapshot when the process starts on a day
// that has none yet, so a restart does not silently skip a day. Start runs
// it before entering the timer loop.
func (s *Scheduler) CatchUp(ctx context.Context) {
	today := DateIn(s.Now(), s.Location)
	has, err := s.Store.HasSnapshot(ctx, today)
	if err != nil {
		s.Logger.Error("SCHEDULER", fmt.Sprintf("Catch-up check failed: %v", err))
		return
	}
	if has {
		return
	}

	s.Logger.Info("SCHEDULER", fmt.Sprintf("No snapshot for %s yet, running catch-up cycle", today))
	s.logResult(s.Recorder.Run(ctx, TriggerStartup))
}

// NextTrigger returns the next instant the daily cycle should fire, strictly
// after now, computed in the reference timezone.
func (s *Scheduler) NextTrigger(now time.Time) time.Time {
	local := now.In(s.Location)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, s.Location)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Scheduler) logResult(result RecordResult) {
	switch result.Status {
	case StatusRecorded:
		s.Logger.Info("SCHEDULER", fmt.Sprintf(
			"Cycle recorded %s: total=%.1fh games=%d", result.TargetDate, result.TotalHours, result.GamesCount))
	case StatusSkipped:
		s.Logger.Warn("SCHEDULER", "Cycle skipped, another run in progress")
	case StatusFailed:
		s.Logger.Error("SCHEDULER", fmt.Sprintf("Cycle failed for %s: %s", result.TargetDate, result.Error))
	}
}
