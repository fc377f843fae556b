package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
)

// Job is run once per day. A returned error is logged, the next run happens at
// the next midnight regardless.
type Job func(ctx context.Context) error

// Daily runs Job once on start and then at every local midnight. Days on which
// the process was not running are not caught up.
type Daily struct {
	Name     string
	Location *time.Location
	Job      Job

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

func NewDaily(name string, location *time.Location, job Job) *Daily {
	if location == nil {
		location = time.Local
	}
	return &Daily{
		Name:     name,
		Location: location,
		Job:      job,
		now:      time.Now,
		after:    time.After,
	}
}

// Run blocks until ctx is done.
func (d *Daily) Run(ctx context.Context) error {
	slog.Info("scheduler: started", slog.String("job.name", d.Name), slog.String("job.location", d.Location.String()))
	for {
		d.runOnce(ctx)

		// the wait is recomputed from the wall clock every day so the loop
		// stays aligned to midnight after clock changes
		next := NextMidnight(d.now().In(d.Location))
		wait := next.Sub(d.now())
		slog.Debug("scheduler: waiting for next run", slog.String("job.name", d.Name), slog.Time("job.next", next))

		select {
		case <-ctx.Done():
			slog.Info("scheduler: stopped", slog.String("job.name", d.Name))
			return nil
		case <-d.after(wait):
		}
	}
}

func (d *Daily) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			slog.Error("scheduler: job panicked", slog.String("job.name", d.Name), slog.Any("panic", r))
		}
	}()
	start := d.now()
	if err := d.Job(ctx); err != nil {
		slog.Error("scheduler: job failed", slog.String("job.name", d.Name), tint.Err(err))
		return
	}
	slog.Info("scheduler: job finished", slog.String("job.name", d.Name), slog.Duration("job.duration", d.now().Sub(start)))
}

// NextMidnight returns the first midnight strictly after t in t's location.
func NextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}
