// Package jobs bridges declarative config jobs to the scheduler core.
//
// Interval schedules become recurring tasks. Cron schedules become a chain
// of one-shot tasks: each run re-registers the next occurrence after it
// finishes, so the scheduler's task model stays exactly one-shot/recurring.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"tickd/internal/scheduler"
	logx "tickd/pkg/logx"
)

// Job is one declarative job entry.
type Job struct {
	Name     string
	Schedule string
	Command  []string
	Priority int
	Timeout  time.Duration
}

// cronParser accepts 5-field and 6-field (with seconds) specs plus
// descriptors like @hourly and @every.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Register registers all jobs onto the scheduler. It stops at the first
// invalid job so a bad config surfaces at startup rather than silently
// dropping entries.
func Register(sched *scheduler.Service, jobs []Job, log logx.Logger) error {
	if log.IsZero() {
		log = logx.Nop()
	}
	now := time.Now()
	for _, j := range jobs {
		if err := registerOne(sched, j, log, now); err != nil {
			return fmt.Errorf("job %q: %w", j.Name, err)
		}
	}
	return nil
}

func registerOne(sched *scheduler.Service, j Job, log logx.Logger, now time.Time) error {
	action, err := CommandAction(j.Command, j.Timeout, log.With(logx.String("job", j.Name)))
	if err != nil {
		return err
	}
	ps, err := ParseSchedule(j.Schedule)
	if err != nil {
		return err
	}

	switch ps.Kind {
	case SpecInterval:
		return sched.AddTask(scheduler.TaskSpec{
			Name:     j.Name,
			Action:   action,
			FirstRun: now.Add(ps.Every),
			Mode:     scheduler.Recurring,
			Interval: ps.Every,
			Priority: j.Priority,
		})
	case SpecCron:
		cs, err := cronParser.Parse(ps.Cron)
		if err != nil {
			return fmt.Errorf("invalid cron spec %q: %w", ps.Cron, err)
		}
		rearming := rearmingAction(sched, j.Name, cs, action, j.Priority, log)
		return sched.AddTask(scheduler.TaskSpec{
			Name:     j.Name,
			Action:   rearming,
			FirstRun: cs.Next(now),
			Mode:     scheduler.OneShot,
			Priority: j.Priority,
		})
	default:
		return fmt.Errorf("unsupported schedule kind")
	}
}

// rearmingAction wraps run so each firing re-registers the next cron
// occurrence. Re-arming happens even when the run fails; a cron job is only
// gone for good when it is removed by name.
func rearmingAction(sched *scheduler.Service, name string, cs cron.Schedule, run scheduler.Action, priority int, log logx.Logger) scheduler.Action {
	var wrapped scheduler.Action
	wrapped = func(ctx context.Context) error {
		defer func() {
			next := cs.Next(time.Now())
			err := sched.AddTask(scheduler.TaskSpec{
				Name:     name,
				Action:   wrapped,
				FirstRun: next,
				Mode:     scheduler.OneShot,
				Priority: priority,
			})
			if err != nil {
				log.Warn("cron job re-arm failed", logx.String("job", name), logx.Any("err", err))
			}
		}()
		return run(ctx)
	}
	return wrapped
}

// CommandAction builds a task action that runs an external command. Output
// is discarded on success and folded into the error on failure.
func CommandAction(argv []string, timeout time.Duration, log logx.Logger) (scheduler.Action, error) {
	if len(argv) == 0 {
		return nil, errors.New("command required")
	}
	name, args := argv[0], argv[1:]
	return func(ctx context.Context) error {
		runCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		out, err := commandOutput(runCtx, name, args)
		if err != nil {
			return fmt.Errorf("command %s: %w (output: %s)", name, err, truncate(out, 500))
		}
		log.Debug("command completed", logx.String("cmd", name), logx.Duration("dur", time.Since(start)))
		return nil
	}, nil
}

func truncate(s string, maxN int) string {
	if len(s) <= maxN {
		return s
	}
	return s[:maxN] + "..."
}
