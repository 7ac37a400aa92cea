// Package app wires the daemon together: config, logging, event bus,
// history journal, failure notifier, and the scheduler itself.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tickd/internal/config"
	"tickd/internal/eventbus"
	"tickd/internal/history"
	"tickd/internal/jobs"
	"tickd/internal/notifier"
	"tickd/internal/runtime/supervisor"
	"tickd/internal/scheduler"
	logx "tickd/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	bus   eventbus.Bus
	store history.Store
	rec   *history.Recorder
	notif *notifier.Service
	sched *scheduler.Service

	sup   *supervisor.Supervisor
	cfgCh chan *config.Config
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	logSvc, log := logx.New(loggingConfig(cfg))
	mgr.SetLogger(log.With(logx.String("component", "config")))

	bus := eventbus.New()
	notif := notifier.New(notifierConfig(cfg), log.With(logx.String("component", "notifier")))

	schedCfg, err := schedulerConfig(cfg)
	if err != nil {
		return nil, err
	}
	sched := scheduler.New(schedCfg, notif, log.With(logx.String("component", "scheduler")), bus)

	histCfg, err := historyConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := history.Open(histCfg, log.With(logx.String("component", "history")))
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	rec := history.NewRecorder(store, bus, log.With(logx.String("component", "history")))

	return &App{
		cfgMgr: mgr,
		logSvc: logSvc,
		log:    log,
		bus:    bus,
		store:  store,
		rec:    rec,
		notif:  notif,
		sched:  sched,
	}, nil
}

// Scheduler exposes the scheduler service for programmatic task
// registration alongside config-declared jobs.
func (a *App) Scheduler() *scheduler.Service { return a.sched }

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, a.log)

	a.rec.Start(a.sup.Context())
	a.sched.Start(a.sup.Context())

	if err := a.registerJobs(a.cfgMgr.Get()); err != nil {
		return err
	}

	a.cfgMgr.SetValidator(func(_ context.Context, cfg *config.Config) error {
		return validate(cfg)
	})
	a.cfgCh = a.cfgMgr.Subscribe(4)
	a.sup.GoRestart("config.watch", a.cfgMgr.Watch)
	a.sup.Go("config.apply", a.applyLoop)

	a.log.Info("daemon started", logx.Int("jobs", len(a.cfgMgr.Get().Jobs)))
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	a.sched.Stop(ctx)
	_ = a.sched.WaitIdle(ctx)
	if a.sup != nil {
		_ = a.sup.Stop(ctx)
	}
	a.rec.Stop(ctx)
	_ = a.store.Close()
	a.log.Info("daemon stopped")
	_ = a.logSvc.Close()
	return nil
}

func (a *App) applyLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg, ok := <-a.cfgCh:
			if !ok {
				return nil
			}
			a.apply(cfg)
		}
	}
}

// apply fans a reloaded config out to the running services. Job entries
// apply at startup only; changing them requires a restart.
func (a *App) apply(cfg *config.Config) {
	a.logSvc.Apply(loggingConfig(cfg))
	a.notif.Apply(notifierConfig(cfg))
	if sc, err := schedulerConfig(cfg); err == nil {
		a.sched.Apply(sc)
	}
	a.log.Info("config applied")
}

func (a *App) registerJobs(cfg *config.Config) error {
	list, err := configJobs(cfg)
	if err != nil {
		return err
	}
	return jobs.Register(a.sched, list, a.log.With(logx.String("component", "jobs")))
}

// ---- config mapping ----

func loggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func notifierConfig(cfg *config.Config) notifier.Config {
	return notifier.Config{
		RatePerSec:  cfg.Notifier.RatePerSec,
		HistorySize: cfg.Notifier.HistorySize,
	}
}

func schedulerConfig(cfg *config.Config) (scheduler.Config, error) {
	poll, err := config.ParseDurationOrDefault("scheduler.poll_interval", cfg.Scheduler.PollInterval, time.Second)
	if err != nil {
		return scheduler.Config{}, err
	}
	return scheduler.Config{PollInterval: poll}, nil
}

func historyConfig(cfg *config.Config) (history.Config, error) {
	busy, err := config.ParseDurationField("history.busy_timeout", cfg.History.BusyTimeout)
	if err != nil {
		return history.Config{}, err
	}
	return history.Config{
		Driver:      cfg.History.Driver,
		Path:        cfg.History.Path,
		BusyTimeout: busy,
	}, nil
}

func configJobs(cfg *config.Config) ([]jobs.Job, error) {
	out := make([]jobs.Job, 0, len(cfg.Jobs))
	for _, j := range cfg.Jobs {
		timeout, err := config.ParseDurationField(fmt.Sprintf("jobs[%s].timeout", j.Name), j.Timeout)
		if err != nil {
			return nil, err
		}
		out = append(out, jobs.Job{
			Name:     j.Name,
			Schedule: j.Schedule,
			Command:  j.Command,
			Priority: j.Priority,
			Timeout:  timeout,
		})
	}
	return out, nil
}

// validate rejects configs that could not be applied, so a bad hot-reload
// never reaches the running services.
func validate(cfg *config.Config) error {
	if _, err := schedulerConfig(cfg); err != nil {
		return err
	}
	if _, err := historyConfig(cfg); err != nil {
		return err
	}
	if _, err := configJobs(cfg); err != nil {
		return err
	}
	for _, j := range cfg.Jobs {
		if strings.TrimSpace(j.Name) == "" {
			return fmt.Errorf("jobs: name required")
		}
		if len(j.Command) == 0 {
			return fmt.Errorf("job %q: command required", j.Name)
		}
		if _, err := jobs.ParseSchedule(j.Schedule); err != nil {
			return fmt.Errorf("job %q: %w", j.Name, err)
		}
	}
	return nil
}
