package config

// Config is the daemon configuration. Files may be YAML or JSON; unknown
// fields are rejected.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Logging   LoggingConfig   `json:"logging"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Notifier  NotifierConfig  `json:"notifier,omitempty"`
	History   HistoryConfig   `json:"history,omitempty"`
	Jobs      []JobConfig     `json:"jobs,omitempty"`
}

type LoggingConfig struct {
	Level   string        `json:"level,omitempty"`
	Console *bool         `json:"console,omitempty"` // nil defaults to true
	File    LogFileConfig `json:"file,omitempty"`
}

type LogFileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// SchedulerConfig controls the tick loop.
type SchedulerConfig struct {
	// PollInterval is the sleep between ticks. Default "1s".
	PollInterval string `json:"poll_interval,omitempty"`
}

// NotifierConfig controls failure reporting.
type NotifierConfig struct {
	// RatePerSec caps failure log lines per second. Default 5.
	RatePerSec int `json:"rate_per_sec,omitempty"`
	// HistorySize bounds the in-memory ring of recent failures. Default 100.
	HistorySize int `json:"history_size,omitempty"`
}

// HistoryConfig controls the execution journal.
//
// Driver values:
//   - "sqlite": SQLite database file
//   - "" or "none": journaling disabled
type HistoryConfig struct {
	Driver      string `json:"driver,omitempty"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// JobConfig declares one scheduled job.
//
// Schedule accepts cron expressions (5/6-field, "@hourly", "@every 55m"),
// Go durations ("55m"), and HH:MM interval shorthand ("02:30").
type JobConfig struct {
	Name     string   `json:"name"`
	Schedule string   `json:"schedule"`
	Command  []string `json:"command"`
	Priority int      `json:"priority,omitempty"`
	Timeout  string   `json:"timeout,omitempty"`
}

// ConsoleEnabled resolves the console flag default (on).
func (l LoggingConfig) ConsoleEnabled() bool {
	if l.Console == nil {
		return true
	}
	return *l.Console
}
