package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "config.yaml", `
logging:
  level: debug
  console: false
scheduler:
  poll_interval: 250ms
jobs:
  - name: sync
    schedule: 5m
    command: ["rsync", "-a", "/src", "/dst"]
    priority: 1
`)
	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.ConsoleEnabled() {
		t.Fatal("console = true, want false")
	}
	if cfg.Scheduler.PollInterval != "250ms" {
		t.Fatalf("poll_interval = %q, want 250ms", cfg.Scheduler.PollInterval)
	}
	if len(cfg.Jobs) != 1 || cfg.Jobs[0].Name != "sync" || len(cfg.Jobs[0].Command) != 4 {
		t.Fatalf("jobs = %+v, want one 'sync' entry with 4 argv items", cfg.Jobs)
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "config.json",
		`{"logging":{"level":"info"},"scheduler":{"poll_interval":"2s"}}`)
	cfg, err := NewManager(path).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Scheduler.PollInterval != "2s" {
		t.Fatalf("poll_interval = %q, want 2s", cfg.Scheduler.PollInterval)
	}
	if !cfg.Logging.ConsoleEnabled() {
		t.Fatal("console default should be true")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "config.yaml", "schedular:\n  poll_interval: 1s\n")
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("Parse accepted an unknown top-level field")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "config.json", `{"logging":{}}{"logging":{}}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("Parse accepted trailing data")
	}
}

func TestReloadPublishesChangedConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "logging:\n  level: info\n")
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	writeFile(t, dir, "config.yaml", "logging:\n  level: warn\n")
	m.reload(context.Background())

	select {
	case cfg := <-ch:
		if cfg.Logging.Level != "warn" {
			t.Fatalf("published level = %q, want warn", cfg.Logging.Level)
		}
	case <-time.After(time.Second):
		t.Fatal("changed config was not published")
	}
	if m.Get().Logging.Level != "warn" {
		t.Fatalf("Get level = %q, want warn", m.Get().Logging.Level)
	}
}

func TestReloadSuppressesUnchangedConfig(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "config.yaml", "logging:\n  level: info\n")
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	m.reload(context.Background())
	select {
	case <-ch:
		t.Fatal("unchanged config was published")
	default:
	}
}

func TestReloadRespectsValidator(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "logging:\n  level: info\n")
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.SetValidator(func(context.Context, *Config) error {
		return os.ErrInvalid
	})
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	writeFile(t, dir, "config.yaml", "logging:\n  level: warn\n")
	m.reload(context.Background())

	select {
	case <-ch:
		t.Fatal("rejected config was published")
	default:
	}
	if m.Get().Logging.Level != "info" {
		t.Fatalf("Get level = %q, want the original info", m.Get().Logging.Level)
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationField("x", "1m30s")
	if err != nil || d != 90*time.Second {
		t.Fatalf("ParseDurationField = %v, %v; want 1m30s", d, err)
	}
	if d, err := ParseDurationField("x", ""); err != nil || d != 0 {
		t.Fatalf("empty field = %v, %v; want 0, nil", d, err)
	}
	if _, err := ParseDurationField("x", "soon"); err == nil {
		t.Fatal("ParseDurationField accepted garbage")
	}
	if d, err := ParseDurationOrDefault("x", "", time.Second); err != nil || d != time.Second {
		t.Fatalf("ParseDurationOrDefault = %v, %v; want default 1s", d, err)
	}
}
