package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(context.Background(), filepath.Join("configs", "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Workshop.CompanyID != "default" {
		t.Fatalf("Load() = %+v", cfg)
	}
	if cfg.Workshop.LockTimeout != 2*time.Second || cfg.Workshop.HistoryCacheTTL != 5*time.Minute {
		t.Fatalf("durations = %v / %v", cfg.Workshop.LockTimeout, cfg.Workshop.HistoryCacheTTL)
	}
	if cfg.Notify.Driver != "log" || cfg.HTTP.Addr != ":8080" {
		t.Fatalf("notify/http = %+v / %+v", cfg.Notify, cfg.HTTP)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
database:
  driver: sqlite
  dsn: data/ws.sqlite
workshop:
  company_id: acme
  busy_retries: 5
  lock_timeout: 500ms
notify:
  driver: nats
  url: nats://127.0.0.1:4222
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WS_WORKSHOP_COMPANY_ID", "globex")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workshop.CompanyID != "globex" {
		t.Fatalf("company_id = %q, want env override globex", cfg.Workshop.CompanyID)
	}
	if cfg.Workshop.BusyRetries != 5 || cfg.Workshop.LockTimeout != 500*time.Millisecond {
		t.Fatalf("workshop = %+v", cfg.Workshop)
	}
	if cfg.Notify.Driver != "nats" || cfg.Database.DSN != "data/ws.sqlite" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestValidateRejectsUnknownDrivers(t *testing.T) {
	base := Config{
		Database: DatabaseConfig{Driver: "sqlite", DSN: "x.sqlite"},
		Workshop: WorkshopConfig{CompanyID: "acme"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	bad := base
	bad.Database.Driver = "oracle"
	if err := bad.Validate(); err == nil {
		t.Fatalf("Validate(oracle) expected error")
	}

	bad = base
	bad.Notify.Driver = "kafka"
	if err := bad.Validate(); err == nil {
		t.Fatalf("Validate(kafka) expected error")
	}
}
