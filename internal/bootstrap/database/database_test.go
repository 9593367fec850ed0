package database

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"workshopd/internal/bootstrap/config"
)

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "state", "workshop.sqlite")

	db, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	defer sqlDB.Close()

	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("MaxOpenConnections = %d, want 1", got)
	}
	if _, err := os.Stat(filepath.Dir(dsn)); err != nil {
		t.Fatalf("sqlite directory not created: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("Open(oracle) expected error")
	}
}

func TestParseLogLevel(t *testing.T) {
	if got := parseLogLevel("silent"); got != gormlogger.Silent {
		t.Fatalf("parseLogLevel(silent) = %v", got)
	}
	if got := parseLogLevel("INFO"); got != gormlogger.Info {
		t.Fatalf("parseLogLevel(INFO) = %v", got)
	}
	if got := parseLogLevel(""); got != gormlogger.Warn {
		t.Fatalf("parseLogLevel(\"\") = %v", got)
	}
}

type lookupRow struct {
	ID   uint
	Name string
}

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	dsn := filepath.Join(t.TempDir(), "log.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{Logger: newGormLogger("warn", &buf)})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	defer sqlDB.Close()
	if err := db.AutoMigrate(&lookupRow{}); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	var row lookupRow
	if err := db.Where("name = ?", "missing").Take(&row).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Take(missing) error = %v, want ErrRecordNotFound", err)
	}
	if strings.Contains(buf.String(), "record not found") {
		t.Fatalf("logger wrote lookup miss: %s", buf.String())
	}

	if err := db.Table("no_such_table").Take(&row).Error; err == nil {
		t.Fatalf("Take(no_such_table) error = nil")
	}
	if !strings.Contains(buf.String(), "no_such_table") {
		t.Fatalf("logger did not write driver error, got %q", buf.String())
	}
}
