package system

import (
	"context"
	"errors"
	"testing"

	"github.com/authguard/internal/logger"
)

type fakeCounter struct {
	n   int
	err error
}

func (f fakeCounter) CountUsers(context.Context) (int, error) {
	return f.n, f.err
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{}, logger.WithBackend(logger.BackendFunc(func(logger.Level, logger.Properties, string) {})))
}

func TestCollector_GetSystemStats(t *testing.T) {
	dir := t.TempDir()
	collector := NewCollector(dir, fakeCounter{n: 3}, quietLogger())

	stats, err := collector.GetSystemStats(context.Background())
	if err != nil {
		t.Fatalf("GetSystemStats() error = %v", err)
	}

	if stats.Accounts != 3 {
		t.Errorf("Accounts = %d, want 3", stats.Accounts)
	}
	if stats.CPU.Cores < 1 {
		t.Errorf("CPU.Cores = %d, want >= 1", stats.CPU.Cores)
	}
	if stats.Disk.Path != dir {
		t.Errorf("Disk.Path = %q, want %q", stats.Disk.Path, dir)
	}
	if stats.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestCollector_MissingDiskPathIsNotFatal(t *testing.T) {
	collector := NewCollector("/nonexistent/authguard/data", nil, quietLogger())

	stats, err := collector.GetSystemStats(context.Background())
	if err != nil {
		t.Fatalf("GetSystemStats() error = %v", err)
	}
	if stats.Disk.Total != 0 {
		t.Errorf("Disk.Total = %d, want 0 for a missing path", stats.Disk.Total)
	}
	if stats.Accounts != 0 {
		t.Errorf("Accounts = %d, want 0 without a counter", stats.Accounts)
	}
}

func TestCollector_CountError(t *testing.T) {
	boom := errors.New("db closed")
	collector := NewCollector(t.TempDir(), fakeCounter{err: boom}, quietLogger())

	if _, err := collector.GetSystemStats(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("GetSystemStats() error = %v, want %v", err, boom)
	}
}
