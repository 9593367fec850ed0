package workshop

import (
	"testing"
	"time"
)

func TestAdvanceKeepsFirstReachedTimestamp(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	status := EquipmentStatus{JobID: "job-1", CurrentStatus: StatusReceived, CreatedAt: t0, UpdatedAt: t0}
	status.Timestamps.MarkReached(StatusReceived, t0)

	status = status.Advance(StatusInRepair, t0.Add(time.Hour))
	status = status.Advance(StatusReceived, t0.Add(2*time.Hour))
	status = status.Advance(StatusInRepair, t0.Add(3*time.Hour))

	if status.CurrentStatus != StatusInRepair {
		t.Fatalf("CurrentStatus = %s", status.CurrentStatus)
	}
	if got := status.Timestamps.ReachedAt(StatusInRepair); got == nil || !got.Equal(t0.Add(time.Hour)) {
		t.Fatalf("in_repair_at = %v, want %v", got, t0.Add(time.Hour))
	}
	if got := status.Timestamps.ReachedAt(StatusReceived); got == nil || !got.Equal(t0) {
		t.Fatalf("received_at = %v, want %v", got, t0)
	}
	if status.Version != 3 {
		t.Fatalf("Version = %d, want 3", status.Version)
	}
}

func TestNextChangeTimeIsStrictlyIncreasing(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	status := EquipmentStatus{UpdatedAt: t0}

	if got := status.NextChangeTime(t0); !got.After(t0) {
		t.Fatalf("NextChangeTime(same) = %v, want after %v", got, t0)
	}
	later := t0.Add(time.Minute)
	if got := status.NextChangeTime(later); !got.Equal(later) {
		t.Fatalf("NextChangeTime(later) = %v, want %v", got, later)
	}
}
