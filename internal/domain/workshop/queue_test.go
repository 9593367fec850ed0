package workshop

import (
	"slices"
	"testing"
	"time"
)

func candidate(jobID string, priority Priority, status Status, intake time.Time, technician string) QueueCandidate {
	return QueueCandidate{
		Status: EquipmentStatus{JobID: jobID, CurrentStatus: status, CreatedAt: intake},
		Job:    Job{JobID: jobID, Priority: priority, TechnicianID: technician},
	}
}

func TestRankQueueOrdering(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	candidates := []QueueCandidate{
		candidate("low-old", PriorityLow, StatusReceived, now.Add(-10*24*time.Hour), ""),
		candidate("urgent-new", PriorityUrgent, StatusPendingIntake, now.Add(-time.Hour), ""),
		candidate("high-2d", PriorityHigh, StatusReceived, now.Add(-36*time.Hour), ""),
		candidate("high-5d", PriorityHigh, StatusReceived, now.Add(-5*24*time.Hour), ""),
		candidate("high-2d-earlier", PriorityHigh, StatusReceived, now.Add(-47*time.Hour), ""),
		candidate("claimed", PriorityUrgent, StatusReceived, now.Add(-9*24*time.Hour), "tech-1"),
		candidate("returned", PriorityUrgent, StatusReturned, now.Add(-9*24*time.Hour), ""),
	}

	got := slices.Collect(RankQueue(candidates, now))
	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.JobID)
	}

	want := []string{"urgent-new", "high-5d", "high-2d-earlier", "high-2d", "low-old"}
	if !slices.Equal(ids, want) {
		t.Fatalf("RankQueue() = %v, want %v", ids, want)
	}
	if got[0].DaysWaiting != 1 {
		t.Fatalf("DaysWaiting(urgent-new) = %d, want 1", got[0].DaysWaiting)
	}
}

func TestDaysWaitingRoundsUp(t *testing.T) {
	intake := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{time.Minute, 1},
		{24 * time.Hour, 1},
		{24*time.Hour + time.Second, 2},
		{-time.Hour, 0},
	}
	for _, tc := range cases {
		if got := DaysWaiting(intake, intake.Add(tc.elapsed)); got != tc.want {
			t.Fatalf("DaysWaiting(+%v) = %d, want %d", tc.elapsed, got, tc.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	if err != nil || p != PriorityMedium {
		t.Fatalf("ParsePriority(empty) = %q, %v", p, err)
	}
	if _, err := ParsePriority("asap"); err == nil {
		t.Fatalf("ParsePriority(asap) expected error")
	}
}
