package workshop

import (
	"testing"
	"time"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestComputeMetricsAverageRepairTime(t *testing.T) {
	t0 := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	done := EquipmentStatus{JobID: "job-1", CurrentStatus: StatusRepairCompleted}
	done.Timestamps.ReceivedAt = ptrTime(t0)
	done.Timestamps.RepairCompletedAt = ptrTime(t0.Add(10 * time.Hour))

	noReceived := EquipmentStatus{JobID: "job-2", CurrentStatus: StatusRepairCompleted}
	noReceived.Timestamps.RepairCompletedAt = ptrTime(t0.Add(time.Hour))

	waiting := EquipmentStatus{JobID: "job-3", CurrentStatus: StatusPendingIntake}

	got := ComputeMetrics(MetricsInput{
		Range:        DateRange{From: t0, To: t0},
		WindowJobIDs: []string{"job-1", "job-2", "job-3", "job-1"},
		Statuses: map[string]EquipmentStatus{
			"job-1": done,
			"job-2": noReceived,
			"job-3": waiting,
		},
		Jobs: map[string]Job{
			"job-1": {JobID: "job-1", EstimatedCompletionDate: ptrTime(t0.Add(12 * time.Hour))},
			"job-2": {JobID: "job-2", EstimatedCompletionDate: ptrTime(t0)},
		},
		ActiveTotal:        2,
		MaxConcurrentJobs:  8,
		ActiveByTechnician: map[string]int64{"tech-b": 1, "tech-a": 1, "tech-c": 2},
		TechnicianNames:    map[string]string{"tech-a": "Ana", "tech-b": "Bo"},
	})

	if got.TotalJobs != 3 {
		t.Fatalf("TotalJobs = %d, want 3", got.TotalJobs)
	}
	if got.AverageRepairTimeHours != 10.0 {
		t.Fatalf("AverageRepairTimeHours = %v, want 10", got.AverageRepairTimeHours)
	}
	if got.CompletedJobs != 2 {
		t.Fatalf("CompletedJobs = %d, want 2", got.CompletedJobs)
	}
	if got.OnTimeCompletionRate != 50 {
		t.Fatalf("OnTimeCompletionRate = %v, want 50", got.OnTimeCompletionRate)
	}
	if got.CurrentCapacityUtilization != 25 {
		t.Fatalf("CurrentCapacityUtilization = %v, want 25", got.CurrentCapacityUtilization)
	}
	if len(got.JobsByStatus) != 8 || got.JobsByStatus[StatusReturned] != 0 || got.JobsByStatus[StatusRepairCompleted] != 2 {
		t.Fatalf("JobsByStatus = %v", got.JobsByStatus)
	}
	if len(got.JobsPerTechnician) != 3 {
		t.Fatalf("JobsPerTechnician = %+v", got.JobsPerTechnician)
	}
	first, second, third := got.JobsPerTechnician[0], got.JobsPerTechnician[1], got.JobsPerTechnician[2]
	if first.TechnicianID != "tech-c" || first.Name != "tech-c" || second.Name != "Ana" || third.Name != "Bo" {
		t.Fatalf("JobsPerTechnician order = %+v", got.JobsPerTechnician)
	}
}

func TestComputeMetricsExcludesCompletionsOutsideWindow(t *testing.T) {
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	st := EquipmentStatus{JobID: "job-1", CurrentStatus: StatusReturned}
	st.Timestamps.ReceivedAt = ptrTime(day.Add(-48 * time.Hour))
	st.Timestamps.RepairCompletedAt = ptrTime(day.Add(-24 * time.Hour))

	got := ComputeMetrics(MetricsInput{
		Range:        DateRange{From: day, To: day},
		WindowJobIDs: []string{"job-1"},
		Statuses:     map[string]EquipmentStatus{"job-1": st},
	})
	if got.CompletedJobs != 0 || got.AverageRepairTimeHours != 0 {
		t.Fatalf("metrics = %+v, want no completions", got)
	}
	if got.JobsByStatus[StatusReturned] != 1 {
		t.Fatalf("JobsByStatus[returned] = %d", got.JobsByStatus[StatusReturned])
	}
}

func TestDateRangeBoundsAreInclusiveDays(t *testing.T) {
	r := DateRange{
		From: time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
	}
	if !r.Contains(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Contains(start of from day) = false")
	}
	if !r.Contains(time.Date(2026, 4, 3, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("Contains(end of to day) = false")
	}
	if r.Contains(time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Contains(next day) = true")
	}
	if err := (DateRange{From: r.To, To: r.From}).Validate(); err == nil {
		t.Fatalf("Validate(reversed) expected error")
	}
}
