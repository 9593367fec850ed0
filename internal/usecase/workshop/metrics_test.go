package workshop

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/ports"
)

func TestGetMetricsAverageRepairTime(t *testing.T) {
	h := setupHarness(t, Options{})
	ctx := context.Background()

	if err := h.svc.RegisterTechnician(ctx, "tech-1", "Ana"); err != nil {
		t.Fatalf("RegisterTechnician() error = %v", err)
	}
	eta := baseTime.Add(12 * time.Hour)
	if _, err := h.svc.RegisterJob(ctx, RegisterJobInput{
		JobID:                   "job-1",
		Title:                   "Pump",
		Priority:                "high",
		EstimatedCompletionDate: &eta,
	}); err != nil {
		t.Fatalf("RegisterJob() error = %v", err)
	}

	h.intake(t, "job-1", domain.StatusReceived)
	h.clock.Advance(time.Hour)
	if _, err := h.svc.ClaimJob(ctx, ClaimInput{JobID: "job-1", TechnicianID: "tech-1"}); err != nil {
		t.Fatalf("ClaimJob() error = %v", err)
	}
	h.clock.Advance(9 * time.Hour)
	h.move(t, "job-1", domain.StatusRepairCompleted)

	h.registerJob(t, "job-2", domain.PriorityLow)
	h.intake(t, "job-2", domain.StatusPendingIntake)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	metrics, err := h.svc.GetMetrics(ctx, domain.DateRange{From: day, To: day})
	if err != nil {
		t.Fatalf("GetMetrics() error = %v", err)
	}

	if math.Abs(metrics.AverageRepairTimeHours-10.0) > 1e-9 {
		t.Fatalf("average_repair_time_hours = %v, want 10.0", metrics.AverageRepairTimeHours)
	}
	if metrics.TotalJobs != 2 || metrics.CompletedJobs != 1 {
		t.Fatalf("total=%d completed=%d, want 2 and 1", metrics.TotalJobs, metrics.CompletedJobs)
	}
	if metrics.OnTimeCompletionRate != 100 {
		t.Fatalf("on_time_completion_rate = %v, want 100", metrics.OnTimeCompletionRate)
	}
	if metrics.JobsByStatus[domain.StatusRepairCompleted] != 1 || metrics.JobsByStatus[domain.StatusPendingIntake] != 1 {
		t.Fatalf("jobs_by_status = %v", metrics.JobsByStatus)
	}
	if len(metrics.JobsByStatus) != len(domain.AllStatuses()) {
		t.Fatalf("jobs_by_status has %d keys, want all statuses", len(metrics.JobsByStatus))
	}
	if metrics.ActiveJobs != 1 || metrics.CurrentCapacityUtilization != 5 {
		t.Fatalf("active=%d utilization=%v, want 1 and 5", metrics.ActiveJobs, metrics.CurrentCapacityUtilization)
	}
	if len(metrics.JobsPerTechnician) != 1 || metrics.JobsPerTechnician[0].Name != "Ana" || metrics.JobsPerTechnician[0].ActiveJobs != 1 {
		t.Fatalf("jobs_per_technician = %+v", metrics.JobsPerTechnician)
	}

	nextDay := day.AddDate(0, 0, 1)
	empty, err := h.svc.GetMetrics(ctx, domain.DateRange{From: nextDay, To: nextDay})
	if err != nil {
		t.Fatalf("GetMetrics(next day) error = %v", err)
	}
	if empty.TotalJobs != 0 || empty.AverageRepairTimeHours != 0 {
		t.Fatalf("GetMetrics(next day) = %+v", empty)
	}
}

func TestGetMetricsRejectsInvertedRange(t *testing.T) {
	h := setupHarness(t, Options{})

	_, err := h.svc.GetMetrics(context.Background(), domain.DateRange{From: baseTime, To: baseTime.AddDate(0, 0, -2)})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("GetMetrics(inverted) error = %v, want ErrInvalidInput", err)
	}
}

type countingUoW struct {
	ports.UnitOfWork
	mu    sync.Mutex
	calls int
}

func (u *countingUoW) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	return u.UnitOfWork.WithTx(ctx, fn)
}

// txCheckingStatuses records reads that ran outside a transaction.
type txCheckingStatuses struct {
	ports.StatusRepository
	mu      sync.Mutex
	outside []string
}

func (r *txCheckingStatuses) note(ctx context.Context, op string) {
	if ports.InTx(ctx) {
		return
	}
	r.mu.Lock()
	r.outside = append(r.outside, op)
	r.mu.Unlock()
}

func (r *txCheckingStatuses) ListHistoryBetween(ctx context.Context, companyID string, from time.Time, to time.Time) ([]domain.HistoryEntry, error) {
	r.note(ctx, "ListHistoryBetween")
	return r.StatusRepository.ListHistoryBetween(ctx, companyID, from, to)
}

func (r *txCheckingStatuses) ListStatuses(ctx context.Context, filter ports.StatusFilter) ([]domain.EquipmentStatus, error) {
	r.note(ctx, "ListStatuses")
	return r.StatusRepository.ListStatuses(ctx, filter)
}

func (r *txCheckingStatuses) CountActive(ctx context.Context, filter ports.ActiveCountFilter) (int64, error) {
	r.note(ctx, "CountActive")
	return r.StatusRepository.CountActive(ctx, filter)
}

func (r *txCheckingStatuses) CountActiveByTechnician(ctx context.Context, companyID string) (map[string]int64, error) {
	r.note(ctx, "CountActiveByTechnician")
	return r.StatusRepository.CountActiveByTechnician(ctx, companyID)
}

func TestGetMetricsReadsOneSnapshot(t *testing.T) {
	h := setupHarness(t, Options{})
	ctx := context.Background()

	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)
	if _, err := h.svc.ClaimJob(ctx, ClaimInput{JobID: "job-1", TechnicianID: "tech-1"}); err != nil {
		t.Fatalf("ClaimJob() error = %v", err)
	}

	uow := &countingUoW{UnitOfWork: h.svc.uow}
	statuses := &txCheckingStatuses{StatusRepository: h.svc.statuses}
	h.svc.uow = uow
	h.svc.statuses = statuses

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	metrics, err := h.svc.GetMetrics(ctx, domain.DateRange{From: day, To: day})
	if err != nil {
		t.Fatalf("GetMetrics() error = %v", err)
	}
	if metrics.TotalJobs != 1 || metrics.ActiveJobs != 1 {
		t.Fatalf("total=%d active=%d, want 1 and 1", metrics.TotalJobs, metrics.ActiveJobs)
	}
	if uow.calls != 1 {
		t.Fatalf("WithTx calls = %d, want 1", uow.calls)
	}
	if len(statuses.outside) != 0 {
		t.Fatalf("reads outside the transaction: %v", statuses.outside)
	}
}
