package workshop

import (
	"context"
	"errors"
	"testing"

	domain "workshopd/internal/domain/workshop"
)

func TestReleaseJobReturnsJobToQueue(t *testing.T) {
	h := setupHarness(t, Options{})
	ctx := context.Background()
	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)

	if _, err := h.svc.ClaimJob(ctx, ClaimInput{JobID: "job-1", TechnicianID: "tech-1"}); err != nil {
		t.Fatalf("ClaimJob() error = %v", err)
	}
	if queue, _ := h.svc.ListQueue(ctx, QueueFilter{}); len(queue) != 0 {
		t.Fatalf("queue after claim = %v, want empty", queueIDs(queue))
	}

	job, err := h.svc.ReleaseJob(ctx, ReleaseInput{JobID: "job-1", Actor: "lead", Notes: "reassign"})
	if err != nil {
		t.Fatalf("ReleaseJob() error = %v", err)
	}
	if job.Claimed() {
		t.Fatalf("ReleaseJob() left technician %q", job.TechnicianID)
	}

	queue, err := h.svc.ListQueue(ctx, QueueFilter{})
	if err != nil {
		t.Fatalf("ListQueue() error = %v", err)
	}
	if len(queue) != 1 || queue[0].Status != domain.StatusInRepair {
		t.Fatalf("queue after release = %+v", queue)
	}

	if _, err := h.svc.ClaimJob(ctx, ClaimInput{JobID: "job-1", TechnicianID: "tech-2"}); err != nil {
		t.Fatalf("ClaimJob(after release) error = %v", err)
	}
	if got := len(h.history(t, "job-1")); got != 2 {
		t.Fatalf("history len = %d, want 2", got)
	}
}

func TestReleaseJobValidates(t *testing.T) {
	h := setupHarness(t, Options{})
	ctx := context.Background()
	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)

	if _, err := h.svc.ReleaseJob(ctx, ReleaseInput{JobID: "job-1", Actor: "lead"}); !errors.Is(err, domain.ErrNotClaimed) {
		t.Fatalf("ReleaseJob(unclaimed) error = %v, want ErrNotClaimed", err)
	}
	if _, err := h.svc.ReleaseJob(ctx, ReleaseInput{JobID: "job-1"}); err == nil {
		t.Fatalf("ReleaseJob(no actor) expected error")
	}
	if _, err := h.svc.ReleaseJob(ctx, ReleaseInput{JobID: "missing", Actor: "lead"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ReleaseJob(missing) error = %v, want ErrNotFound", err)
	}
}
