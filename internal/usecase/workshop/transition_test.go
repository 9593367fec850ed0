package workshop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	domain "workshopd/internal/domain/workshop"
)

// pathTo lists the moves that bring fresh equipment to target, starting from the intake status.
func pathTo(target domain.Status) (domain.Status, []domain.Status) {
	switch target {
	case domain.StatusPendingIntake:
		return domain.StatusPendingIntake, nil
	case domain.StatusInTransit:
		return domain.StatusPendingIntake, []domain.Status{domain.StatusInTransit}
	case domain.StatusReceived:
		return domain.StatusReceived, nil
	case domain.StatusInRepair:
		return domain.StatusReceived, []domain.Status{domain.StatusInRepair}
	case domain.StatusRepairCompleted:
		return domain.StatusReceived, []domain.Status{domain.StatusInRepair, domain.StatusRepairCompleted}
	case domain.StatusReadyForPickup:
		return domain.StatusReceived, []domain.Status{domain.StatusInRepair, domain.StatusRepairCompleted, domain.StatusReadyForPickup}
	case domain.StatusOutForDelivery:
		return domain.StatusReceived, []domain.Status{domain.StatusInRepair, domain.StatusRepairCompleted, domain.StatusOutForDelivery}
	default:
		return domain.StatusReceived, []domain.Status{domain.StatusInRepair, domain.StatusRepairCompleted, domain.StatusReadyForPickup, domain.StatusReturned}
	}
}

func TestRecordTransitionRejectsSkippingRepair(t *testing.T) {
	h := setupHarness(t, Options{})
	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)

	_, err := h.svc.RecordTransition(context.Background(), TransitionInput{
		JobID:    "job-1",
		ToStatus: domain.StatusReadyForPickup,
		Actor:    "tech-1",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("RecordTransition(received -> ready_for_pickup) error = %v, want ErrInvalidTransition", err)
	}

	var te *domain.TransitionError
	if !errors.As(err, &te) || te.From != domain.StatusReceived || te.To != domain.StatusReadyForPickup {
		t.Fatalf("TransitionError = %+v", te)
	}
	if got := len(h.history(t, "job-1")); got != 1 {
		t.Fatalf("history len = %d, want 1", got)
	}
}

func TestRecordTransitionReworkLoop(t *testing.T) {
	h := setupHarness(t, Options{})
	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)

	h.clock.Advance(time.Hour)
	first := h.move(t, "job-1", domain.StatusInRepair)
	firstInRepair := *first.Timestamps.InRepairAt

	h.clock.Advance(time.Hour)
	h.move(t, "job-1", domain.StatusReceived)
	h.clock.Advance(time.Hour)
	h.move(t, "job-1", domain.StatusInRepair)
	h.clock.Advance(time.Hour)
	final := h.move(t, "job-1", domain.StatusRepairCompleted)

	if final.CurrentStatus != domain.StatusRepairCompleted {
		t.Fatalf("current_status = %s", final.CurrentStatus)
	}
	if !final.Timestamps.InRepairAt.Equal(firstInRepair) {
		t.Fatalf("in_repair_at = %v, want first entry %v", final.Timestamps.InRepairAt, firstInRepair)
	}
	if !final.Timestamps.ReceivedAt.Equal(baseTime) {
		t.Fatalf("received_at = %v, want %v", final.Timestamps.ReceivedAt, baseTime)
	}

	history := h.history(t, "job-1")
	if len(history) != 5 {
		t.Fatalf("history len = %d, want 5", len(history))
	}
	want := []domain.Status{
		domain.StatusReceived,
		domain.StatusInRepair,
		domain.StatusReceived,
		domain.StatusInRepair,
		domain.StatusRepairCompleted,
	}
	for i, entry := range history {
		if entry.ToStatus != want[i] {
			t.Fatalf("history[%d].to_status = %s, want %s", i, entry.ToStatus, want[i])
		}
		if i > 0 && entry.FromStatus != want[i-1] {
			t.Fatalf("history[%d].from_status = %s, want %s", i, entry.FromStatus, want[i-1])
		}
	}

	stored, err := h.svc.GetStatus(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if stored.CurrentStatus != history[len(history)-1].ToStatus {
		t.Fatalf("current_status %s != last history to_status %s", stored.CurrentStatus, history[len(history)-1].ToStatus)
	}
	if stored.Version != 5 {
		t.Fatalf("version = %d, want 5", stored.Version)
	}
}

func TestRecordTransitionRejectsEveryPairOutsideTable(t *testing.T) {
	h := setupHarness(t, Options{})
	ctx := context.Background()

	for _, from := range domain.AllStatuses() {
		jobID := "job-" + string(from)
		h.registerJob(t, jobID, domain.PriorityLow)
		initial, moves := pathTo(from)
		h.intake(t, jobID, initial)
		for _, to := range moves {
			h.move(t, jobID, to)
		}
		before := len(h.history(t, jobID))

		for _, to := range domain.AllStatuses() {
			if domain.CanTransition(from, to) {
				continue
			}
			_, err := h.svc.RecordTransition(ctx, TransitionInput{JobID: jobID, ToStatus: to, Actor: "tech-1"})
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("RecordTransition(%s -> %s) error = %v, want ErrInvalidTransition", from, to, err)
			}
		}

		history := h.history(t, jobID)
		if len(history) != before {
			t.Fatalf("%s: history len = %d after rejected moves, want %d", from, len(history), before)
		}
		status, err := h.svc.GetStatus(ctx, jobID)
		if err != nil {
			t.Fatalf("GetStatus(%s) error = %v", jobID, err)
		}
		if status.CurrentStatus != from || history[len(history)-1].ToStatus != from {
			t.Fatalf("%s: current_status = %s, last history = %s", from, status.CurrentStatus, history[len(history)-1].ToStatus)
		}
	}
}

func TestRecordTransitionRequiresIntake(t *testing.T) {
	h := setupHarness(t, Options{})
	h.registerJob(t, "job-1", domain.PriorityHigh)

	_, err := h.svc.RecordTransition(context.Background(), TransitionInput{JobID: "job-1", ToStatus: domain.StatusReceived, Actor: "clerk"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("RecordTransition(no status) error = %v, want ErrNotFound", err)
	}
	if _, err := h.svc.GetHistory(context.Background(), "job-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetHistory(no status) error = %v, want ErrNotFound", err)
	}
}

func TestRecordTransitionKeepsHistoryStrictlyOrdered(t *testing.T) {
	h := setupHarness(t, Options{})
	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)

	// The clock does not advance between moves.
	h.move(t, "job-1", domain.StatusInRepair)
	h.move(t, "job-1", domain.StatusRepairCompleted)

	history := h.history(t, "job-1")
	for i := 1; i < len(history); i++ {
		if !history[i].ChangedAt.After(history[i-1].ChangedAt) {
			t.Fatalf("history[%d].changed_at %v not after %v", i, history[i].ChangedAt, history[i-1].ChangedAt)
		}
	}
}

func TestConcurrentTransitionsAreLinearizable(t *testing.T) {
	h := setupHarness(t, Options{})
	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		invalid int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.svc.RecordTransition(context.Background(), TransitionInput{
				JobID:    "job-1",
				ToStatus: domain.StatusInRepair,
				Actor:    fmt.Sprintf("tech-%d", i),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, domain.ErrInvalidTransition):
				invalid++
			default:
				t.Errorf("RecordTransition() unexpected error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if success != 1 || invalid != workers-1 {
		t.Fatalf("success=%d invalid=%d, want 1 and %d", success, invalid, workers-1)
	}
	if got := len(h.history(t, "job-1")); got != 2 {
		t.Fatalf("history len = %d, want 2", got)
	}
}

func TestGetHistoryIsIdempotentAndCached(t *testing.T) {
	h := setupHarness(t, Options{})
	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)
	h.clock.Advance(time.Minute)
	h.move(t, "job-1", domain.StatusInRepair)

	first := h.history(t, "job-1")
	second := h.history(t, "job-1")
	if len(first) != len(second) {
		t.Fatalf("history lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID != b.ID || a.Seq != b.Seq || a.FromStatus != b.FromStatus || a.ToStatus != b.ToStatus ||
			!a.ChangedAt.Equal(b.ChangedAt) || a.ChangedBy != b.ChangedBy || a.Notes != b.Notes {
			t.Fatalf("history[%d] differs: %+v vs %+v", i, a, b)
		}
	}

	if _, found, _ := h.cache.Get(context.Background(), h.svc.historyCacheKey("job-1")); !found {
		t.Fatalf("history not cached after read")
	}

	h.move(t, "job-1", domain.StatusRepairCompleted)
	if _, found, _ := h.cache.Get(context.Background(), h.svc.historyCacheKey("job-1")); found {
		t.Fatalf("history cache not invalidated after write")
	}
	if got := len(h.history(t, "job-1")); got != 3 {
		t.Fatalf("history len after write = %d, want 3", got)
	}
}

func TestAllowedTransitions(t *testing.T) {
	h := setupHarness(t, Options{})
	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)
	h.move(t, "job-1", domain.StatusInRepair)

	next, err := h.svc.AllowedTransitions(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("AllowedTransitions() error = %v", err)
	}
	if len(next) != 2 || next[0] != domain.StatusReceived || next[1] != domain.StatusRepairCompleted {
		t.Fatalf("AllowedTransitions() = %v", next)
	}
}
