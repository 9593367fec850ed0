package workshop

import (
	"context"
	"slices"
	"strings"
	"testing"

	domain "workshopd/internal/domain/workshop"
)

func TestNotificationsFollowLifecycle(t *testing.T) {
	h := setupHarness(t, Options{})
	ctx := context.Background()

	phone := "555-0100"
	if _, err := h.svc.UpdateSettings(ctx, domain.SettingsUpdate{Contact: &domain.ContactUpdate{Phone: &phone}}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)
	if _, err := h.svc.ClaimJob(ctx, ClaimInput{JobID: "job-1", TechnicianID: "tech-1"}); err != nil {
		t.Fatalf("ClaimJob() error = %v", err)
	}
	h.move(t, "job-1", domain.StatusRepairCompleted)
	h.move(t, "job-1", domain.StatusReadyForPickup)

	want := []domain.NotificationEvent{
		domain.EventIntake,
		domain.EventClaimed,
		domain.EventStatusChanged,
		domain.EventStatusChanged,
		domain.EventReady,
	}
	if got := h.notifier.events(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}

	h.notifier.mu.Lock()
	ready := h.notifier.sent[len(h.notifier.sent)-1]
	h.notifier.mu.Unlock()
	if !strings.Contains(ready.Message, "job-1") || !strings.Contains(ready.Message, phone) {
		t.Fatalf("ready message = %q", ready.Message)
	}
	if ready.PreviousStatus != domain.StatusRepairCompleted || ready.TechnicianID != "tech-1" {
		t.Fatalf("ready notification = %+v", ready)
	}
}

func TestNotificationTogglesAndFailures(t *testing.T) {
	h := setupHarness(t, Options{})
	ctx := context.Background()

	off := false
	if _, err := h.svc.UpdateSettings(ctx, domain.SettingsUpdate{NotifyOnIntake: &off, NotifyOnStatusChange: &off}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	h.registerJob(t, "job-1", domain.PriorityHigh)
	h.intake(t, "job-1", domain.StatusReceived)
	h.move(t, "job-1", domain.StatusInRepair)
	if got := h.notifier.events(); len(got) != 0 {
		t.Fatalf("events with toggles off = %v", got)
	}

	h.notifier.mu.Lock()
	h.notifier.fail = true
	h.notifier.mu.Unlock()

	if _, err := h.svc.RecordTransition(ctx, TransitionInput{JobID: "job-1", ToStatus: domain.StatusRepairCompleted, Actor: "tech-1"}); err != nil {
		t.Fatalf("RecordTransition() with failing notifier error = %v", err)
	}
}
