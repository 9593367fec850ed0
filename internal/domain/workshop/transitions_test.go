package workshop

import (
	"errors"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	want := map[Status][]Status{
		StatusPendingIntake:   {StatusInTransit, StatusReceived},
		StatusInTransit:       {StatusReceived},
		StatusReceived:        {StatusInRepair},
		StatusInRepair:        {StatusReceived, StatusRepairCompleted},
		StatusRepairCompleted: {StatusReadyForPickup, StatusOutForDelivery},
		StatusReadyForPickup:  {StatusReturned},
		StatusOutForDelivery:  {StatusReturned},
		StatusReturned:        nil,
	}

	for _, from := range AllStatuses() {
		allowed := make(map[Status]bool)
		for _, to := range want[from] {
			allowed[to] = true
		}
		for _, to := range AllStatuses() {
			got := CanTransition(from, to)
			if got != allowed[to] {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, allowed[to])
			}
		}
	}
}

func TestValidateTransitionReturnsTypedError(t *testing.T) {
	err := ValidateTransition(StatusReceived, StatusReadyForPickup)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ValidateTransition() error = %v, want ErrInvalidTransition", err)
	}

	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("ValidateTransition() error = %T, want *TransitionError", err)
	}
	if te.From != StatusReceived || te.To != StatusReadyForPickup {
		t.Fatalf("TransitionError = %+v", te)
	}

	if err := ValidateTransition(StatusInRepair, StatusReceived); err != nil {
		t.Fatalf("ValidateTransition(rework) error = %v", err)
	}
}

func TestNextStatusesFollowLifecycleOrder(t *testing.T) {
	got := NextStatuses(StatusInRepair)
	if len(got) != 2 || got[0] != StatusReceived || got[1] != StatusRepairCompleted {
		t.Fatalf("NextStatuses(in_repair) = %v", got)
	}
	if got := NextStatuses(StatusReturned); len(got) != 0 {
		t.Fatalf("NextStatuses(returned) = %v, want none", got)
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" Ready_For_Pickup ")
	if err != nil {
		t.Fatalf("ParseStatus() error = %v", err)
	}
	if got != StatusReadyForPickup {
		t.Fatalf("ParseStatus() = %q", got)
	}

	if _, err := ParseStatus("shipped"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ParseStatus(shipped) error = %v, want ErrInvalidInput", err)
	}
}

func TestActiveStatuses(t *testing.T) {
	active := ActiveStatuses()
	if len(active) != 5 {
		t.Fatalf("ActiveStatuses() = %v", active)
	}
	for _, s := range []Status{StatusPendingIntake, StatusInTransit, StatusReturned} {
		if s.IsActive() {
			t.Fatalf("%s.IsActive() = true", s)
		}
	}
}

func TestEntersActive(t *testing.T) {
	if !EntersActive(StatusInTransit, StatusReceived) || !EntersActive(StatusPendingIntake, StatusReceived) {
		t.Fatalf("EntersActive(intake, received) = false, want true")
	}
	if EntersActive(StatusInRepair, StatusReceived) {
		t.Fatalf("EntersActive(in_repair, received) = true, want false")
	}
	if EntersActive(StatusPendingIntake, StatusInTransit) {
		t.Fatalf("EntersActive(pending_intake, in_transit) = true, want false")
	}

	if !CanEnterActive(StatusReceived) {
		t.Fatalf("CanEnterActive(received) = false, want true")
	}
	for _, to := range []Status{StatusInTransit, StatusInRepair, StatusRepairCompleted, StatusReturned} {
		if CanEnterActive(to) {
			t.Fatalf("CanEnterActive(%s) = true, want false", to)
		}
	}
}
