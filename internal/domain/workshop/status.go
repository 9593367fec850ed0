package workshop

import (
	"fmt"
	"strings"
)

// Status is the repair lifecycle state of a workshop job.
type Status string

const (
	StatusPendingIntake   Status = "pending_intake"
	StatusInTransit       Status = "in_transit"
	StatusReceived        Status = "received"
	StatusInRepair        Status = "in_repair"
	StatusRepairCompleted Status = "repair_completed"
	StatusReadyForPickup  Status = "ready_for_pickup"
	StatusOutForDelivery  Status = "out_for_delivery"
	StatusReturned        Status = "returned"
)

var orderedStatuses = []Status{
	StatusPendingIntake,
	StatusInTransit,
	StatusReceived,
	StatusInRepair,
	StatusRepairCompleted,
	StatusReadyForPickup,
	StatusOutForDelivery,
	StatusReturned,
}

// AllStatuses returns the fixed status set in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(orderedStatuses))
	copy(out, orderedStatuses)
	return out
}

func ParseStatus(raw string) (Status, error) {
	trimmed := Status(strings.ToLower(strings.TrimSpace(raw)))
	if trimmed == "" {
		return "", fmt.Errorf("%w: status is required", ErrInvalidInput)
	}
	if !trimmed.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
	return trimmed, nil
}

func (s Status) Valid() bool {
	for _, known := range orderedStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether a job in this status counts toward capacity ceilings.
func (s Status) IsActive() bool {
	switch s {
	case StatusReceived, StatusInRepair, StatusRepairCompleted, StatusReadyForPickup, StatusOutForDelivery:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusReturned
}

// IsIntake reports whether a status record may start in this status.
func (s Status) IsIntake() bool {
	return s == StatusPendingIntake || s == StatusReceived
}

// IsPreWork reports whether a claim should advance the job into repair.
func (s Status) IsPreWork() bool {
	return s == StatusReceived
}

// ActiveStatuses returns the statuses counted by capacity ceilings.
func ActiveStatuses() []Status {
	out := make([]Status, 0, len(orderedStatuses))
	for _, s := range orderedStatuses {
		if s.IsActive() {
			out = append(out, s)
		}
	}
	return out
}

// IsReadyNotice reports whether entering s tells the customer the equipment is on its way back.
func (s Status) IsReadyNotice() bool {
	return s == StatusReadyForPickup || s == StatusOutForDelivery
}
