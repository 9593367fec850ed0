package workshop

import "time"

// StatusTimestamps records the first time each status was entered.
// A set timestamp is never cleared.
type StatusTimestamps struct {
	PendingIntakeAt   *time.Time
	InTransitAt       *time.Time
	ReceivedAt        *time.Time
	InRepairAt        *time.Time
	RepairCompletedAt *time.Time
	ReadyForPickupAt  *time.Time
	OutForDeliveryAt  *time.Time
	ReturnedAt        *time.Time
}

func (t *StatusTimestamps) slot(s Status) **time.Time {
	switch s {
	case StatusPendingIntake:
		return &t.PendingIntakeAt
	case StatusInTransit:
		return &t.InTransitAt
	case StatusReceived:
		return &t.ReceivedAt
	case StatusInRepair:
		return &t.InRepairAt
	case StatusRepairCompleted:
		return &t.RepairCompletedAt
	case StatusReadyForPickup:
		return &t.ReadyForPickupAt
	case StatusOutForDelivery:
		return &t.OutForDeliveryAt
	case StatusReturned:
		return &t.ReturnedAt
	default:
		return nil
	}
}

// ReachedAt returns when s was first entered, or nil.
func (t StatusTimestamps) ReachedAt(s Status) *time.Time {
	slot := t.slot(s)
	if slot == nil || *slot == nil {
		return nil
	}
	v := **slot
	return &v
}

// MarkReached sets the timestamp for s unless it is already set.
// It reports whether the timestamp was written.
func (t *StatusTimestamps) MarkReached(s Status, at time.Time) bool {
	slot := t.slot(s)
	if slot == nil || *slot != nil {
		return false
	}
	v := at
	*slot = &v
	return true
}

type EquipmentStatus struct {
	JobID         string
	CurrentStatus Status
	Timestamps    StatusTimestamps
	Version       uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IntakeAt is the moment the job entered the workshop pipeline.
func (e EquipmentStatus) IntakeAt() time.Time {
	return e.CreatedAt
}

// Advance applies an accepted move to the snapshot. Callers validate first.
func (e EquipmentStatus) Advance(to Status, at time.Time) EquipmentStatus {
	next := e
	next.CurrentStatus = to
	next.Timestamps.MarkReached(to, at)
	next.UpdatedAt = at
	next.Version = e.Version + 1
	return next
}

// NextChangeTime keeps history strictly ordered when the clock has not advanced.
func (e EquipmentStatus) NextChangeTime(now time.Time) time.Time {
	if !e.UpdatedAt.IsZero() && !now.After(e.UpdatedAt) {
		return e.UpdatedAt.Add(time.Microsecond)
	}
	return now
}

// HistoryEntry is one accepted status change. FromStatus is empty for intake.
type HistoryEntry struct {
	ID         string
	Seq        uint64
	JobID      string
	FromStatus Status
	ToStatus   Status
	ChangedAt  time.Time
	ChangedBy  string
	Notes      string
}

type Job struct {
	JobID                   string
	CompanyID               string
	Title                   string
	CustomerName            string
	Priority                Priority
	TechnicianID            string
	EquipmentIntake         bool
	EstimatedCompletionDate *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (j Job) Claimed() bool {
	return j.TechnicianID != ""
}
