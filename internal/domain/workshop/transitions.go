package workshop

// transitions is the single source of truth for legal status moves.
// Both the store and client hints read from it.
var transitions = map[Status]map[Status]struct{}{
	StatusPendingIntake: {
		StatusInTransit: {},
		StatusReceived:  {},
	},
	StatusInTransit: {
		StatusReceived: {},
	},
	StatusReceived: {
		StatusInRepair: {},
	},
	StatusInRepair: {
		StatusRepairCompleted: {},
		StatusReceived:        {}, // rework loop
	},
	StatusRepairCompleted: {
		StatusReadyForPickup: {},
		StatusOutForDelivery: {},
	},
	StatusReadyForPickup: {
		StatusReturned: {},
	},
	StatusOutForDelivery: {
		StatusReturned: {},
	},
	StatusReturned: {},
}

func CanTransition(from, to Status) bool {
	targets, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// ValidateTransition returns a *TransitionError when to is not reachable from from.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// NextStatuses lists the statuses reachable from from, in lifecycle order.
func NextStatuses(from Status) []Status {
	targets := transitions[from]
	if len(targets) == 0 {
		return nil
	}

	out := make([]Status, 0, len(targets))
	for _, s := range orderedStatuses {
		if _, ok := targets[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// EntersActive reports whether a move from from to to admits the job into
// active work, which is when the capacity ceilings apply.
func EntersActive(from, to Status) bool {
	return !from.IsActive() && to.IsActive()
}

// CanEnterActive reports whether some legal move into to starts from a
// non-active status.
func CanEnterActive(to Status) bool {
	for from, targets := range transitions {
		if _, ok := targets[to]; ok && EntersActive(from, to) {
			return true
		}
	}
	return false
}
