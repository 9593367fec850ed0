package workshop

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("equipment status already exists")
	ErrAlreadyClaimed    = errors.New("job already claimed")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrBusy              = errors.New("job is busy, retry")

	ErrNotClaimable    = errors.New("job cannot be claimed")
	ErrNotClaimed      = errors.New("job is not claimed")
	ErrInvalidSettings = errors.New("invalid workshop settings")
	ErrInvalidInput    = errors.New("invalid input")
)

// TransitionError identifies the rejected move. It matches ErrInvalidTransition.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("%s: cannot start at %q", ErrInvalidTransition, e.To)
	}
	return fmt.Sprintf("%s: %q -> %q", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

type CapacityScope string

const (
	CapacityScopeWorkshop   CapacityScope = "workshop"
	CapacityScopeTechnician CapacityScope = "technician"
)

// CapacityError reports which ceiling rejected an admission. It matches ErrCapacityExceeded.
type CapacityError struct {
	Scope   CapacityScope
	Subject string
	Limit   int
	Current int64
}

func (e *CapacityError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s %s has %d of %d active jobs", ErrCapacityExceeded, e.Scope, e.Subject, e.Current, e.Limit)
	}
	return fmt.Sprintf("%s: %s has %d of %d active jobs", ErrCapacityExceeded, e.Scope, e.Current, e.Limit)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }
