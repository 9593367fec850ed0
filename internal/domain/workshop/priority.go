package workshop

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority normalizes a priority tier. Empty input defaults to medium.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	if p.Rank() == unknownPriorityRank {
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, raw)
	}
	return p, nil
}

const unknownPriorityRank = 4

// Rank orders tiers; lower ranks are served first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return unknownPriorityRank
	}
}
