package workshop

import (
	"iter"
	"math"
	"slices"
	"strings"
	"time"
)

// QueueEntry is one unclaimed job waiting for a technician.
type QueueEntry struct {
	JobID        string
	Title        string
	CustomerName string
	Priority     Priority
	Status       Status
	IntakeAt     time.Time
	DaysWaiting  int
}

// QueueCandidate pairs a status record with its job for ranking.
type QueueCandidate struct {
	Status EquipmentStatus
	Job    Job
}

// QueueEligible reports whether the pair belongs in the unclaimed work queue.
func QueueEligible(c QueueCandidate) bool {
	return !c.Job.Claimed() && !c.Status.CurrentStatus.IsTerminal()
}

// DaysWaiting is now-intake in whole days, rounded up. Future intakes count as zero.
func DaysWaiting(intake, now time.Time) int {
	elapsed := now.Sub(intake)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Hours() / 24))
}

// RankQueue projects eligible candidates into queue order: priority tier,
// then days waiting descending, then intake ascending, then job id.
func RankQueue(candidates []QueueCandidate, now time.Time) iter.Seq[QueueEntry] {
	entries := make([]QueueEntry, 0, len(candidates))
	for _, c := range candidates {
		if !QueueEligible(c) {
			continue
		}
		entries = append(entries, QueueEntry{
			JobID:        c.Job.JobID,
			Title:        c.Job.Title,
			CustomerName: c.Job.CustomerName,
			Priority:     c.Job.Priority,
			Status:       c.Status.CurrentStatus,
			IntakeAt:     c.Status.IntakeAt(),
			DaysWaiting:  DaysWaiting(c.Status.IntakeAt(), now),
		})
	}

	slices.SortStableFunc(entries, compareQueueEntries)
	return slices.Values(entries)
}

func compareQueueEntries(a, b QueueEntry) int {
	if d := a.Priority.Rank() - b.Priority.Rank(); d != 0 {
		return d
	}
	if d := b.DaysWaiting - a.DaysWaiting; d != 0 {
		return d
	}
	if c := a.IntakeAt.Compare(b.IntakeAt); c != 0 {
		return c
	}
	return strings.Compare(a.JobID, b.JobID)
}
