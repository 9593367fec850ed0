package workshop

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateRange is an inclusive calendar-day window evaluated in UTC.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: date_from and date_to are required", ErrInvalidInput)
	}
	start, end := r.Bounds()
	if !start.Before(end) {
		return fmt.Errorf("%w: date_from must not be after date_to", ErrInvalidInput)
	}
	return nil
}

// Bounds returns the half-open interval [start, end) covering both calendar days.
func (r DateRange) Bounds() (time.Time, time.Time) {
	return startOfDay(r.From), startOfDay(r.To).AddDate(0, 0, 1)
}

func (r DateRange) Contains(t time.Time) bool {
	start, end := r.Bounds()
	return !t.Before(start) && t.Before(end)
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

type TechnicianLoad struct {
	TechnicianID string
	Name         string
	ActiveJobs   int64
}

type Metrics struct {
	DateFrom                   time.Time
	DateTo                     time.Time
	TotalJobs                  int
	JobsByStatus               map[Status]int
	CompletedJobs              int
	AverageRepairTimeHours     float64
	OnTimeCompletionRate       float64
	ActiveJobs                 int64
	CurrentCapacityUtilization float64
	JobsPerTechnician          []TechnicianLoad
}

// MetricsInput is the snapshot the aggregator reads. WindowJobIDs are the jobs
// with at least one history event inside Range.
type MetricsInput struct {
	Range              DateRange
	WindowJobIDs       []string
	Statuses           map[string]EquipmentStatus
	Jobs               map[string]Job
	ActiveTotal        int64
	MaxConcurrentJobs  int
	ActiveByTechnician map[string]int64
	TechnicianNames    map[string]string
}

// ComputeMetrics derives KPIs in a single pass over the window's jobs.
func ComputeMetrics(in MetricsInput) Metrics {
	out := Metrics{
		DateFrom:     startOfDay(in.Range.From),
		DateTo:       startOfDay(in.Range.To),
		JobsByStatus: make(map[Status]int, len(orderedStatuses)),
	}
	for _, s := range orderedStatuses {
		out.JobsByStatus[s] = 0
	}

	jobIDs := slices.Clone(in.WindowJobIDs)
	slices.Sort(jobIDs)
	jobIDs = slices.Compact(jobIDs)
	out.TotalJobs = len(jobIDs)

	var (
		repairHoursSum float64
		repairSamples  int
		estimated      int
		onTime         int
	)
	for _, jobID := range jobIDs {
		status, ok := in.Statuses[jobID]
		if !ok {
			continue
		}
		out.JobsByStatus[status.CurrentStatus]++

		completedAt := status.Timestamps.RepairCompletedAt
		if completedAt == nil || !in.Range.Contains(*completedAt) {
			continue
		}
		out.CompletedJobs++

		if receivedAt := status.Timestamps.ReceivedAt; receivedAt != nil {
			repairHoursSum += completedAt.Sub(*receivedAt).Hours()
			repairSamples++
		}

		job, ok := in.Jobs[jobID]
		if !ok || job.EstimatedCompletionDate == nil {
			continue
		}
		estimated++
		if !completedAt.After(*job.EstimatedCompletionDate) {
			onTime++
		}
	}

	if repairSamples > 0 {
		out.AverageRepairTimeHours = repairHoursSum / float64(repairSamples)
	}
	if estimated > 0 {
		out.OnTimeCompletionRate = float64(onTime) / float64(estimated) * 100
	}

	out.ActiveJobs = in.ActiveTotal
	out.CurrentCapacityUtilization = Utilization(in.ActiveTotal, in.MaxConcurrentJobs)
	out.JobsPerTechnician = technicianLoads(in.ActiveByTechnician, in.TechnicianNames)
	return out
}

func technicianLoads(counts map[string]int64, names map[string]string) []TechnicianLoad {
	loads := make([]TechnicianLoad, 0, len(counts))
	for id, count := range counts {
		name := names[id]
		if name == "" {
			name = id
		}
		loads = append(loads, TechnicianLoad{TechnicianID: id, Name: name, ActiveJobs: count})
	}
	slices.SortFunc(loads, func(a, b TechnicianLoad) int {
		if a.ActiveJobs != b.ActiveJobs {
			if a.ActiveJobs > b.ActiveJobs {
				return -1
			}
			return 1
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.TechnicianID, b.TechnicianID)
	})
	return loads
}
