package workshop

import (
	"context"
	"iter"
	"slices"

	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// Queue returns the ranked unclaimed work queue as a lazy sequence. The
// snapshot is read once; ranking and filtering happen as the caller iterates.
func (s *Service) Queue(ctx context.Context, filter QueueFilter) (iter.Seq[domain.QueueEntry], error) {
	if err := s.checkCore(ctx); err != nil {
		return nil, err
	}

	statuses, err := s.statuses.ListStatuses(ctx, ports.StatusFilter{
		CompanyID: s.opts.CompanyID,
		Statuses:  filter.Statuses,
	})
	if err != nil {
		return nil, errs.Wrap(err, "list queue statuses")
	}
	if len(statuses) == 0 {
		return func(func(domain.QueueEntry) bool) {}, nil
	}

	jobIDs := make([]string, 0, len(statuses))
	for _, st := range statuses {
		jobIDs = append(jobIDs, st.JobID)
	}
	jobs, err := s.jobs.ListJobs(ctx, ports.JobFilter{
		CompanyID:  s.opts.CompanyID,
		JobIDs:     jobIDs,
		Unassigned: true,
	})
	if err != nil {
		return nil, errs.Wrap(err, "list queue jobs")
	}

	byID := make(map[string]domain.Job, len(jobs))
	for _, job := range jobs {
		byID[job.JobID] = job
	}
	candidates := make([]domain.QueueCandidate, 0, len(jobs))
	for _, st := range statuses {
		job, ok := byID[st.JobID]
		if !ok {
			continue
		}
		candidates = append(candidates, domain.QueueCandidate{Status: st, Job: job})
	}

	ranked := domain.RankQueue(candidates, s.now())
	return func(yield func(domain.QueueEntry) bool) {
		emitted := 0
		for entry := range ranked {
			if len(filter.Priorities) > 0 && !slices.Contains(filter.Priorities, entry.Priority) {
				continue
			}
			if !yield(entry) {
				return
			}
			emitted++
			if filter.Limit > 0 && emitted >= filter.Limit {
				return
			}
		}
	}, nil
}

// ListQueue collects Queue into a slice.
func (s *Service) ListQueue(ctx context.Context, filter QueueFilter) ([]domain.QueueEntry, error) {
	seq, err := s.Queue(ctx, filter)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.QueueEntry, 0)
	for entry := range seq {
		entries = append(entries, entry)
	}
	return entries, nil
}
