package workshop

import (
	"context"
	"errors"
	"log/slog"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// GetMetrics reports workshop KPIs for an inclusive calendar-day window.
// Capacity and per-technician load describe the moment of the query. All
// reads share one transaction so the counts describe a single snapshot.
func (s *Service) GetMetrics(ctx context.Context, window domain.DateRange) (domain.Metrics, error) {
	if err := s.checkCore(ctx); err != nil {
		return domain.Metrics{}, err
	}
	if s.uow == nil {
		return domain.Metrics{}, errors.New("workshop unit of work is required")
	}
	if err := window.Validate(); err != nil {
		return domain.Metrics{}, err
	}

	var in domain.MetricsInput
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		in, err = s.metricsInputTx(txCtx, window)
		return err
	}); err != nil {
		return domain.Metrics{}, err
	}
	return domain.ComputeMetrics(in), nil
}

func (s *Service) metricsInputTx(txCtx context.Context, window domain.DateRange) (domain.MetricsInput, error) {
	start, end := window.Bounds()
	events, err := s.statuses.ListHistoryBetween(txCtx, s.opts.CompanyID, start, end)
	if err != nil {
		return domain.MetricsInput{}, errs.Wrap(err, "list history window")
	}

	in := domain.MetricsInput{
		Range:        window,
		WindowJobIDs: make([]string, 0, len(events)),
		Statuses:     map[string]domain.EquipmentStatus{},
		Jobs:         map[string]domain.Job{},
	}
	seen := make(map[string]struct{}, len(events))
	for _, event := range events {
		if _, ok := seen[event.JobID]; ok {
			continue
		}
		seen[event.JobID] = struct{}{}
		in.WindowJobIDs = append(in.WindowJobIDs, event.JobID)
	}

	if len(in.WindowJobIDs) > 0 {
		statuses, err := s.statuses.ListStatuses(txCtx, ports.StatusFilter{CompanyID: s.opts.CompanyID, JobIDs: in.WindowJobIDs})
		if err != nil {
			return domain.MetricsInput{}, errs.Wrap(err, "list window statuses")
		}
		for _, st := range statuses {
			in.Statuses[st.JobID] = st
		}

		jobs, err := s.jobs.ListJobs(txCtx, ports.JobFilter{CompanyID: s.opts.CompanyID, JobIDs: in.WindowJobIDs})
		if err != nil {
			return domain.MetricsInput{}, errs.Wrap(err, "list window jobs")
		}
		for _, job := range jobs {
			in.Jobs[job.JobID] = job
		}
	}

	in.ActiveTotal, err = s.statuses.CountActive(txCtx, ports.ActiveCountFilter{CompanyID: s.opts.CompanyID})
	if err != nil {
		return domain.MetricsInput{}, errs.Wrap(err, "count active jobs")
	}
	in.ActiveByTechnician, err = s.statuses.CountActiveByTechnician(txCtx, s.opts.CompanyID)
	if err != nil {
		return domain.MetricsInput{}, errs.Wrap(err, "count active jobs by technician")
	}
	in.TechnicianNames = s.technicianNames(txCtx, in.ActiveByTechnician)

	settings, err := s.loadSettings(txCtx)
	if err != nil {
		return domain.MetricsInput{}, err
	}
	in.MaxConcurrentJobs = settings.MaxConcurrentJobs
	return in, nil
}

// technicianNames degrades to raw ids when the directory is missing or failing.
func (s *Service) technicianNames(ctx context.Context, counts map[string]int64) map[string]string {
	if s.directory == nil || len(counts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	names, err := s.directory.TechnicianNames(ctx, ids)
	if err != nil {
		logging.Warn(
			logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
			"technician name lookup failed",
			slog.Any("err", errs.Loggable(err)),
		)
		return nil
	}
	return names
}
