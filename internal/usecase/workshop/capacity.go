package workshop

import (
	"context"
	"fmt"

	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/ports"
)

// admitTx reads both active counts in the caller's transaction and applies the
// ceilings. The job being admitted is excluded from the workshop count so an
// already-active job does not count against itself.
func (s *Service) admitTx(txCtx context.Context, job domain.Job, technicianID string) error {
	settings, err := s.loadSettings(txCtx)
	if err != nil {
		return err
	}

	snap := domain.CapacitySnapshot{TechnicianID: technicianID}
	snap.WorkshopActive, err = s.statuses.CountActive(txCtx, ports.ActiveCountFilter{
		CompanyID:    s.opts.CompanyID,
		ExcludeJobID: job.JobID,
	})
	if err != nil {
		return fmt.Errorf("count workshop active jobs: %w", err)
	}
	if technicianID != "" {
		snap.TechnicianActive, err = s.statuses.CountActive(txCtx, ports.ActiveCountFilter{
			CompanyID:    s.opts.CompanyID,
			TechnicianID: technicianID,
			ExcludeJobID: job.JobID,
		})
		if err != nil {
			return fmt.Errorf("count technician active jobs: %w", err)
		}
	}

	return domain.CheckCapacity(settings, snap)
}
