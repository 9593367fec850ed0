package workshop

import (
	"errors"
	"fmt"

	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// mapRepoError translates repository sentinels to the domain taxonomy.
func mapRepoError(err error, jobID string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrJobNotFound):
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	case errors.Is(err, ports.ErrStatusNotFound):
		return fmt.Errorf("equipment status for job %s: %w", jobID, domain.ErrNotFound)
	case errors.Is(err, ports.ErrStatusExists):
		return fmt.Errorf("job %s: %w", jobID, domain.ErrAlreadyExists)
	case errors.Is(err, ports.ErrVersionConflict):
		return errs.Retryable(fmt.Errorf("job %s: %w", jobID, err))
	default:
		return err
	}
}
