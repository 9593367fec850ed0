package workshop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// GetSettings returns the workshop settings, falling back to defaults when none were saved.
func (s *Service) GetSettings(ctx context.Context) (domain.Settings, error) {
	if ctx == nil {
		return domain.Settings{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, errs.Wrap(err, "check context")
	}
	return s.loadSettings(ctx)
}

// UpdateSettings merges update into the stored settings and validates the result.
func (s *Service) UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (domain.Settings, error) {
	if ctx == nil {
		return domain.Settings{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, errs.Wrap(err, "check context")
	}
	if s.settings == nil {
		return domain.Settings{}, errors.New("settings repository is required")
	}
	if s.uow == nil {
		return domain.Settings{}, errors.New("workshop unit of work is required")
	}

	var saved domain.Settings
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.readSettings(txCtx)
		if err != nil {
			return err
		}

		next := update.Apply(current)
		next.CompanyID = s.opts.CompanyID
		if err := next.Validate(); err != nil {
			return err
		}
		next.UpdatedAt = s.now()

		if err := s.settings.SaveSettings(txCtx, next); err != nil {
			return errs.Wrap(err, "save settings")
		}
		saved = next
		return nil
	}); err != nil {
		return domain.Settings{}, err
	}

	s.invalidateSettings()

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
		"workshop settings updated",
		slog.String("company_id", saved.CompanyID),
		slog.Int("max_concurrent_jobs", saved.MaxConcurrentJobs),
		slog.Int("max_jobs_per_technician", saved.MaxJobsPerTechnician),
	)
	return saved, nil
}

// loadSettings serves the in-process copy when present. Callers inside a
// transaction pass the tx context so the miss path reads through it.
func (s *Service) loadSettings(ctx context.Context) (domain.Settings, error) {
	s.settingsMu.RLock()
	cached := s.settingsCached
	generation := s.settingsGen
	s.settingsMu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	settings, err := s.readSettings(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	// A concurrent update may have invalidated while we read; keep its result out.
	s.settingsMu.Lock()
	if s.settingsGen == generation {
		s.settingsCached = &settings
	}
	s.settingsMu.Unlock()
	return settings, nil
}

func (s *Service) invalidateSettings() {
	s.settingsMu.Lock()
	s.settingsCached = nil
	s.settingsGen++
	s.settingsMu.Unlock()
}

func (s *Service) readSettings(ctx context.Context) (domain.Settings, error) {
	if s.settings == nil {
		return domain.DefaultSettings(s.opts.CompanyID), nil
	}

	settings, err := s.settings.GetSettings(ctx, s.opts.CompanyID)
	if err != nil {
		if errors.Is(err, ports.ErrSettingsNotFound) {
			return domain.DefaultSettings(s.opts.CompanyID), nil
		}
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}
