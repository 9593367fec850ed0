package workshop

import (
	"context"
	"log/slog"

	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
)

func (s *Service) notifyIntake(ctx context.Context, job domain.Job, status domain.EquipmentStatus, actor string) {
	if s.notifier == nil {
		return
	}
	settings, ok := s.notificationSettings(ctx)
	if !ok || !settings.NotifyOnIntake {
		return
	}

	s.dispatch(ctx, domain.Notification{
		Event:      domain.EventIntake,
		CompanyID:  job.CompanyID,
		JobID:      job.JobID,
		Status:     status.CurrentStatus,
		Actor:      actor,
		Message:    domain.RenderTemplate(settings.Template(domain.TemplateIntake), domain.TemplateValues(settings, job, status.CurrentStatus, "")),
		OccurredAt: status.CreatedAt,
	})
}

// notifyTransition sends the ready notice when equipment becomes collectable,
// and the generic status-change notice otherwise.
func (s *Service) notifyTransition(ctx context.Context, job domain.Job, entry domain.HistoryEntry) {
	if s.notifier == nil {
		return
	}
	settings, ok := s.notificationSettings(ctx)
	if !ok {
		return
	}

	event, templateKey, enabled := domain.EventStatusChanged, domain.TemplateStatusChange, settings.NotifyOnStatusChange
	if entry.ToStatus.IsReadyNotice() {
		event, templateKey, enabled = domain.EventReady, domain.TemplateReady, settings.NotifyOnReady
	}
	if !enabled {
		return
	}

	s.dispatch(ctx, domain.Notification{
		Event:          event,
		CompanyID:      job.CompanyID,
		JobID:          job.JobID,
		Status:         entry.ToStatus,
		PreviousStatus: entry.FromStatus,
		TechnicianID:   job.TechnicianID,
		Actor:          entry.ChangedBy,
		Message:        domain.RenderTemplate(settings.Template(templateKey), domain.TemplateValues(settings, job, entry.ToStatus, entry.FromStatus)),
		OccurredAt:     entry.ChangedAt,
	})
}

// notifyAssignment reports claims and releases to staff channels. These are
// not customer facing so no template or toggle applies.
func (s *Service) notifyAssignment(ctx context.Context, event domain.NotificationEvent, job domain.Job, technicianID string, actor string, status domain.Status) {
	if s.notifier == nil {
		return
	}
	s.dispatch(ctx, domain.Notification{
		Event:        event,
		CompanyID:    job.CompanyID,
		JobID:        job.JobID,
		Status:       status,
		TechnicianID: technicianID,
		Actor:        actor,
		OccurredAt:   s.now(),
	})
}

func (s *Service) notificationSettings(ctx context.Context) (domain.Settings, bool) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		logging.Warn(
			logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
			"skip notification, settings unavailable",
			slog.Any("err", errs.Loggable(err)),
		)
		return domain.Settings{}, false
	}
	return settings, true
}

// dispatch is fire-and-forget: delivery failures are logged and never reach the caller.
func (s *Service) dispatch(ctx context.Context, n domain.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		logging.Warn(
			logging.WithAttrs(ctx, slog.String("component", "usecase.workshop")),
			"notification dispatch failed",
			slog.String("event", string(n.Event)),
			slog.String("job_id", n.JobID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}
