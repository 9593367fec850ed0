package notify

import (
	"context"
	"errors"
	"log/slog"

	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/domain/workshop"
	"workshopd/internal/ports"
)

// LogNotifier writes notifications to the structured log. It is the default
// driver when no broker is configured.
type LogNotifier struct{}

var _ ports.Notifier = LogNotifier{}

func NewLogNotifier() LogNotifier {
	return LogNotifier{}
}

func (LogNotifier) Notify(ctx context.Context, n workshop.Notification) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "notify.log")),
		"workshop notification",
		slog.String("event", string(n.Event)),
		slog.String("company_id", n.CompanyID),
		slog.String("job_id", n.JobID),
		slog.String("status", string(n.Status)),
		slog.String("message", n.Message),
	)
	return nil
}
