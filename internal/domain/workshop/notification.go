package workshop

import (
	"time"

	"github.com/valyala/fasttemplate"
)

type NotificationEvent string

const (
	EventIntake        NotificationEvent = "workshop.intake"
	EventStatusChanged NotificationEvent = "workshop.status_changed"
	EventReady         NotificationEvent = "workshop.ready"
	EventClaimed       NotificationEvent = "workshop.claimed"
	EventReleased      NotificationEvent = "workshop.released"
)

type Notification struct {
	Event          NotificationEvent `json:"event"`
	CompanyID      string            `json:"company_id"`
	JobID          string            `json:"job_id"`
	Status         Status            `json:"status,omitempty"`
	PreviousStatus Status            `json:"previous_status,omitempty"`
	TechnicianID   string            `json:"technician_id,omitempty"`
	Actor          string            `json:"actor,omitempty"`
	Message        string            `json:"message,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// RenderTemplate fills {{placeholder}} tags. Unknown placeholders render empty.
func RenderTemplate(tpl string, values map[string]string) string {
	if tpl == "" {
		return ""
	}
	m := make(map[string]any, len(values))
	for k, v := range values {
		m[k] = v
	}
	return fasttemplate.ExecuteString(tpl, "{{", "}}", m)
}

// TemplateValues builds the placeholder set shared by all notification templates.
func TemplateValues(settings Settings, job Job, status, previous Status) map[string]string {
	return map[string]string{
		"job_id":          job.JobID,
		"customer_name":   job.CustomerName,
		"status":          string(status),
		"previous_status": string(previous),
		"workshop_name":   settings.Contact.Name,
		"workshop_phone":  settings.Contact.Phone,
		"workshop_email":  settings.Contact.Email,
	}
}
