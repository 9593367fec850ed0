package workshop

import (
	"fmt"
	"time"
)

const (
	TemplateIntake       = "intake"
	TemplateReady        = "ready"
	TemplateStatusChange = "status_change"
)

type Contact struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

type Settings struct {
	CompanyID                   string
	MaxConcurrentJobs           int
	MaxJobsPerTechnician        int
	DefaultEstimatedRepairHours float64
	DefaultPickupDeliveryFee    float64
	NotifyOnIntake              bool
	NotifyOnReady               bool
	NotifyOnStatusChange        bool
	Templates                   map[string]string
	Contact                     Contact
	UpdatedAt                   time.Time
}

func DefaultTemplates() map[string]string {
	return map[string]string{
		TemplateIntake:       "Hi {{customer_name}}, {{workshop_name}} has registered your equipment for job {{job_id}} ({{status}}).",
		TemplateReady:        "Hi {{customer_name}}, your equipment for job {{job_id}} is {{status}}. Questions? Call {{workshop_phone}}.",
		TemplateStatusChange: "Job {{job_id}} moved from {{previous_status}} to {{status}}.",
	}
}

func DefaultSettings(companyID string) Settings {
	return Settings{
		CompanyID:                   companyID,
		MaxConcurrentJobs:           20,
		MaxJobsPerTechnician:        5,
		DefaultEstimatedRepairHours: 48,
		NotifyOnIntake:              true,
		NotifyOnReady:               true,
		NotifyOnStatusChange:        true,
		Templates:                   DefaultTemplates(),
	}
}

func (s Settings) Validate() error {
	if s.MaxConcurrentJobs < 1 {
		return fmt.Errorf("%w: max_concurrent_jobs must be >= 1, got %d", ErrInvalidSettings, s.MaxConcurrentJobs)
	}
	if s.MaxJobsPerTechnician < 1 {
		return fmt.Errorf("%w: max_jobs_per_technician must be >= 1, got %d", ErrInvalidSettings, s.MaxJobsPerTechnician)
	}
	if s.DefaultEstimatedRepairHours < 0 {
		return fmt.Errorf("%w: default_estimated_repair_hours must be >= 0", ErrInvalidSettings)
	}
	if s.DefaultPickupDeliveryFee < 0 {
		return fmt.Errorf("%w: default_pickup_delivery_fee must be >= 0", ErrInvalidSettings)
	}
	for key := range s.Templates {
		switch key {
		case TemplateIntake, TemplateReady, TemplateStatusChange:
		default:
			return fmt.Errorf("%w: unknown notification template %q", ErrInvalidSettings, key)
		}
	}
	return nil
}

// Template returns the configured template for key, falling back to the built-in one.
func (s Settings) Template(key string) string {
	if tpl, ok := s.Templates[key]; ok && tpl != "" {
		return tpl
	}
	return DefaultTemplates()[key]
}

// SettingsUpdate is a partial update; nil fields keep their current value.
type SettingsUpdate struct {
	MaxConcurrentJobs           *int              `toml:"max_concurrent_jobs" json:"max_concurrent_jobs,omitempty"`
	MaxJobsPerTechnician        *int              `toml:"max_jobs_per_technician" json:"max_jobs_per_technician,omitempty"`
	DefaultEstimatedRepairHours *float64          `toml:"default_estimated_repair_hours" json:"default_estimated_repair_hours,omitempty"`
	DefaultPickupDeliveryFee    *float64          `toml:"default_pickup_delivery_fee" json:"default_pickup_delivery_fee,omitempty"`
	NotifyOnIntake              *bool             `toml:"notify_on_intake" json:"notify_on_intake,omitempty"`
	NotifyOnReady               *bool             `toml:"notify_on_ready" json:"notify_on_ready,omitempty"`
	NotifyOnStatusChange        *bool             `toml:"notify_on_status_change" json:"notify_on_status_change,omitempty"`
	Templates                   map[string]string `toml:"templates" json:"templates,omitempty"`
	Contact                     *ContactUpdate    `toml:"contact" json:"contact,omitempty"`
}

type ContactUpdate struct {
	Name    *string `toml:"name" json:"name,omitempty"`
	Phone   *string `toml:"phone" json:"phone,omitempty"`
	Email   *string `toml:"email" json:"email,omitempty"`
	Address *string `toml:"address" json:"address,omitempty"`
}

// Apply returns a copy of s with the update merged in. Templates merge per key.
func (u SettingsUpdate) Apply(s Settings) Settings {
	next := s
	if u.MaxConcurrentJobs != nil {
		next.MaxConcurrentJobs = *u.MaxConcurrentJobs
	}
	if u.MaxJobsPerTechnician != nil {
		next.MaxJobsPerTechnician = *u.MaxJobsPerTechnician
	}
	if u.DefaultEstimatedRepairHours != nil {
		next.DefaultEstimatedRepairHours = *u.DefaultEstimatedRepairHours
	}
	if u.DefaultPickupDeliveryFee != nil {
		next.DefaultPickupDeliveryFee = *u.DefaultPickupDeliveryFee
	}
	if u.NotifyOnIntake != nil {
		next.NotifyOnIntake = *u.NotifyOnIntake
	}
	if u.NotifyOnReady != nil {
		next.NotifyOnReady = *u.NotifyOnReady
	}
	if u.NotifyOnStatusChange != nil {
		next.NotifyOnStatusChange = *u.NotifyOnStatusChange
	}
	if len(u.Templates) > 0 {
		merged := make(map[string]string, len(s.Templates)+len(u.Templates))
		for k, v := range s.Templates {
			merged[k] = v
		}
		for k, v := range u.Templates {
			merged[k] = v
		}
		next.Templates = merged
	}
	if c := u.Contact; c != nil {
		if c.Name != nil {
			next.Contact.Name = *c.Name
		}
		if c.Phone != nil {
			next.Contact.Phone = *c.Phone
		}
		if c.Email != nil {
			next.Contact.Email = *c.Email
		}
		if c.Address != nil {
			next.Contact.Address = *c.Address
		}
	}
	return next
}
