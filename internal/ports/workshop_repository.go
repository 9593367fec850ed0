package ports

import (
	"context"
	"errors"
	"time"

	"workshopd/internal/domain/workshop"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrStatusNotFound   = errors.New("equipment status not found")
	ErrStatusExists     = errors.New("equipment status already exists")
	ErrVersionConflict  = errors.New("equipment status version conflict")
	ErrSettingsNotFound = errors.New("workshop settings not found")
)

type JobFilter struct {
	CompanyID  string
	JobIDs     []string
	Unassigned bool
}

type StatusFilter struct {
	CompanyID string
	JobIDs    []string
	Statuses  []workshop.Status
}

// ActiveCountFilter selects active-status jobs for capacity checks.
// An empty TechnicianID counts the whole workshop.
type ActiveCountFilter struct {
	CompanyID    string
	TechnicianID string
	ExcludeJobID string
}

type JobRepository interface {
	CreateJob(ctx context.Context, job workshop.Job) (workshop.Job, error)
	GetJob(ctx context.Context, jobID string) (workshop.Job, error)
	// GetJobForUpdate reads the job and, where the database supports it, row-locks it
	// for the rest of the surrounding transaction.
	GetJobForUpdate(ctx context.Context, jobID string) (workshop.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]workshop.Job, error)
	// AssignTechnician sets the technician only if the job is unclaimed.
	// It reports false when another caller already holds the job.
	AssignTechnician(ctx context.Context, jobID string, technicianID string, at time.Time) (bool, error)
	ClearTechnician(ctx context.Context, jobID string, at time.Time) error
	MarkEquipmentIntake(ctx context.Context, jobID string, at time.Time) error
}

type StatusRepository interface {
	CreateStatus(ctx context.Context, status workshop.EquipmentStatus, entry workshop.HistoryEntry) error
	GetStatus(ctx context.Context, jobID string) (workshop.EquipmentStatus, error)
	// UpdateStatus writes next only if the stored version still equals expectedVersion.
	UpdateStatus(ctx context.Context, next workshop.EquipmentStatus, expectedVersion uint64) error
	AppendHistory(ctx context.Context, entry workshop.HistoryEntry) error
	ListHistory(ctx context.Context, jobID string) ([]workshop.HistoryEntry, error)
	ListHistoryBetween(ctx context.Context, companyID string, from time.Time, to time.Time) ([]workshop.HistoryEntry, error)
	ListStatuses(ctx context.Context, filter StatusFilter) ([]workshop.EquipmentStatus, error)
	CountActive(ctx context.Context, filter ActiveCountFilter) (int64, error)
	CountActiveByTechnician(ctx context.Context, companyID string) (map[string]int64, error)
}

type SettingsRepository interface {
	GetSettings(ctx context.Context, companyID string) (workshop.Settings, error)
	SaveSettings(ctx context.Context, settings workshop.Settings) error
}

// Directory resolves actor references to display names.
type Directory interface {
	TechnicianNames(ctx context.Context, technicianIDs []string) (map[string]string, error)
	SaveTechnician(ctx context.Context, companyID string, technicianID string, name string) error
}
