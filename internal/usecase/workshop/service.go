package workshop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/ports"
)

var (
	errJobIDRequired        = fmt.Errorf("%w: job id is required", domain.ErrInvalidInput)
	errTechnicianIDRequired = fmt.Errorf("%w: technician id is required", domain.ErrInvalidInput)
	errActorRequired        = fmt.Errorf("%w: actor is required", domain.ErrInvalidInput)
)

const (
	defaultCompanyID       = "default"
	defaultLockTimeout     = 2 * time.Second
	defaultBusyRetries     = 3
	defaultHistoryCacheTTL = 5 * time.Minute
)

// Options scope a Service to one workshop and tune its contention handling.
type Options struct {
	CompanyID       string
	LockTimeout     time.Duration
	BusyRetries     int
	HistoryCacheTTL time.Duration
}

// Dependencies are the collaborators a Service runs on. Cache, Notifier and
// Directory are optional.
type Dependencies struct {
	Jobs      ports.JobRepository
	Statuses  ports.StatusRepository
	Settings  ports.SettingsRepository
	Directory ports.Directory
	UoW       ports.UnitOfWork
	Cache     ports.Cache
	Locker    ports.Locker
	Notifier  ports.Notifier
	Clock     ports.Clock
}

type Service struct {
	jobs      ports.JobRepository
	statuses  ports.StatusRepository
	settings  ports.SettingsRepository
	directory ports.Directory
	uow       ports.UnitOfWork
	cache     ports.Cache
	locker    ports.Locker
	notifier  ports.Notifier
	clock     ports.Clock
	opts      Options

	settingsMu     sync.RWMutex
	settingsCached *domain.Settings
	settingsGen    uint64
}

// NewService wires the workshop usecases. Zero options fall back to defaults.
func NewService(deps Dependencies, opts Options) *Service {
	if opts.CompanyID == "" {
		opts.CompanyID = defaultCompanyID
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = defaultLockTimeout
	}
	if opts.BusyRetries < 0 {
		opts.BusyRetries = defaultBusyRetries
	}
	if opts.HistoryCacheTTL <= 0 {
		opts.HistoryCacheTTL = defaultHistoryCacheTTL
	}

	clock := deps.Clock
	if clock == nil {
		clock = ports.SystemClock()
	}

	return &Service{
		jobs:      deps.Jobs,
		statuses:  deps.Statuses,
		settings:  deps.Settings,
		directory: deps.Directory,
		uow:       deps.UoW,
		cache:     deps.Cache,
		locker:    deps.Locker,
		notifier:  deps.Notifier,
		clock:     clock,
		opts:      opts,
	}
}

// CompanyID is the workshop this service is scoped to.
func (s *Service) CompanyID() string {
	return s.opts.CompanyID
}

type RegisterJobInput struct {
	JobID                   string
	Title                   string
	CustomerName            string
	Priority                string
	TechnicianID            string
	EstimatedCompletionDate *time.Time
}

type IntakeInput struct {
	JobID string
	// InitialStatus defaults to received.
	InitialStatus domain.Status
	Actor         string
	Notes         string
}

type TransitionInput struct {
	JobID    string
	ToStatus domain.Status
	Actor    string
	Notes    string
}

type ClaimInput struct {
	JobID        string
	TechnicianID string
	Notes        string
}

type ReleaseInput struct {
	JobID string
	Actor string
	Notes string
}

// QueueFilter narrows the ranked queue. Empty slices match everything and a
// zero Limit returns every entry.
type QueueFilter struct {
	Priorities []domain.Priority
	Statuses   []domain.Status
	Limit      int
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Service) checkCore(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.jobs == nil {
		return errors.New("job repository is required")
	}
	if s.statuses == nil {
		return errors.New("status repository is required")
	}
	return nil
}

func (s *Service) checkWriter(ctx context.Context) error {
	if err := s.checkCore(ctx); err != nil {
		return err
	}
	if s.uow == nil {
		return errors.New("workshop unit of work is required")
	}
	if s.locker == nil {
		return errors.New("workshop locker is required")
	}
	return nil
}
