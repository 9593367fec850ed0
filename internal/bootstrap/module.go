package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"workshopd/internal/bootstrap/config"
	"workshopd/internal/bootstrap/database"
	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/errs"
	cacheinfra "workshopd/internal/infrastructure/cache"
	"workshopd/internal/infrastructure/lock"
	"workshopd/internal/infrastructure/notify"
	"workshopd/internal/infrastructure/persistence/relational/repository"
	"workshopd/internal/infrastructure/persistence/relational/uow"
	"workshopd/internal/ports"
	"workshopd/internal/usecase/workshop"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			repository.NewJobRepository,
			fx.As(new(ports.JobRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			repository.NewStatusRepository,
			fx.As(new(ports.StatusRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			repository.NewSettingsRepository,
			fx.As(new(ports.SettingsRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			repository.NewTechnicianDirectory,
			fx.As(new(ports.Directory)),
		),
	),
	fx.Provide(
		fx.Annotate(
			uow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			lock.NewKeyedLocker,
			fx.As(new(ports.Locker)),
		),
	),
	fx.Provide(ports.SystemClock),
	fx.Provide(provideNotifier),
	fx.Provide(provideService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

type closer interface {
	Close() error
}

// provideNotifier picks the notification driver. Broker connections are
// opened eagerly so a bad url fails startup, and drained on stop.
func provideNotifier(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.Notifier, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	var (
		notifier ports.Notifier
		err      error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Notify.Driver)) {
	case "", "log":
		return notify.NewLogNotifier(), nil
	case "nats":
		notifier, err = notify.DialNATS(cfg.Notify.URL, cfg.Notify.SubjectPrefix)
	case "rabbitmq":
		notifier, err = notify.DialRabbitMQ(cfg.Notify.URL, cfg.Notify.Exchange)
	default:
		return nil, fmt.Errorf("unsupported notify driver %q", cfg.Notify.Driver)
	}
	if err != nil {
		return nil, errs.Wrapf(err, "connect %s notifier", cfg.Notify.Driver)
	}

	logging.Info(logCtx, "notifier connected", slog.String("driver", cfg.Notify.Driver))
	if c, ok := notifier.(closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return c.Close()
			},
		})
	}
	return notifier, nil
}

type serviceParams struct {
	fx.In

	Config    config.Config
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

func provideService(p serviceParams) *workshop.Service {
	return workshop.NewService(
		workshop.Dependencies{
			Jobs:      p.Jobs,
			Statuses:  p.Statuses,
			Settings:  p.Settings,
			Directory: p.Directory,
			UoW:       p.UoW,
			Cache:     p.Cache,
			Locker:    p.Locker,
			Notifier:  p.Notifier,
			Clock:     p.Clock,
		},
		workshop.Options{
			CompanyID:       p.Config.Workshop.CompanyID,
			LockTimeout:     p.Config.Workshop.LockTimeout,
			BusyRetries:     p.Config.Workshop.BusyRetries,
			HistoryCacheTTL: p.Config.Workshop.HistoryCacheTTL,
		},
	)
}
