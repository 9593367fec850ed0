package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"workshopd/internal/bootstrap/config"
	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/errs"
	"workshopd/internal/infrastructure/cache"
	"workshopd/internal/infrastructure/persistence/relational/model"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration", slog.String("driver", a.Config.Database.Driver))

	if err := a.DB.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	logging.Info(logCtx, "schema migration completed")
	return nil
}

// PurgeCache drops expired cache rows; stale history entries are otherwise
// only removed lazily on read.
func (a *App) PurgeCache(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	purged, err := cache.NewSQLCache(a.DB).PurgeExpired(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "purge expired cache entries")
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")),
		"expired cache entries purged",
		slog.Int64("count", purged),
	)
	return purged, nil
}
