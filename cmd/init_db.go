/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"workshopd/internal/bootstrap"
	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/errs"
	"workshopd/internal/usecase/workshop"
)

// initDbCmd represents the initDb command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize database schema",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		logging.Info(ctx, "start init-db")

		if err := app.InitSchema(ctx); err != nil {
			logging.Error(ctx, "initialize schema failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "initialize schema")
		}

		logging.Info(ctx, "init-db finished", slog.String("database_driver", app.Config.Database.Driver))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "database schema initialized: %s\n", app.Config.Database.Driver); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		return nil
	}),
}

var purgeCacheCmd = &cobra.Command{
	Use:   "purge-cache",
	Short: "Delete expired history cache entries",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		purged, err := app.PurgeCache(ctx)
		if err != nil {
			logging.Error(ctx, "purge cache failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "purge cache")
		}
		return writeOutput(cmd.OutOrStdout(), fmt.Sprintf("purged %d expired cache entries\n", purged))
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
	rootCmd.AddCommand(purgeCacheCmd)
}
