package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"workshopd/internal/bootstrap"
	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/errs"
	"workshopd/internal/transport/httpapi"
	"workshopd/internal/usecase/workshop"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workshop REST API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = firstNonEmpty(strings.TrimSpace(addr), app.Config.HTTP.Addr, ":8080")

		server := &http.Server{
			Addr:         addr,
			Handler:      httpapi.NewRouter(ctx, svc),
			ReadTimeout:  app.Config.HTTP.ReadTimeout,
			WriteTimeout: app.Config.HTTP.WriteTimeout,
		}

		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- server.ListenAndServe()
		}()

		logging.Info(
			ctx,
			"workshop api server started",
			slog.String("addr", addr),
			slog.String("company_id", svc.CompanyID()),
		)

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error(ctx, "workshop api server failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "serve workshop api")
			}
			return nil
		case <-sigCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown workshop api")
		}
		logging.Info(ctx, "workshop api server stopped")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (defaults to http.addr from config)")
}
