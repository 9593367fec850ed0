package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"workshopd/internal/bootstrap"
	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/usecase/workshop"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the ranked queue of unclaimed jobs",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		priorities, _ := cmd.Flags().GetStringSlice("priority")
		statuses, _ := cmd.Flags().GetStringSlice("status")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := workshop.QueueFilter{Limit: limit}
		for _, raw := range priorities {
			p, err := domain.ParsePriority(raw)
			if err != nil {
				return err
			}
			filter.Priorities = append(filter.Priorities, p)
		}
		for _, raw := range statuses {
			s, err := domain.ParseStatus(raw)
			if err != nil {
				return err
			}
			filter.Statuses = append(filter.Statuses, s)
		}

		entries, err := svc.ListQueue(ctx, filter)
		if err != nil {
			logging.Error(ctx, "list queue failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list queue")
		}
		return writeOutput(cmd.OutOrStdout(), renderQueue(entries))
	}),
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show workshop metrics for a date window",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		fromRaw, _ := cmd.Flags().GetString("from")
		toRaw, _ := cmd.Flags().GetString("to")

		from, err := time.Parse(time.DateOnly, fromRaw)
		if err != nil {
			return fmt.Errorf("invalid --from %q: want YYYY-MM-DD", fromRaw)
		}
		to, err := time.Parse(time.DateOnly, toRaw)
		if err != nil {
			return fmt.Errorf("invalid --to %q: want YYYY-MM-DD", toRaw)
		}

		metrics, err := svc.GetMetrics(ctx, domain.DateRange{From: from, To: to})
		if err != nil {
			logging.Error(ctx, "get metrics failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "get metrics")
		}
		return writeOutput(cmd.OutOrStdout(), renderMetrics(metrics))
	}),
}

func init() {
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(metricsCmd)

	queueCmd.Flags().StringSlice("priority", nil, "Only these priorities")
	queueCmd.Flags().StringSlice("status", nil, "Only these statuses")
	queueCmd.Flags().Int("limit", 0, "Maximum entries (0 = all)")

	today := time.Now().UTC().Format(time.DateOnly)
	metricsCmd.Flags().String("from", time.Now().UTC().AddDate(0, 0, -30).Format(time.DateOnly), "Window start (YYYY-MM-DD)")
	metricsCmd.Flags().String("to", today, "Window end, inclusive (YYYY-MM-DD)")
}
