package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"workshopd/internal/bootstrap"
	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/errs"
	"workshopd/internal/usecase/workshop"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Register and inspect repair jobs",
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a repair job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("id")
		title, _ := cmd.Flags().GetString("title")
		customer, _ := cmd.Flags().GetString("customer")
		priority, _ := cmd.Flags().GetString("priority")
		technician, _ := cmd.Flags().GetString("technician")
		eta, _ := cmd.Flags().GetString("eta")

		input := workshop.RegisterJobInput{
			JobID:        jobID,
			Title:        title,
			CustomerName: customer,
			Priority:     priority,
			TechnicianID: technician,
		}
		if strings.TrimSpace(eta) != "" {
			parsed, err := parseETA(eta)
			if err != nil {
				return err
			}
			input.EstimatedCompletionDate = &parsed
		}

		job, err := svc.RegisterJob(ctx, input)
		if err != nil {
			logging.Error(ctx, "register job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "register job")
		}
		return writeOutput(cmd.OutOrStdout(), renderJob(job))
	}),
}

var jobShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a repair job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		job, err := svc.GetJob(ctx, jobID)
		if err != nil {
			logging.Error(ctx, "show job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "show job")
		}
		return writeOutput(cmd.OutOrStdout(), renderJob(job))
	}),
}

var technicianCmd = &cobra.Command{
	Use:   "technician",
	Short: "Manage the technician directory",
}

var technicianAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register or rename a technician",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		technicianID, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		if err := svc.RegisterTechnician(ctx, technicianID, name); err != nil {
			logging.Error(ctx, "register technician failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "register technician")
		}
		return writeOutput(cmd.OutOrStdout(), fmt.Sprintf("technician saved: %s (%s)\n", technicianID, name))
	}),
}

// parseETA accepts a plain date (end of that day, UTC) or an RFC3339 timestamp.
func parseETA(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --eta %q: want YYYY-MM-DD or RFC3339", raw)
	}
	return t.UTC(), nil
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobShowCmd)
	rootCmd.AddCommand(technicianCmd)
	technicianCmd.AddCommand(technicianAddCmd)

	jobCreateCmd.Flags().String("id", "", "Job id (generated when empty)")
	jobCreateCmd.Flags().String("title", "", "Job title")
	jobCreateCmd.Flags().String("customer", "", "Customer name")
	jobCreateCmd.Flags().String("priority", "medium", "Priority: urgent|high|medium|low")
	jobCreateCmd.Flags().String("technician", "", "Technician already assigned upstream")
	jobCreateCmd.Flags().String("eta", "", "Estimated completion (YYYY-MM-DD or RFC3339)")
	_ = jobCreateCmd.MarkFlagRequired("title")

	jobShowCmd.Flags().String("job", "", "Job id")
	_ = jobShowCmd.MarkFlagRequired("job")

	technicianAddCmd.Flags().String("id", "", "Technician id")
	technicianAddCmd.Flags().String("name", "", "Display name")
	_ = technicianAddCmd.MarkFlagRequired("id")
	_ = technicianAddCmd.MarkFlagRequired("name")
}
