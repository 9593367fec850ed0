package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"workshopd/internal/bootstrap"
	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/usecase/workshop"
)

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Create the equipment status record for a job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		initial, _ := cmd.Flags().GetString("status")
		actor, _ := cmd.Flags().GetString("actor")
		notes, _ := cmd.Flags().GetString("notes")

		st, err := svc.CreateIntakeStatus(ctx, workshop.IntakeInput{
			JobID:         jobID,
			InitialStatus: domain.Status(initial),
			Actor:         actor,
			Notes:         notes,
		})
		if err != nil {
			logging.Error(ctx, "intake failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "intake equipment")
		}
		return writeOutput(cmd.OutOrStdout(), renderStatus(st))
	}),
}

var transitionCmd = &cobra.Command{
	Use:   "transition",
	Short: "Move a job's equipment to the next status",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		listOnly, _ := cmd.Flags().GetBool("list")
		if listOnly {
			allowed, err := svc.AllowedTransitions(ctx, jobID)
			if err != nil {
				return errs.Wrap(err, "list allowed transitions")
			}
			names := make([]string, 0, len(allowed))
			for _, s := range allowed {
				names = append(names, string(s))
			}
			return writeOutput(cmd.OutOrStdout(), fmt.Sprintf("allowed: %s\n", firstNonEmpty(strings.Join(names, ", "), "(none)")))
		}

		to, _ := cmd.Flags().GetString("to")
		actor, _ := cmd.Flags().GetString("actor")
		notes, _ := cmd.Flags().GetString("notes")

		st, err := svc.RecordTransition(ctx, workshop.TransitionInput{
			JobID:    jobID,
			ToStatus: domain.Status(to),
			Actor:    actor,
			Notes:    notes,
		})
		if err != nil {
			logging.Error(ctx, "record transition failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "record transition")
		}
		return writeOutput(cmd.OutOrStdout(), renderStatus(st))
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current equipment status of a job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		st, err := svc.GetStatus(ctx, jobID)
		if err != nil {
			logging.Error(ctx, "get status failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "get status")
		}
		return writeOutput(cmd.OutOrStdout(), renderStatus(st))
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the status history of a job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		entries, err := svc.GetHistory(ctx, jobID)
		if err != nil {
			logging.Error(ctx, "get history failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "get history")
		}
		return writeOutput(cmd.OutOrStdout(), renderHistory(jobID, entries))
	}),
}

func init() {
	rootCmd.AddCommand(intakeCmd)
	rootCmd.AddCommand(transitionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)

	intakeCmd.Flags().String("job", "", "Job id")
	intakeCmd.Flags().String("status", string(domain.StatusReceived), "Initial status: pending_intake|received")
	intakeCmd.Flags().String("actor", "", "Who performed the intake")
	intakeCmd.Flags().String("notes", "", "Free-form notes")
	_ = intakeCmd.MarkFlagRequired("job")
	_ = intakeCmd.MarkFlagRequired("actor")

	transitionCmd.Flags().String("job", "", "Job id")
	transitionCmd.Flags().String("to", "", "Target status")
	transitionCmd.Flags().String("actor", "", "Who made the change")
	transitionCmd.Flags().String("notes", "", "Free-form notes")
	transitionCmd.Flags().Bool("list", false, "List the statuses the job can move to")
	_ = transitionCmd.MarkFlagRequired("job")

	statusCmd.Flags().String("job", "", "Job id")
	_ = statusCmd.MarkFlagRequired("job")

	historyCmd.Flags().String("job", "", "Job id")
	_ = historyCmd.MarkFlagRequired("job")
}
