package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"workshopd/internal/bootstrap"
	"workshopd/internal/bootstrap/logging"
	"workshopd/internal/errs"
	"workshopd/internal/usecase/workshop"
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Assign a job to a technician within capacity limits",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		technician, _ := cmd.Flags().GetString("technician")
		notes, _ := cmd.Flags().GetString("notes")

		job, err := svc.ClaimJob(ctx, workshop.ClaimInput{
			JobID:        jobID,
			TechnicianID: technician,
			Notes:        notes,
		})
		if err != nil {
			logging.Error(ctx, "claim job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "claim job")
		}
		return writeOutput(cmd.OutOrStdout(), renderJob(job))
	}),
}

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Return a claimed job to the queue",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		actor, _ := cmd.Flags().GetString("actor")
		notes, _ := cmd.Flags().GetString("notes")

		job, err := svc.ReleaseJob(ctx, workshop.ReleaseInput{
			JobID: jobID,
			Actor: actor,
			Notes: notes,
		})
		if err != nil {
			logging.Error(ctx, "release job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "release job")
		}
		return writeOutput(cmd.OutOrStdout(), renderJob(job))
	}),
}

func init() {
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(releaseCmd)

	claimCmd.Flags().String("job", "", "Job id")
	claimCmd.Flags().String("technician", "", "Technician id")
	claimCmd.Flags().String("notes", "", "Free-form notes")
	_ = claimCmd.MarkFlagRequired("job")
	_ = claimCmd.MarkFlagRequired("technician")

	releaseCmd.Flags().String("job", "", "Job id")
	releaseCmd.Flags().String("actor", "", "Who released the job")
	releaseCmd.Flags().String("notes", "", "Free-form notes")
	_ = releaseCmd.MarkFlagRequired("job")
	_ = releaseCmd.MarkFlagRequired("actor")
}
