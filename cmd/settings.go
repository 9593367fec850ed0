package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"workshopd/internal/bootstrap"
	"workshopd/internal/bootstrap/logging"
	domain "workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/usecase/workshop"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or update workshop settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective workshop settings",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		settings, err := svc.GetSettings(ctx)
		if err != nil {
			logging.Error(ctx, "get settings failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "get settings")
		}
		return writeOutput(cmd.OutOrStdout(), renderSettings(settings))
	}),
}

var settingsApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a TOML settings patch",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *workshop.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		path, _ := cmd.Flags().GetString("file")
		update, err := loadSettingsUpdate(path)
		if err != nil {
			return err
		}

		settings, err := svc.UpdateSettings(ctx, update)
		if err != nil {
			logging.Error(ctx, "update settings failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "update settings")
		}
		return writeOutput(cmd.OutOrStdout(), renderSettings(settings))
	}),
}

// loadSettingsUpdate reads a partial settings file; keys left out keep their
// current value.
func loadSettingsUpdate(path string) (domain.SettingsUpdate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.SettingsUpdate{}, errs.Wrapf(err, "read settings file %q", path)
	}

	var update domain.SettingsUpdate
	if err := toml.Unmarshal(raw, &update); err != nil {
		return domain.SettingsUpdate{}, fmt.Errorf("%w: parse settings file %q: %v", domain.ErrInvalidSettings, path, err)
	}
	return update, nil
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsApplyCmd)

	settingsApplyCmd.Flags().String("file", "", "TOML file with the settings to change")
	_ = settingsApplyCmd.MarkFlagRequired("file")
}
