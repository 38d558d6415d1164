package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ngld/launchgen/pkg/launchers"
)

func (a *app) cleanCommand() *cobra.Command {
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Removes all generated launchers",
		Long: `Deletes every file with the launcher extension from the output directory. Files that can't be
deleted are reported but don't cause a failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, err := cmd.Flags().GetBool("dry")
			if err != nil {
				return err
			}

			a.runClean(cmd.Context(), dryRun)
			return nil
		},
	}

	cleanCmd.Flags().BoolP("dry", "n", false, "dry run; only print what would be removed")
	return cleanCmd
}

func (a *app) runClean(ctx context.Context, dryRun bool) {
	opts := a.cfg.Options(a.root)
	opts.DryRun = dryRun

	result, err := launchers.Clean(a.context(ctx), opts)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Some launchers could not be removed")
	}

	a.logger.Info().
		Int("removed", len(result.Removed)).
		Int("failed", len(result.Failed)).
		Msgf("%d launchers removed", len(result.Removed))
}
