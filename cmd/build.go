package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ngld/launchgen/pkg"
	"github.com/ngld/launchgen/pkg/launchers"
)

func (a *app) buildCommand() *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Generates launchers for all scripts",
		Long: `Generates a launcher for every script in the script directory. Launchers that are newer than
their script are left alone unless --force is passed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}

			dryRun, err := cmd.Flags().GetBool("dry")
			if err != nil {
				return err
			}

			progress, err := cmd.Flags().GetBool("progress")
			if err != nil {
				return err
			}

			return a.runBuild(cmd.Context(), force, dryRun, progress)
		},
	}

	buildCmd.Flags().BoolP("force", "f", false, "force build; regenerate all launchers even if they're up to date")
	buildCmd.Flags().BoolP("dry", "n", false, "dry run; only print what would be generated")
	buildCmd.Flags().BoolP("progress", "p", false, "show a progress bar instead of one line per launcher")
	return buildCmd
}

func getProgressBar(out io.Writer, length int, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.NewOptions(length,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
	)
}

func (a *app) runBuild(ctx context.Context, force, dryRun, progress bool) error {
	opts := a.cfg.Options(a.root)
	opts.Force = force
	opts.DryRun = dryRun

	ctx = a.context(ctx)
	var bar *progressbar.ProgressBar
	if progress && !a.cfg.Log.JSON {
		list, err := launchers.Discover(ctx, opts)
		if err != nil {
			return err
		}

		// per-launcher messages would break the bar
		quiet := a.logger.Level(zerolog.WarnLevel)
		ctx = launchers.WithLogger(ctx, &quiet)

		pkg.PrintTask(a.stderr, "Generating launchers")
		bar = getProgressBar(a.stderr, len(list), "launchers")
		opts.Progress = func(launchers.Launcher) {
			bar.Add(1)
		}
	}

	result, err := launchers.Build(ctx, opts)
	if bar != nil {
		bar.Finish()
	}

	if err != nil {
		if bar != nil {
			for _, item := range result.Failed {
				pkg.PrintError(a.stderr, fmt.Sprintf("%s could not be generated", item.Target))
			}
		}
		return eris.Wrap(err, "Failed to generate launchers")
	}

	if bar != nil {
		pkg.PrintSubtask(a.stderr, fmt.Sprintf("%d generated, %d up to date", len(result.Generated), len(result.Skipped)))
	}

	a.logger.Info().
		Int("generated", len(result.Generated)).
		Int("skipped", len(result.Skipped)).
		Msgf("%d launchers generated, %d up to date", len(result.Generated), len(result.Skipped))
	return nil
}
