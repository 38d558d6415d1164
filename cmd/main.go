package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ngld/launchgen/pkg"
	"github.com/ngld/launchgen/pkg/config"
	"github.com/ngld/launchgen/pkg/launchers"
)

type app struct {
	configFile  string
	root        string
	scriptDir   string
	outputDir   string
	venvDir     string
	flavor      string
	interpreter string
	logLevel    string
	jsonLog     bool

	cfg    *config.Config
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func newApp() *app {
	return &app{
		logger: zerolog.New(NewConsoleWriter(os.Stderr)),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (a *app) command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "launchgen",
		Short: "Generates virtualenv launchers for project scripts",
		Long: `launchgen writes one launcher per script found in the script directory. Each launcher
activates the project's virtual environment, runs the script with all arguments passed
through and deactivates the environment again. Without a subcommand, build is run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd.Context(), false, false, false)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (defaults to launchgen.yml in the project root)")
	flags.StringVar(&a.root, "root", "", "project root (defaults to the nearest parent with a config file or .git)")
	flags.StringVar(&a.scriptDir, "script-dir", "", "directory that is scanned for scripts")
	flags.StringVar(&a.outputDir, "output-dir", "", "directory the launchers are written to")
	flags.StringVar(&a.venvDir, "venv-dir", "", "virtual environment activated by the launchers")
	flags.StringVar(&a.flavor, "flavor", "", "launcher flavor (batch or posix)")
	flags.StringVar(&a.interpreter, "interpreter", "", "command used to run the scripts")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&a.jsonLog, "json", false, "output JSON lines instead of pretty console messages")

	rootCmd.AddCommand(a.buildCommand(), a.cleanCommand(), a.configCommand())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	a.stdout = cmd.OutOrStdout()
	a.stderr = cmd.ErrOrStderr()
	a.logger = zerolog.New(NewConsoleWriter(a.stderr))

	var err error
	if a.root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return eris.Wrap(err, "Failed to retrieve the current working directory")
		}

		a.root, err = pkg.FindProjectRoot(wd)
		if err != nil {
			return err
		}
	}

	a.cfg, err = config.Load(a.root, a.configFile)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("script-dir") {
		a.cfg.ScriptDir = a.scriptDir
	}
	if changed("output-dir") {
		a.cfg.OutputDir = a.outputDir
	}
	if changed("venv-dir") {
		a.cfg.VenvDir = a.venvDir
	}
	if changed("flavor") {
		a.cfg.Flavor = a.flavor
	}
	if changed("interpreter") {
		a.cfg.Interpreter = a.interpreter
	}
	if changed("log-level") {
		a.cfg.Log.Level = strings.ToLower(a.logLevel)
	}
	if changed("json") {
		a.cfg.Log.JSON = a.jsonLog
	}

	if err = a.cfg.Validate(a.root); err != nil {
		return eris.Wrap(err, "Failed to parse config")
	}

	if a.cfg.Log.JSON {
		a.logger = zerolog.New(a.stderr).With().Timestamp().Logger()
	}
	a.logger = a.logger.Level(a.cfg.LogLevel())
	a.logger.Debug().Str("path", a.root).Msgf("using project root %s", a.root)
	return nil
}

func (a *app) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return launchers.WithLogger(ctx, &a.logger)
}

// Execute runs the launchgen command line and exits with status 1 on failure
func Execute() {
	a := newApp()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	start := time.Now()
	err := a.command().ExecuteContext(ctx)
	stop()

	if err != nil {
		a.logger.Error().Err(err).Msg("launchgen failed")
		os.Exit(1)
	}

	a.logger.Debug().Dur("duration", time.Since(start)).Msg("done")
}
