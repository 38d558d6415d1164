package launchers

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"go.uber.org/multierr"
)

// UpToDate reports whether the launcher exists and is at least as new as its script
func UpToDate(l Launcher) (bool, error) {
	target, err := os.Stat(l.Target)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, eris.Wrapf(err, "Failed to check output %s", l.Target)
	}

	source, err := os.Stat(l.Source)
	if err != nil {
		return false, eris.Wrapf(err, "Failed to check input %s", l.Source)
	}

	return !source.ModTime().After(target.ModTime()), nil
}

// writeFile replaces dest with content. The content is written to a temporary file next to dest first
// which means that dest is either fully written or left untouched.
func writeFile(dest string, content []byte, mode os.FileMode) error {
	tmpPath := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+"."+nanoid.New()+".tmp")
	handle, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return eris.Wrapf(err, "Failed to create %s", tmpPath)
	}

	_, err = handle.Write(content)
	if err == nil {
		err = handle.Sync()
	}
	closeErr := handle.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(err, "Failed to write %s", tmpPath)
	}

	err = os.Rename(tmpPath, dest)
	if err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(err, "Failed to move %s to %s", tmpPath, dest)
	}

	return nil
}

// Generate renders and writes a single launcher regardless of its current state
func Generate(l Launcher, opts Options) error {
	opts = opts.withDefaults()
	content, err := Render(l, opts)
	if err != nil {
		return err
	}

	return writeFile(l.Target, content, FileMode(opts.Flavor))
}

// Build generates every launcher that is missing or older than its script.
// Failing to create the output directory aborts the build. Failures of individual launchers are collected
// and returned together after all other launchers have been processed.
func Build(ctx context.Context, opts Options) (*BuildResult, error) {
	opts = opts.withDefaults()
	result := &BuildResult{
		Generated: []Launcher{},
		Skipped:   []Launcher{},
		Failed:    []Launcher{},
	}

	launchers, err := Discover(ctx, opts)
	if err != nil {
		return result, err
	}

	if len(launchers) == 0 {
		logger(ctx).Info().Msg("no scripts found")
		return result, nil
	}

	outputDir := opts.resolve(opts.OutputDir)
	if !opts.DryRun {
		err = os.MkdirAll(outputDir, 0755)
		if err != nil {
			return result, eris.Wrapf(err, "Failed to create output directory %s", outputDir)
		}
	}

	var errs error
	for _, item := range launchers {
		if err := ctx.Err(); err != nil {
			return result, multierr.Append(errs, err)
		}

		err = buildOne(ctx, item, opts, result)
		if err != nil {
			logger(ctx).Error().Err(err).Str("launcher", item.Name).Str("path", item.Target).
				Msgf("Failed to generate %s", item.Target)
			result.Failed = append(result.Failed, item)
			errs = multierr.Append(errs, err)
		}

		if opts.Progress != nil {
			opts.Progress(item)
		}
	}

	return result, errs
}

func buildOne(ctx context.Context, item Launcher, opts Options, result *BuildResult) error {
	if !opts.Force {
		fresh, err := UpToDate(item)
		if err != nil {
			return err
		}

		if fresh {
			logger(ctx).Debug().Str("launcher", item.Name).Str("path", item.Target).
				Msgf("%s is up to date", item.Target)
			result.Skipped = append(result.Skipped, item)
			return nil
		}
	}

	if opts.DryRun {
		logger(ctx).Info().Str("launcher", item.Name).Str("path", item.Target).
			Msgf("would generate %s", item.Target)
		result.Generated = append(result.Generated, item)
		return nil
	}

	err := Generate(item, opts)
	if err != nil {
		return err
	}

	logger(ctx).Info().Str("launcher", item.Name).Str("path", item.Target).Msgf("generated %s", item.Target)
	result.Generated = append(result.Generated, item)
	return nil
}
