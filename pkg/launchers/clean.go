package launchers

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/multierr"
)

// Clean removes all files with the launcher extension from the output directory.
// A missing output directory is not an error. Files that couldn't be deleted are listed in the result and
// the returned error but don't stop the removal of the remaining files.
func Clean(ctx context.Context, opts Options) (*CleanResult, error) {
	opts = opts.withDefaults()
	result := &CleanResult{
		Removed: []string{},
		Failed:  []string{},
	}

	outputDir := opts.resolve(opts.OutputDir)
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			logger(ctx).Debug().Str("path", outputDir).Msgf("%s does not exist, nothing to clean", outputDir)
			return result, nil
		}
		return result, eris.Wrapf(err, "Failed to read %s", outputDir)
	}

	var errs error
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), opts.LauncherExt) {
			continue
		}

		item := filepath.Join(outputDir, entry.Name())
		if opts.DryRun {
			logger(ctx).Info().Str("path", item).Msgf("would remove %s", item)
			result.Removed = append(result.Removed, item)
			continue
		}

		err = os.Remove(item)
		if err != nil && !eris.Is(err, os.ErrNotExist) {
			logger(ctx).Warn().Err(err).Str("path", item).Msgf("Could not delete %s", item)
			result.Failed = append(result.Failed, item)
			errs = multierr.Append(errs, eris.Wrapf(err, "Could not delete %s", item))
			continue
		}

		logger(ctx).Info().Str("path", item).Msgf("removed %s", item)
		result.Removed = append(result.Removed, item)
	}

	return result, errs
}
