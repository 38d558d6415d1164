package launchers

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// TargetPath returns the launcher path for the given script: the script's directory is replaced with
// outputDir and its extension with launcherExt.
func TargetPath(outputDir, source, launcherExt string) string {
	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outputDir, name+launcherExt)
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}

	for _, candidate := range exts {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// Discover lists the scripts in the script directory and maps each of them to its launcher.
// A missing or unreadable script directory yields no launchers rather than an error.
func Discover(ctx context.Context, opts Options) ([]Launcher, error) {
	opts = opts.withDefaults()
	scriptDir := opts.resolve(opts.ScriptDir)
	outputDir := opts.resolve(opts.OutputDir)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			logger(ctx).Info().Str("path", scriptDir).Msgf("%s does not exist, nothing to do", scriptDir)
		} else {
			logger(ctx).Warn().Err(err).Str("path", scriptDir).Msgf("Could not read %s, nothing to do", scriptDir)
		}
		return []Launcher{}, nil
	}

	scriptPrefix := filepath.ToSlash(opts.ScriptDir)
	seen := make(map[string]Launcher, len(entries))
	result := make([]Launcher, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), opts.ScriptExts) {
			continue
		}

		source := filepath.Join(scriptDir, entry.Name())
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(source)
			if err != nil || info.IsDir() {
				logger(ctx).Debug().Str("path", source).Msg("skipping broken or directory symlink")
				continue
			}
		}

		launcher := Launcher{
			Name:   strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Script: path.Join(scriptPrefix, entry.Name()),
			Source: source,
			Target: TargetPath(outputDir, entry.Name(), opts.LauncherExt),
		}

		// the comparison has to be case-insensitive since Windows treats foo.bat and Foo.bat as the same file
		key := strings.ToLower(launcher.Target)
		if prev, ok := seen[key]; ok {
			return nil, &CollisionError{
				Target: launcher.Target,
				First:  prev.Source,
				Second: launcher.Source,
			}
		}

		seen[key] = launcher
		result = append(result, launcher)
	}

	return result, nil
}
