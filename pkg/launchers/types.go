package launchers

import (
	"fmt"
	"path/filepath"
)

// Flavor selects the dialect a launcher is written in
type Flavor string

const (
	// FlavorBatch produces Windows batch files
	FlavorBatch Flavor = "batch"
	// FlavorPosix produces /bin/sh scripts
	FlavorPosix Flavor = "posix"
)

// Flavors lists all supported flavors
var Flavors = []Flavor{FlavorBatch, FlavorPosix}

// DefaultExt returns the launcher extension that is used if none has been configured
func (f Flavor) DefaultExt() string {
	if f == FlavorPosix {
		return ".sh"
	}
	return ".bat"
}

// Valid reports whether f is one of the supported flavors
func (f Flavor) Valid() bool {
	for _, known := range Flavors {
		if f == known {
			return true
		}
	}
	return false
}

// Options describes where scripts are found, where launchers are written to and what they contain
type Options struct {
	// Root is the directory relative paths are resolved against. The working directory is used if it's empty.
	Root string
	// ScriptDir is scanned for scripts. The launchers reference scripts through this path
	// so it should be relative to the directory the launchers are run from.
	ScriptDir string
	OutputDir string
	// VenvDir is the path of the virtual environment as seen from the launcher's working directory
	VenvDir     string
	ScriptExts  []string
	LauncherExt string
	Flavor      Flavor
	Interpreter string

	// Force regenerates all launchers even if they're up to date
	Force bool
	// DryRun only reports what would be done
	DryRun bool
	// Progress is called once for each launcher Build processed
	Progress func(Launcher)
}

// DefaultOptions returns the options matching the conventional project layout
func DefaultOptions() Options {
	return Options{
		ScriptDir:   "scripts",
		OutputDir:   "bin",
		VenvDir:     ".venv",
		ScriptExts:  []string{".py"},
		Flavor:      FlavorBatch,
		Interpreter: "python",
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.ScriptDir == "" {
		o.ScriptDir = defaults.ScriptDir
	}
	if o.OutputDir == "" {
		o.OutputDir = defaults.OutputDir
	}
	if o.VenvDir == "" {
		o.VenvDir = defaults.VenvDir
	}
	if len(o.ScriptExts) == 0 {
		o.ScriptExts = defaults.ScriptExts
	}
	if o.Flavor == "" {
		o.Flavor = defaults.Flavor
	}
	if o.LauncherExt == "" {
		o.LauncherExt = o.Flavor.DefaultExt()
	}
	if o.Interpreter == "" {
		o.Interpreter = defaults.Interpreter
	}

	return o
}

func (o Options) resolve(path string) string {
	if o.Root == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(o.Root, path)
}

// Launcher maps a single script to its launcher
type Launcher struct {
	// Name is the script's file name without extension
	Name string
	// Script is the script path as written into the launcher
	Script string
	// Source is the script's location on disk
	Source string
	// Target is the launcher's location on disk
	Target string
}

func (l Launcher) String() string {
	return fmt.Sprintf("<Launcher %s: %s>", l.Name, l.Script)
}

// BuildResult lists what happened to each launcher during Build
type BuildResult struct {
	Generated []Launcher
	Skipped   []Launcher
	Failed    []Launcher
}

// CleanResult lists the launcher files Clean removed or failed to remove
type CleanResult struct {
	Removed []string
	Failed  []string
}

// CollisionError is returned if two scripts would be mapped to the same launcher
type CollisionError struct {
	Target string
	First  string
	Second string
}

var _ error = (*CollisionError)(nil)

func (e *CollisionError) Error() string {
	return fmt.Sprintf("The scripts %s and %s would both generate %s.", e.First, e.Second, e.Target)
}
