package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngld/launchgen/pkg/launchers"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate(root))

	assert.Equal(t, "scripts", cfg.ScriptDir)
	assert.Equal(t, "bin", cfg.OutputDir)
	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, []string{".py"}, cfg.ScriptExts)
	assert.Equal(t, "batch", cfg.Flavor)
	assert.Equal(t, "python", cfg.Interpreter)
	assert.Equal(t, ".bat", cfg.EffectiveLauncherExt())
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "launchgen.yml"), `
script_dir: tools
output_dir: dist/bin
flavor: posix
log:
  level: debug
`)

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate(root))

	assert.Equal(t, "tools", cfg.ScriptDir)
	assert.Equal(t, "dist/bin", cfg.OutputDir)
	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, ".sh", cfg.EffectiveLauncherExt())
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestLoadTOMLFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "launchgen.toml"), `
script_dir = "tools"
script_exts = [".py", ".pyw"]

[log]
level = "warn"
`)

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate(root))

	assert.Equal(t, "tools", cfg.ScriptDir)
	assert.Equal(t, []string{".py", ".pyw"}, cfg.ScriptExts)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel())
}

func TestLoadJSONFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "launchgen.json"), `{"script_dir": "tools", "flavor": "posix"}`)

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, "tools", cfg.ScriptDir)
	assert.Equal(t, "posix", cfg.Flavor)
}

func TestLogLevelIsCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	t.Setenv("LAUNCHGEN_LOG_LEVEL", "DEBUG")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate(root))

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestValidateResolvesDirectoriesAgainstRoot(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root, "")
	require.NoError(t, err)

	// same directory, once relative and once absolute
	cfg.ScriptDir = "scripts"
	cfg.OutputDir = filepath.Join(root, "scripts")
	cfg.LauncherExt = ".py"
	assert.Error(t, cfg.Validate(root))

	cfg.OutputDir = filepath.Join(root, "bin")
	assert.NoError(t, cfg.Validate(root))
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	root := t.TempDir()

	_, err := Load(root, filepath.Join(root, "missing.yml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "launchgen.yml"), "venv_dir: env\ninterpreter: python3\n")
	t.Setenv("LAUNCHGEN_VENV_DIR", "venvs/main")

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, "venvs/main", cfg.VenvDir)
	assert.Equal(t, "python3", cfg.Interpreter)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), "LAUNCHGEN_INTERPRETER=pypy\nLAUNCHGEN_OUTPUT_DIR=out\n")
	t.Setenv("LAUNCHGEN_OUTPUT_DIR", "release")
	t.Cleanup(func() {
		os.Unsetenv("LAUNCHGEN_INTERPRETER")
	})

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, "pypy", cfg.Interpreter)
	assert.Equal(t, "release", cfg.OutputDir)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(cfg *Config){
		"flavor":          func(cfg *Config) { cfg.Flavor = "powershell" },
		"log level":       func(cfg *Config) { cfg.Log.Level = "verbose" },
		"script dir":      func(cfg *Config) { cfg.ScriptDir = "" },
		"output dir":      func(cfg *Config) { cfg.OutputDir = "" },
		"interpreter":     func(cfg *Config) { cfg.Interpreter = "  " },
		"script ext":      func(cfg *Config) { cfg.ScriptExts = []string{"py"} },
		"no script exts":  func(cfg *Config) { cfg.ScriptExts = nil },
		"launcher ext":    func(cfg *Config) { cfg.LauncherExt = "bat" },
		"clean overreach": func(cfg *Config) { cfg.OutputDir = "scripts/"; cfg.LauncherExt = ".py" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			cfg, err := Load(root, "")
			require.NoError(t, err)

			mutate(cfg)
			assert.Error(t, cfg.Validate(root))
		})
	}
}

func TestOptions(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	cfg.ScriptExts = []string{".py", ".pyw"}

	opts := cfg.Options("/project")
	assert.Equal(t, launchers.Options{
		Root:        "/project",
		ScriptDir:   "scripts",
		OutputDir:   "bin",
		VenvDir:     ".venv",
		ScriptExts:  []string{".py", ".pyw"},
		LauncherExt: ".bat",
		Flavor:      launchers.FlavorBatch,
		Interpreter: "python",
	}, opts)
}
