package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/ngld/launchgen/pkg/launchers"
)

// EnvPrefix is prepended to all environment variables read by Load
const EnvPrefix = "LAUNCHGEN"

// FileNames lists the config files that are looked for in the project root, in order
var FileNames = []string{"launchgen.yml", "launchgen.yaml", "launchgen.toml", "launchgen.json"}

// Config describes all configuration options
type Config struct {
	ScriptDir   string   `default:"scripts" env:"SCRIPT_DIR" yaml:"script_dir" toml:"script_dir" json:"script_dir" usage:"Directory that is scanned for scripts"`
	OutputDir   string   `default:"bin" env:"OUTPUT_DIR" yaml:"output_dir" toml:"output_dir" json:"output_dir" usage:"Directory the launchers are written to"`
	VenvDir     string   `default:".venv" env:"VENV_DIR" yaml:"venv_dir" toml:"venv_dir" json:"venv_dir" usage:"Virtual environment activated by the launchers"`
	ScriptExts  []string `default:".py" env:"SCRIPT_EXTS" yaml:"script_exts" toml:"script_exts" json:"script_exts" usage:"Extensions of the scripts that get a launcher"`
	LauncherExt string   `env:"LAUNCHER_EXT" yaml:"launcher_ext" toml:"launcher_ext" json:"launcher_ext" usage:"Launcher extension (derived from the flavor if empty)"`
	Flavor      string   `default:"batch" env:"FLAVOR" yaml:"flavor" toml:"flavor" json:"flavor" usage:"Launcher flavor (batch or posix)"`
	Interpreter string   `default:"python" env:"INTERPRETER" yaml:"interpreter" toml:"interpreter" json:"interpreter" usage:"Command used to run the scripts (a path with spaces is quoted unless flags follow it)"`
	Log         struct {
		Level string `default:"info" env:"LEVEL" yaml:"level" toml:"level" json:"level"`
		JSON  bool   `default:"false" env:"JSON" yaml:"json" toml:"json" json:"json" usage:"Output JSON lines instead of pretty console messages"`
	} `env:"LOG" yaml:"log" toml:"log" json:"log"`
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object.
// If file is empty, the first of FileNames that exists in root is used.
func Loader(root, file string) (*Config, *aconfig.Loader) {
	cfg := Config{}
	acfg := aconfig.Config{
		SkipFlags:        true,
		EnvPrefix:        EnvPrefix,
		AllowUnknownEnvs: true,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yml":  aconfigyaml.New(),
			".yaml": aconfigyaml.New(),
			".toml": tomlDecoder{},
		},
	}

	if file != "" {
		acfg.Files = []string{file}
		acfg.FailOnFileNotFound = true
	} else {
		acfg.Files = make([]string, len(FileNames))
		for idx, name := range FileNames {
			acfg.Files[idx] = filepath.Join(root, name)
		}
	}

	return &cfg, aconfig.LoaderFor(&cfg, acfg)
}

// LoadEnvFile reads the .env file in root (if there is one) into the process environment.
// Variables that are already set keep their value.
func LoadEnvFile(root string) error {
	envFile := filepath.Join(root, ".env")
	err := godotenv.Load(envFile)
	if err != nil && !eris.Is(err, os.ErrNotExist) {
		return eris.Wrapf(err, "Failed to load %s", envFile)
	}

	return nil
}

// Load reads the .env file, the config file and the environment in that order of precedence (lowest first)
func Load(root, file string) (*Config, error) {
	err := LoadEnvFile(root)
	if err != nil {
		return nil, err
	}

	cfg, loader := Loader(root, file)
	err = loader.Load()
	if err != nil {
		return nil, eris.Wrap(err, "Failed to load config")
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values. Relative directories are resolved against root.
// log.level is normalized to lower case.
func (cfg *Config) Validate(root string) error {
	if cfg.ScriptDir == "" {
		return eris.New(`Invalid value for script_dir: must not be empty`)
	}

	if cfg.OutputDir == "" {
		return eris.New(`Invalid value for output_dir: must not be empty`)
	}

	if cfg.VenvDir == "" {
		return eris.New(`Invalid value for venv_dir: must not be empty`)
	}

	if strings.TrimSpace(cfg.Interpreter) == "" {
		return eris.New(`Invalid value for interpreter: must not be empty`)
	}

	if !launchers.Flavor(cfg.Flavor).Valid() {
		return eris.Errorf(`Invalid value for flavor: %s (must be one of batch or posix)`, cfg.Flavor)
	}

	if len(cfg.ScriptExts) == 0 {
		return eris.New(`Invalid value for script_exts: at least one extension is required`)
	}

	for _, ext := range cfg.ScriptExts {
		if !isExt(ext) {
			return eris.Errorf(`Invalid value for script_exts: %s (extensions have to start with a dot)`, ext)
		}
	}

	launcherExt := cfg.EffectiveLauncherExt()
	if !isExt(launcherExt) {
		return eris.Errorf(`Invalid value for launcher_ext: %s (extensions have to start with a dot)`, launcherExt)
	}

	if samePath(root, cfg.ScriptDir, cfg.OutputDir) {
		for _, ext := range cfg.ScriptExts {
			if strings.EqualFold(ext, launcherExt) {
				return eris.Errorf(`Invalid value for launcher_ext: %s is a script extension and clean would delete the scripts`, launcherExt)
			}
		}
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	return nil
}

func resolveDir(root, dir string) string {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}

func samePath(root, a, b string) bool {
	a = resolveDir(root, a)
	b = resolveDir(root, b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func isExt(ext string) bool {
	return len(ext) > 1 && ext[0] == '.' && !strings.ContainsAny(ext[1:], `./\`)
}

// EffectiveLauncherExt returns the configured launcher extension or the flavor's default
func (cfg *Config) EffectiveLauncherExt() string {
	if cfg.LauncherExt != "" {
		return cfg.LauncherExt
	}
	return launchers.Flavor(cfg.Flavor).DefaultExt()
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}

// Options converts the config into generator options. Relative directories are resolved against root.
func (cfg *Config) Options(root string) launchers.Options {
	exts := make([]string, len(cfg.ScriptExts))
	copy(exts, cfg.ScriptExts)

	return launchers.Options{
		Root:        root,
		ScriptDir:   cfg.ScriptDir,
		OutputDir:   cfg.OutputDir,
		VenvDir:     cfg.VenvDir,
		ScriptExts:  exts,
		LauncherExt: cfg.EffectiveLauncherExt(),
		Flavor:      launchers.Flavor(cfg.Flavor),
		Interpreter: cfg.Interpreter,
	}
}
