// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/invowk/liveterm/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName names the config directory.
	AppName = "liveterm"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// EnvPrefix prefixes the variables that override config keys, e.g.
	// LIVETERM_UI_COLOR for ui.color.
	EnvPrefix = "LIVETERM"

	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// keys lists every config key that can be overridden from the environment.
var keys = []string{
	"ui.color",
	"ui.interactive",
	"ui.output",
	"ui.line_erase",
	"ui.verbose",
	"spinner.type",
	"spinner.interval",
	"log.level",
}

type (
	// LoadOptions are the explicit inputs of a load. Nothing else is read
	// from the process.
	LoadOptions struct {
		// ConfigFilePath forces a specific file. A missing file is an error.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory.
		ConfigDirPath string
		// EnvFile is a dotenv file layered beneath LookupEnv.
		EnvFile string
		// LookupEnv reads the environment; os.LookupEnv when nil.
		LookupEnv func(string) (string, bool)
	}

	// Provider loads configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// Result is a loaded Config together with the file it came from, empty
	// when only defaults and environment were used.
	Result struct {
		Config *Config
		Path   string
	}

	fileProvider struct{}
)

// NewProvider returns the file-backed Provider.
func NewProvider() Provider {
	return fileProvider{}
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	res, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// ConfigDir returns the liveterm config directory: %APPDATA% on Windows,
// ~/Library/Application Support on macOS, $XDG_CONFIG_HOME (or ~/.config)
// elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// FilePath returns the config file path inside dir, or inside ConfigDir
// when dir is empty.
func FilePath(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// EnvKey maps a config key to its override variable.
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load builds a Config from defaults, the config file, the optional dotenv
// file and the environment, in increasing order of precedence.
func Load(ctx context.Context, opts LoadOptions) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	path, err := resolveFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Run 'liveterm config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	lookup, err := envLookup(opts)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if val, ok := lookup(EnvKey(key)); ok {
			v.Set(key, val)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// NO_COLOR and NO_TTY count as set when non-empty, whatever the value.
	if val, ok := lookup("NO_COLOR"); ok && val != "" {
		cfg.NoColor = true
	}
	if val, ok := lookup("NO_TTY"); ok && val != "" {
		cfg.NoTTY = true
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.InvalidConfigId).
			WithSuggestion("Fix the reported values in the config file or in the LIVETERM_* variables").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &Result{Config: &cfg, Path: path}, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("ui.color", string(d.UI.Color))
	v.SetDefault("ui.interactive", string(d.UI.Interactive))
	v.SetDefault("ui.output", string(d.UI.Output))
	v.SetDefault("ui.line_erase", d.UI.LineErase)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("spinner.type", d.Spinner.Type)
	v.SetDefault("spinner.interval", string(d.Spinner.Interval))
	v.SetDefault("log.level", string(d.Log.Level))
}

// resolveFile picks the config file to read, or "" when none exists.
func resolveFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the path passed to --config").
				WithSuggestion("Run 'liveterm config init' to create a default file").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	path, err := FilePath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if fileExists(path) {
		return path, nil
	}
	local := ConfigFileName + "." + ConfigFileExt
	if opts.ConfigDirPath == "" && fileExists(local) {
		return local, nil
	}
	return "", nil
}

// envLookup layers the dotenv file beneath the process lookup.
func envLookup(opts LoadOptions) (func(string) (string, bool), error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if opts.EnvFile == "" {
		return lookup, nil
	}

	dotenv, err := godotenv.Read(opts.EnvFile)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read env file").
			WithResource(opts.EnvFile).
			WithIssue(issue.EnvFileNotFoundId).
			WithSuggestion("Check the path passed to --env-file").
			Wrap(err).
			BuildError()
	}
	return func(key string) (string, bool) {
		if val, ok := lookup(key); ok {
			return val, true
		}
		val, ok := dotenv[key]
		return val, ok
	}, nil
}

// loadCUEIntoViper validates the file against #Config and merges it into v.
// Fields stay optional, so validation does not require concrete values.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file is %d bytes, the limit is %d", path, len(data), maxConfigFileSize)
	}

	cctx := cuecontext.New()
	schemaValue := cctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := cctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// formatCUEError flattens CUE errors into "path: message" lines.
func formatCUEError(err error, path string) error {
	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}
	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		field := strings.Join(cueerrors.Path(e), ".")
		msg := e.Error()
		if field != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, field), ":"))
			msg = field + ": " + msg
		}
		lines = append(lines, msg)
	}
	return fmt.Errorf("%s: %s: %w", path, strings.Join(lines, "; "), err)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}
