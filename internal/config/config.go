// Package config resolves runtime settings. Precedence, lowest first:
// built-in defaults, taskrex.yaml, .env, TASKREX_* environment variables,
// then command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "TASKREX"
	FileName  = "taskrex"
)

// Config holds every resolved setting. Location is derived from Timezone.
type Config struct {
	DBPath       string
	HTTPAddr     string
	LogLevel     slog.Level
	LogFormat    string
	Timezone     string
	DefaultLimit int
	MaxLimit     int

	Location *time.Location
	// File is the config file that was read, empty when none was found.
	File string
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile, when set, must exist. Otherwise SearchPaths are tried
	// for taskrex.yaml and a missing file is not an error.
	ConfigFile  string
	SearchPaths []string
	// EnvFile defaults to ".env"; a missing file is ignored.
	EnvFile string
	// Flags are bound by name: db, addr, log-level, timezone.
	Flags *pflag.FlagSet
}

var flagKeys = map[string]string{
	"db":        "db.path",
	"addr":      "http.addr",
	"log-level": "log.level",
	"timezone":  "calendar.timezone",
}

// DefaultSearchPaths is the working directory, then ~/.taskrex.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".taskrex"))
	}
	return paths
}

func setDefaults(v *viper.Viper) {
	dbPath := "taskrex.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".taskrex", "taskrex.db")
	}
	v.SetDefault("db.path", dbPath)
	v.SetDefault("http.addr", ":8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("calendar.timezone", "UTC")
	v.SetDefault("tasks.default_limit", 100)
	v.SetDefault("tasks.max_limit", 1000)
}

func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		paths := opts.SearchPaths
		if paths == nil {
			paths = DefaultSearchPaths()
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading %s.yaml: %w", FileName, err)
			}
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBPath:       v.GetString("db.path"),
		HTTPAddr:     v.GetString("http.addr"),
		LogFormat:    strings.ToLower(v.GetString("log.format")),
		Timezone:     v.GetString("calendar.timezone"),
		DefaultLimit: v.GetInt("tasks.default_limit"),
		MaxLimit:     v.GetInt("tasks.max_limit"),
		File:         v.ConfigFileUsed(),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("log.format: must be text or json, got %q", cfg.LogFormat)
	}
	if cfg.DBPath == "" {
		return nil, errors.New("db.path: must not be empty")
	}
	if cfg.DefaultLimit < 1 || cfg.MaxLimit < cfg.DefaultLimit {
		return nil, fmt.Errorf("tasks: need 1 <= default_limit (%d) <= max_limit (%d)", cfg.DefaultLimit, cfg.MaxLimit)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// NewLogger builds the root logger described by the log settings.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
