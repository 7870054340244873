// Package config loads lineplanner configuration.
//
// Configuration is read from a TOML file, layered over built-in defaults and
// followed by LINEPLANNER_* environment overrides:
//
//	[line]
//	target_output = 1000
//	working_hours = 8
//	templates = "/etc/lineplanner/templates.toml"
//
//	[cache]
//	backend = "file"   # file | redis | none
//	dir = "~/.cache/lineplanner"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[store]
//	backend = "file"   # file | sqlite | mongo
//	dir = "~/.config/lineplanner/lines"
//	sqlite_path = "lineplanner.db"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "lineplanner"
//
//	[server]
//	addr = ":4000"
//	read_timeout = "30s"
//	write_timeout = "60s"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// Config is the full lineplanner configuration.
type Config struct {
	Line   LineConfig   `toml:"line"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// LineConfig holds default planning parameters.
type LineConfig struct {
	TargetOutput int     `toml:"target_output"`
	WorkingHours float64 `toml:"working_hours"`

	// Templates optionally replaces the built-in section templates.
	Templates string `toml:"templates"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`

	// Namespace prefixes every cache key, e.g. "factory:dhaka-2:".
	Namespace string `toml:"namespace"`
}

// StoreConfig selects the line record store backend.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	SQLitePath    string `toml:"sqlite_path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration wraps time.Duration so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Line: LineConfig{
			TargetOutput: line.DefaultTargetOutput,
			WorkingHours: line.DefaultWorkingHours,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Dir:     defaultDir(os.UserCacheDir, "cache"),
			TTL:     Duration{24 * time.Hour},
		},
		Store: StoreConfig{
			Backend:       StoreFile,
			Dir:           filepath.Join(defaultDir(os.UserConfigDir, "config"), "lines"),
			SQLitePath:    "lineplanner.db",
			MongoDatabase: "lineplanner",
		},
		Server: ServerConfig{
			Addr:         ":4000",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/lineplanner/config.toml, or the
// platform equivalent.
func DefaultPath() string {
	return filepath.Join(defaultDir(os.UserConfigDir, "config"), "config.toml")
}

// Load reads configuration from path. An empty path loads DefaultPath and
// tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies LINEPLANNER_SECTION_KEY variables.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"LINEPLANNER_LINE_TEMPLATES":       &cfg.Line.Templates,
		"LINEPLANNER_CACHE_BACKEND":        &cfg.Cache.Backend,
		"LINEPLANNER_CACHE_DIR":            &cfg.Cache.Dir,
		"LINEPLANNER_CACHE_REDIS_URL":      &cfg.Cache.RedisURL,
		"LINEPLANNER_CACHE_NAMESPACE":      &cfg.Cache.Namespace,
		"LINEPLANNER_STORE_BACKEND":        &cfg.Store.Backend,
		"LINEPLANNER_STORE_DIR":            &cfg.Store.Dir,
		"LINEPLANNER_STORE_SQLITE_PATH":    &cfg.Store.SQLitePath,
		"LINEPLANNER_STORE_MONGO_URI":      &cfg.Store.MongoURI,
		"LINEPLANNER_STORE_MONGO_DATABASE": &cfg.Store.MongoDatabase,
		"LINEPLANNER_SERVER_ADDR":          &cfg.Server.Addr,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("LINEPLANNER_LINE_TARGET_OUTPUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "LINEPLANNER_LINE_TARGET_OUTPUT: %q is not an integer", v)
		}
		cfg.Line.TargetOutput = n
	}
	if v := os.Getenv("LINEPLANNER_LINE_WORKING_HOURS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "LINEPLANNER_LINE_WORKING_HOURS: %q is not a number", v)
		}
		cfg.Line.WorkingHours = f
	}
	if v := os.Getenv("LINEPLANNER_CACHE_TTL"); v != "" {
		if err := cfg.Cache.TTL.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "LINEPLANNER_CACHE_TTL")
		}
	}
	return nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	if err := errors.ValidateParameters(c.Line.TargetOutput, c.Line.WorkingHours); err != nil {
		errs = append(errs, "line: "+errors.UserMessage(err))
	}

	switch c.Cache.Backend {
	case CacheFile:
		if c.Cache.Dir == "" {
			errs = append(errs, "cache.dir is required for the file backend")
		}
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, "cache.redis_url is required for the redis backend")
		}
	case CacheNone:
	default:
		errs = append(errs, fmt.Sprintf("cache.backend must be file, redis or none, got %q", c.Cache.Backend))
	}
	if c.Cache.TTL.Duration < 0 {
		errs = append(errs, "cache.ttl cannot be negative")
	}

	switch c.Store.Backend {
	case StoreFile:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, "store.sqlite_path is required for the sqlite backend")
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, "store.mongo_uri is required for the mongo backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.backend must be file, sqlite or mongo, got %q", c.Store.Backend))
	}

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}

	if len(errs) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func defaultDir(base func() (string, error), fallback string) string {
	if dir, err := base(); err == nil && dir != "" {
		return filepath.Join(dir, "lineplanner")
	}
	return filepath.Join(os.TempDir(), "lineplanner-"+fallback)
}
