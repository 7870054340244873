// Package cli implements the lineplanner command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/buildinfo"
	"github.com/matzehuels/lineplanner/pkg/cache"
	"github.com/matzehuels/lineplanner/pkg/config"
	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/observability"
	"github.com/matzehuels/lineplanner/pkg/pipeline"
	"github.com/matzehuels/lineplanner/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lineplanner"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Lineplanner balances garment sewing lines and lays out the floor",
		Long: `Lineplanner reads an operation bulletin, computes how many machines each
operation needs to hit a daily target, and places those machines on a
four-lane production floor.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.balanceCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.linesCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// planOptions returns pipeline options seeded from the [line] config.
func (c *CLI) planOptions() (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		TargetOutput: cfg.Line.TargetOutput,
		WorkingHours: cfg.Line.WorkingHours,
		Logger:       c.Logger,
	}
	if cfg.Line.Templates != "" {
		ts, err := floor.LoadTemplates(cfg.Line.Templates)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("load templates: %w", err)
		}
		opts.Templates = ts
		c.Logger.Debug("using section templates", "path", cfg.Line.Templates, "version", ts.Version)
	}
	return opts, nil
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, newKeyer(cfg.Cache), c.Logger), nil
}

// newKeyer prefixes cache keys with the configured namespace so several
// factories can share one Redis instance.
func newKeyer(cfg config.CacheConfig) cache.Keyer {
	if cfg.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, cfg.Namespace)
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	var (
		ch  cache.Cache
		err error
	)
	switch cfg.Backend {
	case config.CacheRedis:
		ch, err = cache.NewRedisCache(ctx, cfg.RedisURL)
	default:
		ch, err = cache.NewFileCache(cfg.Dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	return cache.WithMaxTTL(ch, cfg.TTL.Duration), nil
}

// newStore opens the configured line record store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, store.Config{
		Backend:       cfg.Store.Backend,
		Dir:           cfg.Store.Dir,
		SQLitePath:    cfg.Store.SQLitePath,
		MongoURI:      cfg.Store.MongoURI,
		MongoDatabase: cfg.Store.MongoDatabase,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(pipeline.DefaultFormat)}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath strips the extension and any known stage suffix from input, so
// that "bulletin.operations.json" and "bulletin.xlsx" both yield "bulletin".
func basePath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	for _, suffix := range []string{".operations", ".layout"} {
		base = strings.TrimSuffix(base, suffix)
	}
	return base
}
