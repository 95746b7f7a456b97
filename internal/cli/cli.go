// Package cli implements the techflow command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/techflow/pkg/buildinfo"
	"github.com/matzehuels/techflow/pkg/cache"
	"github.com/matzehuels/techflow/pkg/config"
	"github.com/matzehuels/techflow/pkg/httputil"
	"github.com/matzehuels/techflow/pkg/observability"
	"github.com/matzehuels/techflow/pkg/pipeline"
	"github.com/matzehuels/techflow/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "techflow"
)

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

	// Config is the effective configuration, loaded before any command runs.
	Config config.Config

	flags globalFlags
}

// globalFlags are the persistent flags layered over the config file.
type globalFlags struct {
	configPath string
	mode       string
	source     string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Techflow draws energy technology flow diagrams",
		Long: `Techflow reads a sheet of energy conversion technologies and draws each one
as a flow diagram: the process in the middle, input carriers on the left,
output carriers on the right, edges labelled with shares and units.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/techflow/config.toml)")
	pf.StringVar(&c.flags.mode, "mode", "", "sheet form: single or aggregated")
	pf.StringVar(&c.flags.source, "source", "", "sheet to read: CSV path, http(s) URL or mongodb:// URI")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the download and render cache")

	// Register all subcommands
	root.AddCommand(c.listCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	c.registerCompletions(root)

	return root
}

// loadConfig reads the config file and applies the global flags over it.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}
	if c.flags.mode != "" {
		cfg.Mode = c.flags.mode
	}
	if c.flags.source != "" {
		opts := source.Detect(c.flags.source)
		cfg.Source.Kind = opts.Kind
		cfg.Source.Path = opts.Path
		cfg.Source.URL = opts.URL
		cfg.Source.SheetID, cfg.Source.GID = "", ""
		cfg.Source.MongoURI = opts.MongoURI
	}
	if c.flags.noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		installHooks(c.Logger)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	opts := c.Config.CacheOptions(dir)
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		c.Logger.Warn("no cache directory, caching disabled")
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, opts)
}

// newRunner creates a pipeline runner and loads the configured sheet.
func (c *CLI) newRunner(ctx context.Context, refresh bool) (*pipeline.Runner, error) {
	form, err := c.Config.Form()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}

	client := httputil.NewClient(c.Config.ClientOptions(store, map[string]string{
		"User-Agent": buildinfo.UserAgent(),
	}))
	srcOpts := c.Config.SourceOptions()
	srcOpts.Refresh = refresh
	src, err := source.Open(srcOpts, client)
	if err != nil {
		store.Close()
		return nil, err
	}

	runner := pipeline.NewRunner(store, c.Config.Keyer(), c.Logger)
	spin := newSpinner(ctx, os.Stderr, "Loading %s", src)
	spin.Start()
	if err := runner.Load(ctx, src, form); err != nil {
		spin.Stop()
		runner.Close()
		return nil, err
	}
	ids, err := runner.IDs("")
	if err != nil {
		spin.Stop()
		runner.Close()
		return nil, err
	}
	spin.Loaded(src.String(), len(ids), sourceCached(src))
	return runner, nil
}

// sourceCached reports whether src was served from the download cache.
func sourceCached(src source.Source) bool {
	r, ok := src.(interface{ CacheHit() bool })
	return ok && r.CacheHit()
}

// pipelineOptions returns render options from the config.
func (c *CLI) pipelineOptions() (pipeline.Options, error) {
	formats, err := c.Config.Formats()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Formats: formats,
		Diagram: c.Config.DiagramOptions(),
	}, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/techflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Observability
// =============================================================================

// installHooks logs pipeline, cache and HTTP events at debug level.
func installHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, src string) {
	h.logger.Debug("load start", "source", src)
}

func (h *logHooks) OnLoadComplete(_ context.Context, src string, rows int, d time.Duration, err error) {
	h.logger.Debug("load complete", "source", src, "rows", rows, "duration", d.Round(time.Millisecond), "err", err)
}

func (h *logHooks) OnBuildStart(_ context.Context, id string) {
	h.logger.Debug("build start", "id", id)
}

func (h *logHooks) OnBuildComplete(_ context.Context, id string, nodes, edges int, d time.Duration, err error) {
	h.logger.Debug("build complete", "id", id, "nodes", nodes, "edges", edges, "duration", d, "err", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, id string, formats []string) {
	h.logger.Debug("render start", "id", id, "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, id string, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "id", id, "formats", formats, "duration", d.Round(time.Millisecond), "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
