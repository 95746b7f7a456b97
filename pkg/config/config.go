// Package config loads techflow settings from a TOML file.
//
// A missing file is not an error: [Default] values apply. Command-line flags
// are layered on top by the CLI after loading.
//
//	mode = "single"
//
//	[source]
//	path = "examples/tech_conv.csv"
//	timeout = "30s"
//	retries = 2
//
//	[render]
//	wrap_width = 20
//	formats = ["svg"]
//
//	[cache]
//	backend = "file"
//	ttl = "1h"
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/techflow/pkg/cache"
	"github.com/matzehuels/techflow/pkg/diagram"
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/httputil"
	"github.com/matzehuels/techflow/pkg/render"
	"github.com/matzehuels/techflow/pkg/source"
	"github.com/matzehuels/techflow/pkg/tech"
	"github.com/matzehuels/techflow/pkg/textwrap"
)

const appName = "techflow"

// Config is the full configuration file.
type Config struct {
	Mode   string       `toml:"mode"`
	Source SourceConfig `toml:"source"`
	Render RenderConfig `toml:"render"`
	Style  StyleConfig  `toml:"style"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// SourceConfig locates the technology sheet.
type SourceConfig struct {
	Kind       string `toml:"kind"`
	Path       string `toml:"path"`
	URL        string `toml:"url"`
	SheetID    string `toml:"sheet_id"`
	GID        string `toml:"gid"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`

	// Download settings for remote sheets.
	Timeout    Duration `toml:"timeout"`
	Retries    int      `toml:"retries"`
	RetryDelay Duration `toml:"retry_delay"`
}

// RenderConfig controls diagram output.
type RenderConfig struct {
	WrapWidth int      `toml:"wrap_width"`
	DPI       float64  `toml:"dpi"`
	Size      string   `toml:"size"`
	Formats   []string `toml:"formats"`
}

// StyleConfig overrides node colors and the carrier shape.
type StyleConfig struct {
	ProcessFill  string `toml:"process_fill"`
	CarrierFill  string `toml:"carrier_fill"`
	CarrierShape string `toml:"carrier_shape"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
	// Prefix namespaces every key, e.g. to share one Redis between
	// several sheets or deployments.
	Prefix string `toml:"prefix"`
}

// ServeConfig configures the dashboard.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mode: string(tech.FormSingle),
		Source: SourceConfig{
			Timeout:    Duration{httputil.DefaultTimeout},
			Retries:    httputil.DefaultRetryPolicy().Attempts - 1,
			RetryDelay: Duration{httputil.DefaultRetryPolicy().Delay},
		},
		Render: RenderConfig{
			WrapWidth: textwrap.DefaultWidth,
			Formats:   []string{string(render.FormatSVG)},
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.TTLSource},
		},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/techflow/config.toml, falling back
// to ~/.config/techflow/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Decode parses TOML text into cfg, keeping values the text does not set.
// Unknown keys are rejected.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := c.Form(); err != nil {
		return err
	}
	if _, err := c.Formats(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Render.WrapWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "wrap_width must not be negative")
	}
	if c.Source.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "source retries must not be negative")
	}
	if c.Source.Timeout.Duration < 0 || c.Source.RetryDelay.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "source timeout and retry_delay must not be negative")
	}
	return nil
}

// Form returns the parsed sheet form.
func (c Config) Form() (tech.Form, error) {
	return tech.ParseForm(c.Mode)
}

// Formats returns the parsed render formats.
func (c Config) Formats() ([]render.Format, error) {
	return ParseFormats(c.Render.Formats)
}

// ParseFormats validates format names, accepting comma-separated entries.
func ParseFormats(names []string) ([]render.Format, error) {
	var out []render.Format
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			f := render.Format(strings.ToLower(strings.TrimSpace(part)))
			if f == "" {
				continue
			}
			if !isFormat(f) {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot, svg, png or json)", part)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func isFormat(f render.Format) bool {
	for _, known := range render.Formats {
		if f == known {
			return true
		}
	}
	return false
}

// SourceOptions converts the [source] section.
func (c Config) SourceOptions() source.Options {
	s := c.Source
	return source.Options{
		Kind:       s.Kind,
		Path:       s.Path,
		URL:        s.URL,
		SheetID:    s.SheetID,
		GID:        s.GID,
		MongoURI:   s.MongoURI,
		Database:   s.Database,
		Collection: s.Collection,
	}
}

// CacheOptions converts the [cache] section. defaultDir is used when no
// directory is configured.
func (c Config) CacheOptions(defaultDir string) cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Options{Backend: c.Cache.Backend, Dir: dir, RedisAddr: c.Cache.RedisAddr}
}

// Keyer returns the cache keyer, scoped by [cache].prefix when set.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix+":")
}

// ClientOptions converts the [source] download settings. Downloads are
// cached in store under the configured keyer and TTL.
func (c Config) ClientOptions(store cache.Cache, headers map[string]string) httputil.Options {
	policy := httputil.DefaultRetryPolicy()
	policy.Attempts = c.Source.Retries + 1
	if d := c.Source.RetryDelay.Duration; d > 0 {
		policy.Delay = d
	}
	return httputil.Options{
		Cache:   store,
		Keyer:   c.Keyer(),
		TTL:     c.Cache.TTL.Duration,
		Timeout: c.Source.Timeout.Duration,
		Retry:   policy,
		Headers: headers,
	}
}

// DiagramOptions converts the [render] and [style] sections.
func (c Config) DiagramOptions() diagram.Options {
	opts := diagram.DefaultOptions()
	if c.Render.WrapWidth > 0 {
		opts.WrapWidth = c.Render.WrapWidth
	}
	opts.Attrs.DPI = c.Render.DPI
	opts.Attrs.Size = c.Render.Size
	if c.Style.ProcessFill != "" {
		opts.Process.FillColor = c.Style.ProcessFill
	}
	if c.Style.CarrierFill != "" {
		opts.Carrier.FillColor = c.Style.CarrierFill
	}
	if c.Style.CarrierShape != "" {
		opts.Carrier.Shape = c.Style.CarrierShape
	}
	return opts
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
