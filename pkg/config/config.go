// Package config loads the folio configuration.
//
// A config file describes the profile text, diagram tuning, category anchors
// and the graph itself. TOML and YAML are both accepted; the file extension
// picks the decoder. Without a config file the built-in portfolio is used.
//
// Config file locations (priority order):
//  1. the --config flag
//  2. $FOLIO_CONFIG
//  3. ./folio.toml
//  4. $XDG_CONFIG_HOME/folio/config.toml
//
// A .env file in the working directory is loaded first, and FOLIO_*
// variables override individual settings after the file is decoded.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/graph"
)

// Environment variables read by Load.
const (
	EnvConfig    = "FOLIO_CONFIG"
	EnvCompact   = "FOLIO_COMPACT"
	EnvRedisAddr = "FOLIO_REDIS_ADDR"
	EnvCacheDir  = "FOLIO_CACHE_DIR"
	EnvAddr      = "FOLIO_ADDR"
)

// LocalFile is the config file looked up in the working directory.
const LocalFile = "folio.toml"

// Config is the full folio configuration.
type Config struct {
	Profile Profile                   `toml:"profile" yaml:"profile"`
	Diagram DiagramConfig             `toml:"diagram" yaml:"diagram"`
	Anchors map[string]diagram.Anchor `toml:"anchors" yaml:"anchors"`
	Cache   CacheConfig               `toml:"cache" yaml:"cache"`
	Server  ServerConfig              `toml:"server" yaml:"server"`

	// Nodes and Edges list the graph directly. Buckets add fully connected
	// groups on top. When all three are empty the built-in portfolio is used.
	Nodes   []graph.Node   `toml:"nodes" yaml:"nodes"`
	Edges   []graph.Edge   `toml:"edges" yaml:"edges"`
	Buckets []graph.Bucket `toml:"buckets" yaml:"buckets"`
}

// Profile is the text of the landing page chrome.
type Profile struct {
	Name   []string `toml:"name" yaml:"name"`     // lines of the name panel
	Status string   `toml:"status" yaml:"status"` // status bar label
}

// DiagramConfig tunes the diagram. Zero values keep the defaults.
type DiagramConfig struct {
	LinkDistance float64 `toml:"link_distance" yaml:"link_distance"`
	Charge       float64 `toml:"charge" yaml:"charge"`
	GroupPull    float64 `toml:"group_pull" yaml:"group_pull"`
	NoGroup      bool    `toml:"no_group" yaml:"no_group"`
	SpawnRadius  float64 `toml:"spawn_radius" yaml:"spawn_radius"`
	IconSize     float64 `toml:"icon_size" yaml:"icon_size"`
	Compact      bool    `toml:"compact" yaml:"compact"`
	HoverDelay   string  `toml:"hover_delay" yaml:"hover_delay"` // Go duration, e.g. "1s"
	Seed         uint64  `toml:"seed" yaml:"seed"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Dir       string `toml:"dir" yaml:"dir"`
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr"`
	TTL       string `toml:"ttl" yaml:"ttl"`
}

// ServerConfig tunes `folio serve`.
type ServerConfig struct {
	Addr      string  `toml:"addr" yaml:"addr"`
	RateLimit float64 `toml:"rate_limit" yaml:"rate_limit"` // renders per second
	Burst     int     `toml:"burst" yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Profile: Profile{
			Name:   []string{"MATZE", "HUELS"},
			Status: "ONLINE",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			RateLimit: 5,
			Burst:     10,
		},
		Cache: CacheConfig{TTL: "24h"},
	}
}

// Dir returns the folio config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "folio")
}

// FindPath returns the config file to load, or "" when none exists.
// An explicit path is returned as is, even if it does not exist.
func FindPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	for _, p := range []string{LocalFile, filepath.Join(Dir(), "config.toml")} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load loads .env, finds the config file, and decodes it. It returns the
// path that was loaded, or "" when the defaults were used.
func Load(explicit string) (*Config, string, error) {
	_ = godotenv.Load()

	path := FindPath(explicit)
	if path == "" {
		cfg := Default()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// LoadFile decodes the config at path, applies environment overrides and
// validates the result.
func LoadFile(path string) (*Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg := Default()
	if err := decode(path, data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "config format %q (use .toml or .yaml)", ext)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvCompact); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s=%q: not a boolean", EnvCompact, v)
		}
		c.Diagram.Compact = b
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks the graph, anchors and durations.
func (c *Config) Validate() error {
	if err := c.Graph().Validate(); err != nil {
		return err
	}
	if _, err := c.Options(); err != nil {
		return err
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server rate limit and burst must not be negative")
	}
	return nil
}

// Graph returns the configured graph: explicit nodes and edges followed by
// the fully connected buckets, or the built-in portfolio when none is set.
func (c *Config) Graph() graph.Graph {
	if len(c.Nodes) == 0 && len(c.Edges) == 0 && len(c.Buckets) == 0 {
		return graph.Portfolio()
	}
	g := graph.Graph{Nodes: c.Nodes, Edges: c.Edges}.Clone()
	b := graph.FullyConnect(c.Buckets)
	g.Nodes = append(g.Nodes, b.Nodes...)
	g.Edges = append(g.Edges, b.Edges...)
	return g
}

// Options returns the diagram tuning with the config overrides applied.
func (c *Config) Options() (diagram.Options, error) {
	opts := diagram.DefaultOptions()
	d := c.Diagram
	if d.LinkDistance != 0 {
		opts.LinkDistance = d.LinkDistance
	}
	if d.Charge != 0 {
		opts.Charge = d.Charge
	}
	if d.GroupPull != 0 {
		opts.GroupPull = d.GroupPull
	}
	if d.NoGroup {
		opts.GroupPull = 0
	}
	if d.SpawnRadius != 0 {
		opts.SpawnRadius = d.SpawnRadius
	}
	if d.IconSize != 0 {
		opts.IconSize = d.IconSize
	}
	if d.Seed != 0 {
		opts.Seed = d.Seed
	}
	opts.Compact = d.Compact

	if d.HoverDelay != "" {
		delay, err := time.ParseDuration(d.HoverDelay)
		if err != nil || delay <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "diagram.hover_delay %q: want a positive duration", d.HoverDelay)
		}
		opts.HoverDelay = delay
	}

	if len(c.Anchors) > 0 {
		opts.Anchors = diagram.AnchorLayout(c.Anchors)
	}
	if err := opts.Anchors.Validate(); err != nil {
		return opts, err
	}
	if opts.LinkDistance < 0 || opts.SpawnRadius < 0 || opts.IconSize < 0 {
		return opts, errors.New(errors.ErrCodeInvalidConfig, "diagram distances must not be negative")
	}
	return opts, nil
}

// CacheTTL parses the cache TTL. An empty TTL means entries never expire.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl %q: want a duration", c.Cache.TTL)
	}
	return ttl, nil
}
