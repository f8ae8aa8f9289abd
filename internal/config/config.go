// Package config loads shopcart settings from a YAML file, a .env file and
// the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "shopcart.yaml"

// Storage backends understood by store.Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var (
	ErrUnknownSite    = errors.New("unknown site")
	ErrUnknownBackend = errors.New("unknown backend")
)

// Config holds all shopcart configuration.
type Config struct {
	// Site selected when --site is not given.
	DefaultSite string `yaml:"default_site"`

	// Storefronts keyed by short name (fashion, pastry, shoe, ...).
	Sites map[string]SiteConfig `yaml:"sites"`

	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// SiteConfig describes one storefront.
type SiteConfig struct {
	Title   string `yaml:"title"`
	SlotKey string `yaml:"slot_key"` // must stay stable across runs
	Catalog string `yaml:"catalog"`  // optional YAML catalog path; empty = built-in
}

// StorageConfig selects and tunes the persisted slot backend.
type StorageConfig struct {
	Backend string       `yaml:"backend"`
	DataDir string       `yaml:"data_dir"` // json backend
	SQLite  SQLiteConfig `yaml:"sqlite"`
	Redis   RedisConfig  `yaml:"redis"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in configuration. Slot keys match the
// keys the storefront pages have always used, so existing carts carry over.
func DefaultConfig() *Config {
	return &Config{
		DefaultSite: "fashion",
		Sites: map[string]SiteConfig{
			"fashion": {Title: "Ayanfe's Fashion Empire", SlotKey: "ayanfeCart"},
			"pastry":  {Title: "Pastry Shop", SlotKey: "pastryCart"},
			"shoe":    {Title: "Shoe Store", SlotKey: "shoeCart"},
		},
		Storage: StorageConfig{
			Backend: BackendJSON,
			DataDir: ".shopcart",
			SQLite:  SQLiteConfig{Path: filepath.Join(".shopcart", "slots.db")},
			Redis:   RedisConfig{Addr: "localhost:6379", KeyPrefix: "shopcart:"},
		},
		Logging: LoggingConfig{Level: "warn"},
	}
}

// Load reads path (or DefaultFileName when empty) over the defaults, then
// applies .env and environment overrides. A missing file is not an error.
// The result is not validated: callers apply their own overrides first and
// then call Validate.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultFileName
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// .env is optional, but a broken one is reported
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("SHOPCART_SITE")); v != "" {
		c.DefaultSite = v
	}
	if v := strings.TrimSpace(os.Getenv("SHOPCART_BACKEND")); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("SHOPCART_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("SHOPCART_SQLITE_PATH"); v != "" {
		c.Storage.SQLite.Path = v
	}
	if v := os.Getenv("SHOPCART_REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv("SHOPCART_REDIS_PASSWORD"); v != "" {
		c.Storage.Redis.Password = v
	}
	if v := os.Getenv("SHOPCART_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Storage.Redis.DB = n
		}
	}
	if v := os.Getenv("SHOPCART_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the fields every command relies on.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}
	if len(c.Sites) == 0 {
		return errors.New("no sites configured")
	}
	for name, s := range c.Sites {
		if strings.TrimSpace(s.SlotKey) == "" {
			return fmt.Errorf("site %q: empty slot_key", name)
		}
	}
	if _, ok := c.Sites[c.DefaultSite]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSite, c.DefaultSite)
	}
	return nil
}

// Site returns the named site, or the default site when name is empty.
func (c *Config) Site(name string) (string, SiteConfig, error) {
	if name == "" {
		name = c.DefaultSite
	}
	s, ok := c.Sites[name]
	if !ok {
		return "", SiteConfig{}, fmt.Errorf("%w: %q", ErrUnknownSite, name)
	}
	return name, s, nil
}

// SiteNames returns configured site names, sorted.
func (c *Config) SiteNames() []string {
	out := make([]string, 0, len(c.Sites))
	for n := range c.Sites {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
