// Package config loads facetkit settings from a TOML file and the
// environment.
//
// Settings are resolved in order: built-in defaults, the config file, then
// environment variables:
//
//	FACETKIT_ROOT        project root directory
//	FACETKIT_STORE       layout store backend (memory, file, redis)
//	FACETKIT_REDIS_ADDR  Redis address
//	FACETKIT_MONGO_URI   MongoDB URI (selects the mongo search backend)
//
// Example file:
//
//	[project]
//	root = "/data/experiments"
//	repo = ".facetkit"
//
//	[store]
//	backend = "redis"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[search]
//	backend = "file"
//	dir = "/data/experiments/export"
//	cache = true
//	cache_ttl = "10m"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/facetkit/pkg/errors"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Search backends.
const (
	SearchFile  = "file"
	SearchHTTP  = "http"
	SearchMongo = "mongo"
)

// Environment variables.
const (
	EnvRoot      = "FACETKIT_ROOT"
	EnvStore     = "FACETKIT_STORE"
	EnvRedisAddr = "FACETKIT_REDIS_ADDR"
	EnvMongoURI  = "FACETKIT_MONGO_URI"
)

// Defaults.
const (
	DefaultServerAddr    = "127.0.0.1:43800"
	DefaultRedisAddr     = "localhost:6379"
	DefaultMongoDatabase = "facetkit"
	DefaultCacheTTL      = 10 * time.Minute
)

// Config holds all settings.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Store   StoreConfig   `toml:"store"`
	Redis   RedisConfig   `toml:"redis"`
	Search  SearchConfig  `toml:"search"`
	Server  ServerConfig  `toml:"server"`
}

// ProjectConfig locates the project and its repository.
type ProjectConfig struct {
	Root        string `toml:"root"`
	Repo        string `toml:"repo"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// StoreConfig selects where the layout grid and host state live.
type StoreConfig struct {
	Backend string `toml:"backend"`
	// Dir is used by the file backend. Empty means the default directory.
	Dir string `toml:"dir"`
}

// RedisConfig is shared by the redis store backend and the query cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// SearchConfig selects the record store.
type SearchConfig struct {
	Backend string `toml:"backend"`
	// Dir holds <type>.json files for the file backend. Empty means the
	// repository directory.
	Dir string `toml:"dir"`
	// URL is the facetkit host for the http backend.
	URL string `toml:"url"`

	MongoURI         string `toml:"mongo_uri"`
	MongoDatabase    string `toml:"mongo_database"`
	CollectionPrefix string `toml:"collection_prefix"`

	// Cache keeps search results in the repository container pool.
	Cache    bool          `toml:"cache"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// ServerConfig configures the host API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Backend: StoreFile},
		Redis:  RedisConfig{Addr: DefaultRedisAddr},
		Search: SearchConfig{Backend: SearchFile, MongoDatabase: DefaultMongoDatabase, CacheTTL: DefaultCacheTTL},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/facetkit/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "facetkit", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "facetkit", "config.toml"), nil
}

// Load reads path on top of the defaults and applies the environment. An
// empty path loads the default file if it exists. Unknown keys are an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) && !required {
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Parse decodes TOML text on top of the defaults without touching the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config key: %s", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from environment variables looked up with
// lookup. Setting FACETKIT_MONGO_URI switches search to the mongo backend.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRoot); ok && v != "" {
		c.Project.Root = v
	}
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store.Backend = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Redis.Addr = v
	}
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		c.Search.MongoURI = v
		c.Search.Backend = SearchMongo
	}
}

// Validate checks backend names and the settings each backend needs.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "redis store requires redis.addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want memory, file or redis)", c.Store.Backend)
	}

	switch c.Search.Backend {
	case SearchFile:
	case SearchHTTP:
		if c.Search.URL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "http search requires search.url")
		}
	case SearchMongo:
		if c.Search.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "mongo search requires search.mongo_uri or %s", EnvMongoURI)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown search backend %q (want file, http or mongo)", c.Search.Backend)
	}

	if c.Search.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "search.cache_ttl cannot be negative")
	}
	if c.Project.Repo != "" {
		if err := errors.ValidateRepoName(c.Project.Repo); err != nil {
			return err
		}
	}
	return nil
}

// String renders the settings as TOML, with the redis password masked.
func (c *Config) String() string {
	masked := *c
	if masked.Redis.Password != "" {
		masked.Redis.Password = "****"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
