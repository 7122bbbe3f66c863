// Package config loads the metaprop.yaml configuration of the command line tool.
//
// A configuration selects the codec documents are rendered with, the default output
// mode, the locale of validation messages and the store backend:
//
//	codec: json            # json | yaml | proto
//	mode: NAME_VALUE       # default output mode
//	locale: en
//	store:
//	  backend: bolt        # redis | etcd | bolt
//	  namespace: metaprop
//	  cache_size: 128      # negative disables the cache
//	  redis: {url: "redis://localhost:6379"}
//	  etcd: {endpoints: ["localhost:2379"], dial_timeout: 5s}
//	  bolt: {path: metaprop.db, bucket: meta_objects}
//
// Every field is optional; the getters apply the defaults shown above.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/metaprop"
	"github.com/zero-day-ai/metaprop/codec"
	"github.com/zero-day-ai/metaprop/serialization"
	"github.com/zero-day-ai/metaprop/store"
)

// File names searched for by Load when given a directory.
var FileNames = []string{"metaprop.yaml", "metaprop.yml"}

// Store backends.
const (
	BackendRedis = "redis"
	BackendEtcd  = "etcd"
	BackendBolt  = "bolt"
)

// Environment variables read by ApplyEnv.
const (
	EnvBackend       = "METAPROP_STORE_BACKEND"
	EnvRedisURL      = "METAPROP_REDIS_URL"
	EnvEtcdEndpoints = "METAPROP_ETCD_ENDPOINTS"
	EnvBoltPath      = "METAPROP_BOLT_PATH"
)

// Config represents a metaprop.yaml file.
type Config struct {
	Codec  string       `yaml:"codec,omitempty"`
	Mode   string       `yaml:"mode,omitempty"`
	Locale string       `yaml:"locale,omitempty"`
	Store  *StoreConfig `yaml:"store,omitempty"`
}

// StoreConfig selects and configures the store backend.
type StoreConfig struct {
	Backend   string `yaml:"backend,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`

	// CacheSize is the number of objects kept in the read cache.
	// Default: 128. Negative values disable the cache.
	CacheSize int `yaml:"cache_size,omitempty"`

	Redis *RedisConfig `yaml:"redis,omitempty"`
	Etcd  *EtcdConfig  `yaml:"etcd,omitempty"`
	Bolt  *BoltConfig  `yaml:"bolt,omitempty"`
}

type RedisConfig struct {
	URL string `yaml:"url,omitempty"`
}

type EtcdConfig struct {
	Endpoints []string `yaml:"endpoints,omitempty"`

	// DialTimeout is a Go duration string. Default: 5s
	DialTimeout string `yaml:"dial_timeout,omitempty"`
}

type BoltConfig struct {
	Path   string `yaml:"path,omitempty"`
	Bucket string `yaml:"bucket,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{}
}

// GetCodec returns the configured codec. Defaults to JSON.
func (c *Config) GetCodec() (codec.Codec, error) {
	if c == nil {
		return codec.JSON{}, nil
	}
	return codec.ByName(c.Codec)
}

// GetMode returns the configured output mode, or NAME_VALUE when unset or invalid.
func (c *Config) GetMode() serialization.Mode {
	if c == nil || c.Mode == "" {
		return serialization.DefaultMode
	}
	m, err := serialization.ParseMode(c.Mode)
	if err != nil {
		return serialization.DefaultMode
	}
	return m
}

// GetLocale returns the locale of validation messages, or English when unset or invalid.
func (c *Config) GetLocale() language.Tag {
	if c == nil || c.Locale == "" {
		return language.English
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// GetBackend returns the store backend. Default: bolt
func (s *StoreConfig) GetBackend() string {
	if s == nil || s.Backend == "" {
		return BackendBolt
	}
	return strings.ToLower(s.Backend)
}

// GetNamespace returns the key namespace. Default: metaprop
func (s *StoreConfig) GetNamespace() string {
	if s == nil || s.Namespace == "" {
		return store.DefaultNamespace
	}
	return s.Namespace
}

// GetCacheSize returns the cache size; zero means the cache is disabled.
func (s *StoreConfig) GetCacheSize() int {
	switch {
	case s == nil || s.CacheSize == 0:
		return store.DefaultCacheSize
	case s.CacheSize < 0:
		return 0
	}
	return s.CacheSize
}

// GetURL returns the Redis URL. Default: redis://localhost:6379
func (r *RedisConfig) GetURL() string {
	if r == nil || r.URL == "" {
		return "redis://localhost:6379"
	}
	return r.URL
}

// GetEndpoints returns the etcd endpoints. Default: localhost:2379
func (e *EtcdConfig) GetEndpoints() []string {
	if e == nil || len(e.Endpoints) == 0 {
		return []string{"localhost:2379"}
	}
	return e.Endpoints
}

// GetDialTimeout parses the dial timeout. Returns 5s if not set or invalid.
func (e *EtcdConfig) GetDialTimeout() time.Duration {
	if e == nil || e.DialTimeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(e.DialTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// GetPath returns the database file. Default: metaprop.db
func (b *BoltConfig) GetPath() string {
	if b == nil || b.Path == "" {
		return "metaprop.db"
	}
	return b.Path
}

// GetBucket returns the bucket name. Default: meta_objects
func (b *BoltConfig) GetBucket() string {
	if b == nil || b.Bucket == "" {
		return store.DefaultBucket
	}
	return b.Bucket
}

// Validate reports every invalid setting. Unset settings are valid.
func (c *Config) Validate() error {
	var errs []error
	if _, err := codec.ByName(c.Codec); err != nil {
		errs = append(errs, err)
	}
	if c.Mode != "" {
		if _, err := serialization.ParseMode(c.Mode); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
		}
	}
	if s := c.Store; s != nil {
		backends := []string{BackendRedis, BackendEtcd, BackendBolt}
		if !slices.Contains(backends, s.GetBackend()) {
			errs = append(errs, fmt.Errorf("store backend %q: must be one of %s", s.Backend, strings.Join(backends, ", ")))
		}
		if s.Etcd != nil && s.Etcd.DialTimeout != "" {
			if _, err := time.ParseDuration(s.Etcd.DialTimeout); err != nil {
				errs = append(errs, fmt.Errorf("etcd dial_timeout: %w", err))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return metaprop.NewConfigurationError("config.Validate",
		fmt.Errorf("%w: %w", metaprop.ErrInvalidConfig, errors.Join(errs...)))
}

// ApplyEnv overrides store settings from METAPROP_* environment variables. Etcd
// endpoints are comma separated.
func (c *Config) ApplyEnv() {
	get := func(key string) string { return strings.TrimSpace(os.Getenv(key)) }
	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if v := get(EnvBackend); v != "" {
		c.Store.Backend = v
	}
	if v := get(EnvRedisURL); v != "" {
		if c.Store.Redis == nil {
			c.Store.Redis = &RedisConfig{}
		}
		c.Store.Redis.URL = v
	}
	if v := get(EnvEtcdEndpoints); v != "" {
		if c.Store.Etcd == nil {
			c.Store.Etcd = &EtcdConfig{}
		}
		endpoints := strings.Split(v, ",")
		for i, ep := range endpoints {
			endpoints[i] = strings.TrimSpace(ep)
		}
		c.Store.Etcd.Endpoints = endpoints
	}
	if v := get(EnvBoltPath); v != "" {
		if c.Store.Bolt == nil {
			c.Store.Bolt = &BoltConfig{}
		}
		c.Store.Bolt.Path = v
	}
}

// OpenBackend connects the configured backend, wrapped in a read cache unless the cache
// is disabled.
func (c *Config) OpenBackend(ctx context.Context, logger *slog.Logger) (store.Backend, error) {
	s := c.Store
	var (
		backend store.Backend
		err     error
	)
	switch s.GetBackend() {
	case BackendRedis:
		backend, err = store.NewRedis(store.RedisOptions{URL: s.redis().GetURL(), Namespace: s.GetNamespace()})
	case BackendEtcd:
		backend, err = store.NewEtcd(store.EtcdOptions{
			Endpoints:   s.etcd().GetEndpoints(),
			Namespace:   s.GetNamespace(),
			DialTimeout: s.etcd().GetDialTimeout(),
		})
	case BackendBolt:
		backend, err = store.NewBolt(store.BoltOptions{Path: s.bolt().GetPath(), Bucket: s.bolt().GetBucket()})
	default:
		err = fmt.Errorf("%w: unknown store backend %q", metaprop.ErrInvalidConfig, s.Backend)
	}
	if err != nil {
		return nil, metaprop.NewConfigurationError("config.OpenBackend", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "opened store backend", "backend", backend.Name())

	size := s.GetCacheSize()
	if size == 0 {
		return backend, nil
	}
	cached, err := store.NewCached(backend, size, logger)
	if err != nil {
		_ = backend.Close()
		return nil, metaprop.NewConfigurationError("config.OpenBackend", err)
	}
	return cached, nil
}

// OpenStore opens the configured backend and wraps it in a store using the configured
// codec.
func (c *Config) OpenStore(ctx context.Context, logger *slog.Logger, opts ...store.Option) (*store.DocumentStore, error) {
	cd, err := c.GetCodec()
	if err != nil {
		return nil, metaprop.NewConfigurationError("config.OpenStore", err)
	}
	backend, err := c.OpenBackend(ctx, logger)
	if err != nil {
		return nil, err
	}
	opts = append([]store.Option{store.WithCodec(cd), store.WithLogger(logger)}, opts...)
	return store.New(backend, opts...), nil
}

func (s *StoreConfig) redis() *RedisConfig {
	if s == nil {
		return nil
	}
	return s.Redis
}

func (s *StoreConfig) etcd() *EtcdConfig {
	if s == nil {
		return nil
	}
	return s.Etcd
}

func (s *StoreConfig) bolt() *BoltConfig {
	if s == nil {
		return nil
	}
	return s.Bolt
}

// Load reads a configuration file. If path is a directory, it looks for metaprop.yaml or
// metaprop.yml in it. The loaded configuration is validated.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range FileNames {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no %s found in %s", strings.Join(FileNames, " or "), path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration YAML. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, metaprop.NewConfigurationError("config.Parse", fmt.Errorf("failed to parse config file: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromDir searches for a configuration file starting from dir and walking up to
// parent directories until one is found or the root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	for {
		for _, name := range FileNames {
			if _, err := os.Stat(filepath.Join(absDir, name)); err == nil {
				return Load(absDir)
			}
		}
		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no metaprop.yaml found in %s or parent directories", dir)
		}
		absDir = parent
	}
}
