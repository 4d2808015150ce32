// Package config loads the optional TOML tuning file used by the CLI.
// Everything in it is optional; zero values fall back to the compiled-in
// defaults.
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/graphstage/graphstage/pkg/cache"
	"github.com/graphstage/graphstage/pkg/errors"
	"github.com/graphstage/graphstage/pkg/graph"
	"github.com/graphstage/graphstage/pkg/loader"
)

// Cache backend names accepted in the [cache] section.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNull  = "null"
)

// CacheConfig selects and configures the snapshot cache backend.
type CacheConfig struct {
	// Backend is file, redis, or null. Empty means file.
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means a per-user default
	// under the OS cache dir.
	Dir string `toml:"dir"`

	// Redis configures the redis backend.
	Redis cache.RedisConfig `toml:"redis"`
}

// Config is the full TOML file shape.
type Config struct {
	Tuning loader.Tuning `toml:"tuning"`
	Theme  graph.Theme   `toml:"theme"`
	Cache  CacheConfig   `toml:"cache"`
}

// Load reads a TOML config file. An empty path returns the zero Config;
// a missing file is an error (the caller asked for it explicitly).
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}

// OpenCache builds the snapshot cache the config selects.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNull:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Redis)
	case BackendFile, "":
		dir := c.Dir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve cache dir")
			}
			dir = filepath.Join(base, "graphstage")
		}
		return cache.NewFileCache(dir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Backend)
	}
}
