package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/graphstage/graphstage/pkg/errors"
)

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v, want nil", err)
	}
	if cfg.Tuning.ChunkSize != 0 || cfg.Cache.Backend != "" {
		t.Errorf("Load(\"\") = %+v, want zero Config", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load missing file = %v, want INVALID_INPUT", err)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[tuning\nchunk_size = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load invalid TOML = %v, want INVALID_INPUT", err)
	}
}

func TestLoadFullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphstage.toml")
	src := `
[tuning]
chunk_size = 250
animate_max_nodes = 50
max_waves = 6

[tuning.physics]
full_max = 100
moderate_max = 500
minimal_max = 1500

[theme]
default_node = "#111111"

[theme.node_colors]
service = "#00aa00"

[cache]
backend = "file"
dir = "/tmp/graphstage-test"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tuning.ChunkSize != 250 {
		t.Errorf("ChunkSize = %d, want 250", cfg.Tuning.ChunkSize)
	}
	if cfg.Tuning.AnimateMaxNodes != 50 {
		t.Errorf("AnimateMaxNodes = %d, want 50", cfg.Tuning.AnimateMaxNodes)
	}
	if cfg.Tuning.Physics.ModerateMax != 500 {
		t.Errorf("Physics.ModerateMax = %d, want 500", cfg.Tuning.Physics.ModerateMax)
	}
	if cfg.Theme.DefaultNode != "#111111" {
		t.Errorf("DefaultNode = %q, want #111111", cfg.Theme.DefaultNode)
	}
	if cfg.Theme.NodeColors["service"] != "#00aa00" {
		t.Errorf("NodeColors[service] = %q, want #00aa00", cfg.Theme.NodeColors["service"])
	}
	if cfg.Cache.Backend != BackendFile || cfg.Cache.Dir != "/tmp/graphstage-test" {
		t.Errorf("Cache = %+v, want file backend", cfg.Cache)
	}
}

func TestOpenCacheNull(t *testing.T) {
	c, err := CacheConfig{Backend: BackendNull}.OpenCache(context.Background())
	if err != nil {
		t.Fatalf("OpenCache(null): %v", err)
	}
	defer c.Close()
	if _, hit, err := c.Get(context.Background(), "k"); err != nil || hit {
		t.Errorf("null cache Get = hit %v, err %v; want miss, nil", hit, err)
	}
}

func TestOpenCacheFileDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	c, err := CacheConfig{Backend: BackendFile, Dir: dir}.OpenCache(context.Background())
	if err != nil {
		t.Fatalf("OpenCache(file): %v", err)
	}
	defer c.Close()
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}
}

func TestOpenCacheUnknownBackend(t *testing.T) {
	_, err := CacheConfig{Backend: "memcached"}.OpenCache(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("OpenCache(memcached) = %v, want INVALID_INPUT", err)
	}
}
