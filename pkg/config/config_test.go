package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/facetkit/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Store.Backend != StoreFile {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, StoreFile)
	}
	if cfg.Search.CacheTTL != DefaultCacheTTL {
		t.Errorf("Search.CacheTTL = %v", cfg.Search.CacheTTL)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[project]
root = "/data"
repo = ".aimlike"

[store]
backend = "redis"

[redis]
addr = "redis:6379"
db = 2

[search]
backend = "http"
url = "http://host:43800"
cache = true
cache_ttl = "90s"

[server]
addr = ":8080"
`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Project.Root != "/data" || cfg.Project.Repo != ".aimlike" {
		t.Errorf("Project = %+v", cfg.Project)
	}
	if cfg.Store.Backend != StoreRedis || cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Store/Redis = %+v / %+v", cfg.Store, cfg.Redis)
	}
	if cfg.Search.Backend != SearchHTTP || !cfg.Search.Cache || cfg.Search.CacheTTL != 90*time.Second {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[store`},
		{"unknown key", "[store]\nbackend = \"file\"\ncolor = \"red\""},
		{"unknown store", "[store]\nbackend = \"s3\""},
		{"unknown search", "[search]\nbackend = \"sql\""},
		{"http without url", "[search]\nbackend = \"http\""},
		{"mongo without uri", "[search]\nbackend = \"mongo\""},
		{"bad repo", "[project]\nrepo = \"../up\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvRoot:      "/env/root",
		EnvStore:     StoreMemory,
		EnvRedisAddr: "10.0.0.1:6379",
		EnvMongoURI:  "mongodb://localhost:27017",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	if cfg.Project.Root != "/env/root" {
		t.Errorf("Project.Root = %q", cfg.Project.Root)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
	if cfg.Redis.Addr != "10.0.0.1:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Search.Backend != SearchMongo || cfg.Search.MongoURI == "" {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facetkit.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"memory\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvStore, "")
	t.Setenv(EnvMongoURI, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(missing) = %v, want INVALID_INPUT", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvStore, "")
	t.Setenv(EnvMongoURI, "")
	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") without a default file = %v", err)
	}
}

func TestStringMasksPassword(t *testing.T) {
	cfg := Default()
	cfg.Redis.Password = "secret"
	s := cfg.String()
	if strings.Contains(s, "secret") {
		t.Error("String() should mask the redis password")
	}
	if cfg.Redis.Password != "secret" {
		t.Error("String() should not modify the config")
	}
}
