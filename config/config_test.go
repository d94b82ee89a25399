package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/codegram/ngram"
)


func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CODEGRAM_N", "")
	os.Unsetenv("CODEGRAM_N")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model.N != 3 || cfg.Model.Smoothing != "laplace" || cfg.LSP.PollInterval != time.Second {
		t.Errorf("Load(missing) = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codegram.yaml")
	content := `model:
  n: 4
  smoothing: add-k
  k: 0.5
generation:
  seed: 7
lsp:
  poll_interval: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model.N != 4 || cfg.Model.Smoothing != "add-k" || cfg.Model.K != 0.5 {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Generation.Seed != 7 || cfg.Generation.MaxLength != 20 {
		t.Errorf("Generation = %+v", cfg.Generation)
	}
	if cfg.LSP.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.LSP.PollInterval)
	}
	if cfg.Model.MinTokenFrequency != 2 {
		t.Errorf("MinTokenFrequency = %d, want default 2", cfg.Model.MinTokenFrequency)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("model: [1, 2"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("Load(bad yaml) error = nil, want error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CODEGRAM_N":         "2",
		"CODEGRAM_SMOOTHING": "none",
		"CODEGRAM_K":         "0.25",
		"CODEGRAM_SEED":      "99",
		"CODEGRAM_LOG_FILE":  "/tmp/codegram.log",
	}
	cfg := Default()
	err := cfg.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model.N != 2 || cfg.Model.Smoothing != "none" || cfg.Model.K != 0.25 {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Generation.Seed != 99 || cfg.Logging.File != "/tmp/codegram.log" {
		t.Errorf("Seed = %d File = %q", cfg.Generation.Seed, cfg.Logging.File)
	}

	bad := Default()
	err = bad.ApplyEnv(func(key string) (string, bool) {
		if key == "CODEGRAM_N" {
			return "three", true
		}
		return "", false
	})
	if err == nil {
		t.Error("ApplyEnv(CODEGRAM_N=three) error = nil, want error")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("LoadEnvFile(missing) = %v, want nil", err)
	}

	path := filepath.Join(dir, ".env")
	os.WriteFile(path, []byte("CODEGRAM_SEED=123\n"), 0o644)
	t.Setenv("CODEGRAM_SEED", "")
	os.Unsetenv("CODEGRAM_SEED")
	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("CODEGRAM_SEED"); got != "123" {
		t.Errorf("CODEGRAM_SEED = %q, want 123", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		invalid bool
	}{
		{"defaults", func(*Config) {}, false, false},
		{"n zero", func(c *Config) { c.Model.N = 0 }, true, true},
		{"unknown smoothing", func(c *Config) { c.Model.Smoothing = "kneser-ney" }, true, true},
		{"add-k zero", func(c *Config) { c.Model.Smoothing = "add-k"; c.Model.K = 0 }, true, true},
		{"laplace ignores k", func(c *Config) { c.Model.K = 0 }, false, false},
		{"chunk size", func(c *Config) { c.Mining.ChunkSize = 0 }, true, false},
		{"cache size", func(c *Config) { c.LSP.CacheSize = -1 }, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.invalid && !errors.Is(err, ngram.ErrInvalidConfiguration) {
				t.Errorf("Validate() = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestSmoothing(t *testing.T) {
	cfg := Default()
	if s, err := cfg.Smoothing(); err != nil || s != ngram.SmoothingLaplace {
		t.Errorf("Smoothing() = %v, %v, want laplace", s, err)
	}
}
