// Package config loads codegram settings from a YAML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/codegram/ngram"
)

type Data struct {
	MinSequenceLength int `yaml:"min_sequence_length"`
	MaxSequenceLength int `yaml:"max_sequence_length"`
}

type Model struct {
	N                 int     `yaml:"n"`
	Smoothing         string  `yaml:"smoothing"`
	K                 float64 `yaml:"k"`
	MinTokenFrequency int     `yaml:"min_token_frequency"`
	VocabSizeLimit    int     `yaml:"vocab_size_limit"`
}

type Tokenization struct {
	PreserveStrings bool `yaml:"preserve_strings"`
	PreserveNumbers bool `yaml:"preserve_numbers"`
	Subtokenize     bool `yaml:"subtokenize"`
}

type Mining struct {
	ChunkSize  int `yaml:"chunk_size"`
	MaxMethods int `yaml:"max_methods"`
	MinTokens  int `yaml:"min_tokens"`
	MaxTokens  int `yaml:"max_tokens"`
}

type Evaluation struct {
	TopKLimit  int `yaml:"top_k_limit"`
	MaxSamples int `yaml:"max_samples"`
}

type Generation struct {
	MaxLength int    `yaml:"max_length"`
	Seed      uint64 `yaml:"seed"`
	TopK      int    `yaml:"top_k"`
}

type LSP struct {
	CacheSize    int           `yaml:"cache_size"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type Logging struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

type Config struct {
	Data         Data         `yaml:"data"`
	Model        Model        `yaml:"model"`
	Tokenization Tokenization `yaml:"tokenization"`
	Mining       Mining       `yaml:"mining"`
	Evaluation   Evaluation   `yaml:"evaluation"`
	Generation   Generation   `yaml:"generation"`
	LSP          LSP          `yaml:"lsp"`
	Logging      Logging      `yaml:"logging"`
}

func Default() Config {
	return Config{
		Data:  Data{MinSequenceLength: 5, MaxSequenceLength: 512},
		Model: Model{N: 3, Smoothing: "laplace", K: 1.0, MinTokenFrequency: 2, VocabSizeLimit: 50000},
		Mining: Mining{
			ChunkSize:  5000,
			MaxMethods: 500000,
			MinTokens:  3,
			MaxTokens:  2000,
		},
		Evaluation: Evaluation{TopKLimit: ngram.DefaultTopKLimit},
		Generation: Generation{MaxLength: 20, Seed: 42, TopK: ngram.DefaultTopK},
		LSP:        LSP{CacheSize: 1024, PollInterval: time.Second},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from CODEGRAM_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("CODEGRAM_N"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CODEGRAM_N: %w", err)
		}
		c.Model.N = n
	}
	if v, ok := lookup("CODEGRAM_SMOOTHING"); ok {
		c.Model.Smoothing = v
	}
	if v, ok := lookup("CODEGRAM_K"); ok {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CODEGRAM_K: %w", err)
		}
		c.Model.K = k
	}
	if v, ok := lookup("CODEGRAM_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CODEGRAM_SEED: %w", err)
		}
		c.Generation.Seed = seed
	}
	if v, ok := lookup("CODEGRAM_LOG_FILE"); ok {
		c.Logging.File = v
	}
	return nil
}

// Validate checks the model settings and the sizes the commands rely on.
func (c Config) Validate() error {
	smoothing, err := ngram.ParseSmoothing(c.Model.Smoothing)
	if err != nil {
		return err
	}
	if c.Model.N < 1 {
		return fmt.Errorf("%w: n must be at least 1, got %d", ngram.ErrInvalidConfiguration, c.Model.N)
	}
	if smoothing == ngram.SmoothingAddK && c.Model.K <= 0 {
		return fmt.Errorf("%w: k must be positive, got %v", ngram.ErrInvalidConfiguration, c.Model.K)
	}
	if c.Mining.ChunkSize <= 0 {
		return fmt.Errorf("mining.chunk_size must be positive, got %d", c.Mining.ChunkSize)
	}
	if c.LSP.CacheSize <= 0 {
		return fmt.Errorf("lsp.cache_size must be positive, got %d", c.LSP.CacheSize)
	}
	if c.LSP.PollInterval <= 0 {
		return fmt.Errorf("lsp.poll_interval must be positive, got %v", c.LSP.PollInterval)
	}
	return nil
}

// Smoothing returns the parsed smoothing method.
func (c Config) Smoothing() (ngram.Smoothing, error) {
	return ngram.ParseSmoothing(c.Model.Smoothing)
}
