package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
// FreezeOnQuery stops search queries from growing the shared vocabulary;
// by default querying grows it exactly like ingestion does.
type EmbedderConfig struct {
	Type          string                `yaml:"type"`
	FreezeOnQuery bool                  `yaml:"freeze_on_query"`
	OpenAI        *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// IndexConfig selects the similarity index implementation.
type IndexConfig struct {
	Type string `yaml:"type"`
}

// ChunkerConfig configures how documents are split before indexing.
type ChunkerConfig struct {
	MaxChars int `yaml:"max_chars"`
	Overlap  int `yaml:"overlap"`
}

// VocabConfig controls vocabulary lifecycle. ResetClears makes a QA
// reset also drop the vocabulary; the default keeps it, so token
// indices stay stable across reset-then-re-add cycles.
type VocabConfig struct {
	ResetClears bool `yaml:"reset_clears"`
}

// StoreConfig locates the on-disk index database used by the CLI.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// TUIConfig configures the interactive search screen.
type TUIConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder EmbedderConfig `yaml:"embedder"`
	Index    IndexConfig    `yaml:"index"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Vocab    VocabConfig    `yaml:"vocab"`
	Store    StoreConfig    `yaml:"store"`
	TUI      TUIConfig      `yaml:"tui"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/vindex/config.yaml.
// If neither exists, it writes defaults to ~/.config/vindex/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultStorePath resolves the index database location when the config
// leaves store.path empty.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "vindex", "index.db"), nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vindex", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Embedder: EmbedderConfig{Type: "simple"},
		Index:    IndexConfig{Type: "naive"},
		Chunker:  ChunkerConfig{MaxChars: 800, Overlap: 100},
		TUI:      TUIConfig{TopK: 5},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "simple"
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = "naive"
	}
	if cfg.Chunker.MaxChars == 0 {
		cfg.Chunker.MaxChars = 800
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 100
	}
	if cfg.TUI.TopK == 0 {
		cfg.TUI.TopK = 5
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
}
