package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the contractiq tool.
type Config struct {
	Segment   SegmentConfig   `yaml:"segment"`
	Extract   ExtractConfig   `yaml:"extract"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Store     StoreConfig     `yaml:"store"`
	Cache     CacheConfig     `yaml:"cache"`
}

// SegmentConfig controls the clause segmenter.
type SegmentConfig struct {
	MinClauseChars int `yaml:"min_clause_chars"`
	ChunkWords     int `yaml:"chunk_words"`
}

// ExtractConfig controls which documents batch upload picks up.
type ExtractConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "openai", "novita", "deepseek", "jina", "ollama", "mock"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`    // Override for self-hosted endpoints
	Dimension int    `yaml:"dimension"`   // 0 = use model default
	BatchSize int    `yaml:"batch_size"`
}

// ChatConfig holds the chat completion provider configuration.
type ChatConfig struct {
	Provider    string  `yaml:"provider"` // "novita", "deepseek", "openai", "local"
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK         int     `yaml:"top_k"`
	MinScore     float64 `yaml:"min_score"` // Filter results below this similarity (0 = disabled)
	MMREnabled   bool    `yaml:"mmr_enabled"`
	MMRLambda    float64 `yaml:"mmr_lambda"`
	DedupJaccard float64 `yaml:"dedup_jaccard"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	Vector string       `yaml:"vector"` // "bolt", "qdrant", "memory"
	Qdrant QdrantConfig `yaml:"qdrant"`
}

// QdrantConfig holds the Qdrant connection settings.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// CacheConfig controls the answer cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
	TTLSecs    int `yaml:"ttl_secs"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Segment: SegmentConfig{
			MinClauseChars: 50,
			ChunkWords:     100,
		},
		Extract: ExtractConfig{
			Includes: []string{"**/*.pdf", "**/*.docx", "**/*.txt", "**/*.md"},
			Excludes: []string{"**/.git/**", "**/node_modules/**"},
		},
		Embedding: EmbeddingConfig{
			Provider:  "novita",
			Model:     "qwen/qwen3-embedding-8b",
			APIKeyEnv: "NOVITA_API_KEY",
			BatchSize: 32,
		},
		Chat: ChatConfig{
			Provider:    "novita",
			Model:       "deepseek/deepseek-v3-0324",
			APIKeyEnv:   "NOVITA_API_KEY",
			Temperature: 0.3,
			MaxTokens:   500,
		},
		Retrieve: RetrieveConfig{
			TopK:         10,
			MinScore:     0.25,
			MMREnabled:   true,
			MMRLambda:    0.7,
			DedupJaccard: 0.8,
		},
		Store: StoreConfig{
			Vector: "bolt",
			Qdrant: QdrantConfig{
				URL:         "http://localhost:6333",
				APIKeyEnv:   "QDRANT_API_KEY",
				Collection:  "contract_clauses",
				TimeoutSecs: 15,
			},
		},
		Cache: CacheConfig{
			MaxEntries: 100,
			TTLSecs:    300,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for contractiq.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "contractiq.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".contractiq", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDBPath returns the path to the contract database.
func DataDBPath(dir string) string {
	return filepath.Join(dir, ".contractiq", "contracts.db")
}

// EnsureDataDir ensures the .contractiq directory exists.
func EnsureDataDir(dir string) error {
	dataDir := filepath.Join(dir, ".contractiq")
	return os.MkdirAll(dataDir, 0755)
}
