package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Segment.MinClauseChars != 50 {
		t.Errorf("expected MinClauseChars=50, got %d", cfg.Segment.MinClauseChars)
	}
	if cfg.Segment.ChunkWords != 100 {
		t.Errorf("expected ChunkWords=100, got %d", cfg.Segment.ChunkWords)
	}
	if cfg.Retrieve.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.MinScore != 0.25 {
		t.Errorf("expected MinScore=0.25, got %f", cfg.Retrieve.MinScore)
	}
	if cfg.Chat.Temperature != 0.3 {
		t.Errorf("expected Temperature=0.3, got %f", cfg.Chat.Temperature)
	}
	if cfg.Chat.MaxTokens != 500 {
		t.Errorf("expected MaxTokens=500, got %d", cfg.Chat.MaxTokens)
	}
	if cfg.Store.Vector != "bolt" {
		t.Errorf("expected Vector=bolt, got %s", cfg.Store.Vector)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "contractiq.yaml")

	content := `
segment:
  min_clause_chars: 30
retrieve:
  top_k: 5
  mmr_enabled: false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Segment.MinClauseChars != 30 {
		t.Errorf("expected MinClauseChars=30, got %d", cfg.Segment.MinClauseChars)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.MMREnabled {
		t.Error("expected MMREnabled=false")
	}
	// Untouched sections keep their defaults
	if cfg.Chat.MaxTokens != 500 {
		t.Errorf("expected MaxTokens=500, got %d", cfg.Chat.MaxTokens)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "contractiq.yaml")

	content := `
cache:
  max_entries: 50
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Cache.MaxEntries != 50 {
		t.Errorf("expected MaxEntries=50, got %d", cfg.Cache.MaxEntries)
	}
}

func TestLoadFromDir_HiddenDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".contractiq"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".contractiq", "config.yaml")

	content := `
retrieve:
  top_k: 3
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Retrieve.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieve.TopK)
	}
}

func TestDataDBPath(t *testing.T) {
	path := DataDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".contractiq", "contracts.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
