package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Extraction.ClarifyThreshold != 0.7 {
		t.Errorf("clarify threshold: got %v, want 0.7", cfg.Extraction.ClarifyThreshold)
	}
	if cfg.Indexing.SharedChunkWords != 500 || cfg.Indexing.SharedOverlap != 100 {
		t.Errorf("shared chunking defaults: got %d/%d", cfg.Indexing.SharedChunkWords, cfg.Indexing.SharedOverlap)
	}
	if cfg.Retrieval.MaxChunks != 5 {
		t.Errorf("max chunks: got %d, want 5", cfg.Retrieval.MaxChunks)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider: got %q, want openai", cfg.Provider)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fieldassist.yml")
	yml := `provider: ollama
model: llama3.1
extraction:
  clarify_threshold: 0.6
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("provider: got %q, want ollama", cfg.Provider)
	}
	if cfg.Extraction.ClarifyThreshold != 0.6 {
		t.Errorf("clarify threshold: got %v, want 0.6", cfg.Extraction.ClarifyThreshold)
	}
	// Untouched values keep their defaults.
	if cfg.Retrieval.MaxChunks != 5 {
		t.Errorf("max chunks: got %d, want 5", cfg.Retrieval.MaxChunks)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FIELDASSIST_MODEL", "gpt-4o")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("model: got %q, want gpt-4o", cfg.Model)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "watson" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"threshold out of range", func(c *Config) { c.Extraction.ClarifyThreshold = 1.5 }},
		{"overlap exceeds chunk", func(c *Config) { c.Indexing.SharedOverlap = 600 }},
		{"zero max chunks", func(c *Config) { c.Retrieval.MaxChunks = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yml")

	cfg := DefaultConfig()
	cfg.Model = "gpt-4.1"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != "gpt-4.1" {
		t.Errorf("model after round trip: got %q", loaded.Model)
	}
}
