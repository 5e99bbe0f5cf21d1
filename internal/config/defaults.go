package config

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		DataDir:           ".fieldassist",
		LogLevel:          "info",
		Extraction: ExtractionConfig{
			ClarifyThreshold:  0.7,
			FamilyMatchScore:  0.5,
			PartialMatchScore: 0.4,
			NoMatchScore:      0.2,
			EnrichedScore:     0.85,
			ModelTimeoutSecs:  20,
		},
		Indexing: IndexingConfig{
			SharedChunkWords: 500,
			SharedOverlap:    100,
			ScopedChunkWords: 400,
			ScopedOverlap:    80,
			MinChunkWords:    40,
		},
		Retrieval: RetrievalConfig{
			MaxChunks:     5,
			PerQueryLimit: 3,
			PromptChunks:  3,
		},
		Server: ServerConfig{
			Port: 8460,
		},
	}
}
