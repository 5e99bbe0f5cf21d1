package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level fieldassist configuration, corresponding to
// .fieldassist.yml.
type Config struct {
	Provider          ProviderType     `yaml:"provider" koanf:"provider"`
	Model             string           `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType     `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string           `yaml:"embedding_model" koanf:"embedding_model"`
	DataDir           string           `yaml:"data_dir" koanf:"data_dir"`
	RedisURL          string           `yaml:"redis_url" koanf:"redis_url"`
	LogLevel          string           `yaml:"log_level" koanf:"log_level"`
	Development       bool             `yaml:"development" koanf:"development"`
	Extraction        ExtractionConfig `yaml:"extraction" koanf:"extraction"`
	Indexing          IndexingConfig   `yaml:"indexing" koanf:"indexing"`
	Retrieval         RetrievalConfig  `yaml:"retrieval" koanf:"retrieval"`
	Server            ServerConfig     `yaml:"server" koanf:"server"`
}

// ExtractionConfig holds the confidence tuning for context extraction and
// the clarification gate. The thresholds are configuration, not constants:
// sites with noisier message sources tend to lower the clarify threshold.
type ExtractionConfig struct {
	ClarifyThreshold  float64 `yaml:"clarify_threshold" koanf:"clarify_threshold"`
	FamilyMatchScore  float64 `yaml:"family_match_score" koanf:"family_match_score"`
	PartialMatchScore float64 `yaml:"partial_match_score" koanf:"partial_match_score"`
	NoMatchScore      float64 `yaml:"no_match_score" koanf:"no_match_score"`
	EnrichedScore     float64 `yaml:"enriched_score" koanf:"enriched_score"`
	ModelTimeoutSecs  int     `yaml:"model_timeout_secs" koanf:"model_timeout_secs"`
}

// IndexingConfig controls document chunking.
type IndexingConfig struct {
	SharedChunkWords int `yaml:"shared_chunk_words" koanf:"shared_chunk_words"`
	SharedOverlap    int `yaml:"shared_overlap" koanf:"shared_overlap"`
	ScopedChunkWords int `yaml:"scoped_chunk_words" koanf:"scoped_chunk_words"`
	ScopedOverlap    int `yaml:"scoped_overlap" koanf:"scoped_overlap"`
	MinChunkWords    int `yaml:"min_chunk_words" koanf:"min_chunk_words"`
}

// RetrievalConfig controls similarity search.
type RetrievalConfig struct {
	MaxChunks     int `yaml:"max_chunks" koanf:"max_chunks"`
	PerQueryLimit int `yaml:"per_query_limit" koanf:"per_query_limit"`
	PromptChunks  int `yaml:"prompt_chunks" koanf:"prompt_chunks"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
