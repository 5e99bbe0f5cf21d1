package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/fieldserve/fieldassist/internal/assets"
	"github.com/fieldserve/fieldassist/internal/clarify"
	"github.com/fieldserve/fieldassist/internal/config"
	"github.com/fieldserve/fieldassist/internal/db"
	"github.com/fieldserve/fieldassist/internal/embeddings"
	"github.com/fieldserve/fieldassist/internal/extractor"
	"github.com/fieldserve/fieldassist/internal/gaps"
	"github.com/fieldserve/fieldassist/internal/llm"
	"github.com/fieldserve/fieldassist/internal/logging"
	"github.com/fieldserve/fieldassist/internal/pipeline"
	"github.com/fieldserve/fieldassist/internal/retriever"
	"github.com/fieldserve/fieldassist/internal/synthesizer"
	"github.com/fieldserve/fieldassist/internal/taxonomy"
	"github.com/fieldserve/fieldassist/internal/vectordb"
)

// loadConfig loads the config and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `fieldassist init` to create a config file", err)
	}

	logging.Init(cfg.LogLevel, cfg.Development || verbose)
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, ""), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", provider)
	}
}

func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Model)
}

func vectorDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "vectordb")
}

func databasePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "fieldassist.db")
}

func indexStatePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "index-state.json")
}

// openVectorStore creates the chromem store and loads a persisted corpus
// when one exists.
func openVectorStore(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (*vectordb.ChromemStore, error) {
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	dir := vectorDir(cfg)
	if _, err := os.Stat(filepath.Join(dir, "corpus.gob.gz")); err == nil {
		if err := store.Load(ctx, dir); err != nil {
			return nil, fmt.Errorf("loading corpus from %s: %w", dir, err)
		}
	}
	return store, nil
}

// newClarifyStore returns a Redis-backed clarification store when a Redis
// URL is configured, else the in-process store.
func newClarifyStore(cfg *config.Config) (clarify.Store, error) {
	if cfg.RedisURL == "" {
		return clarify.NewMemoryStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return clarify.NewRedisStore(redis.NewClient(opts), 0), nil
}

// buildAssistant wires the full turn pipeline from configured collaborators.
func buildAssistant(cfg *config.Config, provider llm.Provider, store vectordb.Store, database *db.DB, states clarify.Store) *pipeline.Assistant {
	var candidates pipeline.CandidateSource
	var gapLog pipeline.GapRecorder
	if database != nil {
		candidates = assets.NewStore(database)
		gapLog = gaps.NewStore(database)
	}

	return pipeline.New(
		extractor.New(taxonomy.NewMatcher(), provider, cfg.Model, cfg.Extraction),
		clarify.NewGate(cfg.Extraction.ClarifyThreshold),
		states,
		retriever.New(store, cfg.Retrieval),
		synthesizer.New(provider, cfg.Model, cfg.Retrieval.PromptChunks),
		candidates,
		gapLog,
		cfg.Extraction,
	)
}
