package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .fieldassist.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to fieldassist! Let's configure your installation.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.EmbeddingProvider = cfg.Provider

	defaultModel := "gpt-4o-mini"
	defaultEmbedding := "text-embedding-3-small"
	if cfg.Provider == ProviderOllama {
		defaultModel = "llama3.1"
		defaultEmbedding = "nomic-embed-text"
	}

	modelPrompt := promptui.Prompt{
		Label:   "Model for extraction and answers",
		Default: defaultModel,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	embeddingPrompt := promptui.Prompt{
		Label:   "Embedding model",
		Default: defaultEmbedding,
	}
	if cfg.EmbeddingModel, err = embeddingPrompt.Run(); err != nil {
		return nil, fmt.Errorf("embedding model: %w", err)
	}

	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory (corpus, database, index state)",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataDirPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	redisPrompt := promptui.Prompt{
		Label:   "Redis URL for clarification state (blank for in-memory)",
		Default: "",
	}
	if cfg.RedisURL, err = redisPrompt.Run(); err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running fieldassist.\n", envVar)
	}

	configPath := ".fieldassist.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
