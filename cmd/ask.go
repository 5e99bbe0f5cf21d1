package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldserve/fieldassist/internal/clarify"
	"github.com/fieldserve/fieldassist/internal/db"
	"github.com/fieldserve/fieldassist/internal/pipeline"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a one-shot troubleshooting question from the command line",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().String("user", "", "user identity, enables asset lookup and scoped retrieval")
	askCmd.Flags().String("asset", "", "asset identity for scoped retrieval")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	userID, _ := cmd.Flags().GetString("user")
	assetID, _ := cmd.Flags().GetString("asset")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := openVectorStore(ctx, cfg, embedder)
	if err != nil {
		return err
	}

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	database, err := db.Open(databasePath(cfg))
	if err != nil {
		return err
	}
	defer database.Close()

	assistant := buildAssistant(cfg, provider, store, database, clarify.NewMemoryStore())

	reply := assistant.Respond(ctx, pipeline.Request{
		Message: args[0],
		UserID:  userID,
		AssetID: assetID,
	})

	if reply.NeedsClarification {
		fmt.Println(reply.ClarificationPrompt)
		return nil
	}

	fmt.Println(reply.Response.AnswerText)

	if len(reply.Response.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range reply.Response.Sources {
			fmt.Printf("  - %s, p.%d\n", src.Title, src.Page)
		}
	}

	if len(reply.Response.SafetyWarnings) > 0 {
		fmt.Println("\nSafety:")
		for _, w := range reply.Response.SafetyWarnings {
			fmt.Printf("  ! %s\n", w)
		}
	}

	return nil
}
