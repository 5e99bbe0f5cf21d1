package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldserve/fieldassist/internal/assets"
	"github.com/fieldserve/fieldassist/internal/db"
	"github.com/fieldserve/fieldassist/internal/gaps"
	"github.com/fieldserve/fieldassist/internal/indexer"
	"github.com/fieldserve/fieldassist/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fieldassist HTTP server",
	Long:  `Serves the troubleshooting pipeline, document ingestion, asset registry, and knowledge gap endpoints over HTTP.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
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

	states, err := newClarifyStore(cfg)
	if err != nil {
		return err
	}

	state, err := indexer.LoadState(indexStatePath(cfg))
	if err != nil {
		return err
	}

	assistant := buildAssistant(cfg, provider, store, database, states)
	srv := server.New(cfg.Server,
		assistant,
		indexer.New(store, state, cfg.Indexing),
		assets.NewStore(database),
		gaps.NewStore(database),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	// Persist the corpus before exit so documents indexed over HTTP survive.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Persist(shutdownCtx, vectorDir(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "persisting corpus: %v\n", err)
	}
	return srv.Shutdown(shutdownCtx)
}
