package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldserve/fieldassist/internal/docsource"
	"github.com/fieldserve/fieldassist/internal/indexer"
	"github.com/fieldserve/fieldassist/internal/progress"
	"github.com/fieldserve/fieldassist/internal/vectordb"
)

var indexCmd = &cobra.Command{
	Use:   "index [directory]",
	Short: "Index a directory of equipment manuals into the retrieval corpus",
	Long: `Scans a directory for text documents, chunks them, and stores them with
embeddings. Without --user and --asset the documents go into the shared
manuals corpus; with both they go into that scope's private corpus.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("manufacturer", "", "manufacturer to tag the documents with")
	indexCmd.Flags().String("family", "", "component family to tag the documents with")
	indexCmd.Flags().String("user", "", "user identity for scope-private indexing")
	indexCmd.Flags().String("asset", "", "asset identity for scope-private indexing")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := args[0]

	manufacturer, _ := cmd.Flags().GetString("manufacturer")
	family, _ := cmd.Flags().GetString("family")
	userID, _ := cmd.Flags().GetString("user")
	assetID, _ := cmd.Flags().GetString("asset")

	if (userID == "") != (assetID == "") {
		return fmt.Errorf("--user and --asset must be set together")
	}
	scope := vectordb.Scope{UserID: userID, AssetID: assetID}

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

	state, err := indexer.LoadState(indexStatePath(cfg))
	if err != nil {
		return err
	}
	ix := indexer.New(store, state, cfg.Indexing)

	paths, err := docsource.NewScanner().Scan(root)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	reporter := progress.NewReporter()
	reporter.Start(len(paths))

	var loader docsource.TextLoader
	var indexed, skipped, failed int
	for i, rel := range paths {
		reporter.Update(i+1, rel)

		doc, err := loader.Load(ctx, filepath.Join(root, rel))
		if err != nil {
			fmt.Printf("\n%s: %v\n", rel, err)
			failed++
			continue
		}
		doc.Manufacturer = manufacturer
		doc.Family = family

		var res *indexer.IndexResult
		if scope.IsZero() {
			res, err = ix.IndexShared(ctx, doc)
		} else {
			res, err = ix.IndexScoped(ctx, scope, doc)
		}
		if err != nil {
			fmt.Printf("\n%s: %v\n", rel, err)
			failed++
			continue
		}

		if res.Skipped {
			skipped++
		} else {
			indexed++
		}
	}
	reporter.Finish()

	if err := store.Persist(ctx, vectorDir(cfg)); err != nil {
		return fmt.Errorf("persisting corpus: %w", err)
	}

	summary := []string{fmt.Sprintf("%d indexed", indexed)}
	if skipped > 0 {
		summary = append(summary, fmt.Sprintf("%d unchanged", skipped))
	}
	if failed > 0 {
		summary = append(summary, fmt.Sprintf("%d failed", failed))
	}
	fmt.Printf("Done: %s. Shared corpus now holds %d chunks.\n", strings.Join(summary, ", "), store.SharedCount())

	if failed > 0 {
		return fmt.Errorf("%d documents failed to index", failed)
	}
	return nil
}
