// Package indexer turns page-segmented documents into retrievable chunks in
// the vector store. Shared manufacturer manuals and user-scoped documents go
// through the same pipeline with different chunk sizes.
package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fieldserve/fieldassist/internal/config"
	"github.com/fieldserve/fieldassist/internal/docsource"
	"github.com/fieldserve/fieldassist/internal/vectordb"
)

// IndexResult summarizes one indexed document.
type IndexResult struct {
	DocID      string
	Title      string
	ChunkCount int
	PageCount  int
	Sections   []string
	Skipped    bool // content unchanged since the last run
}

// Indexer chunks documents and writes them to the vector store. Each
// document's chunks are written in a single batch, so searches never see a
// half-indexed document.
type Indexer struct {
	store vectordb.Store
	state *State
	cfg   config.IndexingConfig
}

func New(store vectordb.Store, state *State, cfg config.IndexingConfig) *Indexer {
	return &Indexer{store: store, state: state, cfg: cfg}
}

// IndexShared indexes a manufacturer manual into the shared corpus. A
// document whose content hash matches the previous run is skipped. A changed
// document replaces its earlier chunks before the new batch is added.
func (ix *Indexer) IndexShared(ctx context.Context, doc *docsource.Document) (*IndexResult, error) {
	hash := hashDocument(doc)
	key := "shared/" + doc.Title

	if prev, ok := ix.state.lookup(key); ok && prev.Hash == hash {
		log.Debug().Str("title", doc.Title).Msg("document unchanged, skipping")
		return &IndexResult{DocID: prev.DocID, Title: doc.Title, PageCount: len(doc.Pages), Skipped: true}, nil
	} else if ok {
		if err := ix.store.DeleteSharedDoc(ctx, prev.DocID); err != nil {
			return nil, fmt.Errorf("remove stale chunks of %q: %w", doc.Title, err)
		}
	}

	docID := uuid.NewString()
	chunks := chunkPages(doc.Pages, ix.cfg.SharedChunkWords, ix.cfg.SharedOverlap, ix.cfg.MinChunkWords)
	docs, err := ix.buildDocuments(doc, docID, hash, vectordb.SourceSharedManual, chunks)
	if err != nil {
		return nil, err
	}

	if err := ix.store.AddShared(ctx, docs); err != nil {
		return nil, fmt.Errorf("index %q: %w", doc.Title, err)
	}

	ix.state.record(key, hash, docID)
	if err := ix.state.Save(); err != nil {
		return nil, err
	}

	return ix.result(doc, docID, len(docs)), nil
}

// IndexScoped indexes a user-uploaded document into the private corpus of
// the given scope. Like IndexShared, an unchanged document is skipped and a
// changed one replaces its earlier chunks.
func (ix *Indexer) IndexScoped(ctx context.Context, scope vectordb.Scope, doc *docsource.Document) (*IndexResult, error) {
	if scope.IsZero() {
		return nil, fmt.Errorf("scoped indexing requires a user and asset scope")
	}

	hash := hashDocument(doc)
	key := "scope/" + scope.Key() + "/" + doc.Title

	if prev, ok := ix.state.lookup(key); ok && prev.Hash == hash {
		return &IndexResult{DocID: prev.DocID, Title: doc.Title, PageCount: len(doc.Pages), Skipped: true}, nil
	} else if ok {
		if err := ix.store.DeleteScopedDoc(ctx, scope, prev.DocID); err != nil {
			return nil, fmt.Errorf("remove stale chunks of %q: %w", doc.Title, err)
		}
	}

	docID := uuid.NewString()
	chunks := chunkPages(doc.Pages, ix.cfg.ScopedChunkWords, ix.cfg.ScopedOverlap, ix.cfg.MinChunkWords)
	docs, err := ix.buildDocuments(doc, docID, hash, vectordb.SourceUserDocument, chunks)
	if err != nil {
		return nil, err
	}

	if err := ix.store.AddScoped(ctx, scope, docs); err != nil {
		return nil, fmt.Errorf("index %q for scope %s: %w", doc.Title, scope.Key(), err)
	}

	ix.state.record(key, hash, docID)
	if err := ix.state.Save(); err != nil {
		return nil, err
	}

	return ix.result(doc, docID, len(docs)), nil
}

func (ix *Indexer) buildDocuments(doc *docsource.Document, docID, hash string, source vectordb.SourceType, chunks []pageChunk) ([]vectordb.Document, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %q produced no chunks", doc.Title)
	}

	now := time.Now().UTC()
	docs := make([]vectordb.Document, 0, len(chunks))
	for i, c := range chunks {
		docs = append(docs, vectordb.Document{
			ID:      uuid.NewString(),
			Content: c.Text,
			Metadata: vectordb.DocumentMetadata{
				DocID:        docID,
				Title:        doc.Title,
				Manufacturer: doc.Manufacturer,
				Family:       doc.Family,
				Page:         c.Page,
				ChunkIndex:   i,
				ContentHash:  hash,
				Source:       source,
				IndexedAt:    now,
			},
		})
	}
	return docs, nil
}

func (ix *Indexer) result(doc *docsource.Document, docID string, chunkCount int) *IndexResult {
	return &IndexResult{
		DocID:      docID,
		Title:      doc.Title,
		ChunkCount: chunkCount,
		PageCount:  len(doc.Pages),
		Sections:   detectSections(doc),
	}
}
