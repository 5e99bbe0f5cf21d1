// Package retriever turns a resolved equipment context into similarity
// queries and merges the results into a ranked chunk list.
package retriever

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fieldserve/fieldassist/internal/config"
	"github.com/fieldserve/fieldassist/internal/extractor"
	"github.com/fieldserve/fieldassist/internal/vectordb"
)

// KnowledgeChunk is one retrieved piece of documentation.
type KnowledgeChunk struct {
	Text         string
	Title        string
	Manufacturer string
	Page         int
	Score        float32
	SourceType   vectordb.SourceType
	SourceID     string // identity of the source document
}

// Retriever runs the context's search queries against the shared corpus and,
// when a scope is bound, the caller's private corpus.
type Retriever struct {
	store vectordb.Store
	cfg   config.RetrievalConfig
}

func New(store vectordb.Store, cfg config.RetrievalConfig) *Retriever {
	return &Retriever{store: store, cfg: cfg}
}

// querySlot collects one query's results. Scoped results come first in the
// merge: a user's own prints beat the shared manuals for the same query.
type querySlot struct {
	scoped []vectordb.SearchResult
	shared []vectordb.SearchResult
}

// Retrieve issues the context's queries concurrently and merges the results
// in query-priority order, so retrieval stays deterministic regardless of
// which search finishes first. One chunk per source document; the list is
// capped by configuration. A failed query is logged and skipped.
func (r *Retriever) Retrieve(ctx context.Context, ec extractor.EquipmentContext, scope vectordb.Scope) []KnowledgeChunk {
	queries := ec.SearchQueries
	if len(queries) == 0 {
		return nil
	}

	var filter *vectordb.SearchFilter
	if ec.Manufacturer != "" {
		m := ec.Manufacturer
		filter = &vectordb.SearchFilter{Manufacturer: &m}
	}

	slots := make([]querySlot, len(queries))
	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()

			if !scope.IsZero() {
				results, err := r.store.SearchScoped(ctx, scope, query, r.cfg.PerQueryLimit)
				if err != nil {
					log.Warn().Err(err).Str("query", query).Msg("scoped search failed, skipping")
				} else {
					slots[i].scoped = results
				}
			}

			results, err := r.store.SearchShared(ctx, query, r.cfg.PerQueryLimit, filter)
			if err != nil {
				log.Warn().Err(err).Str("query", query).Msg("shared search failed, skipping")
				return
			}
			slots[i].shared = results
		}(i, query)
	}
	wg.Wait()

	return r.merge(slots)
}

func (r *Retriever) merge(slots []querySlot) []KnowledgeChunk {
	max := r.cfg.MaxChunks
	if max <= 0 {
		max = 5
	}

	seen := make(map[string]bool)
	var chunks []KnowledgeChunk
	for _, slot := range slots {
		for _, results := range [][]vectordb.SearchResult{slot.scoped, slot.shared} {
			for _, res := range results {
				id := res.Document.Metadata.DocID
				if seen[id] {
					continue
				}
				seen[id] = true
				chunks = append(chunks, toChunk(res))
				if len(chunks) >= max {
					return chunks
				}
			}
		}
	}
	return chunks
}

func toChunk(res vectordb.SearchResult) KnowledgeChunk {
	md := res.Document.Metadata
	return KnowledgeChunk{
		Text:         res.Document.Content,
		Title:        md.Title,
		Manufacturer: md.Manufacturer,
		Page:         md.Page,
		Score:        res.Similarity,
		SourceType:   md.Source,
		SourceID:     md.DocID,
	}
}
