package vectordb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/fieldserve/fieldassist/internal/embeddings"
)

const sharedCollection = "manuals"

// ChromemStore implements Store using chromem-go. The shared corpus lives in
// one collection; each scope gets its own collection keyed by the opaque
// scope key, so cross-scope visibility is impossible by construction.
type ChromemStore struct {
	db        *chromem.DB
	shared    *chromem.Collection
	embedFunc chromem.EmbeddingFunc
}

// NewChromemStore creates an in-memory ChromemStore backed by the given embedder.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	shared, err := db.GetOrCreateCollection(sharedCollection, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create shared collection: %w", err)
	}

	return &ChromemStore{db: db, shared: shared, embedFunc: ef}, nil
}

func (s *ChromemStore) AddShared(ctx context.Context, docs []Document) error {
	return addBatch(ctx, s.shared, docs)
}

func (s *ChromemStore) AddScoped(ctx context.Context, scope Scope, docs []Document) error {
	col, err := s.scopeCollection(scope)
	if err != nil {
		return err
	}
	return addBatch(ctx, col, docs)
}

// addBatch writes all chunks in one call so a concurrent query sees either
// none or all of a document's chunks.
func addBatch(ctx context.Context, col *chromem.Collection, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: metadataToMap(doc.Metadata),
		}
	}

	return col.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemStore) SearchShared(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error) {
	return search(ctx, s.shared, query, limit, buildWhereClause(filter))
}

func (s *ChromemStore) SearchScoped(ctx context.Context, scope Scope, query string, limit int) ([]SearchResult, error) {
	col, err := s.scopeCollection(scope)
	if err != nil {
		return nil, err
	}
	return search(ctx, col, query, limit, nil)
}

func search(ctx context.Context, col *chromem.Collection, query string, limit int, where map[string]string) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := col.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}

	return searchResults, nil
}

func (s *ChromemStore) DeleteSharedDoc(ctx context.Context, docID string) error {
	if s.shared.Count() == 0 {
		return nil
	}
	return s.shared.Delete(ctx, map[string]string{"doc_id": docID}, nil)
}

func (s *ChromemStore) DeleteScopedDoc(ctx context.Context, scope Scope, docID string) error {
	col, err := s.scopeCollection(scope)
	if err != nil {
		return err
	}
	if col.Count() == 0 {
		return nil
	}
	return col.Delete(ctx, map[string]string{"doc_id": docID}, nil)
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(dir+"/corpus.gob.gz", true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(dir+"/corpus.gob.gz", ""); err != nil {
		return fmt.Errorf("import corpus: %w", err)
	}

	// Re-acquire the shared collection reference after import. Scope
	// collections are re-acquired lazily on first use.
	col := s.db.GetCollection(sharedCollection, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", sharedCollection)
	}
	s.shared = col
	return nil
}

func (s *ChromemStore) SharedCount() int {
	return s.shared.Count()
}

func (s *ChromemStore) scopeCollection(scope Scope) (*chromem.Collection, error) {
	name := "scope-" + scope.Key()
	col, err := s.db.GetOrCreateCollection(name, nil, s.embedFunc)
	if err != nil {
		return nil, fmt.Errorf("scope collection %s: %w", name, err)
	}
	return col, nil
}

// metadataToMap converts DocumentMetadata to the flat map chromem stores.
func metadataToMap(m DocumentMetadata) map[string]string {
	return map[string]string{
		"doc_id":       m.DocID,
		"title":        m.Title,
		"manufacturer": m.Manufacturer,
		"family":       m.Family,
		"page":         strconv.Itoa(m.Page),
		"chunk_index":  strconv.Itoa(m.ChunkIndex),
		"content_hash": m.ContentHash,
		"source":       string(m.Source),
		"indexed_at":   m.IndexedAt.Format(time.RFC3339),
	}
}

// mapToMetadata converts the flat map back to DocumentMetadata.
func mapToMetadata(m map[string]string) DocumentMetadata {
	page, _ := strconv.Atoi(m["page"])
	chunkIndex, _ := strconv.Atoi(m["chunk_index"])
	indexedAt, _ := time.Parse(time.RFC3339, m["indexed_at"])

	return DocumentMetadata{
		DocID:        m["doc_id"],
		Title:        m["title"],
		Manufacturer: m["manufacturer"],
		Family:       m["family"],
		Page:         page,
		ChunkIndex:   chunkIndex,
		ContentHash:  m["content_hash"],
		Source:       SourceType(m["source"]),
		IndexedAt:    indexedAt,
	}
}

// buildWhereClause converts a SearchFilter to a chromem where clause.
func buildWhereClause(filter *SearchFilter) map[string]string {
	if filter == nil {
		return nil
	}

	where := make(map[string]string)
	if filter.Manufacturer != nil {
		where["manufacturer"] = *filter.Manufacturer
	}
	if filter.DocID != nil {
		where["doc_id"] = *filter.DocID
	}

	if len(where) == 0 {
		return nil
	}
	return where
}
