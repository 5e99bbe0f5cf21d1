package vectordb

import (
	"context"
	"math"
	"testing"
	"time"
)

// mockEmbedder returns deterministic embeddings based on text content, so
// similar texts produce similar vectors without any network calls.
type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }
func (m *mockEmbedder) Name() string    { return "mock" }

func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	return store
}

func manualChunk(id, docID, content, manufacturer string, page int) Document {
	return Document{
		ID:      id,
		Content: content,
		Metadata: DocumentMetadata{
			DocID:        docID,
			Title:        "PowerFlex 525 User Manual",
			Manufacturer: manufacturer,
			Family:       "Variable Frequency Drive",
			Page:         page,
			Source:       SourceSharedManual,
			IndexedAt:    time.Now(),
		},
	}
}

func TestChromemStore_AddAndSearchShared(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []Document{
		manualChunk("c1", "doc-1", "fault F004 indicates an undervoltage condition on the drive", "Allen-Bradley", 112),
		manualChunk("c2", "doc-1", "wiring diagram for the three phase input terminals", "Allen-Bradley", 34),
		manualChunk("c3", "doc-2", "bearing lubrication intervals for centrifugal pumps", "Grundfos", 12),
	}

	if err := store.AddShared(ctx, docs); err != nil {
		t.Fatalf("AddShared: %v", err)
	}
	if count := store.SharedCount(); count != 3 {
		t.Errorf("SharedCount: got %d, want 3", count)
	}

	results, err := store.SearchShared(ctx, "drive undervoltage fault F004", 2, nil)
	if err != nil {
		t.Fatalf("SearchShared: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("SearchShared returned no results")
	}
	if len(results) > 2 {
		t.Errorf("SearchShared returned %d results, expected at most 2", len(results))
	}
	for _, r := range results {
		if r.Similarity <= 0 || r.Similarity > 1 {
			t.Errorf("similarity %v outside (0,1]", r.Similarity)
		}
	}
}

func TestChromemStore_ManufacturerFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []Document{
		manualChunk("c1", "doc-1", "drive parameter list and defaults", "Allen-Bradley", 5),
		manualChunk("c2", "doc-2", "drive parameter list and defaults", "Siemens", 7),
	}
	if err := store.AddShared(ctx, docs); err != nil {
		t.Fatalf("AddShared: %v", err)
	}

	mfr := "Siemens"
	results, err := store.SearchShared(ctx, "drive parameters", 10, &SearchFilter{Manufacturer: &mfr})
	if err != nil {
		t.Fatalf("SearchShared with filter: %v", err)
	}
	for _, r := range results {
		if r.Document.Metadata.Manufacturer != "Siemens" {
			t.Errorf("filter leaked manufacturer %q", r.Document.Metadata.Manufacturer)
		}
	}
}

func TestChromemStore_ScopeIsolation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	scopeA := Scope{UserID: "u1", AssetID: "press-3"}
	scopeB := Scope{UserID: "u2", AssetID: "press-3"}

	doc := Document{
		ID:      "p1",
		Content: "site specific hydraulic schematic for press line 3",
		Metadata: DocumentMetadata{
			DocID:  "print-1",
			Title:  "Press 3 Hydraulic Print",
			Source: SourceUserDocument,
		},
	}
	if err := store.AddScoped(ctx, scopeA, []Document{doc}); err != nil {
		t.Fatalf("AddScoped: %v", err)
	}

	resultsA, err := store.SearchScoped(ctx, scopeA, "hydraulic schematic press", 5)
	if err != nil {
		t.Fatalf("SearchScoped A: %v", err)
	}
	if len(resultsA) != 1 {
		t.Fatalf("scope A: got %d results, want 1", len(resultsA))
	}

	resultsB, err := store.SearchScoped(ctx, scopeB, "hydraulic schematic press", 5)
	if err != nil {
		t.Fatalf("SearchScoped B: %v", err)
	}
	if len(resultsB) != 0 {
		t.Errorf("scope B sees %d documents from scope A", len(resultsB))
	}
}

func TestChromemStore_DeleteSharedDoc(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []Document{
		manualChunk("c1", "doc-1", "first manual content", "Allen-Bradley", 1),
		manualChunk("c2", "doc-2", "second manual content", "Siemens", 1),
	}
	if err := store.AddShared(ctx, docs); err != nil {
		t.Fatalf("AddShared: %v", err)
	}

	if err := store.DeleteSharedDoc(ctx, "doc-1"); err != nil {
		t.Fatalf("DeleteSharedDoc: %v", err)
	}
	if count := store.SharedCount(); count != 1 {
		t.Errorf("SharedCount after delete: got %d, want 1", count)
	}
}

func TestChromemStore_DeleteScopedDoc(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	scope := Scope{UserID: "u1", AssetID: "press-3"}

	docs := []Document{
		{ID: "p1", Content: "hydraulic schematic revision A", Metadata: DocumentMetadata{DocID: "print-1", Source: SourceUserDocument}},
		{ID: "p2", Content: "lubrication chart", Metadata: DocumentMetadata{DocID: "print-2", Source: SourceUserDocument}},
	}
	if err := store.AddScoped(ctx, scope, docs); err != nil {
		t.Fatalf("AddScoped: %v", err)
	}

	if err := store.DeleteScopedDoc(ctx, scope, "print-1"); err != nil {
		t.Fatalf("DeleteScopedDoc: %v", err)
	}

	results, err := store.SearchScoped(ctx, scope, "hydraulic schematic", 5)
	if err != nil {
		t.Fatalf("SearchScoped: %v", err)
	}
	for _, r := range results {
		if r.Document.Metadata.DocID == "print-1" {
			t.Errorf("deleted document still retrievable: %+v", r.Document.Metadata)
		}
	}
}

func TestChromemStore_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	embedder := &mockEmbedder{dims: 64}

	store, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	now := time.Now().Truncate(time.Second)
	doc := manualChunk("c1", "doc-1", "overload relay trip settings", "Schneider", 88)
	doc.Metadata.IndexedAt = now
	if err := store.AddShared(ctx, []Document{doc}); err != nil {
		t.Fatalf("AddShared: %v", err)
	}

	dir := t.TempDir()
	if err := store.Persist(ctx, dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	store2, err := NewChromemStore(embedder)
	if err != nil {
		t.Fatalf("NewChromemStore for load: %v", err)
	}
	if err := store2.Load(ctx, dir); err != nil {
		t.Fatalf("Load: %v", err)
	}

	results, err := store2.SearchShared(ctx, "overload relay trip", 1, nil)
	if err != nil {
		t.Fatalf("SearchShared after load: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results after load, want 1", len(results))
	}
	md := results[0].Document.Metadata
	if md.Manufacturer != "Schneider" || md.Page != 88 {
		t.Errorf("metadata lost in round trip: %+v", md)
	}
	if !md.IndexedAt.Equal(now) {
		t.Errorf("indexed_at: got %v, want %v", md.IndexedAt, now)
	}
}

func TestScopeKeyStable(t *testing.T) {
	a := Scope{UserID: "u1", AssetID: "pump-1"}
	b := Scope{UserID: "u1", AssetID: "pump-1"}
	c := Scope{UserID: "u1", AssetID: "pump-2"}

	if a.Key() != b.Key() {
		t.Error("identical scopes produced different keys")
	}
	if a.Key() == c.Key() {
		t.Error("different scopes produced the same key")
	}
}
