package vectordb

import "context"

// Store is the two-partition vector store: a shared corpus of manufacturer
// manuals and scope-private corpora for user-uploaded documents.
//
// AddShared and AddScoped write a document's full chunk batch in one call;
// a concurrent search never observes a partially indexed document.
type Store interface {
	// AddShared adds chunk documents to the shared manuals corpus.
	AddShared(ctx context.Context, docs []Document) error

	// AddScoped adds chunk documents to the private corpus of the given scope.
	AddScoped(ctx context.Context, scope Scope, docs []Document) error

	// SearchShared performs a similarity search over the shared corpus.
	SearchShared(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error)

	// SearchScoped performs a similarity search over a private corpus.
	SearchScoped(ctx context.Context, scope Scope, query string, limit int) ([]SearchResult, error)

	// DeleteSharedDoc removes all chunks of a shared document, for re-indexing
	// after a manufacturer revision.
	DeleteSharedDoc(ctx context.Context, docID string) error

	// DeleteScopedDoc removes all chunks of a document from a private corpus,
	// for re-indexing after an uploaded print changes.
	DeleteScopedDoc(ctx context.Context, scope Scope, docID string) error

	// Persist saves the store's data under the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error

	// SharedCount returns the number of chunks in the shared corpus.
	SharedCount() int
}
