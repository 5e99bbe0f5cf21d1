package docsource

import "context"

// Page is one page of a source document. TableRows holds any tabular data
// flattened to "cell | cell | ..." rows, kept separate from flowing text so
// the indexer can append them without breaking sentence boundaries.
type Page struct {
	Number    int
	Text      string
	TableRows []string
}

// Document is a page-segmented source document ready for indexing.
type Document struct {
	Title        string
	Manufacturer string
	Family       string
	Pages        []Page
}

// Loader turns an on-disk document into page-segmented text.
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
}
