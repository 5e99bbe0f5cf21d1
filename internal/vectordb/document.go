package vectordb

import "time"

// SourceType distinguishes the two corpus partitions.
type SourceType string

const (
	SourceSharedManual SourceType = "shared_manual"
	SourceUserDocument SourceType = "user_scoped_document"
)

// Document is one retrievable chunk of equipment documentation.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds structured information about a chunk.
type DocumentMetadata struct {
	DocID        string // identity of the source document
	Title        string
	Manufacturer string
	Family       string
	Page         int
	ChunkIndex   int
	ContentHash  string // hash of the full source document
	Source       SourceType
	IndexedAt    time.Time
}

// SearchResult pairs a document with its similarity score in (0,1].
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter narrows shared-corpus searches by metadata.
type SearchFilter struct {
	Manufacturer *string
	DocID        *string
}
