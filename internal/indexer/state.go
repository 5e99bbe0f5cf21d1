package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fieldserve/fieldassist/internal/docsource"
)

// stateEntry records what was last indexed for a document key.
type stateEntry struct {
	Hash  string `json:"hash"`
	DocID string `json:"doc_id"`
}

// State tracks content hashes of indexed documents so unchanged documents
// are skipped on re-index. It is persisted as a JSON file in the data dir.
type State struct {
	path string

	mu   sync.Mutex
	docs map[string]stateEntry
}

// LoadState reads the state file at path. A missing file yields empty state.
func LoadState(path string) (*State, error) {
	s := &State{path: path, docs: make(map[string]stateEntry)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index state: %w", err)
	}
	if err := json.Unmarshal(data, &s.docs); err != nil {
		return nil, fmt.Errorf("parse index state %s: %w", path, err)
	}
	return s, nil
}

// Save writes the state file atomically via a rename.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace index state: %w", err)
	}
	return nil
}

func (s *State) lookup(key string) (stateEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.docs[key]
	return e, ok
}

func (s *State) record(key, hash, docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = stateEntry{Hash: hash, DocID: docID}
}

// hashDocument hashes all page text and table rows of a document.
func hashDocument(doc *docsource.Document) string {
	h := sha256.New()
	for _, page := range doc.Pages {
		h.Write([]byte(page.Text))
		h.Write([]byte{0})
		for _, row := range page.TableRows {
			h.Write([]byte(row))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
