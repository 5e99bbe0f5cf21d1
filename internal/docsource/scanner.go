package docsource

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIncludes covers the document types the text loader understands.
var defaultIncludes = []string{"**/*.txt", "**/*.md"}

// defaultExcludes skips directories that never hold manuals.
var defaultExcludes = []string{"**/.git/**", "**/node_modules/**", "**/.*/**"}

// Scanner finds indexable documents under a root directory using glob
// patterns. Patterns are matched against paths relative to the root, with
// forward slashes on every platform.
type Scanner struct {
	Includes []string
	Excludes []string
}

// NewScanner creates a Scanner with the default include and exclude globs.
func NewScanner() *Scanner {
	return &Scanner{Includes: defaultIncludes, Excludes: defaultExcludes}
}

// Scan walks root and returns the sorted relative paths of matching files.
func (s *Scanner) Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && s.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if s.excluded(rel) {
			return nil
		}
		if s.included(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *Scanner) included(rel string) bool {
	for _, pattern := range s.Includes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.Excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// A directory prefix match is enough to prune the subtree.
		if strings.HasSuffix(rel, "/") {
			if ok, _ := doublestar.Match(pattern, rel+"x"); ok {
				return true
			}
		}
	}
	return false
}
