package docsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// linesPerPage paginates documents that carry no form-feed page breaks.
const linesPerPage = 45

// TextLoader loads plain-text manuals. Pages are split on form-feed
// characters when present, otherwise on a fixed line count. Lines that look
// tabular (two or more tab-separated cells) are flattened into pipe-joined
// rows.
type TextLoader struct{}

func (TextLoader) Load(_ context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	return Parse(titleFromPath(path), string(data))
}

// Parse segments raw text content into a page-structured document.
func Parse(title, content string) (*Document, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var rawPages []string
	if strings.Contains(content, "\f") {
		rawPages = strings.Split(content, "\f")
	} else {
		rawPages = paginate(content, linesPerPage)
	}

	doc := &Document{Title: title}
	for i, raw := range rawPages {
		page := buildPage(i+1, raw)
		if page.Text == "" && len(page.TableRows) == 0 {
			continue
		}
		doc.Pages = append(doc.Pages, page)
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("document %q contains no text", title)
	}
	return doc, nil
}

func buildPage(number int, raw string) Page {
	var textLines, tableRows []string
	for _, line := range strings.Split(raw, "\n") {
		if cells := splitTabular(line); cells != nil {
			tableRows = append(tableRows, strings.Join(cells, " | "))
			continue
		}
		textLines = append(textLines, line)
	}

	return Page{
		Number:    number,
		Text:      strings.TrimSpace(strings.Join(textLines, "\n")),
		TableRows: tableRows,
	}
}

// splitTabular returns the trimmed cells of a tab-separated line, or nil if
// the line is not tabular.
func splitTabular(line string) []string {
	if strings.Count(line, "\t") < 2 {
		return nil
	}
	var cells []string
	for _, cell := range strings.Split(line, "\t") {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	if len(cells) < 2 {
		return nil
	}
	return cells
}

func paginate(content string, perPage int) []string {
	lines := strings.Split(content, "\n")
	var pages []string
	for i := 0; i < len(lines); i += perPage {
		end := i + perPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, strings.Join(lines[i:end], "\n"))
	}
	return pages
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.TrimSpace(base)
}
