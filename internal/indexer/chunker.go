package indexer

import (
	"strings"

	"github.com/fieldserve/fieldassist/internal/docsource"
)

// pageChunk is a chunk of page text before it becomes a store document.
type pageChunk struct {
	Text string
	Page int
}

// chunkPages splits each page into overlapping word windows. Table rows are
// appended after the flowing text so fault tables stay retrievable. A tail
// shorter than minWords is folded into the previous chunk instead of being
// emitted on its own; a page whose whole text falls short of minWords is
// dropped as noise.
func chunkPages(pages []docsource.Page, chunkWords, overlap, minWords int) []pageChunk {
	if chunkWords <= 0 {
		chunkWords = 400
	}
	if overlap < 0 || overlap >= chunkWords {
		overlap = chunkWords / 5
	}
	step := chunkWords - overlap

	var chunks []pageChunk
	for _, page := range pages {
		text := page.Text
		if len(page.TableRows) > 0 {
			text = strings.TrimSpace(text + "\n" + strings.Join(page.TableRows, "\n"))
		}
		words := strings.Fields(text)
		if len(words) == 0 {
			continue
		}

		pageStart := len(chunks)
		for start := 0; start < len(words); start += step {
			end := start + chunkWords
			if end > len(words) {
				end = len(words)
			}

			if end-start < minWords {
				if len(chunks) > pageStart {
					// Fold the short tail into the previous chunk of this page
					// by extending that window through the end of the page.
					chunks[len(chunks)-1].Text = strings.Join(words[start-step:], " ")
				}
				break
			}

			chunks = append(chunks, pageChunk{
				Text: strings.Join(words[start:end], " "),
				Page: page.Number,
			})
			if end == len(words) {
				break
			}
		}
	}
	return chunks
}
