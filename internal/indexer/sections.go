package indexer

import (
	"regexp"
	"strings"

	"github.com/fieldserve/fieldassist/internal/docsource"
)

// sectionPatterns label the manual sections we recognize. Order matters:
// the first matching pattern names the section, so the specific entries
// come before the generic chapter and section headings.
var sectionPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"fault codes", regexp.MustCompile(`(?i)^\s*(?:chapter\s+\d+\s*[:.]?\s*)?(?:fault|error|alarm)\s+codes?\b`)},
	{"troubleshooting", regexp.MustCompile(`(?i)^\s*(?:chapter\s+\d+\s*[:.]?\s*)?troubleshooting\b`)},
	{"specifications", regexp.MustCompile(`(?i)^\s*(?:chapter\s+\d+\s*[:.]?\s*)?(?:technical\s+)?specifications?\b`)},
	{"wiring", regexp.MustCompile(`(?i)^\s*(?:chapter\s+\d+\s*[:.]?\s*)?wiring\b`)},
	{"installation", regexp.MustCompile(`(?i)^\s*(?:chapter\s+\d+\s*[:.]?\s*)?installation\b`)},
	{"maintenance", regexp.MustCompile(`(?i)^\s*(?:chapter\s+\d+\s*[:.]?\s*)?(?:preventive\s+)?maintenance\b`)},
	{"parameters", regexp.MustCompile(`(?i)^\s*(?:chapter\s+\d+\s*[:.]?\s*)?parameters?\s*(?:list|reference)?\s*$`)},
	{"safety", regexp.MustCompile(`(?i)^\s*(?:chapter\s+\d+\s*[:.]?\s*)?(?:safety|precautions)\b`)},
	{"chapter", regexp.MustCompile(`(?i)^\s*chapter\s+\d+\b`)},
	{"section", regexp.MustCompile(`(?i)^\s*section\s+\d+(?:\.\d+)*\b`)},
}

// detectSections returns the ordered, de-duplicated section names found in
// the document's page text.
func detectSections(doc *docsource.Document) []string {
	var sections []string
	seen := make(map[string]bool)
	for _, page := range doc.Pages {
		for _, line := range strings.Split(page.Text, "\n") {
			name, ok := matchSection(line)
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			sections = append(sections, name)
		}
	}
	return sections
}

func matchSection(line string) (string, bool) {
	for _, p := range sectionPatterns {
		if p.re.MatchString(line) {
			return p.name, true
		}
	}
	return "", false
}
