package taxonomy

import (
	"regexp"
	"strings"
)

// Matcher performs the deterministic rule-based pass over a message. All
// tables are compiled once at construction and treated as immutable, so one
// Matcher may serve concurrent requests.
type Matcher struct {
	faultCodes   []*regexp.Regexp
	modelNumbers []*regexp.Regexp
}

// NewMatcher builds a Matcher with the static taxonomy tables.
func NewMatcher() *Matcher {
	m := &Matcher{}
	for _, p := range faultCodePatterns {
		m.faultCodes = append(m.faultCodes, regexp.MustCompile(p))
	}
	for _, p := range modelNumberPatterns {
		m.modelNumbers = append(m.modelNumbers, regexp.MustCompile(p))
	}
	return m
}

// Match runs the full rule-based pass. It is idempotent: the same text
// always yields the same Match.
func (m *Matcher) Match(text string) Match {
	lower := strings.ToLower(text)

	result := Match{
		IssueType: m.matchIssueType(lower),
		Urgency:   m.matchUrgency(lower),
	}

	family, category, manufacturer := matchFamily(lower)
	result.ComponentFamily = family
	result.Category = category
	result.Manufacturer = manufacturer

	result.FaultCode = m.extractFirst(m.faultCodes, text)
	result.ModelNumber = m.extractFirst(m.modelNumbers, text)

	return result
}

// matchFamily does the two-pass family/manufacturer lookup: aliases first,
// then bare model patterns (a model number alone can identify both the
// family and the brand).
func matchFamily(lower string) (family, category, manufacturer string) {
	for _, fe := range familyTable {
		for _, alias := range fe.aliases {
			if !strings.Contains(lower, alias) {
				continue
			}
			family, category = fe.family, fe.category
			manufacturer = matchManufacturer(lower, fe.manufacturers)
			return family, category, manufacturer
		}
	}

	// Second pass: no alias hit, try manufacturer model patterns alone.
	for _, fe := range familyTable {
		if mfr := matchManufacturer(lower, fe.manufacturers); mfr != "" {
			return fe.family, fe.category, mfr
		}
	}

	return "", "", ""
}

func matchManufacturer(lower string, entries []manufacturerEntry) string {
	for _, me := range entries {
		for _, pattern := range me.modelPatterns {
			if strings.Contains(lower, pattern) {
				return me.brand
			}
		}
	}
	return ""
}

func (m *Matcher) matchIssueType(lower string) IssueType {
	for _, entry := range issueTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.value
			}
		}
	}
	return IssueUnknown
}

func (m *Matcher) matchUrgency(lower string) Urgency {
	for _, entry := range urgencyTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.value
			}
		}
	}
	return UrgencyMedium
}

// extractFirst returns the first capture of the first matching pattern,
// uppercased with whitespace stripped.
func (m *Matcher) extractFirst(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if sub := re.FindStringSubmatch(text); len(sub) > 1 {
			return normalizeCode(sub[1])
		}
	}
	return ""
}

func normalizeCode(s string) string {
	s = strings.ToUpper(s)
	return strings.Join(strings.Fields(s), "")
}
