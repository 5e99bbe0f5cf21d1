package extractor

import (
	"strings"

	"github.com/fieldserve/fieldassist/internal/taxonomy"
)

// EquipmentContext is the structured intent extracted from one inbound
// message. It is carried across a clarification round-trip.
type EquipmentContext struct {
	RawMessage      string             `json:"raw_message"`
	ComponentName   string             `json:"component_name,omitempty"`
	ComponentFamily string             `json:"component_family,omitempty"`
	Manufacturer    string             `json:"manufacturer,omitempty"`
	ModelNumber     string             `json:"model_number,omitempty"`
	Category        string             `json:"category,omitempty"`
	IssueType       taxonomy.IssueType `json:"issue_type"`
	FaultCode       string             `json:"fault_code,omitempty"`
	Symptoms        []string           `json:"symptoms,omitempty"`
	Urgency         taxonomy.Urgency   `json:"urgency"`

	// Derived fields, never user-supplied.
	SearchKeywords []string `json:"search_keywords,omitempty"`
	SearchQueries  []string `json:"search_queries,omitempty"`

	Confidence          float64 `json:"confidence"`
	NeedsClarification  bool    `json:"needs_clarification"`
	ClarificationPrompt string  `json:"clarification_prompt,omitempty"`
}

// enrichment is the closed schema the language model fills. Field names
// mirror EquipmentContext so the merge precedence stays auditable.
type enrichment struct {
	ComponentName   string   `json:"component_name"`
	ComponentFamily string   `json:"component_family"`
	Manufacturer    string   `json:"manufacturer"`
	ModelNumber     string   `json:"model_number"`
	Category        string   `json:"category"`
	IssueType       string   `json:"issue_type"`
	FaultCode       string   `json:"fault_code"`
	Symptoms        []string `json:"symptoms"`
	Urgency         string   `json:"urgency"`
}

// merge overlays model output onto the rule-based baseline. A filled model
// field wins; an empty one keeps the baseline value. The merge never touches
// derived fields.
func merge(base EquipmentContext, enr enrichment) EquipmentContext {
	out := base

	if s := strings.TrimSpace(enr.ComponentName); s != "" {
		out.ComponentName = s
	}
	if s := strings.TrimSpace(enr.ComponentFamily); s != "" {
		out.ComponentFamily = s
	}
	if s := strings.TrimSpace(enr.Manufacturer); s != "" {
		out.Manufacturer = s
	}
	if s := strings.TrimSpace(enr.ModelNumber); s != "" {
		out.ModelNumber = s
	}
	if s := strings.TrimSpace(enr.Category); s != "" {
		out.Category = s
	}
	if it := taxonomy.IssueType(strings.TrimSpace(enr.IssueType)); validIssueType(it) {
		out.IssueType = it
	}
	if s := strings.TrimSpace(enr.FaultCode); s != "" {
		out.FaultCode = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	}
	if len(enr.Symptoms) > 0 {
		out.Symptoms = enr.Symptoms
	}
	if u := taxonomy.Urgency(strings.TrimSpace(enr.Urgency)); validUrgency(u) {
		out.Urgency = u
	}

	return out
}

// validIssueType accepts only known non-unknown values; a model replying
// "unknown" has not filled the field.
func validIssueType(it taxonomy.IssueType) bool {
	switch it {
	case taxonomy.IssueFaultCode, taxonomy.IssueWontStart, taxonomy.IssueIntermittent,
		taxonomy.IssueNoiseVibration, taxonomy.IssueOverheating, taxonomy.IssueCommunication,
		taxonomy.IssueCalibration, taxonomy.IssuePhysicalDamage, taxonomy.IssuePerformance,
		taxonomy.IssueLeak:
		return true
	}
	return false
}

func validUrgency(u taxonomy.Urgency) bool {
	switch u {
	case taxonomy.UrgencyCritical, taxonomy.UrgencyHigh, taxonomy.UrgencyMedium, taxonomy.UrgencyLow:
		return true
	}
	return false
}

// RefreshSearchTerms recomputes the derived search fields. Callers that
// modify context fields after extraction (clarification resolution) must
// call it before retrieval.
func (ec *EquipmentContext) RefreshSearchTerms() {
	deriveSearchTerms(ec)
}

// deriveSearchTerms fills SearchKeywords and SearchQueries from the final
// context fields.
func deriveSearchTerms(ec *EquipmentContext) {
	var keywords []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, existing := range keywords {
			if strings.EqualFold(existing, s) {
				return
			}
		}
		keywords = append(keywords, s)
	}

	add(ec.ComponentName)
	add(ec.ComponentFamily)
	add(ec.Manufacturer)
	add(ec.ModelNumber)
	if ec.FaultCode != "" {
		add("fault " + ec.FaultCode)
		add(ec.FaultCode)
	}
	for i, s := range ec.Symptoms {
		if i >= 2 {
			break
		}
		add(s)
	}
	ec.SearchKeywords = keywords

	// Queries in decreasing specificity; a query missing a required field
	// is skipped rather than padded.
	var queries []string
	if ec.FaultCode != "" && ec.ComponentName != "" {
		queries = append(queries, ec.FaultCode+" "+ec.ComponentName)
	}
	if ec.FaultCode != "" && ec.Manufacturer != "" && ec.ComponentFamily != "" {
		queries = append(queries, ec.FaultCode+" "+ec.Manufacturer+" "+ec.ComponentFamily)
	}
	if ec.ComponentName != "" && ec.IssueType != taxonomy.IssueUnknown {
		queries = append(queries, ec.ComponentName+" "+issueWords(ec.IssueType))
	}
	if ec.Manufacturer != "" && ec.ComponentFamily != "" {
		queries = append(queries, ec.Manufacturer+" "+ec.ComponentFamily+" troubleshooting")
	}
	if len(queries) > 4 {
		queries = queries[:4]
	}
	ec.SearchQueries = queries
}

func issueWords(it taxonomy.IssueType) string {
	switch it {
	case taxonomy.IssueWontStart:
		return "will not start"
	case taxonomy.IssueNoiseVibration:
		return "noise vibration"
	case taxonomy.IssueFaultCode:
		return "fault code"
	default:
		return strings.ReplaceAll(string(it), "_", " ")
	}
}
