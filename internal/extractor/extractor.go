package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldserve/fieldassist/internal/config"
	"github.com/fieldserve/fieldassist/internal/llm"
	"github.com/fieldserve/fieldassist/internal/taxonomy"
)

// Extractor produces an EquipmentContext from a raw message by combining
// the deterministic taxonomy pass with a language-model enrichment pass.
type Extractor struct {
	matcher  *taxonomy.Matcher
	provider llm.Provider
	model    string
	cfg      config.ExtractionConfig
}

// New creates an Extractor. provider may be nil, in which case extraction
// is purely rule-based.
func New(matcher *taxonomy.Matcher, provider llm.Provider, model string, cfg config.ExtractionConfig) *Extractor {
	return &Extractor{
		matcher:  matcher,
		provider: provider,
		model:    model,
		cfg:      cfg,
	}
}

// Extract never fails: if the enrichment call errors, times out, or returns
// unparseable output, the rule-based baseline is returned unmodified.
func (e *Extractor) Extract(ctx context.Context, message string) EquipmentContext {
	base := e.baseline(message)

	enriched, ok := e.enrich(ctx, message)
	if !ok {
		deriveSearchTerms(&base)
		return base
	}

	out := merge(base, enriched)
	out.Confidence = e.cfg.EnrichedScore
	deriveSearchTerms(&out)
	return out
}

// baseline builds the rule-based context. Confidence is the family-match
// score when a family was identified, else scaled by how many other fields
// the rules managed to set.
func (e *Extractor) baseline(message string) EquipmentContext {
	m := e.matcher.Match(message)

	ec := EquipmentContext{
		RawMessage:      message,
		ComponentFamily: m.ComponentFamily,
		Manufacturer:    m.Manufacturer,
		ModelNumber:     m.ModelNumber,
		Category:        m.Category,
		IssueType:       m.IssueType,
		FaultCode:       m.FaultCode,
		Urgency:         m.Urgency,
	}
	if m.ComponentFamily != "" {
		ec.ComponentName = m.ComponentFamily
		if m.ModelNumber != "" {
			ec.ComponentName = m.ModelNumber
		}
	}

	if m.ComponentFamily != "" {
		ec.Confidence = e.cfg.FamilyMatchScore
		return ec
	}

	fields := 0
	if m.Manufacturer != "" {
		fields++
	}
	if m.ModelNumber != "" {
		fields++
	}
	if m.FaultCode != "" {
		fields++
	}
	if m.IssueType != taxonomy.IssueUnknown {
		fields++
	}
	switch {
	case fields == 0:
		ec.Confidence = e.cfg.NoMatchScore
	case fields == 1:
		ec.Confidence = (e.cfg.NoMatchScore + e.cfg.PartialMatchScore) / 2
	default:
		ec.Confidence = e.cfg.PartialMatchScore
	}
	return ec
}

// enrich asks the language model to fill the closed schema. The bool result
// reports whether usable structured output came back.
func (e *Extractor) enrich(ctx context.Context, message string) (enrichment, bool) {
	if e.provider == nil {
		return enrichment{}, false
	}

	timeout := time.Duration(e.cfg.ModelTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractionSystemPrompt},
			{Role: llm.RoleUser, Content: message},
		},
		MaxTokens:   1024,
		Temperature: 0.1,
		JSONMode:    true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("extraction enrichment failed, using rule-based context")
		return enrichment{}, false
	}

	enr, err := parseEnrichment(resp.Content)
	if err != nil {
		log.Warn().Err(err).Msg("extraction enrichment unparseable, using rule-based context")
		return enrichment{}, false
	}
	return enr, true
}

// parseEnrichment tolerates replies wrapped in markdown fences or prose by
// slicing out the outermost JSON object.
func parseEnrichment(content string) (enrichment, error) {
	jsonStr := content
	if idx := strings.Index(content, "{"); idx >= 0 {
		jsonStr = content[idx:]
	}
	if idx := strings.LastIndex(jsonStr, "}"); idx >= 0 {
		jsonStr = jsonStr[:idx+1]
	}

	var enr enrichment
	if err := json.Unmarshal([]byte(jsonStr), &enr); err != nil {
		return enrichment{}, fmt.Errorf("parsing enrichment reply: %w", err)
	}
	return enr, nil
}

const extractionSystemPrompt = `You extract structured equipment troubleshooting context from a technician's message.

Respond ONLY with valid JSON matching this schema:
{
  "component_name": "specific component the technician names, e.g. 'PowerFlex 525'",
  "component_family": "equipment family, e.g. 'Variable Frequency Drive'",
  "manufacturer": "brand name if identifiable",
  "model_number": "model or catalog number",
  "category": "one of: electrical|mechanical|hydraulic|pneumatic|safety",
  "issue_type": "one of: fault_code|wont_start|intermittent|noise_vibration|overheating|communication|calibration|physical_damage|performance|leak|unknown",
  "fault_code": "alphanumeric fault/error code if present, e.g. 'F004'",
  "symptoms": ["short symptom phrases in the technician's words"],
  "urgency": "one of: critical|high|medium|low"
}

Rules:
- Leave a field as an empty string (or empty list) when the message gives no evidence for it. Never guess model numbers or brands.
- Keep symptoms short and concrete.
- urgency is critical only when production is stopped or safety is at risk.`
