// Package synthesizer turns retrieved documentation chunks into a final
// answer with citations and rule-derived safety warnings.
package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fieldserve/fieldassist/internal/extractor"
	"github.com/fieldserve/fieldassist/internal/llm"
	"github.com/fieldserve/fieldassist/internal/retriever"
)

// Source is one citation attached to an answer.
type Source struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// SynthesizedResponse is the final answer for one turn.
type SynthesizedResponse struct {
	AnswerText          string   `json:"answer_text"`
	Sources             []Source `json:"sources,omitempty"`
	SafetyWarnings      []string `json:"safety_warnings"`
	HasKnowledgeContent bool     `json:"has_knowledge_content"`
	Confidence          float64  `json:"confidence"`
}

const synthesisSystemPrompt = `You are a field-service troubleshooting assistant for industrial equipment.
Rules you must always follow:
- Always include safety warnings for electrical, hydraulic, or pneumatic work.
- Prefer de-energization and lockout guidance before any hands-on step.
- Cite page numbers whenever the excerpts provide them.
- State something as fact only when it is traceable to a provided excerpt; mark everything else as general knowledge.
Answer concisely in steps a technician can follow at the machine.`

// Synthesizer generates answers from context and retrieved chunks.
type Synthesizer struct {
	provider llm.Provider
	model    string
	// promptChunks caps how many chunks enter the prompt and the citations.
	promptChunks int
}

func New(provider llm.Provider, model string, promptChunks int) *Synthesizer {
	if promptChunks <= 0 {
		promptChunks = 3
	}
	return &Synthesizer{provider: provider, model: model, promptChunks: promptChunks}
}

// Synthesize builds the final response. It never returns an error: with no
// chunks it answers from a template, and a failed model call degrades to a
// deterministic concatenation of the top excerpts.
func (s *Synthesizer) Synthesize(ctx context.Context, ec extractor.EquipmentContext, chunks []retriever.KnowledgeChunk, originalMessage string) SynthesizedResponse {
	warnings := safetyWarnings(ec)

	if len(chunks) == 0 {
		return SynthesizedResponse{
			AnswerText:     noDocumentationAnswer(ec),
			SafetyWarnings: warnings,
			Confidence:     0.3,
		}
	}

	used := chunks
	if len(used) > s.promptChunks {
		used = used[:s.promptChunks]
	}

	sources := make([]Source, 0, len(used))
	for _, c := range used {
		sources = append(sources, Source{Title: c.Title, Page: c.Page})
	}

	answer, ok := s.generate(ctx, ec, used, originalMessage)
	confidence := ec.Confidence
	if !ok {
		answer = fallbackAnswer(ec, used)
		confidence = confidence * 0.8
	}

	return SynthesizedResponse{
		AnswerText:          answer,
		Sources:             sources,
		SafetyWarnings:      warnings,
		HasKnowledgeContent: true,
		Confidence:          confidence,
	}
}

func (s *Synthesizer) generate(ctx context.Context, ec extractor.EquipmentContext, chunks []retriever.KnowledgeChunk, originalMessage string) (string, bool) {
	if s.provider == nil {
		return "", false
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: synthesisSystemPrompt},
			{Role: llm.RoleUser, Content: buildPrompt(ec, chunks, originalMessage)},
		},
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		log.Warn().Err(err).Msg("synthesis call failed, using excerpt fallback")
		return "", false
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return "", false
	}
	return answer, true
}

func buildPrompt(ec extractor.EquipmentContext, chunks []retriever.KnowledgeChunk, originalMessage string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\n", originalMessage)

	b.WriteString("Known equipment context:\n")
	writeField(&b, "component", ec.ComponentName)
	writeField(&b, "family", ec.ComponentFamily)
	writeField(&b, "manufacturer", ec.Manufacturer)
	writeField(&b, "model", ec.ModelNumber)
	writeField(&b, "fault code", ec.FaultCode)
	writeField(&b, "issue", string(ec.IssueType))
	if len(ec.Symptoms) > 0 {
		writeField(&b, "symptoms", strings.Join(ec.Symptoms, "; "))
	}

	b.WriteString("\nDocumentation excerpts:\n")
	for _, c := range chunks {
		fmt.Fprintf(&b, "[%s] (p.%d): %s\n\n", c.Title, c.Page, c.Text)
	}

	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" || value == "unknown" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", name, value)
}

// noDocumentationAnswer acknowledges what we know about the equipment
// without citing anything.
func noDocumentationAnswer(ec extractor.EquipmentContext) string {
	var b strings.Builder

	subject := "this equipment"
	switch {
	case ec.ComponentName != "":
		subject = "the " + ec.ComponentName
	case ec.ComponentFamily != "":
		subject = "the " + strings.ToLower(ec.ComponentFamily)
	}

	fmt.Fprintf(&b, "I don't have documentation indexed for %s", subject)
	if ec.Manufacturer != "" {
		fmt.Fprintf(&b, " from %s", ec.Manufacturer)
	}
	b.WriteString(", so I can't give model-specific steps.\n\n")

	b.WriteString("General approach: confirm supply power and control signals, check for visible damage or loose connections, and note any fault indicators before escalating. ")
	b.WriteString("If you can upload the manual or nameplate details, I can index them and give specific guidance.")
	return b.String()
}

// fallbackAnswer concatenates the top excerpts when generation fails.
func fallbackAnswer(ec extractor.EquipmentContext, chunks []retriever.KnowledgeChunk) string {
	var b strings.Builder

	b.WriteString("Here is the most relevant documentation I found")
	if ec.FaultCode != "" {
		fmt.Fprintf(&b, " for fault %s", ec.FaultCode)
	}
	b.WriteString(":\n\n")

	for _, c := range chunks {
		fmt.Fprintf(&b, "From %s (p.%d):\n%s\n\n", c.Title, c.Page, snippet(c.Text, 400))
	}

	b.WriteString(warnLOTO)
	return b.String()
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
