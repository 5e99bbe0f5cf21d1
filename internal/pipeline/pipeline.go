// Package pipeline orchestrates one troubleshooting turn: extract context,
// gate on clarity, retrieve documentation, synthesize an answer.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fieldserve/fieldassist/internal/assets"
	"github.com/fieldserve/fieldassist/internal/clarify"
	"github.com/fieldserve/fieldassist/internal/config"
	"github.com/fieldserve/fieldassist/internal/extractor"
	"github.com/fieldserve/fieldassist/internal/gaps"
	"github.com/fieldserve/fieldassist/internal/retriever"
	"github.com/fieldserve/fieldassist/internal/synthesizer"
	"github.com/fieldserve/fieldassist/internal/taxonomy"
	"github.com/fieldserve/fieldassist/internal/vectordb"
)

// Request is one inbound message.
type Request struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	AssetID        string `json:"asset_id,omitempty"`
}

func (r Request) scope() vectordb.Scope {
	if r.UserID == "" || r.AssetID == "" {
		return vectordb.Scope{}
	}
	return vectordb.Scope{UserID: r.UserID, AssetID: r.AssetID}
}

// Reply is either a clarifying question or a synthesized answer, never both.
type Reply struct {
	ConversationID      string                           `json:"conversation_id"`
	NeedsClarification  bool                             `json:"needs_clarification"`
	ClarificationKind   clarify.Kind                     `json:"clarification_kind,omitempty"`
	ClarificationPrompt string                           `json:"clarification_prompt,omitempty"`
	Options             []string                         `json:"options,omitempty"`
	Response            *synthesizer.SynthesizedResponse `json:"response,omitempty"`
	Context             extractor.EquipmentContext       `json:"context"`
}

// CandidateSource lists a user's registered equipment, used to resolve
// ambiguous references like "the pump".
type CandidateSource interface {
	ListByUser(ctx context.Context, userID, family string) ([]assets.Asset, error)
}

// GapRecorder records questions that found no documentation.
type GapRecorder interface {
	Record(ctx context.Context, g *gaps.Gap) error
}

// Assistant wires the full turn pipeline. CandidateSource and GapRecorder
// may be nil; ambiguity resolution and gap tracking are then disabled.
type Assistant struct {
	extractor  *extractor.Extractor
	gate       *clarify.Gate
	states     clarify.Store
	retriever  *retriever.Retriever
	synth      *synthesizer.Synthesizer
	candidates CandidateSource
	gapLog     GapRecorder
	cfg        config.ExtractionConfig
}

func New(ex *extractor.Extractor, gate *clarify.Gate, states clarify.Store, ret *retriever.Retriever, synth *synthesizer.Synthesizer, candidates CandidateSource, gapLog GapRecorder, cfg config.ExtractionConfig) *Assistant {
	return &Assistant{
		extractor:  ex,
		gate:       gate,
		states:     states,
		retriever:  ret,
		synth:      synth,
		candidates: candidates,
		gapLog:     gapLog,
		cfg:        cfg,
	}
}

// Respond handles one turn. A pending clarification for the conversation is
// consumed first, whether or not the reply resolves it; an unresolved turn
// re-evaluates from scratch and may raise a different clarification rather
// than repeating the old one.
func (a *Assistant) Respond(ctx context.Context, req Request) Reply {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	ec, resolved := a.resolvePending(ctx, conversationID, req.Message)
	if !resolved {
		ec = a.extractor.Extract(ctx, req.Message)
	}

	if st := a.gate.Evaluate(ec, a.listCandidates(ctx, req, ec)); st != nil {
		ec.NeedsClarification = true
		ec.ClarificationPrompt = st.Prompt
		if err := a.states.Put(ctx, conversationID, *st); err != nil {
			log.Warn().Err(err).Str("conversation", conversationID).Msg("storing clarification state failed")
		}
		return Reply{
			ConversationID:      conversationID,
			NeedsClarification:  true,
			ClarificationKind:   st.Kind,
			ClarificationPrompt: st.Prompt,
			Options:             st.Options,
			Context:             ec,
		}
	}

	chunks := a.retriever.Retrieve(ctx, ec, req.scope())

	question := ec.RawMessage
	if question == "" {
		question = req.Message
	}
	resp := a.synth.Synthesize(ctx, ec, chunks, question)

	if !resp.HasKnowledgeContent {
		a.recordGap(ctx, req, conversationID, ec)
	}

	return Reply{
		ConversationID: conversationID,
		Response:       &resp,
		Context:        ec,
	}
}

// resolvePending consumes any stored clarification state. It returns the
// context to continue with and whether the turn was resolved from an
// equipment selection; in every other case the caller re-extracts.
func (a *Assistant) resolvePending(ctx context.Context, conversationID, message string) (extractor.EquipmentContext, bool) {
	st, err := a.states.Get(ctx, conversationID)
	if err != nil {
		log.Warn().Err(err).Str("conversation", conversationID).Msg("loading clarification state failed")
		return extractor.EquipmentContext{}, false
	}
	if st == nil {
		return extractor.EquipmentContext{}, false
	}

	if err := a.states.Clear(ctx, conversationID); err != nil {
		log.Warn().Err(err).Str("conversation", conversationID).Msg("clearing clarification state failed")
	}

	if st.Kind == clarify.KindEquipmentAmbiguous {
		if idx, ok := clarify.MatchOption(st.Options, message); ok {
			return a.applySelection(st.Preserved, st.Candidates[idx]), true
		}
	}

	// The reply did not select an option, or the question asked for more
	// detail: extract the reply and overlay it on the preserved context.
	fresh := a.extractor.Extract(ctx, message)
	return overlay(st.Preserved, fresh), false
}

// applySelection fills the preserved context from the chosen asset and lifts
// confidence: an explicit selection removes the equipment uncertainty.
func (a *Assistant) applySelection(ec extractor.EquipmentContext, c clarify.Candidate) extractor.EquipmentContext {
	ec.ComponentName = c.Name
	if c.Family != "" {
		ec.ComponentFamily = c.Family
	}
	if c.Manufacturer != "" {
		ec.Manufacturer = c.Manufacturer
	}
	if c.ModelNumber != "" {
		ec.ModelNumber = c.ModelNumber
	}
	if ec.Confidence < a.cfg.EnrichedScore {
		ec.Confidence = a.cfg.EnrichedScore
	}
	ec.RefreshSearchTerms()
	return ec
}

// overlay merges a follow-up extraction onto preserved context: filled
// follow-up fields win, preserved fields fill the gaps.
func overlay(preserved, fresh extractor.EquipmentContext) extractor.EquipmentContext {
	out := fresh

	if out.ComponentName == "" {
		out.ComponentName = preserved.ComponentName
	}
	if out.ComponentFamily == "" {
		out.ComponentFamily = preserved.ComponentFamily
	}
	if out.Manufacturer == "" {
		out.Manufacturer = preserved.Manufacturer
	}
	if out.ModelNumber == "" {
		out.ModelNumber = preserved.ModelNumber
	}
	if out.Category == "" {
		out.Category = preserved.Category
	}
	if out.IssueType == "" || out.IssueType == taxonomy.IssueUnknown {
		out.IssueType = preserved.IssueType
	}
	if out.FaultCode == "" {
		out.FaultCode = preserved.FaultCode
	}
	if len(out.Symptoms) == 0 {
		out.Symptoms = preserved.Symptoms
	}
	if preserved.RawMessage != "" {
		out.RawMessage = preserved.RawMessage + "\n" + out.RawMessage
	}
	if preserved.Confidence > out.Confidence {
		out.Confidence = preserved.Confidence
	}
	out.RefreshSearchTerms()
	return out
}

// listCandidates asks the asset registry for possible referents when the
// message names a family but no concrete model.
func (a *Assistant) listCandidates(ctx context.Context, req Request, ec extractor.EquipmentContext) []clarify.Candidate {
	if a.candidates == nil || req.UserID == "" || ec.ComponentFamily == "" || ec.ModelNumber != "" {
		return nil
	}

	known, err := a.candidates.ListByUser(ctx, req.UserID, ec.ComponentFamily)
	if err != nil {
		log.Warn().Err(err).Str("user", req.UserID).Msg("listing assets failed")
		return nil
	}

	out := make([]clarify.Candidate, 0, len(known))
	for _, asset := range known {
		out = append(out, clarify.Candidate{
			Name:         asset.Name,
			Family:       asset.Family,
			Manufacturer: asset.Manufacturer,
			ModelNumber:  asset.ModelNumber,
		})
	}
	return out
}

func (a *Assistant) recordGap(ctx context.Context, req Request, conversationID string, ec extractor.EquipmentContext) {
	if a.gapLog == nil {
		return
	}

	gap := &gaps.Gap{
		Kind:            gaps.KindNoDocumentation,
		UserID:          req.UserID,
		ConversationID:  conversationID,
		ComponentFamily: ec.ComponentFamily,
		Manufacturer:    ec.Manufacturer,
		FaultCode:       ec.FaultCode,
		Question:        req.Message,
	}
	if err := a.gapLog.Record(ctx, gap); err != nil {
		log.Warn().Err(err).Msg("recording knowledge gap failed")
	}
}
