package pipeline

import (
	"context"
	"testing"

	"github.com/fieldserve/fieldassist/internal/assets"
	"github.com/fieldserve/fieldassist/internal/clarify"
	"github.com/fieldserve/fieldassist/internal/config"
	"github.com/fieldserve/fieldassist/internal/extractor"
	"github.com/fieldserve/fieldassist/internal/gaps"
	"github.com/fieldserve/fieldassist/internal/llm"
	"github.com/fieldserve/fieldassist/internal/retriever"
	"github.com/fieldserve/fieldassist/internal/synthesizer"
	"github.com/fieldserve/fieldassist/internal/taxonomy"
	"github.com/fieldserve/fieldassist/internal/vectordb"
)

type fakeProvider struct {
	reply string
}

func (f *fakeProvider) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: f.reply}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

type fakeVectorStore struct {
	results []vectordb.SearchResult
}

func (f *fakeVectorStore) AddShared(context.Context, []vectordb.Document) error { return nil }
func (f *fakeVectorStore) AddScoped(context.Context, vectordb.Scope, []vectordb.Document) error {
	return nil
}

func (f *fakeVectorStore) SearchShared(context.Context, string, int, *vectordb.SearchFilter) ([]vectordb.SearchResult, error) {
	return f.results, nil
}

func (f *fakeVectorStore) SearchScoped(context.Context, vectordb.Scope, string, int) ([]vectordb.SearchResult, error) {
	return nil, nil
}

func (f *fakeVectorStore) DeleteSharedDoc(context.Context, string) error { return nil }
func (f *fakeVectorStore) DeleteScopedDoc(context.Context, vectordb.Scope, string) error {
	return nil
}
func (f *fakeVectorStore) Persist(context.Context, string) error         { return nil }
func (f *fakeVectorStore) Load(context.Context, string) error            { return nil }
func (f *fakeVectorStore) SharedCount() int                              { return len(f.results) }

type fakeCandidates struct {
	assets []assets.Asset
}

func (f *fakeCandidates) ListByUser(_ context.Context, _, family string) ([]assets.Asset, error) {
	var out []assets.Asset
	for _, a := range f.assets {
		if family == "" || a.Family == family {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeGapLog struct {
	recorded []gaps.Gap
}

func (f *fakeGapLog) Record(_ context.Context, g *gaps.Gap) error {
	f.recorded = append(f.recorded, *g)
	return nil
}

func extractionCfg() config.ExtractionConfig {
	return config.ExtractionConfig{
		ClarifyThreshold:  0.7,
		FamilyMatchScore:  0.5,
		PartialMatchScore: 0.4,
		NoMatchScore:      0.2,
		EnrichedScore:     0.85,
	}
}

func newAssistant(provider llm.Provider, store vectordb.Store, candidates CandidateSource, gapLog GapRecorder) *Assistant {
	cfg := extractionCfg()
	ex := extractor.New(taxonomy.NewMatcher(), provider, "gpt-4o-mini", cfg)
	return New(
		ex,
		clarify.NewGate(cfg.ClarifyThreshold),
		clarify.NewMemoryStore(),
		retriever.New(store, config.RetrievalConfig{MaxChunks: 5, PerQueryLimit: 3}),
		synthesizer.New(provider, "gpt-4o-mini", 3),
		candidates,
		gapLog,
		cfg,
	)
}

func twoPumps() *fakeCandidates {
	return &fakeCandidates{assets: []assets.Asset{
		{UserID: "tech-7", Name: "Boiler feed pump P-204", Family: "Centrifugal Pump", Manufacturer: "Goulds"},
		{UserID: "tech-7", Name: "Cooling tower pump P-101", Family: "Centrifugal Pump", Manufacturer: "Grundfos", ModelNumber: "CR32"},
	}}
}

func TestRespond_AmbiguousPumpRoundTrip(t *testing.T) {
	ctx := context.Background()
	gapLog := &fakeGapLog{}
	a := newAssistant(nil, &fakeVectorStore{}, twoPumps(), gapLog)

	first := a.Respond(ctx, Request{Message: "the pump is broken", ConversationID: "conv-1", UserID: "tech-7"})
	if !first.NeedsClarification {
		t.Fatalf("expected clarification, got %+v", first)
	}
	if first.ClarificationKind != clarify.KindEquipmentAmbiguous {
		t.Errorf("kind: got %q", first.ClarificationKind)
	}
	if len(first.Options) != 2 {
		t.Fatalf("options: got %d, want 2", len(first.Options))
	}
	if first.Context.ClarificationPrompt == "" {
		t.Error("context must carry the prompt when clarification is needed")
	}

	second := a.Respond(ctx, Request{Message: "2", ConversationID: "conv-1", UserID: "tech-7"})
	if second.NeedsClarification {
		t.Fatalf("selection should resolve the turn, got %+v", second)
	}
	if second.Context.ComponentName != "Cooling tower pump P-101" {
		t.Errorf("component: got %q", second.Context.ComponentName)
	}
	if second.Context.Manufacturer != "Grundfos" || second.Context.ModelNumber != "CR32" {
		t.Errorf("asset fields not applied: %+v", second.Context)
	}
	if second.Context.IssueType != taxonomy.IssuePhysicalDamage {
		t.Errorf("issue preserved across round trip: got %q", second.Context.IssueType)
	}
	if second.Response == nil {
		t.Fatal("resolved turn must carry a response")
	}

	// Empty corpus: the no-documentation answer records a gap.
	if second.Response.HasKnowledgeContent {
		t.Error("empty corpus must not claim knowledge content")
	}
	if len(gapLog.recorded) == 0 {
		t.Error("no-documentation answers must record a knowledge gap")
	}
}

func TestRespond_UnresolvedReplyRaisesNewClarification(t *testing.T) {
	ctx := context.Background()
	a := newAssistant(nil, &fakeVectorStore{}, twoPumps(), nil)

	first := a.Respond(ctx, Request{Message: "the pump is broken", ConversationID: "conv-2", UserID: "tech-7"})
	if first.ClarificationKind != clarify.KindEquipmentAmbiguous {
		t.Fatalf("kind: got %q", first.ClarificationKind)
	}

	// The reply selects nothing; state must be consumed and a fresh
	// clarification raised instead of looping on the stale one.
	second := a.Respond(ctx, Request{Message: "not sure which", ConversationID: "conv-2", UserID: "tech-7"})
	if !second.NeedsClarification {
		t.Fatalf("expected a follow-up clarification, got %+v", second)
	}
	if second.Context.ComponentFamily != "Centrifugal Pump" {
		t.Errorf("preserved context lost: %+v", second.Context)
	}
}

func TestRespond_AnswersWithDocumentation(t *testing.T) {
	ctx := context.Background()

	enrichment := `{"component_name":"PowerFlex 525","component_family":"Variable Frequency Drive","manufacturer":"Allen-Bradley","model_number":"PowerFlex 525","category":"electrical","issue_type":"fault_code","fault_code":"F004","symptoms":["fault F004"],"urgency":"high"}`
	store := &fakeVectorStore{results: []vectordb.SearchResult{{
		Document: vectordb.Document{
			ID:      "chunk-1",
			Content: "F004 is undervoltage. Check incoming supply at L1, L2, L3.",
			Metadata: vectordb.DocumentMetadata{
				DocID:  "doc-1",
				Title:  "PowerFlex 525 User Manual",
				Page:   112,
				Source: vectordb.SourceSharedManual,
			},
		},
		Similarity: 0.91,
	}}}

	a := newAssistant(&fakeProvider{reply: enrichment}, store, nil, nil)

	reply := a.Respond(ctx, Request{Message: "PowerFlex 525 showing fault F004", ConversationID: "conv-3"})
	if reply.NeedsClarification {
		t.Fatalf("confident context must proceed, got %+v", reply)
	}
	if reply.Response == nil || !reply.Response.HasKnowledgeContent {
		t.Fatalf("expected a knowledge-backed response: %+v", reply.Response)
	}
	if len(reply.Response.Sources) != 1 || reply.Response.Sources[0].Page != 112 {
		t.Errorf("sources: got %+v", reply.Response.Sources)
	}
	if len(reply.Response.SafetyWarnings) == 0 {
		t.Error("electrical equipment answer must carry safety warnings")
	}
	if reply.Context.FaultCode != "F004" {
		t.Errorf("fault code: got %q", reply.Context.FaultCode)
	}
}

func TestRespond_AssignsConversationID(t *testing.T) {
	a := newAssistant(nil, &fakeVectorStore{}, nil, nil)

	reply := a.Respond(context.Background(), Request{Message: "hello"})
	if reply.ConversationID == "" {
		t.Error("a missing conversation id must be assigned")
	}
}
