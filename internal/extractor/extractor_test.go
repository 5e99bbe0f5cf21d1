package extractor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fieldserve/fieldassist/internal/config"
	"github.com/fieldserve/fieldassist/internal/llm"
	"github.com/fieldserve/fieldassist/internal/taxonomy"
)

// fakeProvider returns a canned reply or error.
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func testCfg() config.ExtractionConfig {
	return config.DefaultConfig().Extraction
}

func newExtractor(p llm.Provider) *Extractor {
	return New(taxonomy.NewMatcher(), p, "test-model", testCfg())
}

func TestExtract_RuleOnlyScenario(t *testing.T) {
	e := newExtractor(nil)

	got := e.Extract(context.Background(), "PowerFlex 525 showing fault F004")

	if got.ComponentFamily != "Variable Frequency Drive" {
		t.Errorf("family: got %q", got.ComponentFamily)
	}
	if got.Manufacturer != "Allen-Bradley" {
		t.Errorf("manufacturer: got %q", got.Manufacturer)
	}
	if got.FaultCode != "F004" {
		t.Errorf("fault code: got %q", got.FaultCode)
	}
	if got.IssueType != taxonomy.IssueFaultCode {
		t.Errorf("issue type: got %q", got.IssueType)
	}
	if got.Confidence < 0.5 {
		t.Errorf("confidence: got %v, want >= 0.5", got.Confidence)
	}
}

func TestExtract_ModelFailureReturnsBaselineExactly(t *testing.T) {
	const msg = "the compressor is leaking oil, no rush"

	plain := newExtractor(nil).Extract(context.Background(), msg)
	failed := newExtractor(&fakeProvider{err: errors.New("deadline exceeded")}).Extract(context.Background(), msg)

	if !reflect.DeepEqual(plain, failed) {
		t.Errorf("degraded context differs from baseline:\nbaseline: %+v\ndegraded: %+v", plain, failed)
	}
}

func TestExtract_UnparseableReplyReturnsBaseline(t *testing.T) {
	const msg = "sinamics vfd keeps tripping"

	plain := newExtractor(nil).Extract(context.Background(), msg)
	garbled := newExtractor(&fakeProvider{reply: "sorry, I can't help with that"}).Extract(context.Background(), msg)

	if !reflect.DeepEqual(plain, garbled) {
		t.Errorf("garbled reply should degrade to baseline:\nbaseline: %+v\ngot: %+v", plain, garbled)
	}
}

func TestExtract_MergePrecedence(t *testing.T) {
	reply := `{
		"component_name": "hoist VFD cabinet 4",
		"component_family": "",
		"issue_type": "intermittent",
		"symptoms": ["trips under load", "resets after cooldown"]
	}`
	e := newExtractor(&fakeProvider{reply: reply})

	got := e.Extract(context.Background(), "powerflex 525 trips now and then, fault f004")

	// Model-filled fields win.
	if got.ComponentName != "hoist VFD cabinet 4" {
		t.Errorf("component name: got %q", got.ComponentName)
	}
	if got.IssueType != taxonomy.IssueIntermittent {
		t.Errorf("issue type: got %q", got.IssueType)
	}
	if len(got.Symptoms) != 2 {
		t.Errorf("symptoms: got %v", got.Symptoms)
	}
	// Empty model fields keep the rule-based values.
	if got.ComponentFamily != "Variable Frequency Drive" {
		t.Errorf("family should keep baseline: got %q", got.ComponentFamily)
	}
	if got.Manufacturer != "Allen-Bradley" {
		t.Errorf("manufacturer should keep baseline: got %q", got.Manufacturer)
	}
	if got.FaultCode != "F004" {
		t.Errorf("fault code should keep baseline: got %q", got.FaultCode)
	}
	if got.Confidence != testCfg().EnrichedScore {
		t.Errorf("confidence: got %v, want enriched score", got.Confidence)
	}
}

func TestExtract_MarkdownFencedReply(t *testing.T) {
	reply := "Here you go:\n```json\n{\"manufacturer\": \"Grundfos\"}\n```"
	e := newExtractor(&fakeProvider{reply: reply})

	got := e.Extract(context.Background(), "the pump is making noise")
	if got.Manufacturer != "Grundfos" {
		t.Errorf("manufacturer: got %q, want Grundfos", got.Manufacturer)
	}
}

func TestExtract_ConfidenceAlwaysInRange(t *testing.T) {
	e := newExtractor(nil)
	inputs := []string{
		"",
		"hello",
		"pump broken",
		"PowerFlex 525 fault F004 line down",
		"error code 22",
	}
	for _, msg := range inputs {
		got := e.Extract(context.Background(), msg)
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("Extract(%q).Confidence = %v, outside [0,1]", msg, got.Confidence)
		}
	}
}

func TestDeriveSearchTerms_KeywordsAndQueries(t *testing.T) {
	ec := EquipmentContext{
		ComponentName:   "PowerFlex 525",
		ComponentFamily: "Variable Frequency Drive",
		Manufacturer:    "Allen-Bradley",
		ModelNumber:     "POWERFLEX525",
		FaultCode:       "F004",
		IssueType:       taxonomy.IssueFaultCode,
		Symptoms:        []string{"trips on start", "display blank", "third symptom ignored"},
	}
	deriveSearchTerms(&ec)

	wantKeywords := []string{
		"PowerFlex 525", "Variable Frequency Drive", "Allen-Bradley",
		"POWERFLEX525", "fault F004", "F004", "trips on start", "display blank",
	}
	if !reflect.DeepEqual(ec.SearchKeywords, wantKeywords) {
		t.Errorf("keywords:\ngot  %v\nwant %v", ec.SearchKeywords, wantKeywords)
	}

	if len(ec.SearchQueries) != 4 {
		t.Fatalf("queries: got %d, want 4: %v", len(ec.SearchQueries), ec.SearchQueries)
	}
	if ec.SearchQueries[0] != "F004 PowerFlex 525" {
		t.Errorf("first query: got %q", ec.SearchQueries[0])
	}
	if !strings.HasSuffix(ec.SearchQueries[3], "troubleshooting") {
		t.Errorf("last query: got %q", ec.SearchQueries[3])
	}
}

func TestDeriveSearchTerms_SkipsQueriesWithMissingFields(t *testing.T) {
	ec := EquipmentContext{
		ComponentFamily: "Centrifugal Pump",
		IssueType:       taxonomy.IssueLeak,
	}
	deriveSearchTerms(&ec)

	if len(ec.SearchQueries) != 0 {
		t.Errorf("expected no queries without name/manufacturer/fault, got %v", ec.SearchQueries)
	}
	if len(ec.SearchKeywords) != 1 || ec.SearchKeywords[0] != "Centrifugal Pump" {
		t.Errorf("keywords: got %v", ec.SearchKeywords)
	}
}

func TestDeriveSearchTerms_DedupeCaseInsensitive(t *testing.T) {
	ec := EquipmentContext{
		ComponentName:   "powerflex 525",
		ModelNumber:     "POWERFLEX 525",
		ComponentFamily: "Variable Frequency Drive",
	}
	deriveSearchTerms(&ec)

	for i, a := range ec.SearchKeywords {
		for j, b := range ec.SearchKeywords {
			if i != j && strings.EqualFold(a, b) {
				t.Errorf("duplicate keywords %q and %q", a, b)
			}
		}
	}
}
