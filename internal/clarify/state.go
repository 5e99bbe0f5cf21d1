package clarify

import (
	"time"

	"github.com/fieldserve/fieldassist/internal/extractor"
)

// Kind tags the reason a clarification was raised.
type Kind string

const (
	KindEquipmentAmbiguous Kind = "equipment_ambiguous"
	KindMissingDetails     Kind = "missing_details"
	KindIntentUnclear      Kind = "intent_unclear"
	KindOffTopic           Kind = "off_topic"
	KindConfirmation       Kind = "confirmation"
)

// State is the pending clarification for one conversation. It is created
// when a turn cannot proceed and consumed on the next turn, whether or not
// resolution succeeds.
type State struct {
	Kind       Kind                       `json:"kind"`
	Prompt     string                     `json:"prompt"`
	Options    []string                   `json:"options,omitempty"`
	Candidates []Candidate                `json:"candidates,omitempty"`
	Preserved  extractor.EquipmentContext `json:"preserved_context"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// Candidate is a known piece of equipment that could be the referent of an
// ambiguous message.
type Candidate struct {
	Name         string `json:"name"`
	Family       string `json:"family,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	ModelNumber  string `json:"model_number,omitempty"`
}
