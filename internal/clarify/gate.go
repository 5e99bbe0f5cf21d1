package clarify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fieldserve/fieldassist/internal/extractor"
	"github.com/fieldserve/fieldassist/internal/taxonomy"
)

// Gate decides whether a turn can proceed or must pause on a clarifying
// question. It is stateless; pending state lives in a Store.
type Gate struct {
	threshold float64
}

// NewGate creates a Gate with the given confidence threshold.
func NewGate(threshold float64) *Gate {
	return &Gate{threshold: threshold}
}

// Evaluate returns nil when the context is good enough to proceed.
// Otherwise it returns exactly one State for the highest-priority reason:
// equipment ambiguity, then missing equipment identity, then missing issue
// description, then unclear intent, then off-topic.
func (g *Gate) Evaluate(ec extractor.EquipmentContext, candidates []Candidate) *State {
	ambiguous := len(candidates) >= 2 && ec.ModelNumber == "" && ec.ComponentName == ec.ComponentFamily
	hasEquipment := ec.ComponentFamily != "" || ec.ComponentName != "" || ec.ModelNumber != ""
	hasIssue := ec.IssueType != taxonomy.IssueUnknown || ec.FaultCode != "" || len(ec.Symptoms) > 0

	pending := ec.Confidence < g.threshold ||
		ec.IssueType == taxonomy.IssueUnknown ||
		ambiguous ||
		(hasEquipment && !hasIssue)
	if !pending {
		return nil
	}

	st := &State{Preserved: ec, CreatedAt: time.Now()}

	switch {
	case ambiguous:
		st.Kind = KindEquipmentAmbiguous
		st.Candidates = candidates
		for _, c := range candidates {
			st.Options = append(st.Options, c.Name)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "I know about %d pieces of equipment that could match. Which one do you mean?\n", len(candidates))
		for i, c := range candidates {
			fmt.Fprintf(&b, "%d. %s", i+1, c.Name)
			if c.Manufacturer != "" {
				fmt.Fprintf(&b, " (%s)", c.Manufacturer)
			}
			b.WriteString("\n")
		}
		st.Prompt = strings.TrimRight(b.String(), "\n")

	case !hasEquipment && hasIssue:
		st.Kind = KindMissingDetails
		st.Prompt = "Which piece of equipment is this about? A model number or nameplate details help me find the right documentation."

	case hasEquipment && !hasIssue:
		st.Kind = KindMissingDetails
		st.Prompt = fmt.Sprintf("What is the %s doing (or not doing)? Any fault codes, noises, or error messages?", equipmentLabel(ec))

	case !noSignal(ec):
		st.Kind = KindIntentUnclear
		st.Prompt = "I'm not sure I followed that. Can you describe the equipment and the problem in a bit more detail?"

	default:
		st.Kind = KindOffTopic
		st.Prompt = "I help troubleshoot industrial equipment. Tell me what machine you're working on and what it's doing."
	}

	return st
}

// MatchOption matches a user reply against numbered options, first by
// ordinal position, then by literal text.
func MatchOption(options []string, reply string) (int, bool) {
	reply = strings.TrimSpace(reply)
	if reply == "" || len(options) == 0 {
		return 0, false
	}

	// Ordinal: "2", "2.", "option 2".
	numeric := strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(reply), "option "), ".")
	if n, err := strconv.Atoi(strings.TrimSpace(numeric)); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return 0, false
	}

	lowerReply := strings.ToLower(reply)
	for i, opt := range options {
		lowerOpt := strings.ToLower(opt)
		if lowerOpt == lowerReply || strings.Contains(lowerOpt, lowerReply) || strings.Contains(lowerReply, lowerOpt) {
			return i, true
		}
	}
	return 0, false
}

func equipmentLabel(ec extractor.EquipmentContext) string {
	switch {
	case ec.ComponentName != "":
		return ec.ComponentName
	case ec.ComponentFamily != "":
		return ec.ComponentFamily
	default:
		return "equipment"
	}
}

func noSignal(ec extractor.EquipmentContext) bool {
	return ec.ComponentFamily == "" && ec.ComponentName == "" &&
		ec.Manufacturer == "" && ec.ModelNumber == "" && ec.FaultCode == "" &&
		ec.IssueType == taxonomy.IssueUnknown && len(ec.Symptoms) == 0
}
