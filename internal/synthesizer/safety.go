package synthesizer

import (
	"strings"

	"github.com/fieldserve/fieldassist/internal/extractor"
	"github.com/fieldserve/fieldassist/internal/taxonomy"
)

const (
	warnDeEnergize = "De-energize and lock out the equipment before opening any enclosure. Verify zero energy with a meter you have tested on a known live source."
	warnCapacitor  = "Drive and supply capacitors hold a charge after power-off. Wait the manufacturer's stated discharge time and verify before touching terminals."
	warnBurnRisk   = "Surfaces may be hot enough to burn. Let the equipment cool before handling and wear appropriate gloves."
	warnPressure   = "Relieve and verify zero stored pressure in lines and accumulators before loosening any fitting."
	warnNoBypass   = "Never bypass, jumper, or defeat a safety device to keep a machine running. Fix the cause instead."
	warnLOTO       = "Follow your site's lockout/tagout procedure before any inspection or repair."
)

// electricalTerms mark families and categories where de-energization and
// capacitor discharge apply.
var electricalTerms = []string{
	"electrical", "drive", "vfd", "motor", "plc", "servo", "relay", "panel", "hmi", "controller",
}

var pressureTerms = []string{"pneumatic", "hydraulic", "compressor", "pump", "valve", "accumulator"}

var safetySystemTerms = []string{"safety", "interlock", "light curtain", "e-stop", "emergency stop"}

// safetyWarnings derives warnings from the equipment context alone. The
// generated answer text never influences this list, so safety content
// survives a misbehaving model.
func safetyWarnings(ec extractor.EquipmentContext) []string {
	subject := strings.ToLower(ec.ComponentFamily + " " + ec.Category + " " + ec.ComponentName)

	var warnings []string
	if containsAny(subject, electricalTerms) {
		warnings = append(warnings, warnDeEnergize, warnCapacitor)
	}
	if ec.IssueType == taxonomy.IssueOverheating {
		warnings = append(warnings, warnBurnRisk)
	}
	if containsAny(subject, pressureTerms) {
		warnings = append(warnings, warnPressure)
	}
	if containsAny(subject, safetySystemTerms) {
		warnings = append(warnings, warnNoBypass)
	}

	if len(warnings) == 0 {
		warnings = append(warnings, warnLOTO)
	}
	return warnings
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
