package taxonomy

import "testing"

func TestMatch_ModelPatternIdentifiesFamilyAndBrand(t *testing.T) {
	m := NewMatcher()

	got := m.Match("PowerFlex 525 showing fault F004")

	if got.ComponentFamily != "Variable Frequency Drive" {
		t.Errorf("family: got %q", got.ComponentFamily)
	}
	if got.Manufacturer != "Allen-Bradley" {
		t.Errorf("manufacturer: got %q", got.Manufacturer)
	}
	if got.FaultCode != "F004" {
		t.Errorf("fault code: got %q, want F004", got.FaultCode)
	}
	if got.IssueType != IssueFaultCode {
		t.Errorf("issue type: got %q", got.IssueType)
	}
	if got.Category != "electrical" {
		t.Errorf("category: got %q", got.Category)
	}
}

func TestMatch_AliasThenManufacturerPattern(t *testing.T) {
	m := NewMatcher()

	got := m.Match("our sinamics vfd keeps tripping")
	if got.ComponentFamily != "Variable Frequency Drive" {
		t.Errorf("family: got %q", got.ComponentFamily)
	}
	if got.Manufacturer != "Siemens" {
		t.Errorf("manufacturer: got %q", got.Manufacturer)
	}
	if got.Urgency != UrgencyHigh {
		t.Errorf("urgency: got %q, want high", got.Urgency)
	}
}

func TestMatch_FamilyWithoutManufacturer(t *testing.T) {
	m := NewMatcher()

	got := m.Match("the compressor is leaking oil")
	if got.ComponentFamily != "Air Compressor" {
		t.Errorf("family: got %q", got.ComponentFamily)
	}
	if got.Manufacturer != "" {
		t.Errorf("manufacturer should be unset, got %q", got.Manufacturer)
	}
	if got.IssueType != IssueLeak {
		t.Errorf("issue type: got %q", got.IssueType)
	}
}

func TestMatch_IssueTypes(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		text string
		want IssueType
	}{
		{"the pump won't start this morning", IssueWontStart},
		{"motor is making a grinding noise", IssueNoiseVibration},
		{"drive is overheating after an hour", IssueOverheating},
		{"plc went offline, can't connect over ethernet", IssueCommunication},
		{"the scale readings drift out of spec", IssueCalibration},
		{"guard door sensor bracket is cracked", IssuePhysicalDamage},
		{"conveyor runs slow under load", IssuePerformance},
		{"it trips sometimes, comes and goes", IssueIntermittent},
		{"need the manual for the panelview", IssueUnknown},
	}

	for _, tt := range tests {
		if got := m.Match(tt.text).IssueType; got != tt.want {
			t.Errorf("Match(%q).IssueType = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestMatch_Urgency(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		text string
		want Urgency
	}{
		{"line is down, pump dead", UrgencyCritical},
		{"drive keeps tripping, getting worse", UrgencyHigh},
		{"no rush, just routine lubrication question", UrgencyLow},
		{"the hmi screen froze", UrgencyMedium},
	}

	for _, tt := range tests {
		if got := m.Match(tt.text).Urgency; got != tt.want {
			t.Errorf("Match(%q).Urgency = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestMatch_FaultCodeNormalization(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		text string
		want string
	}{
		{"drive shows fault f 004", "F004"},
		{"error code 22 on the panel", "22"},
		{"alarm A102 active", "A102"},
		{"throwing E-21 intermittently", "E-21"},
		{"no code at all", ""},
	}

	for _, tt := range tests {
		if got := m.Match(tt.text).FaultCode; got != tt.want {
			t.Errorf("Match(%q).FaultCode = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestMatch_Idempotent(t *testing.T) {
	m := NewMatcher()
	const text = "Sinamics G120 fault F07801, motor won't restart, line down"

	first := m.Match(text)
	for i := 0; i < 50; i++ {
		if got := m.Match(text); got != first {
			t.Fatalf("iteration %d: %+v != %+v", i, got, first)
		}
	}
}

func TestMatch_NoSignal(t *testing.T) {
	m := NewMatcher()

	got := m.Match("hello, is anyone there?")
	if got.ComponentFamily != "" || got.Manufacturer != "" {
		t.Errorf("expected no equipment match, got %+v", got)
	}
	if got.IssueType != IssueUnknown {
		t.Errorf("issue type: got %q, want unknown", got.IssueType)
	}
	if got.Urgency != UrgencyMedium {
		t.Errorf("urgency: got %q, want medium", got.Urgency)
	}
}
