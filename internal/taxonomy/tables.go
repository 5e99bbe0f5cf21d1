package taxonomy

// The lookup tables below are ordered: earlier entries shadow later ones.
// They are built once at startup and never mutated, so concurrent reads
// need no locking.

var familyTable = []familyEntry{
	{
		family:   "Variable Frequency Drive",
		category: "electrical",
		aliases:  []string{"variable frequency drive", "vfd", "variable speed drive", "vsd", "frequency inverter", "ac drive"},
		manufacturers: []manufacturerEntry{
			{brand: "Allen-Bradley", modelPatterns: []string{"powerflex", "allen-bradley", "allen bradley", "rockwell"}},
			{brand: "ABB", modelPatterns: []string{"acs355", "acs550", "acs880", "abb"}},
			{brand: "Siemens", modelPatterns: []string{"sinamics", "micromaster", "siemens"}},
			{brand: "Danfoss", modelPatterns: []string{"vlt", "danfoss"}},
			{brand: "Yaskawa", modelPatterns: []string{"v1000", "ga500", "ga700", "yaskawa"}},
		},
	},
	{
		family:   "Programmable Logic Controller",
		category: "electrical",
		aliases:  []string{"programmable logic controller", "plc", "controller"},
		manufacturers: []manufacturerEntry{
			{brand: "Allen-Bradley", modelPatterns: []string{"controllogix", "compactlogix", "micrologix", "slc 500", "allen-bradley", "allen bradley"}},
			{brand: "Siemens", modelPatterns: []string{"s7-1200", "s7-1500", "s7-300", "simatic", "siemens"}},
			{brand: "Mitsubishi", modelPatterns: []string{"melsec", "fx5u", "mitsubishi"}},
			{brand: "Omron", modelPatterns: []string{"cj2", "nx1p", "omron"}},
		},
	},
	{
		family:   "Servo Drive",
		category: "electrical",
		aliases:  []string{"servo drive", "servo amplifier", "servo"},
		manufacturers: []manufacturerEntry{
			{brand: "Allen-Bradley", modelPatterns: []string{"kinetix", "allen-bradley", "allen bradley"}},
			{brand: "Siemens", modelPatterns: []string{"simotics", "siemens"}},
			{brand: "Yaskawa", modelPatterns: []string{"sigma-7", "sgd7", "yaskawa"}},
		},
	},
	{
		family:   "Electric Motor",
		category: "electrical",
		aliases:  []string{"electric motor", "induction motor", "motor"},
		manufacturers: []manufacturerEntry{
			{brand: "Baldor", modelPatterns: []string{"baldor"}},
			{brand: "WEG", modelPatterns: []string{"w22", "weg"}},
			{brand: "Siemens", modelPatterns: []string{"simotics", "siemens"}},
		},
	},
	{
		family:   "Centrifugal Pump",
		category: "mechanical",
		aliases:  []string{"centrifugal pump", "pump"},
		manufacturers: []manufacturerEntry{
			{brand: "Grundfos", modelPatterns: []string{"cr32", "cr64", "grundfos"}},
			{brand: "Goulds", modelPatterns: []string{"3196", "goulds"}},
			{brand: "KSB", modelPatterns: []string{"etanorm", "ksb"}},
		},
	},
	{
		family:   "Air Compressor",
		category: "pneumatic",
		aliases:  []string{"air compressor", "compressor"},
		manufacturers: []manufacturerEntry{
			{brand: "Atlas Copco", modelPatterns: []string{"ga30", "ga55", "atlas copco"}},
			{brand: "Ingersoll Rand", modelPatterns: []string{"r-series", "ingersoll"}},
			{brand: "Kaeser", modelPatterns: []string{"kaeser"}},
		},
	},
	{
		family:   "Hydraulic Power Unit",
		category: "hydraulic",
		aliases:  []string{"hydraulic power unit", "hpu", "hydraulic pump", "hydraulics"},
		manufacturers: []manufacturerEntry{
			{brand: "Bosch Rexroth", modelPatterns: []string{"rexroth", "bosch"}},
			{brand: "Parker", modelPatterns: []string{"parker"}},
			{brand: "Eaton", modelPatterns: []string{"vickers", "eaton"}},
		},
	},
	{
		family:   "Pneumatic Valve",
		category: "pneumatic",
		aliases:  []string{"pneumatic valve", "solenoid valve", "air valve"},
		manufacturers: []manufacturerEntry{
			{brand: "SMC", modelPatterns: []string{"sy5000", "smc"}},
			{brand: "Festo", modelPatterns: []string{"vuvg", "festo"}},
			{brand: "ASCO", modelPatterns: []string{"asco"}},
		},
	},
	{
		family:   "HMI Panel",
		category: "electrical",
		aliases:  []string{"hmi", "operator panel", "touch panel", "touchscreen"},
		manufacturers: []manufacturerEntry{
			{brand: "Allen-Bradley", modelPatterns: []string{"panelview", "allen-bradley", "allen bradley"}},
			{brand: "Siemens", modelPatterns: []string{"comfort panel", "ktp700", "siemens"}},
			{brand: "Pro-face", modelPatterns: []string{"pro-face", "proface"}},
		},
	},
	{
		family:   "Safety Relay",
		category: "safety",
		aliases:  []string{"safety relay", "safety controller", "light curtain", "e-stop circuit", "safety circuit"},
		manufacturers: []manufacturerEntry{
			{brand: "Pilz", modelPatterns: []string{"pnoz", "pilz"}},
			{brand: "Allen-Bradley", modelPatterns: []string{"guardmaster", "guardlogix", "allen-bradley", "allen bradley"}},
			{brand: "Sick", modelPatterns: []string{"deltec", "sick"}},
		},
	},
	{
		family:   "Proximity Sensor",
		category: "electrical",
		aliases:  []string{"proximity sensor", "photo eye", "photoeye", "prox sensor", "sensor"},
		manufacturers: []manufacturerEntry{
			{brand: "Sick", modelPatterns: []string{"sick"}},
			{brand: "Banner", modelPatterns: []string{"banner"}},
			{brand: "Turck", modelPatterns: []string{"turck"}},
		},
	},
	{
		family:   "Conveyor",
		category: "mechanical",
		aliases:  []string{"conveyor belt", "conveyor", "belt drive"},
		manufacturers: []manufacturerEntry{
			{brand: "Dorner", modelPatterns: []string{"dorner"}},
			{brand: "Hytrol", modelPatterns: []string{"hytrol"}},
		},
	},
}

// Issue keyword lists are disjoint; order decides ties anyway.
var issueTable = []keywordEntry[IssueType]{
	{IssueFaultCode, []string{"fault code", "fault", "error code", "alarm code", "alarming", "err "}},
	{IssueWontStart, []string{"won't start", "wont start", "doesn't start", "does not start", "not starting", "won't turn on", "no start", "won't run", "dead"}},
	{IssueLeak, []string{"leak", "dripping", "seeping", "weeping"}},
	{IssueOverheating, []string{"overheat", "too hot", "running hot", "thermal trip", "burning smell", "smoking"}},
	{IssueNoiseVibration, []string{"vibrat", "grinding", "squeal", "rattle", "humming", "knocking", "noise", "noisy"}},
	{IssueCommunication, []string{"communication", "comms", "can't connect", "cannot connect", "offline", "ethernet", "modbus", "profinet", "devicenet", "fieldbus"}},
	{IssueCalibration, []string{"calibrat", "drift", "out of spec", "inaccurate", "reading wrong"}},
	{IssuePhysicalDamage, []string{"broken", "cracked", "damaged", "bent", "snapped", "shattered"}},
	{IssueIntermittent, []string{"intermittent", "sometimes", "randomly", "comes and goes", "every so often"}},
	{IssuePerformance, []string{"slow", "sluggish", "low pressure", "low flow", "weak", "underperform", "lost power"}},
}

var urgencyTable = []keywordEntry[Urgency]{
	{UrgencyCritical, []string{"line down", "line is down", "production down", "production stopped", "plant down", "emergency", "smoke", "fire", "injury", "safety issue"}},
	{UrgencyHigh, []string{"urgent", "asap", "keeps tripping", "keeps stopping", "failing", "getting worse"}},
	{UrgencyLow, []string{"no rush", "when possible", "minor", "routine", "scheduled", "next maintenance"}},
}

// Fault code patterns, checked in order. Each has exactly one capture group.
var faultCodePatterns = []string{
	`(?i)\bfault\s*(?:code\s*)?([A-Z]?\s?-?\d{1,4}[A-Z]?)\b`,
	`(?i)\b(?:error|err|alarm)\s*(?:code\s*)?([A-Z]?\s?-?\d{1,4}[A-Z]?)\b`,
	`(?i)\b([EF]\s?-?\d{2,4})\b`,
	`(?i)\bcode\s+([A-Z]?\d{1,4}[A-Z]?)\b`,
}

// Model number patterns, checked in order. Each has exactly one capture group.
var modelNumberPatterns = []string{
	`(?i)\b([A-Z]{2,}[A-Z]*\s?-?\d{3,4}[A-Z]?)\b`,
	`(?i)\b([A-Z]\d[- ]\d{3,4}[A-Z]?)\b`,
	`(?i)\b(\d{2,3}[A-Z]-[A-Z0-9]{3,8})\b`,
}
