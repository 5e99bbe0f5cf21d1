package taxonomy

// IssueType classifies the kind of problem a message describes.
type IssueType string

const (
	IssueFaultCode      IssueType = "fault_code"
	IssueWontStart      IssueType = "wont_start"
	IssueIntermittent   IssueType = "intermittent"
	IssueNoiseVibration IssueType = "noise_vibration"
	IssueOverheating    IssueType = "overheating"
	IssueCommunication  IssueType = "communication"
	IssueCalibration    IssueType = "calibration"
	IssuePhysicalDamage IssueType = "physical_damage"
	IssuePerformance    IssueType = "performance"
	IssueLeak           IssueType = "leak"
	IssueUnknown        IssueType = "unknown"
)

// Urgency grades how quickly a problem needs attention.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// Match is the result of the rule-based pass over a message. Empty string
// fields mean the matcher found nothing for that field.
type Match struct {
	ComponentFamily string
	Category        string
	Manufacturer    string
	ModelNumber     string
	FaultCode       string
	IssueType       IssueType
	Urgency         Urgency
}

type manufacturerEntry struct {
	brand         string
	modelPatterns []string // lowercase substrings identifying this brand's models
}

type familyEntry struct {
	family        string
	category      string
	aliases       []string // lowercase, checked in order, first hit wins
	manufacturers []manufacturerEntry
}

type keywordEntry[T ~string] struct {
	value    T
	keywords []string
}
