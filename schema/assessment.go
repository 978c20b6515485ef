package schema

// ConditionType is the broad category of the likely condition.
type ConditionType string

const (
	ConditionCardiac          ConditionType = "cardiac"
	ConditionRespiratory      ConditionType = "respiratory"
	ConditionAllergic         ConditionType = "allergic"
	ConditionInfectious       ConditionType = "infectious"
	ConditionInjury           ConditionType = "injury"
	ConditionNeurological     ConditionType = "neurological"
	ConditionGastrointestinal ConditionType = "gastrointestinal"
	ConditionUnknown          ConditionType = "unknown"
)

// ConditionTypes lists every accepted condition type.
var ConditionTypes = []ConditionType{
	ConditionCardiac,
	ConditionRespiratory,
	ConditionAllergic,
	ConditionInfectious,
	ConditionInjury,
	ConditionNeurological,
	ConditionGastrointestinal,
	ConditionUnknown,
}

// Severity is ordered: low < moderate < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every accepted severity in ascending order.
var Severities = []Severity{
	SeverityLow,
	SeverityModerate,
	SeverityHigh,
	SeverityCritical,
}

// Rank returns the position of the severity in the ordering, or -1 for a
// value outside the enumeration.
func (s Severity) Rank() int {
	for i, v := range Severities {
		if v == s {
			return i
		}
	}
	return -1
}

// Urgent reports whether the severity is high or critical.
func (s Severity) Urgent() bool {
	return s.Rank() >= SeverityHigh.Rank()
}

// ConditionAssessment is the triage result. The first six fields come from
// the language model; the last two are enrichment attached by assist and stay
// null otherwise.
type ConditionAssessment struct {
	ConditionType      ConditionType `json:"condition_type"`
	Severity           Severity      `json:"severity"`
	Confidence         float64       `json:"confidence"`
	RedFlags           []string      `json:"red_flags"`
	RecommendedActions []string      `json:"recommended_actions"`
	SelfCareAdvice     *string       `json:"self_care_advice"`
	NearestHospitals   []Facility    `json:"nearest_hospitals"`
	WeatherContext     *Weather      `json:"weather_context"`
}
