package triage

import (
	"fmt"
	"strings"

	"github.com/bitmark-inc/medassist-api/schema"
)

func quoted[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = "'" + string(v) + "'"
	}
	return "[" + strings.Join(s, ",") + "]"
}

// SystemPrompt instructs the model on the assessment contract.
var SystemPrompt = fmt.Sprintf(`You are a careful triage assistant. Classify the likely medical condition and its severity from the reported symptoms.
Return STRICT JSON with exactly these keys:
- condition_type: string in %s (use 'unknown' when you cannot classify)
- severity: string in %s
- confidence: number between 0 and 1
- red_flags: string[]
- recommended_actions: string[] (short, stepwise, actionable)
- self_care_advice: string or null
No extra keys. If any red flag suggests a life-threatening issue, severity must be 'high' or 'critical' and the first recommended action must start with the call itself, e.g. "Call emergency services (911) now".
`, quoted(schema.ConditionTypes), quoted(schema.Severities))

const userTemplate = `Symptoms: %s
Age: %s
Gender: %s
Location: %s, %s
`

// UserPrompt renders the request for the model.
func UserPrompt(req Request) string {
	return fmt.Sprintf(userTemplate, req.Symptoms, req.Age, req.Gender, req.City, req.Country)
}
