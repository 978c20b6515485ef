package triage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bitmark-inc/medassist-api/schema"
)

// ErrEscalationPolicy marks an assessment whose red flags are not escalated.
var ErrEscalationPolicy = errors.New("escalation policy violated")

// EscalationMode decides what happens to an answer breaking the policy.
type EscalationMode string

const (
	// EscalationStrict rejects the answer as a contract violation.
	EscalationStrict EscalationMode = "strict"
	// EscalationWarn logs the violation and keeps the answer.
	EscalationWarn EscalationMode = "warn"
)

func ParseEscalationMode(s string) (EscalationMode, error) {
	switch m := EscalationMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return EscalationStrict, nil
	case EscalationStrict, EscalationWarn:
		return m, nil
	default:
		return "", fmt.Errorf("unknown escalation mode %q", s)
	}
}

// An action counts only when it opens with the call itself, e.g. "Call 911",
// "Dial your local emergency number" or "Get an ambulance".
var emergencyInstruction = regexp.MustCompile(`(?i)^\W*(?:(?:please|immediately|now)\W+)*(?:` +
	`(?:call|dial|phone|ring|contact)\s+(?:(?:for|your|the|an?|local|nearest)\s+){0,3}(?:911|112|999|emergency|ambulance)\b` +
	`|(?:get|request|summon)\s+(?:an\s+)?ambulance\b)`)

// IsEmergencyInstruction reports whether an action tells the user to get
// emergency services involved.
func IsEmergencyInstruction(action string) bool {
	return emergencyInstruction.MatchString(action)
}

// CheckEscalation verifies that an assessment listing red flags is rated
// high or critical and opens with an emergency call.
func CheckEscalation(a *schema.ConditionAssessment) error {
	if len(a.RedFlags) == 0 {
		return nil
	}
	if !a.Severity.Urgent() {
		return fmt.Errorf("%w: %d red flag(s) rated %s", ErrEscalationPolicy, len(a.RedFlags), a.Severity)
	}
	if len(a.RecommendedActions) == 0 || !IsEmergencyInstruction(a.RecommendedActions[0]) {
		return fmt.Errorf("%w: first action is not an emergency call", ErrEscalationPolicy)
	}
	return nil
}
