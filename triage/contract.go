package triage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/bitmark-inc/medassist-api/schema"
)

// ErrContractViolation is the root of every rejected model answer.
var ErrContractViolation = errors.New("model output violates the assessment contract")

//go:embed assessment.schema.json
var assessmentSchemaJSON []byte

var assessmentSchema = mustCompileSchema(assessmentSchemaJSON)

func mustCompileSchema(b []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic(fmt.Sprintf("compile assessment schema: %s", err))
	}
	return s
}

// Violation kinds, used as metric labels.
const (
	ViolationJSON       = "json"
	ViolationSchema     = "schema"
	ViolationEscalation = "escalation"
)

// ContractError is a model answer that cannot be accepted as an assessment.
type ContractError struct {
	Kind   string
	Reason string
	Raw    string
	Err    error
}

func (e *ContractError) Error() string {
	return "invalid model assessment: " + e.Reason
}

func (e *ContractError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrContractViolation}
	}
	return []error{ErrContractViolation, e.Err}
}

// ParseAssessment validates raw model output against the assessment schema and
// decodes it. Nothing is defaulted: any deviation is a *ContractError.
func ParseAssessment(raw string) (*schema.ConditionAssessment, error) {
	text := strings.TrimSpace(raw)
	if !json.Valid([]byte(text)) {
		return nil, &ContractError{Kind: ViolationJSON, Reason: "model did not return valid JSON", Raw: raw}
	}

	result, err := assessmentSchema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, &ContractError{Kind: ViolationSchema, Reason: err.Error(), Raw: raw, Err: err}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, &ContractError{Kind: ViolationSchema, Reason: strings.Join(reasons, "; "), Raw: raw}
	}

	var a schema.ConditionAssessment
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, &ContractError{Kind: ViolationSchema, Reason: err.Error(), Raw: raw, Err: err}
	}

	return &a, nil
}
