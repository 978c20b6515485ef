// Package triage asks the language model for a condition assessment and
// accepts only answers that honour the assessment contract.
package triage

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/medassist-api/metrics"
	"github.com/bitmark-inc/medassist-api/schema"
)

const logPrefix = "triage"

// Request is the classifier input. Unknown age and gender are empty; city and
// country are always set by the caller.
type Request struct {
	Symptoms string
	Age      string
	Gender   string
	City     string
	Country  string
}

// Completer returns the raw text a language model produces for a prompt.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// LLMClassifier classifies symptoms with a single model call per request.
type LLMClassifier struct {
	completer Completer
	mode      EscalationMode
}

func NewLLMClassifier(completer Completer, mode EscalationMode) *LLMClassifier {
	if mode == "" {
		mode = EscalationStrict
	}
	return &LLMClassifier{completer: completer, mode: mode}
}

// Classify returns the validated assessment or an error. The model is asked
// once; a rejected answer is never retried.
func (c *LLMClassifier) Classify(ctx context.Context, req Request) (*schema.ConditionAssessment, error) {
	raw, err := c.completer.CompleteJSON(ctx, SystemPrompt, UserPrompt(req))
	if err != nil {
		return nil, err
	}

	a, err := ParseAssessment(raw)
	if err != nil {
		c.reject(err, raw)
		return nil, err
	}

	if err := CheckEscalation(a); err != nil {
		if c.mode == EscalationStrict {
			err = &ContractError{Kind: ViolationEscalation, Reason: err.Error(), Raw: raw, Err: err}
			c.reject(err, raw)
			return nil, err
		}
		metrics.ContractViolations.WithLabelValues(ViolationEscalation).Inc()
		log.WithFields(log.Fields{
			"prefix":   logPrefix,
			"severity": a.Severity,
			"error":    err,
		}).Warn("assessment accepted despite escalation policy")
	}

	if a.Severity.Urgent() && a.SelfCareAdvice != nil {
		log.WithFields(log.Fields{
			"prefix":   logPrefix,
			"severity": a.Severity,
		}).Info("self care advice given with urgent severity")
	}

	metrics.Classifications.WithLabelValues(string(a.ConditionType), string(a.Severity)).Inc()
	return a, nil
}

func (c *LLMClassifier) reject(err error, raw string) {
	kind := ViolationSchema
	var contractErr *ContractError
	if errors.As(err, &contractErr) {
		kind = contractErr.Kind
	}
	metrics.ContractViolations.WithLabelValues(kind).Inc()
	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"kind":   kind,
		"raw":    raw,
		"error":  err,
	}).Error("reject model answer")
}
