package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_api.go -package=mocks

import (
	"context"

	"github.com/bitmark-inc/medassist-api/schema"
)

// Assistant runs the triage operations.
type Assistant interface {
	Analyze(ctx context.Context, in schema.SymptomInput) (*schema.ConditionAssessment, error)
	Hospitals(ctx context.Context, in schema.SymptomInput) ([]schema.Facility, error)
	Assist(ctx context.Context, in schema.SymptomInput) (*schema.ConditionAssessment, error)
}

// Synthesizer narrates text as MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Reporter renders the markdown summary of an assessment.
type Reporter interface {
	Render(a *schema.ConditionAssessment) (string, error)
}
