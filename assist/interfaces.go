package assist

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_assist.go -package=mocks

import (
	"context"

	"github.com/bitmark-inc/medassist-api/schema"
	"github.com/bitmark-inc/medassist-api/triage"
)

// Classifier produces a validated assessment from symptoms.
type Classifier interface {
	Classify(ctx context.Context, req triage.Request) (*schema.ConditionAssessment, error)
}

// HospitalFinder lists medical facilities near a point.
type HospitalFinder interface {
	NearbyHospitals(ctx context.Context, loc schema.Location) ([]schema.Facility, error)
}

// WeatherReporter reports current conditions at a point.
type WeatherReporter interface {
	CurrentWeather(ctx context.Context, loc schema.Location) (*schema.Weather, error)
}
