// Package assist composes the classifier with the hospital and weather
// lookups into the operations offered to callers.
package assist

import (
	"context"
	"errors"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/medassist-api/consts"
	"github.com/bitmark-inc/medassist-api/geo"
	"github.com/bitmark-inc/medassist-api/metrics"
	"github.com/bitmark-inc/medassist-api/schema"
	"github.com/bitmark-inc/medassist-api/triage"
	"github.com/bitmark-inc/medassist-api/utils"
)

const logPrefix = "assist"

// ErrCoordinatesRequired is returned when an operation needs the user position.
var ErrCoordinatesRequired = errors.New("latitude/longitude required")

// WeatherResult is the outcome of the best-effort weather lookup: either a
// report or the reason there is none.
type WeatherResult struct {
	Weather *schema.Weather
	Err     error
}

// Value returns the report, or nil when the lookup failed.
func (r WeatherResult) Value() *schema.Weather {
	if r.Err != nil {
		return nil
	}
	return r.Weather
}

type Assistant struct {
	classifier Classifier
	hospitals  HospitalFinder
	weather    WeatherReporter
	resolver   geo.LocationResolver
}

func New(classifier Classifier, hospitals HospitalFinder, weather WeatherReporter, resolver geo.LocationResolver) *Assistant {
	return &Assistant{
		classifier: classifier,
		hospitals:  hospitals,
		weather:    weather,
		resolver:   resolver,
	}
}

// Analyze classifies the symptoms. Enrichment fields are left unset.
func (a *Assistant) Analyze(ctx context.Context, in schema.SymptomInput) (*schema.ConditionAssessment, error) {
	assessment, err := a.classifier.Classify(ctx, a.request(ctx, in))
	if err != nil {
		return nil, err
	}

	assessment.NearestHospitals = nil
	assessment.WeatherContext = nil
	return assessment, nil
}

// Hospitals lists facilities near the user. Nothing is looked up without
// coordinates.
func (a *Assistant) Hospitals(ctx context.Context, in schema.SymptomInput) ([]schema.Facility, error) {
	loc, ok := in.Coordinates()
	if !ok {
		return nil, ErrCoordinatesRequired
	}
	return a.nearbyHospitals(ctx, loc)
}

// Assist classifies the symptoms and, when the user position is known,
// attaches nearby hospitals and the current weather. A hospital lookup
// failure fails the request; a weather failure leaves the weather null.
func (a *Assistant) Assist(ctx context.Context, in schema.SymptomInput) (*schema.ConditionAssessment, error) {
	assessment, err := a.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}

	loc, ok := in.Coordinates()
	if !ok {
		return assessment, nil
	}

	var (
		facilities []schema.Facility
		weather    WeatherResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := a.nearbyHospitals(gctx, loc)
		if err != nil {
			return err
		}
		facilities = f
		return nil
	})
	g.Go(func() error {
		weather = a.currentWeather(gctx, loc)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assessment.NearestHospitals = facilities
	assessment.WeatherContext = weather.Value()
	return assessment, nil
}

func (a *Assistant) nearbyHospitals(ctx context.Context, loc schema.Location) ([]schema.Facility, error) {
	facilities, err := a.hospitals.NearbyHospitals(ctx, loc)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Error("nearby hospitals")
		return nil, err
	}
	if facilities == nil {
		facilities = []schema.Facility{}
	}
	return facilities, nil
}

func (a *Assistant) currentWeather(ctx context.Context, loc schema.Location) WeatherResult {
	w, err := a.weather.CurrentWeather(ctx, loc)
	if err != nil {
		metrics.WeatherSkipped.Inc()
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Warn("weather unavailable, continue without it")
	}
	return WeatherResult{Weather: w, Err: err}
}

// request prepares the classifier input. City and country are always set.
func (a *Assistant) request(ctx context.Context, in schema.SymptomInput) triage.Request {
	req := triage.Request{
		Symptoms: strings.TrimSpace(in.Symptoms),
		City:     consts.UnknownLocation,
		Country:  consts.UnknownLocation,
	}

	if in.User != nil {
		if in.User.Age != nil {
			req.Age = strconv.Itoa(*in.User.Age)
		}
		req.Gender = strings.TrimSpace(utils.Value(in.User.Gender))
	}

	place, err := a.resolver.GetPoliticalInfo(ctx, geo.PlaceFromUser(in.User))
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Warn("resolve location")
	}
	if place.Complete() {
		req.City = place.City
		req.Country = place.Country
	}

	return req
}
