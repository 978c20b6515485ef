// Package places finds medical facilities near a point with the Google
// Places nearby search.
package places

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"

	"github.com/bitmark-inc/medassist-api/consts"
	"github.com/bitmark-inc/medassist-api/external"
	"github.com/bitmark-inc/medassist-api/external/upstream"
	"github.com/bitmark-inc/medassist-api/schema"
	"github.com/bitmark-inc/medassist-api/utils"
)

const (
	logPrefix = "places"

	// APIKeySetting is the setting named in configuration errors.
	APIKeySetting = "GOOGLE_MAPS_API_KEY"

	mapsPlaceURL = "https://www.google.com/maps/place/?q=place_id:"
)

// Config holds the places search settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Radius     uint
	MaxResults int
	Timeout    time.Duration
}

// Query describes one nearby search.
type Query struct {
	Location   schema.Location
	Radius     uint
	MaxResults int
}

// Places searches the places service. The maps client is built on first use
// and shared afterwards.
type Places struct {
	config Config

	once   sync.Once
	client *maps.Client
	err    error
}

// New returns a Places client with defaults applied to unset values.
func New(config Config) *Places {
	if config.Radius == 0 {
		config.Radius = consts.DefaultSearchRadius
	}
	if config.MaxResults <= 0 {
		config.MaxResults = consts.MaxFacilityResults
	}
	if config.Timeout == 0 {
		config.Timeout = consts.UpstreamTimeout
	}
	return &Places{config: config}
}

// Configured reports whether an API key is present.
func (p *Places) Configured() bool {
	return p.config.APIKey != ""
}

// Maps returns the shared maps client.
func (p *Places) Maps() (*maps.Client, error) {
	p.once.Do(func() {
		if p.config.APIKey == "" {
			p.err = &external.MissingSettingError{Setting: APIKeySetting}
			return
		}

		opts := []maps.ClientOption{
			maps.WithAPIKey(p.config.APIKey),
			maps.WithHTTPClient(upstream.NewClient("places", p.config.Timeout, upstream.RejectNon2xx())),
		}
		if p.config.BaseURL != "" {
			opts = append(opts, maps.WithBaseURL(p.config.BaseURL))
		}

		p.client, p.err = maps.NewClient(opts...)
		if p.err != nil {
			log.WithFields(log.Fields{
				"prefix": logPrefix,
				"error":  p.err,
			}).Error("new map client")
		}
	})
	return p.client, p.err
}

// NearbyHospitals returns open hospitals around loc using the configured
// radius and result limit.
func (p *Places) NearbyHospitals(ctx context.Context, loc schema.Location) ([]schema.Facility, error) {
	return p.Search(ctx, Query{
		Location:   loc,
		Radius:     p.config.Radius,
		MaxResults: p.config.MaxResults,
	})
}

// Search runs a nearby search for open hospitals. Results keep the order of
// the places service and are cut to q.MaxResults.
func (p *Places) Search(ctx context.Context, q Query) ([]schema.Facility, error) {
	client, err := p.Maps()
	if err != nil {
		return nil, err
	}

	if q.Radius == 0 {
		q.Radius = p.config.Radius
	}
	if q.MaxResults <= 0 {
		q.MaxResults = p.config.MaxResults
	}

	log.WithFields(log.Fields{
		"prefix": logPrefix,
		"lat":    q.Location.Latitude,
		"lng":    q.Location.Longitude,
		"radius": q.Radius,
	}).Info("query nearby hospitals")

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{
			Lat: q.Location.Latitude,
			Lng: q.Location.Longitude,
		},
		Radius:  q.Radius,
		Type:    maps.PlaceTypeHospital,
		OpenNow: true,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"error":  err,
		}).Error("nearby search")
		return nil, fmt.Errorf("nearby search: %w", err)
	}

	results := resp.Results
	if len(results) > q.MaxResults {
		results = results[:q.MaxResults]
	}

	facilities := make([]schema.Facility, 0, len(results))
	for _, r := range results {
		facilities = append(facilities, toFacility(r))
	}
	return facilities, nil
}

// toFacility maps a search result. Zero values mean the field was absent in
// the response and become null.
func toFacility(r maps.PlacesSearchResult) schema.Facility {
	f := schema.Facility{
		Name:    utils.NonEmpty(r.Name),
		Address: utils.NonEmpty(r.Vicinity),
		PlaceID: utils.NonEmpty(r.PlaceID),
	}

	if r.Rating > 0 {
		// keep the one-decimal value the service sent instead of the float32 widening
		rating, _ := strconv.ParseFloat(strconv.FormatFloat(float64(r.Rating), 'f', -1, 32), 64)
		f.Rating = &rating
	}
	if r.UserRatingsTotal > 0 {
		f.UserRatingsTotal = utils.Ptr(r.UserRatingsTotal)
	}

	loc := r.Geometry.Location
	if loc.Lat != 0 || loc.Lng != 0 {
		f.Location = &schema.LatLng{Lat: loc.Lat, Lng: loc.Lng}
	}

	if f.PlaceID != nil {
		f.MapsURL = utils.Ptr(mapsPlaceURL + *f.PlaceID)
	}

	if r.OpeningHours != nil && r.OpeningHours.OpenNow != nil {
		f.OpenNow = utils.Ptr(*r.OpeningHours.OpenNow)
	}

	return f
}
