package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"

	"github.com/bitmark-inc/medassist-api/consts"
	"github.com/bitmark-inc/medassist-api/schema"
	"github.com/bitmark-inc/medassist-api/utils"
)

const logPrefix = "geo"

var (
	ErrNoGeoInfoFound = fmt.Errorf("no geo information found")
	ErrNoCoordinates  = fmt.Errorf("no coordinates to resolve")
)

// Place is what is known about where the user is.
type Place struct {
	Location *schema.Location
	Address  string
	City     string
	Country  string
}

// Complete reports whether both city and country are known.
func (p Place) Complete() bool {
	return p.City != "" && p.Country != ""
}

// PlaceFromUser collects the place a user supplied with the request.
func PlaceFromUser(u *schema.UserContext) Place {
	var p Place
	if u == nil {
		return p
	}
	if loc, ok := u.Coordinates(); ok {
		p.Location = &loc
	}
	p.Address = strings.TrimSpace(utils.Value(u.Address))
	p.City = strings.TrimSpace(utils.Value(u.City))
	p.Country = strings.TrimSpace(utils.Value(u.Country))
	return p
}

// LocationResolver - interface for resolving city and country of a place
type LocationResolver interface {
	GetPoliticalInfo(context.Context, Place) (Place, error)
}

type MultipleResolverErrors struct {
	errors []error
}

func (e *MultipleResolverErrors) Error() string {
	errorStrings := make([]string, len(e.errors))
	for i, err := range e.errors {
		errorStrings[i] = fmt.Sprintf("#%d: %s", i, err.Error())
	}
	return strings.Join(errorStrings, "\n")
}

func NewMultipleResolverErrors(errors []error) *MultipleResolverErrors {
	return &MultipleResolverErrors{
		errors: errors,
	}
}

// MapsProvider returns a ready maps client.
type MapsProvider interface {
	Maps() (*maps.Client, error)
}

type GeocodingLocationResolver struct {
	provider MapsProvider
	timeout  time.Duration
}

func NewGeocodingLocationResolver(provider MapsProvider) *GeocodingLocationResolver {
	return &GeocodingLocationResolver{
		provider: provider,
		timeout:  5 * time.Second,
	}
}

// GetPoliticalInfo fills the blanks of p by reverse geocoding its coordinates.
// Values supplied by the user are never replaced.
func (g *GeocodingLocationResolver) GetPoliticalInfo(ctx context.Context, p Place) (Place, error) {
	if p.Complete() {
		return p, nil
	}
	if p.Location == nil {
		return p, ErrNoCoordinates
	}

	client, err := g.provider.Maps()
	if err != nil {
		return p, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	geos, err := client.Geocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{
			Lat: p.Location.Latitude,
			Lng: p.Location.Longitude,
		},
		Language: "en",
	})
	if nil != err {
		return p, err
	}

	if len(geos) == 0 {
		return p, ErrNoGeoInfoFound
	}

	var locality, level1, country string
	for _, a := range geos[0].AddressComponents {
		if len(a.Types) > 0 {
			switch a.Types[0] {
			case "locality", "postal_town":
				if locality == "" {
					locality = a.LongName
				}
			case "administrative_area_level_1":
				level1 = a.LongName
			case "country":
				country = a.LongName
			}
		}
	}

	if locality == "" {
		locality = level1
	}
	if p.City == "" {
		p.City = locality
	}
	if p.Country == "" {
		p.Country = country
	}
	if p.Address == "" {
		p.Address = geos[0].FormattedAddress
	}

	return p, nil
}

// DefaultLocationResolver fills whatever is still missing with process wide
// defaults. It never fails.
type DefaultLocationResolver struct {
	city    string
	country string
}

func NewDefaultLocationResolver(city, country string) *DefaultLocationResolver {
	city = strings.TrimSpace(city)
	if city == "" {
		city = consts.UnknownLocation
	}
	country = strings.TrimSpace(country)
	if country == "" {
		country = consts.UnknownLocation
	}
	return &DefaultLocationResolver{city: city, country: country}
}

// GetPoliticalInfo substitutes both defaults unless the place is already
// complete, so a city is never paired with a default country.
func (d *DefaultLocationResolver) GetPoliticalInfo(_ context.Context, p Place) (Place, error) {
	if p.Complete() {
		return p, nil
	}
	p.City = d.city
	p.Country = d.country
	return p, nil
}

// MultipleLocationResolver passes a place through every resolver in order.
// A failing resolver is skipped and the place it received moves on.
type MultipleLocationResolver struct {
	resolvers []LocationResolver
}

func NewMultipleLocationResolver(resolvers ...LocationResolver) *MultipleLocationResolver {
	return &MultipleLocationResolver{
		resolvers: resolvers,
	}
}

func (r *MultipleLocationResolver) GetPoliticalInfo(ctx context.Context, p Place) (Place, error) {
	var errors []error
	for _, resolver := range r.resolvers {
		if p.Complete() {
			return p, nil
		}

		result, err := resolver.GetPoliticalInfo(ctx, p)
		if err != nil {
			log.WithFields(log.Fields{
				"prefix": logPrefix,
				"error":  err,
			}).Debug("location resolver skipped")
			errors = append(errors, err)
			continue
		}
		p = result
	}

	if !p.Complete() && len(errors) > 0 {
		return p, NewMultipleResolverErrors(errors)
	}
	return p, nil
}
