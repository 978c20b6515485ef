package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/medassist-api/consts"
	"github.com/bitmark-inc/medassist-api/external"
	"github.com/bitmark-inc/medassist-api/external/upstream"
	"github.com/bitmark-inc/medassist-api/schema"
)

const (
	logPrefix  = "openweather"
	defaultURL = "https://api.openweathermap.org/data/2.5/weather"

	// APIKeySetting is the setting named in configuration errors.
	APIKeySetting = "OPENWEATHER_API_KEY"
)

// OpenWeather - interface to query current conditions
type OpenWeather interface {
	CurrentWeather(ctx context.Context, loc schema.Location) (*schema.Weather, error)
	Configured() bool
}

type openWeather struct {
	token   string
	url     string
	timeout time.Duration
	client  *http.Client
}

type condition struct {
	Main        *string `json:"main"`
	Description *string `json:"description"`
}

type jsonResponse struct {
	Weather []condition `json:"weather"`
	Main    struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

func (o openWeather) Configured() bool {
	return o.token != ""
}

func (o openWeather) CurrentWeather(ctx context.Context, loc schema.Location) (*schema.Weather, error) {
	if o.token == "" {
		return nil, &external.MissingSettingError{Setting: APIKeySetting}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	params.Set("appid", o.token)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"lat":    loc.Latitude,
			"lng":    loc.Longitude,
			"error":  err,
		}).Warn("query current weather")
		return nil, err
	}
	defer resp.Body.Close()

	var r jsonResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	return r.summary(), nil
}

// summary keeps the curated subset, reading the first condition entry only.
func (r jsonResponse) summary() *schema.Weather {
	w := &schema.Weather{
		TempC:       r.Main.Temp,
		FeelsLikeC:  r.Main.FeelsLike,
		HumidityPct: r.Main.Humidity,
		WindMps:     r.Wind.Speed,
	}
	if len(r.Weather) > 0 {
		w.Summary = r.Weather[0].Main
		w.Description = r.Weather[0].Description
	}
	return w
}

// New - new OpenWeather client; an empty url selects the public endpoint
func New(token string, url string, timeout time.Duration) OpenWeather {
	u := defaultURL
	if url != "" {
		u = url
	}
	if timeout == 0 {
		timeout = consts.UpstreamTimeout
	}

	return &openWeather{
		token:   token,
		url:     u,
		timeout: timeout,
		client:  upstream.NewClient("openweather", timeout, upstream.RejectNon2xx()),
	}
}
