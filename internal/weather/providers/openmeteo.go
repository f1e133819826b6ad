package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/hourly-weather/internal/weather"
)

// DefaultOpenMeteoURL is the public forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoConfig configures the Open-Meteo provider.
type OpenMeteoConfig struct {
	BaseURL  string
	Timezone string
	Backoff  BackoffConfig
}

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	timezone string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	logger   *zap.SugaredLogger
}

func NewOpenMeteoProvider(client *http.Client, cfg OpenMeteoConfig, logger *zap.SugaredLogger) *OpenMeteoProvider {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenMeteoURL
	}
	if cfg.Backoff.InitialInterval <= 0 {
		cfg.Backoff.InitialInterval = 500 * time.Millisecond
	}
	if cfg.Backoff.MaxInterval <= 0 {
		cfg.Backoff.MaxInterval = 5 * time.Second
	}

	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  cfg.BaseURL,
		timezone: cfg.Timezone,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: cfg.Backoff,
		},
		circuit: newCircuitBreaker("openmeteo", logger),
		logger:  logger,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.baseURL, p.query(loc).Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, p.logger, buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	bundle, err := payload.bundle()
	if err != nil {
		return weather.Snapshot{}, err
	}
	if bundle.Len() == 0 {
		return weather.Snapshot{}, weather.ErrEmptySeries
	}

	tz := payload.Timezone
	if tz == "" {
		tz = p.timezone
	}

	return weather.Snapshot{
		Location:  loc,
		Current:   payload.CurrentWeather,
		Hourly:    bundle,
		Timezone:  tz,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (p *OpenMeteoProvider) query(loc weather.Location) url.Values {
	hourly := make([]string, 0, len(weather.HourlyParameters))
	for _, param := range weather.HourlyParameters {
		hourly = append(hourly, string(param))
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	values.Set("current_weather", "true")
	values.Set("hourly", strings.Join(hourly, ","))
	if p.timezone != "" {
		values.Set("timezone", p.timezone)
	}
	return values
}

type forecastPayload struct {
	Timezone       string                     `json:"timezone"`
	CurrentWeather weather.CurrentObservation `json:"current_weather"`
	Hourly         map[string]json.RawMessage `json:"hourly"`
}

// bundle decodes the hourly block. A requested series the response leaves out
// is treated as entirely absent rather than as zeros.
func (f forecastPayload) bundle() (weather.TimeSeriesBundle, error) {
	var times []string
	if raw, ok := f.Hourly["time"]; ok {
		if err := json.Unmarshal(raw, &times); err != nil {
			return weather.TimeSeriesBundle{}, fmt.Errorf("decode hourly.time: %w", err)
		}
	}

	params := make(map[weather.Parameter][]weather.Reading, len(weather.HourlyParameters))
	for _, param := range weather.HourlyParameters {
		raw, ok := f.Hourly[string(param)]
		if !ok {
			params[param] = make([]weather.Reading, len(times))
			continue
		}
		var series []weather.Reading
		if err := json.Unmarshal(raw, &series); err != nil {
			return weather.TimeSeriesBundle{}, fmt.Errorf("decode hourly.%s: %w", param, err)
		}
		if series == nil {
			series = make([]weather.Reading, len(times))
		}
		params[param] = series
	}

	return weather.NewBundle(times, params)
}
