package weather

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// Parameter names an hourly series. Values match the Open-Meteo request names.
type Parameter string

const (
	Temperature         Parameter = "temperature_2m"
	ApparentTemperature Parameter = "apparent_temperature"
	RelativeHumidity    Parameter = "relative_humidity_2m"
	Precipitation       Parameter = "precipitation"
	WindSpeed           Parameter = "windspeed_10m"
	WindDirection       Parameter = "winddirection_10m"
	UVIndex             Parameter = "uv_index"
	WeatherCode         Parameter = "weathercode"
)

// HourlyParameters is the list of series requested from the provider.
var HourlyParameters = []Parameter{
	Temperature,
	ApparentTemperature,
	RelativeHumidity,
	Precipitation,
	WindSpeed,
	WindDirection,
	UVIndex,
	WeatherCode,
}

// HighlightedParameters are the table columns that get a maximum marker.
var HighlightedParameters = []Parameter{
	Temperature,
	ApparentTemperature,
	RelativeHumidity,
	Precipitation,
	WindSpeed,
	UVIndex,
}

// Location is one of the preset places the dashboard can show.
type Location struct {
	ID        string  `json:"key"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns the preset key used for lookups and store indexing.
func (l Location) Key() string {
	return l.ID
}

// Presets is the fixed location table, keyed by preset key.
type Presets map[string]Location

// DefaultPresets mirrors the locations the dashboard shipped with.
func DefaultPresets() Presets {
	return Presets{
		"almassora": {ID: "almassora", Name: "Almassora", Latitude: 39.95, Longitude: -0.05},
		"castellon": {ID: "castellon", Name: "Castellón de la Plana", Latitude: 39.986, Longitude: -0.051},
		"vinaros":   {ID: "vinaros", Name: "Vinaròs", Latitude: 40.471, Longitude: 0.475},
	}
}

// Lookup returns the preset for key.
func (p Presets) Lookup(key string) (Location, bool) {
	loc, ok := p[key]
	return loc, ok
}

// Keys returns the preset keys in ascending order.
func (p Presets) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns the presets ordered by key.
func (p Presets) List() []Location {
	out := make([]Location, 0, len(p))
	for _, k := range p.Keys() {
		out = append(out, p[k])
	}
	return out
}

// CurrentObservation is the provider's current_weather block.
type CurrentObservation struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
}

// Snapshot is the result of one fetch for one location.
type Snapshot struct {
	Location  Location           `json:"location"`
	Current   CurrentObservation `json:"current"`
	Hourly    TimeSeriesBundle   `json:"hourly"`
	Timezone  string             `json:"timezone"`
	FetchedAt time.Time          `json:"fetchedAt"` // always UTC
}

// Reading is an hourly value that may be missing from the provider response.
type Reading struct {
	Value   float64
	Present bool
}

// Value returns a present reading.
func Value(v float64) Reading {
	return Reading{Value: v, Present: true}
}

// Absent is the missing reading.
var Absent = Reading{}

// MarshalJSON encodes an absent reading as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Present {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON decodes null as an absent reading.
func (r *Reading) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Absent
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Value(v)
	return nil
}
