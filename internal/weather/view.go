package weather

import (
	"fmt"
	"math"
)

// NoDataMessage is shown in place of the table when the window is empty.
const NoDataMessage = "no hourly data available"

// CurrentSummary is the rendered current-conditions block.
type CurrentSummary struct {
	Location      string    `json:"location"`
	Time          string    `json:"time"`
	Temperature   float64   `json:"temperature"`
	WindSpeed     float64   `json:"windSpeed"`
	WindDirection int       `json:"windDirection"`
	WeatherCode   int       `json:"weatherCode"`
	Condition     Condition `json:"condition"`
}

// Cell is one table value with its maximum marker.
type Cell struct {
	Value     Reading `json:"value"`
	Highlight bool    `json:"highlight"`
}

// Row is one forecast hour of the table.
type Row struct {
	Time                string  `json:"time"`
	Temperature         Cell    `json:"temperature"`
	ApparentTemperature Cell    `json:"apparentTemperature"`
	Humidity            Cell    `json:"humidity"`
	Precipitation       Cell    `json:"precipitation"`
	WindSpeed           Cell    `json:"windSpeed"`
	UVIndex             Cell    `json:"uvIndex"`
	WeatherCode         Reading `json:"weatherCode"`
}

// Table is the hourly table. NoData is set instead of rendering zero rows.
type Table struct {
	Rows    []Row  `json:"rows"`
	NoData  bool   `json:"noData"`
	Message string `json:"message,omitempty"`
}

// ChartPoint is one (label, temperature) pair of the line chart.
type ChartPoint struct {
	Label       string  `json:"label"`
	Temperature Reading `json:"temperature"`
}

// ChartSeries is the temperature line chart for the window.
type ChartSeries struct {
	Title  string       `json:"title"`
	Points []ChartPoint `json:"points"`
}

// View is everything the presentation layer needs for one render.
type View struct {
	Location Location       `json:"location"`
	Current  CurrentSummary `json:"current"`
	Table    Table          `json:"table"`
	Chart    ChartSeries    `json:"chart"`
	Window   ForecastWindow `json:"window"`
}

// NewView renders the snapshot's current block and the given window.
func NewView(s Snapshot, w ForecastWindow) View {
	hours := w.Hours
	if hours <= 0 {
		hours = WindowHours
	}
	v := View{
		Location: s.Location,
		Current: CurrentSummary{
			Location:      s.Location.Name,
			Time:          s.Current.Time,
			Temperature:   s.Current.Temperature,
			WindSpeed:     s.Current.WindSpeed,
			WindDirection: int(math.Round(s.Current.WindDirection)),
			WeatherCode:   s.Current.WeatherCode,
			Condition:     ConditionFromCode(s.Current.WeatherCode),
		},
		Chart: ChartSeries{
			Title:  fmt.Sprintf("Temp %dh (%s)", hours, s.Location.Name),
			Points: make([]ChartPoint, 0, w.Len()),
		},
		Window: w,
	}

	if w.Empty() {
		v.Table = Table{Rows: []Row{}, NoData: true, Message: NoDataMessage}
		return v
	}

	cell := func(p Parameter, k int) Cell {
		return Cell{Value: w.At(p, k), Highlight: w.IsHighlighted(p, k)}
	}

	v.Table.Rows = make([]Row, 0, w.Len())
	for k, label := range w.Labels {
		v.Table.Rows = append(v.Table.Rows, Row{
			Time:                label,
			Temperature:         cell(Temperature, k),
			ApparentTemperature: cell(ApparentTemperature, k),
			Humidity:            cell(RelativeHumidity, k),
			Precipitation:       cell(Precipitation, k),
			WindSpeed:           cell(WindSpeed, k),
			UVIndex:             cell(UVIndex, k),
			WeatherCode:         w.At(WeatherCode, k),
		})
		v.Chart.Points = append(v.Chart.Points, ChartPoint{
			Label:       label,
			Temperature: w.At(Temperature, k),
		})
	}
	return v
}
