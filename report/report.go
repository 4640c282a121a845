// Package report renders route datasets for people: flat table rows and an
// HTML page of charts.
package report

import (
	"fmt"
	"io"

	"route-weather/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const dateLayout = "2006-01-02"

// Row is one city-day of a route dataset
type Row struct {
	City          string  `json:"city"`
	Date          string  `json:"date"`
	TempMax       float64 `json:"tempMax"`
	TempMin       float64 `json:"tempMin"`
	WindDay       float64 `json:"windDay"`
	WindNight     float64 `json:"windNight"`
	Precipitation bool    `json:"precipitation"`
	Verdict       string  `json:"verdict"`
	Bad           bool    `json:"bad"`
}

// Rows flattens a dataset in route order, then day order
func Rows(ds *models.RouteDataset) []Row {
	if ds == nil {
		return nil
	}

	var rows []Row
	for _, city := range ds.Cities {
		days := ds.Forecasts[city.Name]
		verdicts := ds.Verdicts[city.Name]
		for i, d := range days {
			verdict := models.Verdict{Kind: models.InsufficientData}
			if i < len(verdicts) {
				verdict = verdicts[i]
			}
			rows = append(rows, Row{
				City:          city.Name,
				Date:          d.Date.Format(dateLayout),
				TempMax:       d.TemperatureMax,
				TempMin:       d.TemperatureMin,
				WindDay:       d.WindSpeedDay,
				WindNight:     d.WindSpeedNight,
				Precipitation: d.HasPrecipitationDay || d.HasPrecipitationNight,
				Verdict:       verdict.Message(),
				Bad:           verdict.IsBad(),
			})
		}
	}
	return rows
}

// cityChart plots temperature and wind for one city
func cityChart(name string, days []models.ForecastDay) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: "Temperature (°C) and wind (km/h)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	dates := make([]string, len(days))
	tmax := make([]opts.LineData, len(days))
	tmin := make([]opts.LineData, len(days))
	windDay := make([]opts.LineData, len(days))
	windNight := make([]opts.LineData, len(days))
	for i, d := range days {
		dates[i] = d.Date.Format(dateLayout)
		tmax[i] = opts.LineData{Value: d.TemperatureMax}
		tmin[i] = opts.LineData{Value: d.TemperatureMin}
		windDay[i] = opts.LineData{Value: d.WindSpeedDay}
		windNight[i] = opts.LineData{Value: d.WindSpeedNight}
	}

	line.SetXAxis(dates).
		AddSeries("Max temperature", tmax).
		AddSeries("Min temperature", tmin).
		AddSeries("Wind (day)", windDay).
		AddSeries("Wind (night)", windNight)
	return line
}

// routeMap places every city and the route centroid on a world map
func routeMap(ds *models.RouteDataset) *charts.Geo {
	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Route"}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
	)

	points := make([]opts.GeoData, len(ds.Cities))
	for i, c := range ds.Cities {
		points[i] = opts.GeoData{
			Name:  c.Name,
			Value: []float64{c.Coordinates.Longitude, c.Coordinates.Latitude},
		}
	}
	centroid := []opts.GeoData{{
		Name:  "Centroid",
		Value: []float64{ds.Centroid.Longitude, ds.Centroid.Latitude},
	}}

	geo.AddSeries("Cities", types.ChartScatter, points,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}"}),
	)
	geo.AddSeries("Centroid", types.ChartEffectScatter, centroid)
	return geo
}

// Render writes an HTML page with the route map and one chart per city
func Render(w io.Writer, ds *models.RouteDataset) error {
	if ds == nil {
		return fmt.Errorf("no dataset to render")
	}

	page := components.NewPage()
	page.PageTitle = "Route weather"
	page.AddCharts(routeMap(ds))
	for _, city := range ds.Cities {
		page.AddCharts(cityChart(city.Name, ds.Forecasts[city.Name]))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
