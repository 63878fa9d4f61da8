package forecastdash

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/maslow-group/forecastdash/forecast"
	"github.com/maslow-group/forecastdash/sales"
)

const dateFormat = "2006-01-02"

// LineForecast renders one metric's history and projection as a line
// chart, with the uncertainty band when the strategy produced one and
// the request asks for it.
func LineForecast(title string, history *sales.Series, metric string, fc *forecast.Series, showBands bool) (*charts.Line, error) {
	y, err := history.Metric(metric)
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
	)

	x := make([]string, 0, history.Len()+fc.Len())
	actual := make([]opts.LineData, 0, history.Len()+fc.Len())
	predicted := make([]opts.LineData, 0, history.Len()+fc.Len())
	for i, d := range history.Dates() {
		x = append(x, d.Format(dateFormat))
		actual = append(actual, opts.LineData{Value: y[i]})
		predicted = append(predicted, opts.LineData{Value: "-"})
	}
	for i, d := range fc.T {
		x = append(x, d.Format(dateFormat))
		actual = append(actual, opts.LineData{Value: "-"})
		predicted = append(predicted, opts.LineData{Value: fc.Value[i]})
	}

	line = line.SetXAxis(x).
		AddSeries("Actual", actual).
		AddSeries("Forecast", predicted)

	if showBands && fc.HasBounds() {
		upper := make([]opts.LineData, 0, len(x))
		lower := make([]opts.LineData, 0, len(x))
		for range history.Dates() {
			upper = append(upper, opts.LineData{Value: "-"})
			lower = append(lower, opts.LineData{Value: "-"})
		}
		for i := range fc.T {
			upper = append(upper, opts.LineData{Value: fc.Upper[i]})
			lower = append(lower, opts.LineData{Value: fc.Lower[i]})
		}
		line = line.AddSeries("Upper", upper).AddSeries("Lower", lower)
	}
	return line, nil
}

// LineComponents renders the fitted trend and seasonality of a
// decomposed forecast.
func LineComponents(title string, fc *forecast.Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	x := make([]string, 0, fc.Len())
	trend := make([]opts.LineData, 0, fc.Len())
	seasonality := make([]opts.LineData, 0, fc.Len())
	for i, d := range fc.T {
		x = append(x, d.Format(dateFormat))
		if i < len(fc.Trend) {
			trend = append(trend, opts.LineData{Value: fc.Trend[i]})
		}
		if i < len(fc.Seasonality) {
			seasonality = append(seasonality, opts.LineData{Value: fc.Seasonality[i]})
		}
	}

	return line.SetXAxis(x).
		AddSeries("Trend", trend).
		AddSeries("Seasonality", seasonality)
}

// BarComparison renders the multi-restaurant baseline comparison, one
// bar per brand in its primary color.
func BarComparison(title string, rows []ComparisonRow, value func(ComparisonRow) float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	names := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
		data = append(data, opts.BarData{
			Value:     value(row),
			ItemStyle: &opts.ItemStyle{Color: row.Color},
		})
	}
	return bar.SetXAxis(names).AddSeries("Brands", data)
}

// WritePage assembles the snapshot's charts for its view mode into a
// single echarts page and renders it as HTML.
func (s *Snapshot) WritePage(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s - Forecast Dashboard", s.Profile.Name)

	addMetric := func(metric, title string) error {
		fc := s.Forecasts[metric]
		if fc == nil {
			return nil
		}
		line, err := LineForecast(title, s.History, metric, fc, s.Request.ShowBands)
		if err != nil {
			return err
		}
		page.AddCharts(line)
		if s.Request.ShowComponents && len(fc.Trend) > 0 {
			page.AddCharts(LineComponents(title+" Components", fc))
		}
		return nil
	}

	switch s.Request.View {
	case ViewRevenue:
		if err := addMetric(sales.MetricRevenue, "Revenue Deep Dive - "+s.Profile.Name); err != nil {
			return err
		}
	case ViewQuantity:
		if err := addMetric(sales.MetricQuantity, "Quantity Deep Dive - "+s.Profile.Name); err != nil {
			return err
		}
	case ViewComparison:
		if err := addMetric(sales.MetricRevenue, "Revenue - "+s.Profile.Name); err != nil {
			return err
		}
		if err := addMetric(sales.MetricQuantity, "Quantity - "+s.Profile.Name); err != nil {
			return err
		}
	case ViewMultiRestaurant:
		rows := s.Comparison
		if len(rows) == 0 {
			rows = CompareBrands()
		}
		page.AddCharts(
			BarComparison("Average Daily Revenue", rows, func(r ComparisonRow) float64 { return r.AvgRevenue }),
			BarComparison("Average Daily Quantity", rows, func(r ComparisonRow) float64 { return r.AvgQuantity }),
			BarComparison("Average Order Value", rows, func(r ComparisonRow) float64 { return r.AOV }),
		)
	default: // combined
		if err := addMetric(sales.MetricRevenue, "Revenue Forecast - "+s.Profile.Name); err != nil {
			return err
		}
		if err := addMetric(sales.MetricQuantity, "Quantity Forecast - "+s.Profile.Name); err != nil {
			return err
		}
		for _, product := range s.History.Products {
			if err := addMetric(product, fmt.Sprintf("%s Forecast - %s", product, s.Profile.Name)); err != nil {
				return err
			}
		}
	}

	return page.Render(w)
}
