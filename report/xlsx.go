// Package report turns a dashboard snapshot into exportable documents:
// an Excel workbook with one sheet per forecasted metric plus an
// executive summary, and a JSON encoding of the snapshot itself.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	forecastdash "github.com/maslow-group/forecastdash"
	"github.com/maslow-group/forecastdash/forecast"
	"github.com/maslow-group/forecastdash/sales"
)

var ErrNoForecasts = errors.New("snapshot has no forecasts to export")

const (
	summarySheet = "Executive_Summary"
	dateFormat   = "2006-01-02"
	stampFormat  = "2006-01-02 15:04:05"
)

// WriteXLSX writes the forecast workbook: a sheet per metric with
// date/value columns (lower/upper added when the strategy produced a
// band) and a summary sheet with the restaurant, horizon totals and
// averages, and generation timestamp.
func WriteXLSX(w io.Writer, snap *forecastdash.Snapshot) error {
	if len(snap.Forecasts) == 0 {
		return ErrNoForecasts
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	metricNames := make([]string, 0, len(snap.Forecasts))
	for name := range snap.Forecasts {
		metricNames = append(metricNames, name)
	}
	sort.Strings(metricNames)

	for _, name := range metricNames {
		if err := writeForecastSheet(f, name, snap.Forecasts[name]); err != nil {
			return err
		}
	}
	if err := writeSummarySheet(f, snap); err != nil {
		return err
	}

	// drop the default sheet excelize creates
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet, %w", err)
	}

	return f.Write(w)
}

// Excel rejects sheet names longer than 31 characters or containing
// \ / ? * [ ] :
const maxSheetName = 31

// SheetName returns the workbook sheet name used for a metric,
// sanitized so arbitrary product column names cannot break the export.
func SheetName(metric string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '?', '*', '[', ']', ':':
			return -1
		case ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(metric))
	if name == "" {
		name = "Metric"
	}

	first, size := utf8.DecodeRuneInString(name)
	name = string(unicode.ToUpper(first)) + name[size:]

	const suffix = "_Forecast"
	if runes := []rune(name); len(runes) > maxSheetName-len(suffix) {
		name = string(runes[:maxSheetName-len(suffix)])
	}
	return name + suffix
}

func writeForecastSheet(f *excelize.File, metric string, fc *forecast.Series) error {
	sheet := SheetName(metric)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %q, %w", sheet, err)
	}

	header := []any{"Date", "Forecast"}
	if fc.HasBounds() {
		header = append(header, "Lower", "Upper")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := range fc.T {
		row := []any{fc.T[i].Format(dateFormat), fc.Value[i]}
		if fc.HasBounds() {
			row = append(row, fc.Lower[i], fc.Upper[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, snap *forecastdash.Snapshot) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet, %w", err)
	}

	horizon := snap.Request.Horizon
	generated := snap.GeneratedAt.Format(stampFormat)
	period := fmt.Sprintf("%d days", horizon)

	rows := [][]any{
		{"Restaurant", "Metric", "Value", "Forecast_Period", "Generated_Date"},
	}
	addRow := func(metric string, value string) {
		rows = append(rows, []any{snap.Profile.Name, metric, value, period, generated})
	}

	if rev := snap.Forecast(sales.MetricRevenue); rev != nil {
		addRow("Total_Revenue_Forecast", fmt.Sprintf("€%.2f", rev.Total()))
		addRow("Avg_Daily_Revenue", fmt.Sprintf("€%.2f", rev.Mean()))
	}
	if qty := snap.Forecast(sales.MetricQuantity); qty != nil {
		addRow("Total_Quantity_Forecast", fmt.Sprintf("%.0f", qty.Total()))
		addRow("Avg_Daily_Quantity", fmt.Sprintf("%.0f", qty.Mean()))
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// Filename builds the export's download name from the brand key and
// generation time.
func Filename(profileKey string, generated time.Time) string {
	return fmt.Sprintf("%s_forecast_%s.xlsx", profileKey, generated.Format("20060102_1504"))
}
