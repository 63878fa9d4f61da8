package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	forecastdash "github.com/maslow-group/forecastdash"
	"github.com/maslow-group/forecastdash/sales"
)

func renderSnapshot(t *testing.T, req forecastdash.Request) *forecastdash.Snapshot {
	t.Helper()
	snap, err := forecastdash.New(nil).Render(req)
	require.NoError(t, err)
	return snap
}

func TestWriteXLSX(t *testing.T) {
	req := forecastdash.NewDefaultRequest()
	req.Horizon = 14
	snap := renderSnapshot(t, req)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, snap))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Revenue_Forecast")
	assert.Contains(t, sheets, "Quantity_Forecast")
	assert.Contains(t, sheets, "Staff_Forecast")
	assert.Contains(t, sheets, "Executive_Summary")
	assert.NotContains(t, sheets, "Sheet1")

	rows, err := f.GetRows("Revenue_Forecast")
	require.NoError(t, err)
	// header + one row per horizon day
	require.Len(t, rows, req.Horizon+1)
	assert.Equal(t, []string{"Date", "Forecast", "Lower", "Upper"}, rows[0])
	firstDate := snap.History.End().AddDate(0, 0, 1).Format("2006-01-02")
	assert.Equal(t, firstDate, rows[1][0])

	summary, err := f.GetRows("Executive_Summary")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 5)
	assert.Equal(t, []string{"Restaurant", "Metric", "Value", "Forecast_Period", "Generated_Date"}, summary[0])
	assert.Equal(t, snap.Profile.Name, summary[1][0])
	assert.Equal(t, "14 days", summary[1][3])
	assert.True(t, strings.HasPrefix(summary[1][2], "€"))
}

func TestWriteXLSXHeuristicOmitsBounds(t *testing.T) {
	req := forecastdash.NewDefaultRequest()
	req.Strategy = forecastdash.StrategyHeuristic
	snap := renderSnapshot(t, req)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, snap))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Revenue_Forecast")
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Forecast"}, rows[0])
}

func TestWriteXLSXNoForecasts(t *testing.T) {
	series, err := sales.New([]sales.Observation{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Revenue: 100, Quantity: 10},
	})
	require.NoError(t, err)

	req := forecastdash.NewDefaultRequest()
	req.Source = forecastdash.SourceUpload
	req.Upload = series
	snap := renderSnapshot(t, req)

	var buf bytes.Buffer
	assert.ErrorIs(t, WriteXLSX(&buf, snap), ErrNoForecasts)
}

func TestWriteJSON(t *testing.T) {
	snap := renderSnapshot(t, forecastdash.NewDefaultRequest())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, snap))
	out := buf.String()
	assert.Contains(t, out, `"forecasts"`)
	assert.Contains(t, out, `"kpis"`)
	assert.Contains(t, out, `"data_quality"`)
}

func TestSheetName(t *testing.T) {
	testData := map[string]struct {
		metric   string
		expected string
	}{
		"revenue":        {metric: "revenue", expected: "Revenue_Forecast"},
		"spaced":         {metric: "side dishes", expected: "Side_dishes_Forecast"},
		"empty":          {metric: "", expected: "Metric_Forecast"},
		"accented":       {metric: "crème brûlée", expected: "Crème_brûlée_Forecast"},
		"reserved chars": {metric: "a/b:c?", expected: "Abc_Forecast"},
		"only reserved":  {metric: "[]", expected: "Metric_Forecast"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, SheetName(td.metric))
		})
	}
}

func TestSheetNameLengthCap(t *testing.T) {
	got := SheetName("assortiment de fromages affinés du moment")
	assert.LessOrEqual(t, len([]rune(got)), 31)
	assert.True(t, strings.HasSuffix(got, "_Forecast"))
}

func TestFilename(t *testing.T) {
	generated := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "maslow_forecast_20240305_1430.xlsx", Filename("maslow", generated))
}
