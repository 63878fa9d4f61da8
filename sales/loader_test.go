package sales

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSVMissingColumns(t *testing.T) {
	testData := map[string]struct {
		csv     string
		missing []string
	}{
		"no revenue": {
			csv:     "Date,Quantity_Sold\n2024-01-01,10\n",
			missing: []string{"revenue"},
		},
		"no quantity": {
			csv:     "Date,Revenue\n2024-01-01,100\n",
			missing: []string{"quantity"},
		},
		"no date": {
			csv:     "Revenue,Quantity_Sold\n100,10\n",
			missing: []string{"date"},
		},
		"only notes": {
			csv:     "Notes\nhello\n",
			missing: []string{"date", "revenue", "quantity"},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(td.csv))
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, td.missing, ve.Missing)
			for _, col := range td.missing {
				assert.Contains(t, err.Error(), col)
			}
		})
	}
}

func TestLoadCSVBadDate(t *testing.T) {
	csv := "Date,Revenue,Quantity_Sold\n2024-01-01,100,10\nnot-a-date,200,20\n"
	_, err := LoadCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadDate)
	// no partial acceptance
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadCSV(t *testing.T) {
	csv := strings.Join([]string{
		"Date,Revenue,Quantity_Sold,Staff,Plates,Drinks,Comment",
		"2024-01-02,1200.50,180,8,130,40,busy",
		"2024-01-01,1000,150,7,110,35,",
		"2024-01-02,100,20,0,10,5,late covers",
	}, "\n")

	s, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.True(t, s.HasStaff)
	assert.Equal(t, []string{"drinks", "plates"}, s.Products)

	first := s.Observations[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.InDelta(t, 1000, first.Revenue, 1e-9)

	// same-day rows are summed
	second := s.Observations[1]
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), second.Date)
	assert.InDelta(t, 1300.50, second.Revenue, 1e-9)
	assert.InDelta(t, 200, second.Quantity, 1e-9)
	assert.InDelta(t, 140, second.Products["plates"], 1e-9)

	// non-numeric extra column ignored
	assert.NotContains(t, s.Products, "comment")
}

func TestLoadCSVAliases(t *testing.T) {
	csv := "day,sales,customers\n2024-01-01,500,60\n2024-01-02,600,70\n"
	s, err := LoadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.HasStaff)
	assert.Empty(t, s.Products)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Date", "Revenue", "Quantity_Sold"},
		{"2024-01-01", 1000.0, 150.0},
		{"2024-01-02", 1100.0, 160.0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	s, err := LoadXLSX(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.InDelta(t, 1000, s.Observations[0].Revenue, 1e-9)
}

func TestSeriesMetrics(t *testing.T) {
	s, err := New([]Observation{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Revenue: 100, Quantity: 10},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Revenue: 300, Quantity: 30},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{MetricRevenue, MetricQuantity}, s.MetricNames())

	total, err := s.Total(MetricRevenue)
	require.NoError(t, err)
	assert.InDelta(t, 400, total, 1e-9)

	mean, err := s.Mean(MetricQuantity)
	require.NoError(t, err)
	assert.InDelta(t, 20, mean, 1e-9)

	_, err = s.Metric("staff")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	_, err = s.Metric("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestSeriesBucketsByCalendarDay(t *testing.T) {
	// 01:00 in UTC+2 is 23:00 UTC the previous day; the record still
	// belongs to March 10th
	paris := time.FixedZone("UTC+2", 2*3600)
	s, err := New([]Observation{
		{Date: time.Date(2024, 3, 10, 1, 0, 0, 0, paris), Revenue: 400, Quantity: 40},
		{Date: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), Revenue: 600, Quantity: 60},
	})
	require.NoError(t, err)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), s.Observations[0].Date)
	assert.InDelta(t, 1000, s.Observations[0].Revenue, 1e-9)
	assert.InDelta(t, 100, s.Observations[0].Quantity, 1e-9)
}
