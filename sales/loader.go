package sales

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile    = errors.New("file has no data rows")
	ErrBadDate      = errors.New("unparseable date")
	ErrBadNumber    = errors.New("unparseable numeric value")
	ErrNoWorksheet  = errors.New("no worksheet found")
	ErrHeaderSparse = errors.New("header row is empty")
)

// ValidationError reports the required columns missing from an upload.
// The load is rejected as a whole; no partial series is produced.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// column name aliases accepted for the required fields, checked in
// order after header normalization
var (
	dateAliases     = []string{"date", "day"}
	revenueAliases  = []string{"revenue", "sales", "amount"}
	quantityAliases = []string{"quantity", "quantity_sold", "qty", "customers", "covers"}
	staffAliases    = []string{"staff", "staff_count"}
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"01-02-2006",
	"Jan 2, 2006",
}

// LoadCSV parses a delimited upload into a Series. Required columns are
// date, revenue, and a quantity-like count; a missing one fails the
// load with a ValidationError naming it. Extra numeric columns become
// named product metrics.
func LoadCSV(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv, %w", err)
	}
	return fromRows(rows)
}

// LoadXLSX parses the first worksheet of a spreadsheet upload with the
// same column contract as LoadCSV.
func LoadXLSX(r io.Reader) (*Series, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook, %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoWorksheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q, %w", sheet, err)
	}
	return fromRows(rows)
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return h
}

func findColumn(index map[string]int, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if i, ok := index[alias]; ok {
			return i, true
		}
	}
	return -1, false
}

func fromRows(rows [][]string) (*Series, error) {
	if len(rows) < 2 {
		return nil, ErrEmptyFile
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, h := range header {
		if name := normalizeHeader(h); name != "" {
			index[name] = i
		}
	}
	if len(index) == 0 {
		return nil, ErrHeaderSparse
	}

	dateIdx, hasDate := findColumn(index, dateAliases)
	revIdx, hasRevenue := findColumn(index, revenueAliases)
	qtyIdx, hasQuantity := findColumn(index, quantityAliases)

	var missing []string
	if !hasDate {
		missing = append(missing, "date")
	}
	if !hasRevenue {
		missing = append(missing, "revenue")
	}
	if !hasQuantity {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	staffIdx, hasStaff := findColumn(index, staffAliases)

	// every remaining numeric column is a named product quantity
	known := map[int]struct{}{dateIdx: {}, revIdx: {}, qtyIdx: {}}
	if hasStaff {
		known[staffIdx] = struct{}{}
	}
	type productCol struct {
		name string
		idx  int
	}
	var productCols []productCol
	for name, i := range index {
		if _, ok := known[i]; ok {
			continue
		}
		productCols = append(productCols, productCol{name: name, idx: i})
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	obs := make([]Observation, 0, len(rows)-1)
	for n, row := range rows[1:] {
		empty := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		date, err := parseDate(cell(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		revenue, err := parseNumber(cell(row, revIdx), "revenue")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		quantity, err := parseNumber(cell(row, qtyIdx), "quantity")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		o := Observation{Date: date, Revenue: revenue, Quantity: quantity}
		if hasStaff {
			if raw := cell(row, staffIdx); raw != "" {
				staff, err := parseNumber(raw, "staff")
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", n+2, err)
				}
				o.Staff = staff
			}
		}
		for _, pc := range productCols {
			raw := cell(row, pc.idx)
			if raw == "" {
				continue
			}
			qty, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				// non-numeric extra columns (notes, labels) are ignored
				continue
			}
			if o.Products == nil {
				o.Products = make(map[string]float64)
			}
			o.Products[pc.name] = qty
		}
		obs = append(obs, o)
	}

	if len(obs) == 0 {
		return nil, ErrEmptyFile
	}
	return New(obs)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date, %w", ErrBadDate)
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", raw, ErrBadDate)
}

func parseNumber(raw, column string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty %s, %w", column, ErrBadNumber)
	}
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "€"), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q, %w", column, raw, ErrBadNumber)
	}
	return v, nil
}
