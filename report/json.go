package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	forecastdash "github.com/maslow-group/forecastdash"
)

// WriteJSON encodes the snapshot for the API surface.
func WriteJSON(w io.Writer, snap *forecastdash.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot, %w", err)
	}
	return nil
}
