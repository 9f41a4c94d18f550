package storage

import (
	"encoding/json"
	"io"

	"github.com/balsimlab/balsim/internal/dynamo"
)

type ExportData struct {
	Meta    RunMetadata `json:"meta"`
	Times   []float64   `json:"times"`
	States  [][]float64 `json:"states"`
	Columns []string    `json:"columns"`
}

// ExportJSON writes a stored run as a single indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, states []dynamo.State, times []float64) error {
	data := ExportData{
		Meta:    meta,
		Times:   times,
		States:  make([][]float64, len(states)),
		Columns: []string{"x", "vx", "y", "vy"},
	}
	for i, s := range states {
		data.States[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
