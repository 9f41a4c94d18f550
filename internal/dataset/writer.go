// Package dataset persists sampled trajectories as delimited text for
// downstream fitting and learning tools.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/balsimlab/balsim/internal/flight"
)

// precision is the fixed-point precision of every column.
const precision = 3

// Write emits one row per sample as "t,x,y" with three decimal places
// and no header row.
func Write(w io.Writer, samples []flight.Sample) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	row := make([]string, 3)
	for _, s := range samples {
		row[0] = strconv.FormatFloat(s.T, 'f', precision, 64)
		row[1] = strconv.FormatFloat(s.X, 'f', precision, 64)
		row[2] = strconv.FormatFloat(s.Y, 'f', precision, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the samples to path, creating or truncating it.
func WriteFile(path string, samples []flight.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
