package bencheval

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OverflowThreshold separates valid cycle counts from counter-wraparound
// artifacts. An earlier bug in the benchmark script let the counter overflow
// regularly; samples with a larger magnitude are dropped before any
// statistic is computed.
const OverflowThreshold = 10_000_000_000

// SampleColumns is one cycle-count CSV split into per-column sample sets.
type SampleColumns struct {
	Names   []string
	Samples [][]float64
}

// ReadSampleColumns reads a cycle-count CSV into per-column sample sets,
// silently dropping overflowed values.
//
// Malformed numeric fields and ragged rows are fatal: a partially read file
// never contributes to the output.
func ReadSampleColumns(path string) (SampleColumns, error) {
	f, err := os.Open(path)
	if err != nil {
		return SampleColumns{}, fmt.Errorf("open samples: %w", err)
	}

	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return SampleColumns{}, fmt.Errorf("read header of %s: %w", path, err)
	}

	columns := SampleColumns{
		Names:   header,
		Samples: make([][]float64, len(header)),
	}

	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return SampleColumns{}, fmt.Errorf("read row of %s: %w", path, readErr)
		}

		for i, field := range row {
			value, parseErr := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
			if parseErr != nil {
				return SampleColumns{}, fmt.Errorf("parse %q in %s: %w", field, path, parseErr)
			}

			if value > OverflowThreshold || value < -OverflowThreshold {
				continue
			}

			columns.Samples[i] = append(columns.Samples[i], float64(value))
		}
	}

	return columns, nil
}
