package bencheval

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// NoopColumn is the baseline column whose median is subtracted from every
// sample to produce the adjusted statistics. It cancels the fixed
// measurement overhead shared by all benchmark columns of a file.
const NoopColumn = "noop"

// StatRow is one output row of the statistics pipeline.
type StatRow struct {
	CPU        string
	Mitigation string
	Kernel     string
	Benchmark  string
	Adjusted   bool
	Stats      Stats
}

// cycleStatsHeader is the fixed column order of cycle_stats.csv.
var cycleStatsHeader = []string{
	"CPU", "mitigation", "kernel", "benchmark", "adjusted", "mean", "median",
	"p1", "p25", "p50", "p75", "p99", "std", "iqr", "min", "max",
}

// CollectCycleStats walks results/<cpu>/<mitigation>/cycles-<kernel>.csv and
// computes raw and noop-adjusted statistics for every benchmark column.
func CollectCycleStats(resultsDir string) ([]StatRow, error) {
	cpus, err := ScanDirs(resultsDir)
	if err != nil {
		return nil, err
	}

	var rows []StatRow

	for _, cpu := range cpus {
		mitigations, err := ScanDirs(cpu.Path)
		if err != nil {
			return nil, err
		}

		for _, mitigation := range mitigations {
			kernels, err := ScanCycleFiles(mitigation.Path)
			if err != nil {
				return nil, err
			}

			for _, kernel := range kernels {
				fileRows, statErr := fileStats(kernel.Path)
				if statErr != nil {
					return nil, fmt.Errorf("stats for %s: %w", kernel.Path, statErr)
				}

				for _, row := range fileRows {
					row.CPU = cpu.Name
					row.Mitigation = mitigation.Name
					row.Kernel = kernel.Name
					rows = append(rows, row)
				}
			}
		}
	}

	return rows, nil
}

// fileStats computes the raw rows for one cycle-count CSV, followed by the
// adjusted rows when the file has a noop column.
func fileStats(path string) ([]StatRow, error) {
	columns, err := ReadSampleColumns(path)
	if err != nil {
		return nil, err
	}

	var rows []StatRow

	var (
		noopMedian float64
		haveNoop   bool
	)

	for i, name := range columns.Names {
		st, statErr := Compute(columns.Samples[i])
		if statErr != nil {
			return nil, fmt.Errorf("column %s: %w", name, statErr)
		}

		rows = append(rows, StatRow{Benchmark: name, Stats: st})

		if name == NoopColumn {
			noopMedian = st.Median
			haveNoop = true
		}
	}

	if !haveNoop {
		return rows, nil
	}

	for i, name := range columns.Names {
		st, statErr := Compute(Shift(columns.Samples[i], noopMedian))
		if statErr != nil {
			return nil, fmt.Errorf("adjusted column %s: %w", name, statErr)
		}

		rows = append(rows, StatRow{Benchmark: name, Adjusted: true, Stats: st})
	}

	return rows, nil
}

// WriteCycleStats writes the rows as cycle_stats.csv to w.
func WriteCycleStats(w io.Writer, rows []StatRow) error {
	cw := csv.NewWriter(w)

	writeErr := cw.Write(cycleStatsHeader)
	if writeErr != nil {
		return fmt.Errorf("write header: %w", writeErr)
	}

	for _, row := range rows {
		st := row.Stats
		record := []string{
			row.CPU,
			row.Mitigation,
			row.Kernel,
			row.Benchmark,
			strconv.FormatBool(row.Adjusted),
			formatFloat(st.Mean),
			formatFloat(st.Median),
			formatFloat(st.P1),
			formatFloat(st.P25),
			formatFloat(st.P50),
			formatFloat(st.P75),
			formatFloat(st.P99),
			formatFloat(st.Std),
			formatFloat(st.IQR),
			formatFloat(st.Min),
			formatFloat(st.Max),
		}

		writeErr := cw.Write(record)
		if writeErr != nil {
			return fmt.Errorf("write row: %w", writeErr)
		}
	}

	cw.Flush()

	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
