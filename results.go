package bencheval

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
)

// ErrNoData reports that a required leaf file was absent and the enclosing
// branch yields no data.
var ErrNoData = errors.New("no benchmark data")

// Measure is the trailing axis of the plotting array: the latency of a
// scenario plus its optional throughput in bytes per second. Throughput is
// NaN when the CSV field was blank, signaling that the scenario has no
// throughput data; charts touching a NaN value are skipped entirely.
type Measure struct {
	Latency    float64
	Throughput float64
}

// Results is the dense benchmark array of the plotting pipeline.
//
// Data is indexed (cpu, mitigation, method, scenario) in the order of the
// Config tables. CPUs holds the directory names of the first axis.
type Results struct {
	CPUs []string
	Data [][][][]Measure
}

// ReadBenchmarks assembles the plotting array for every allow-listed CPU
// with a results directory.
//
// A CPU missing any (mitigation, method) leaf file is excluded from the
// result entirely. Partially filled CPUs never appear: silently plotting
// zeroed bars for a half-collected CPU would be worse than omitting it.
func ReadBenchmarks(cfg Config) (*Results, error) {
	res := &Results{}

	for _, cpu := range cfg.CPUs {
		cpuDir := filepath.Join(cfg.ResultsDir, cpu)

		info, statErr := os.Stat(cpuDir)
		if os.IsNotExist(statErr) {
			continue
		}

		if statErr != nil {
			return nil, fmt.Errorf("stat %s: %w", cpuDir, statErr)
		}

		if !info.IsDir() {
			continue
		}

		data, err := readCPU(cfg, cpuDir)
		if errors.Is(err, ErrNoData) {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", cpu, err)

			continue
		}

		if err != nil {
			return nil, err
		}

		res.CPUs = append(res.CPUs, cpu)
		res.Data = append(res.Data, data)
	}

	return res, nil
}

// readCPU reads the (mitigation, method, scenario) array of one CPU.
func readCPU(cfg Config, cpuDir string) ([][][]Measure, error) {
	data := make([][][]Measure, 0, len(cfg.Mitigations))

	for _, mitigation := range cfg.Mitigations {
		mitiData, err := readMitigation(cfg, filepath.Join(cpuDir, mitigation.Dir))
		if err != nil {
			return nil, err
		}

		data = append(data, mitiData)
	}

	return data, nil
}

func readMitigation(cfg Config, dir string) ([][]Measure, error) {
	data := make([][]Measure, 0, len(cfg.Methods))

	for _, method := range cfg.Methods {
		methodData, err := readMethod(cfg, filepath.Join(dir, method.File)+".csv")
		if err != nil {
			return nil, err
		}

		data = append(data, methodData)
	}

	return data, nil
}

// readMethod reads one method CSV into a per-scenario measure slice.
//
// Each row's scenario is resolved via Config.ScenarioIndex; unmatched rows
// are ignored. Scenarios without a matching row keep the zero Measure.
func readMethod(cfg Config, path string) ([]Measure, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: missing %s", ErrNoData, path)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	scenCol := slices.Index(header, cfg.ScenarioColumn)
	resultCol := slices.Index(header, cfg.ResultColumn)
	bytesCol := slices.Index(header, cfg.BytesColumn)

	if scenCol < 0 || resultCol < 0 || bytesCol < 0 {
		return nil, fmt.Errorf("missing result columns in header of %s", path)
	}

	measures := make([]Measure, len(cfg.Scenarios))

	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("read row of %s: %w", path, readErr)
		}

		index, ok := cfg.ScenarioIndex(row[scenCol])
		if !ok {
			continue
		}

		latency, parseErr := strconv.ParseFloat(row[resultCol], 64)
		if parseErr != nil {
			return nil, fmt.Errorf("parse latency %q in %s: %w", row[resultCol], path, parseErr)
		}

		throughput := math.NaN()
		if row[bytesCol] != "" {
			throughput, parseErr = strconv.ParseFloat(row[bytesCol], 64)
			if parseErr != nil {
				return nil, fmt.Errorf("parse throughput %q in %s: %w", row[bytesCol], path, parseErr)
			}
		}

		measures[index] = Measure{Latency: latency, Throughput: throughput}
	}

	return measures, nil
}
