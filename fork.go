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

	"github.com/montanaflynn/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// ForkResults holds the fork latency medians, indexed
// (cpu, mitigation, kernel, measure) in the order of the fork tables.
type ForkResults struct {
	CPUs []string
	Data [][][][]float64
}

// ReadFork reads the misc benchmark files of every CPU into per-measure
// median latencies, scaled by the configured factor.
//
// The fork evaluation is not restricted to the plotting allow-list; every
// CPU directory with a complete set of misc files contributes. A CPU missing
// any file is excluded entirely, like in the main plotting pipeline.
func ReadFork(cfg Config) (*ForkResults, error) {
	cpus, err := ScanDirs(cfg.ResultsDir)
	if err != nil {
		return nil, err
	}

	res := &ForkResults{}

	for _, cpu := range cpus {
		data, err := readForkCPU(cfg, cpu.Path)
		if errors.Is(err, ErrNoData) {
			continue
		}

		if err != nil {
			return nil, err
		}

		res.CPUs = append(res.CPUs, cpu.Name)
		res.Data = append(res.Data, data)
	}

	return res, nil
}

func readForkCPU(cfg Config, cpuDir string) ([][][]float64, error) {
	data := make([][][]float64, 0, len(cfg.Fork.Mitigations))

	for _, mitigation := range cfg.Fork.Mitigations {
		mitiData := make([][]float64, 0, len(cfg.Fork.Kernels))

		for _, kernel := range cfg.Fork.Kernels {
			medians, err := readForkKernel(cfg, filepath.Join(cpuDir, mitigation.Dir, kernel.File))
			if err != nil {
				return nil, err
			}

			mitiData = append(mitiData, medians)
		}

		data = append(data, mitiData)
	}

	return data, nil
}

// readForkKernel reads one misc CSV into per-measure medians. Measures
// without a column in the file yield NaN, which later suppresses the chart.
func readForkKernel(cfg Config, path string) ([]float64, error) {
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

	colMap := make([]int, len(header))
	for i, col := range header {
		colMap[i] = slices.Index(cfg.Fork.Measures, col)
	}

	samples := make([][]float64, len(cfg.Fork.Measures))

	for row := 0; cfg.Fork.MaxSamples <= 0 || row < cfg.Fork.MaxSamples; row++ {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("read row of %s: %w", path, readErr)
		}

		for i, field := range record {
			if colMap[i] < 0 {
				continue
			}

			value, parseErr := strconv.ParseFloat(field, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("parse %q in %s: %w", field, path, parseErr)
			}

			samples[colMap[i]] = append(samples[colMap[i]], value)
		}
	}

	medians := make([]float64, len(cfg.Fork.Measures))

	for i, column := range samples {
		if len(column) == 0 {
			medians[i] = math.NaN()

			continue
		}

		median, medianErr := stats.Median(column)
		if medianErr != nil {
			return nil, fmt.Errorf("median of %s: %w", path, medianErr)
		}

		medians[i] = median * cfg.Fork.Scale
	}

	return medians, nil
}

// PlotFork renders one fork latency chart per CPU under
// <plots>/<cpu>/fork<ext>.
//
// The stack sections are overlaid largest-first at the same x positions, so
// each later section must be smaller than the previous one to stay visible.
func PlotFork(cfg Config, res *ForkResults) error {
	for i, cpu := range res.CPUs {
		plotErr := plotForkCPU(cfg, filepath.Join(cfg.PlotsDir, cpu), res.Data[i])
		if plotErr != nil {
			return fmt.Errorf("fork chart for %s: %w", cpu, plotErr)
		}
	}

	return nil
}

func plotForkCPU(cfg Config, cpuDir string, data [][][]float64) error {
	rows := make([][]float64, 0, len(cfg.Fork.Stack))

	for _, section := range cfg.Fork.Stack {
		kernel := slices.IndexFunc(cfg.Fork.Kernels, func(k Kernel) bool {
			return k.Name == section.Kernel
		})
		measure := slices.Index(cfg.Fork.Measures, section.Measure)

		if kernel < 0 || measure < 0 {
			return fmt.Errorf("stack section (%s, %s) not configured", section.Kernel, section.Measure)
		}

		row := make([]float64, len(data))
		for mi := range data {
			row[mi] = data[mi][kernel][measure]
		}

		rows = append(rows, row)
	}

	if hasNonFinite(rows) {
		return nil
	}

	colors, err := chartColors(len(cfg.Fork.Stack))
	if err != nil {
		return err
	}

	p := plot.New()
	p.Y.Label.Text = cfg.Fork.YLabel
	p.Y.Min = 0

	for i, row := range rows {
		bar, barErr := plotter.NewBarChart(plotter.Values(row), groupedBarWidth*2)
		if barErr != nil {
			return fmt.Errorf("bar chart: %w", barErr)
		}

		bar.Color = colors[i]
		bar.LineStyle.Width = 0

		p.Add(bar)
		p.Legend.Add(cfg.Fork.Stack[i].Label, bar)
	}

	p.Legend.Top = true

	labels := make([]string, len(cfg.Fork.Mitigations))
	for i, mitigation := range cfg.Fork.Mitigations {
		labels[i] = mitigation.Label
	}

	p.NominalX(labels...)

	return savePlot(p, filepath.Join(cpuDir, cfg.Fork.PlotName+cfg.Ext))
}
