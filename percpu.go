package bencheval

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// latencyToSeconds converts the nanosecond latencies of the result CSVs.
const latencyToSeconds = 1e-9

// evaluation is one per-CPU chart kind. values slices the per-CPU array down
// to (mitigation, method) y values for one scenario index.
type evaluation struct {
	name   string
	yLabel string
	values func(data [][][]Measure, scenario int) [][]float64
}

var evaluations = []evaluation{
	{
		name:   "latency",
		yLabel: "Latency [ns]",
		values: func(data [][][]Measure, s int) [][]float64 {
			return scenarioValues(data, s, func(m Measure) float64 {
				return m.Latency
			})
		},
	},
	{
		name:   "throughput_invocations",
		yLabel: "Invocations per Second",
		values: func(data [][][]Measure, s int) [][]float64 {
			return scenarioValues(data, s, func(m Measure) float64 {
				return 1 / (latencyToSeconds * m.Latency)
			})
		},
	},
	{
		name:   "throughput_bytes",
		yLabel: "Bytes per Second",
		values: func(data [][][]Measure, s int) [][]float64 {
			return scenarioValues(data, s, func(m Measure) float64 {
				return m.Throughput
			})
		},
	},
}

func scenarioValues(data [][][]Measure, scenario int, value func(Measure) float64) [][]float64 {
	rows := make([][]float64, len(data))

	for i, mitigation := range data {
		row := make([]float64, len(mitigation))
		for j, method := range mitigation {
			row[j] = value(method[scenario])
		}

		rows[i] = row
	}

	return rows
}

// PlotPerCPU renders the grouped bar charts for every CPU in res: one chart
// per scenario per evaluation kind, under
// <plots>/<cpu>/<evaluation>/<scenario><ext>.
func PlotPerCPU(cfg Config, res *Results) error {
	for i, cpu := range res.CPUs {
		plotErr := plotCPU(cfg, filepath.Join(cfg.PlotsDir, cpu), res.Data[i])
		if plotErr != nil {
			return fmt.Errorf("plots for %s: %w", cpu, plotErr)
		}
	}

	return nil
}

func plotCPU(cfg Config, cpuDir string, data [][][]Measure) error {
	for _, eval := range evaluations {
		for s, scenario := range cfg.Scenarios {
			rows := eval.values(data, s)
			if hasNonFinite(rows) {
				continue
			}

			name := strings.ReplaceAll(scenario.Title, " ", "_") + cfg.Ext
			file := filepath.Join(cpuDir, eval.name, name)

			plotErr := plotScenario(cfg, file, eval.yLabel, rows)
			if plotErr != nil {
				return plotErr
			}
		}
	}

	return nil
}

// plotScenario renders one grouped bar chart: bars grouped by method along
// the x axis, one color per mitigation.
func plotScenario(cfg Config, file, yLabel string, rows [][]float64) error {
	colors, err := chartColors(len(cfg.Mitigations))
	if err != nil {
		return err
	}

	p := plot.New()
	p.Y.Label.Text = yLabel
	p.Y.Min = 0

	bars, err := addGroupedBars(p, rows, colors)
	if err != nil {
		return err
	}

	for i, bar := range bars {
		p.Legend.Add(cfg.Mitigations[i].Label, bar)
	}

	p.Legend.Top = true

	labels := make([]string, len(cfg.Methods))
	for i, method := range cfg.Methods {
		labels[i] = method.Label
	}

	p.NominalX(labels...)

	if cfg.Annotation.Enabled {
		annErr := addImprovement(cfg, p, rows)
		if annErr != nil {
			return annErr
		}
	}

	return savePlot(p, file)
}

// addImprovement draws a marker between the two configured methods under the
// configured mitigation, labeled with the relative improvement. The marker
// always runs from the smaller to the larger bar and the percentage is
// larger/smaller - 1.
func addImprovement(cfg Config, p *plot.Plot, rows [][]float64) error {
	miti, ok := cfg.mitigationIndex(cfg.Annotation.Mitigation)
	if !ok {
		return fmt.Errorf("annotation mitigation %q not configured", cfg.Annotation.Mitigation)
	}

	var ids [2]int

	for i, file := range cfg.Annotation.Methods {
		id, ok := cfg.methodIndex(file)
		if !ok {
			return fmt.Errorf("annotation method %q not configured", file)
		}

		ids[i] = id
	}

	xs, ys, percent := improvementLine(ids, [2]float64{rows[miti][ids[0]], rows[miti][ids[1]]})

	line, err := plotter.NewLine(plotter.XYs{
		{X: xs[0], Y: ys[0]},
		{X: xs[1], Y: ys[1]},
	})
	if err != nil {
		return fmt.Errorf("improvement marker: %w", err)
	}

	line.Color = color.Gray{Y: 0x66}
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(line)

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: (xs[0] + xs[1]) / 2, Y: (ys[0] + ys[1]) / 2}},
		Labels: []string{fmt.Sprintf("+%.0f%%", percent)},
	})
	if err != nil {
		return fmt.Errorf("improvement label: %w", err)
	}

	p.Add(labels)

	return nil
}

// improvementLine computes the marker endpoints and label percentage for the
// bars at the given method indices. The marker always runs from the smaller
// to the larger bar; the percentage is the relative gain of the larger over
// the smaller, rounded to a whole percent.
//
// NominalX puts method k at x == k, so the x endpoints are the category
// positions of the two methods.
func improvementLine(ids [2]int, values [2]float64) (xs, ys [2]float64, percent float64) {
	if values[0] > values[1] {
		values[0], values[1] = values[1], values[0]
		ids[0], ids[1] = ids[1], ids[0]
	}

	xs = [2]float64{float64(ids[0]), float64(ids[1])}

	return xs, values, math.Round((values[1]/values[0] - 1) * 100)
}
