package bencheval

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/plot"
)

// compareHeadroom is the fraction of vertical padding left above the highest
// normalized bar of the comparison chart.
const compareHeadroom = 0.05

// comparePrefix prefixes the comparison chart file names.
const comparePrefix = "CPU-compare"

// compareCPUData is the latency slice of one compared CPU, indexed
// (mitigation, method, scenario).
type compareCPUData struct {
	label string
	lat   [][][]float64
}

// PlotCPUCompare renders one cross-CPU latency comparison chart per
// scenario, with the configured CPUs side by side as aligned subplots.
//
// Latencies are normalized per CPU against the reference (first compare
// mitigation, norm method) pair: each subplot's y limit is scaled so the
// reference bars line up across CPUs, which makes the mitigation overhead
// directly comparable even between CPUs of different absolute speed.
func PlotCPUCompare(cfg Config, res *Results) error {
	if len(cfg.Compare.CPUs) == 0 {
		return nil
	}

	cpus := make([]compareCPUData, 0, len(cfg.Compare.CPUs))

	for _, cc := range cfg.Compare.CPUs {
		i := slices.Index(res.CPUs, cc.Dir)
		if i < 0 {
			return fmt.Errorf("%w: compare CPU %s", ErrNoData, cc.Dir)
		}

		cpus = append(cpus, compareCPUData{label: cc.Label, lat: latencies(res.Data[i])})
	}

	for s, scenario := range cfg.Scenarios {
		plotErr := plotCompareScenario(cfg, s, scenario, cpus)
		if plotErr != nil {
			return fmt.Errorf("compare chart for %s: %w", scenario.Title, plotErr)
		}
	}

	return nil
}

// latencies strips a CPU's data down to the latency measure.
func latencies(data [][][]Measure) [][][]float64 {
	lat := make([][][]float64, len(data))

	for i, mitigation := range data {
		lat[i] = make([][]float64, len(mitigation))
		for j, method := range mitigation {
			row := make([]float64, len(method))
			for k, measure := range method {
				row[k] = measure.Latency
			}

			lat[i][j] = row
		}
	}

	return lat
}

func plotCompareScenario(cfg Config, scenario int, sc Scenario, cpus []compareCPUData) error {
	refMethod, ok := cfg.methodIndex(cfg.Compare.NormMethod)
	if !ok {
		return fmt.Errorf("norm method %q not configured", cfg.Compare.NormMethod)
	}

	refMiti, ok := cfg.mitigationIndex(cfg.Compare.Mitigations[0])
	if !ok {
		return fmt.Errorf("compare mitigation %q not configured", cfg.Compare.Mitigations[0])
	}

	// The y limit of every subplot is its reference latency times the
	// largest relative value seen anywhere, plus headroom, so the reference
	// bars end up at the same visual height.
	refs := make([]float64, len(cpus))
	maxRelative := 0.0

	for i, cpu := range cpus {
		ref := cpu.lat[refMiti][refMethod][scenario]
		refs[i] = ref

		for _, methods := range cpu.lat {
			for _, scenarios := range methods {
				relative := scenarios[scenario] / ref * (1 + compareHeadroom)
				if relative > maxRelative {
					maxRelative = relative
				}
			}
		}
	}

	colors, err := chartColors(len(cfg.Compare.Mitigations))
	if err != nil {
		return err
	}

	methodLabels := make([]string, len(cfg.Methods))
	for i, method := range cfg.Methods {
		methodLabels[i] = method.Label
	}

	plots := make([]*plot.Plot, 0, len(cpus))

	for i, cpu := range cpus {
		rows := make([][]float64, 0, len(cfg.Compare.Mitigations))

		for _, dir := range cfg.Compare.Mitigations {
			mi, ok := cfg.mitigationIndex(dir)
			if !ok {
				return fmt.Errorf("compare mitigation %q not configured", dir)
			}

			row := make([]float64, len(cpu.lat[mi]))
			for j, methods := range cpu.lat[mi] {
				row[j] = methods[scenario]
			}

			rows = append(rows, row)
		}

		if hasNonFinite(rows) {
			return nil
		}

		p := plot.New()
		p.Title.Text = cpu.label
		p.Y.Min = 0
		p.Y.Max = refs[i] * maxRelative

		bars, err := addGroupedBars(p, rows, colors)
		if err != nil {
			return err
		}

		// One shared legend on the first subplot.
		if i == 0 {
			p.Y.Label.Text = "Latency [ns]"

			for j, bar := range bars {
				mi, _ := cfg.mitigationIndex(cfg.Compare.Mitigations[j])
				p.Legend.Add(cfg.Mitigations[mi].Label, bar)
			}

			p.Legend.Top = true
		}

		p.NominalX(methodLabels...)
		plots = append(plots, p)
	}

	name := strings.ReplaceAll(comparePrefix+" "+sc.Title, " ", "-") + cfg.Ext
	file := filepath.Join(cfg.PlotsDir, name)

	return saveTiled(plots, chartWidth*2, chartHeight*2/3, file)
}
