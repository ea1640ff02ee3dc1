package bencheval_test

import (
	"math"
	"path/filepath"
	"testing"

	bencheval "github.com/tmiemietz/fastcall-spma"
)

// fixtureResults builds a two-CPU result set matching testConfig. Throughput
// is NaN for the first scenario (no bytes measured) and set for the second.
func fixtureResults(cpus ...string) *bencheval.Results {
	res := &bencheval.Results{}

	for ci, cpu := range cpus {
		data := make([][][]bencheval.Measure, 2)

		for mi := range data {
			data[mi] = make([][]bencheval.Measure, 2)

			for me := range data[mi] {
				base := float64(10 + ci*5 + mi*2 + me*20)
				data[mi][me] = []bencheval.Measure{
					{Latency: base, Throughput: math.NaN()},
					{Latency: base * 2, Throughput: base * 1e6},
				}
			}
		}

		res.CPUs = append(res.CPUs, cpu)
		res.Data = append(res.Data, data)
	}

	return res
}

func Test_PlotPerCPU_Writes_Chart_Per_Scenario_And_Evaluation(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	res := fixtureResults("cpu0")

	err := bencheval.PlotPerCPU(cfg, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cpuDir := filepath.Join(cfg.PlotsDir, "cpu0")

	assertFileExists(t, filepath.Join(cpuDir, "latency", "Empty_Function.png"), true)
	assertFileExists(t, filepath.Join(cpuDir, "latency", "64-Byte_Copy.png"), true)
	assertFileExists(t, filepath.Join(cpuDir, "throughput_invocations", "Empty_Function.png"), true)
	assertFileExists(t, filepath.Join(cpuDir, "throughput_invocations", "64-Byte_Copy.png"), true)
	assertFileExists(t, filepath.Join(cpuDir, "throughput_bytes", "64-Byte_Copy.png"), true)
}

func Test_PlotPerCPU_Skips_Charts_With_NaN_Values(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	res := fixtureResults("cpu0")

	err := bencheval.PlotPerCPU(cfg, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The first scenario has no throughput data, so its bytes chart must be
	// suppressed rather than rendered with gaps.
	skipped := filepath.Join(cfg.PlotsDir, "cpu0", "throughput_bytes", "Empty_Function.png")
	assertFileExists(t, skipped, false)
}

func Test_PlotPerCPU_Skips_Charts_With_Infinite_Values(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	res := fixtureResults("cpu0")

	// A scenario without a matching CSV row keeps the zero Measure, and the
	// invocations-per-second transform turns the zero latency into +Inf.
	for mi := range res.Data[0] {
		for me := range res.Data[0][mi] {
			res.Data[0][mi][me][1] = bencheval.Measure{}
		}
	}

	err := bencheval.PlotPerCPU(cfg, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cpuDir := filepath.Join(cfg.PlotsDir, "cpu0")

	assertFileExists(t, filepath.Join(cpuDir, "throughput_invocations", "64-Byte_Copy.png"), false)
	assertFileExists(t, filepath.Join(cpuDir, "latency", "64-Byte_Copy.png"), true)
}

func Test_ImprovementLine_Runs_From_Smaller_To_Larger_Bar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ids         [2]int
		values      [2]float64
		wantXs      [2]float64
		wantYs      [2]float64
		wantPercent float64
	}{
		{
			name:        "already ordered",
			ids:         [2]int{0, 1},
			values:      [2]float64{100, 150},
			wantXs:      [2]float64{0, 1},
			wantYs:      [2]float64{100, 150},
			wantPercent: 50,
		},
		{
			name:        "swapped when first bar is larger",
			ids:         [2]int{0, 1},
			values:      [2]float64{150, 100},
			wantXs:      [2]float64{1, 0},
			wantYs:      [2]float64{100, 150},
			wantPercent: 50,
		},
		{
			name:        "percentage rounded to whole percent",
			ids:         [2]int{2, 3},
			values:      [2]float64{3, 4},
			wantXs:      [2]float64{2, 3},
			wantYs:      [2]float64{3, 4},
			wantPercent: 33,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			xs, ys, percent := bencheval.ImprovementLine(tt.ids, tt.values)

			if xs != tt.wantXs {
				t.Fatalf("got xs %v, want %v", xs, tt.wantXs)
			}

			if ys != tt.wantYs {
				t.Fatalf("got ys %v, want %v", ys, tt.wantYs)
			}

			if percent != tt.wantPercent {
				t.Fatalf("got percent %v, want %v", percent, tt.wantPercent)
			}
		})
	}
}

func Test_PlotPerCPU_Renders_PDF_When_Configured(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	cfg.Ext = ".pdf"
	res := fixtureResults("cpu0")

	err := bencheval.PlotPerCPU(cfg, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertFileExists(t, filepath.Join(cfg.PlotsDir, "cpu0", "latency", "Empty_Function.pdf"), true)
}
