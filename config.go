// Package bencheval evaluates fastcall microbenchmark results.
//
// Two pipelines share the results/ directory layout. The statistics pipeline
// reads results/<cpu>/<mitigation>/cycles-<kernel>.csv, filters overflowed
// cycle counts, and writes descriptive statistics for every benchmark column
// to a single flat CSV. The plotting pipeline reads
// results/<cpu>/<mitigation>/<method>.csv for an allow-listed set of CPUs,
// assembles a dense (CPU, mitigation, method, scenario) array, and renders
// grouped bar charts per scenario and evaluation kind plus a cross-CPU
// comparison chart.
//
// Both pipelines are sequential and stateless: every run reads the result
// tree from scratch and writes its output files before returning.
package bencheval

import "strings"

// Mitigation maps a result directory name to its chart legend.
type Mitigation struct {
	Dir   string
	Label string
}

// Method maps a result file name (without extension) to its chart label.
type Method struct {
	File  string
	Label string
}

// Scenario names a benchmark workload and the substrings identifying its
// rows in the name column of the result CSVs.
type Scenario struct {
	Title  string
	Idents []string
}

// Kernel maps a kernel build to its misc benchmark result file.
type Kernel struct {
	Name string
	File string
}

// StackSection is one section of the fork latency chart, selecting the
// (kernel, measure) pair it visualizes.
type StackSection struct {
	Kernel  string
	Measure string
	Label   string
}

// Annotation configures the improvement marker drawn in per-CPU charts. The
// marker compares the two methods under one mitigation and is always drawn
// from the smaller to the larger bar.
type Annotation struct {
	Enabled    bool
	Methods    [2]string // file names from Config.Methods
	Mitigation string    // dir name from Config.Mitigations
}

// CompareCPU maps a CPU directory name to the short label shown above its
// subplot in the comparison chart.
type CompareCPU struct {
	Dir   string
	Label string
}

// Compare configures the cross-CPU comparison chart.
type Compare struct {
	CPUs []CompareCPU

	// Mitigations lists the mitigation dirs shown in the chart. The first
	// entry is the normalization reference.
	Mitigations []string

	// NormMethod is the method file name the latencies are normalized
	// against.
	NormMethod string
}

// ForkConfig configures the fork latency evaluation, which reads the misc
// benchmark files instead of the per-method CSVs.
type ForkConfig struct {
	Mitigations []Mitigation
	Kernels     []Kernel
	Measures    []string

	// MaxSamples caps the rows read per file. The benchmark program used to
	// append garbage after this many samples; drop the cap once the fixed
	// data has been regenerated everywhere.
	MaxSamples int

	Stack []StackSection

	// Scale converts the raw latencies to the plotted unit.
	Scale  float64
	YLabel string

	// PlotName is the chart file name (without extension) under each CPU's
	// plot directory.
	PlotName string
}

// Config carries the fixed evaluation tables. Configs are immutable and
// passed by value; tests substitute smaller tables instead of mutating
// shared state.
type Config struct {
	ResultsDir string
	PlotsDir   string

	// Ext is the chart file extension, ".png" or ".pdf".
	Ext string

	// CPUs is the allow-list of CPU directories read by the plotting
	// pipeline. Its order fixes the CPU axis of the result array;
	// filesystem enumeration order is never used for array indices.
	CPUs []string

	Mitigations []Mitigation
	Methods     []Method
	Scenarios   []Scenario

	ScenarioColumn string
	ResultColumn   string
	BytesColumn    string

	Annotation Annotation
	Compare    Compare
	Fork       ForkConfig
}

// DefaultConfig returns the evaluation tables for the fastcall benchmark
// series.
func DefaultConfig() Config {
	return Config{
		ResultsDir: "results",
		PlotsDir:   "plots",
		Ext:        ".png",
		CPUs: []string{
			"AMD_Ryzen_7_3700X_8-Core_Processor",
			"Intel(R)_Xeon(R)_Platinum_8375C_CPU_@_2.90GHz",
			"Intel(R)_Core(TM)_i7-4790_CPU_@_3.60GHz",
		},
		Mitigations: []Mitigation{
			{Dir: "mitigations=auto", Label: "Default Mitigations"},
			{Dir: "nopti%mds=off", Label: "No KPTI/MDS"},
			{Dir: "mitigations=off", Label: "No Mitigations"},
		},
		Methods: []Method{
			{File: "vdso", Label: "vDSO"},
			{File: "fastcall", Label: "fastcall"},
			{File: "syscall", Label: "syscall"},
			{File: "ioctl", Label: "ioctl"},
		},
		Scenarios: []Scenario{
			{Title: "Empty Function", Idents: []string{
				"fastcall_examples_noop", "ioctl_noop",
				"syscall_sys_ni_syscall", "vdso_noop",
			}},
			{Title: "64-Byte Copy", Idents: []string{"array/64"}},
		},
		ScenarioColumn: "name",
		ResultColumn:   "cpu_time",
		BytesColumn:    "bytes_per_second",
		Annotation: Annotation{
			Enabled:    true,
			Methods:    [2]string{"fastcall", "syscall"},
			Mitigation: "mitigations=auto",
		},
		Compare: Compare{
			CPUs: []CompareCPU{
				{Dir: "Intel(R)_Core(TM)_i7-4790_CPU_@_3.60GHz", Label: "Intel Core i7-4790"},
				{Dir: "Intel(R)_Xeon(R)_Platinum_8375C_CPU_@_2.90GHz", Label: "Intel Xeon 8375C"},
			},
			Mitigations: []string{"mitigations=auto", "mitigations=off"},
			NormMethod:  "fastcall",
		},
		Fork: ForkConfig{
			Mitigations: []Mitigation{
				{Dir: "mitigations=auto", Label: "default mitigations"},
				{Dir: "mitigations=off", Label: "no mitigations"},
			},
			Kernels: []Kernel{
				{Name: "fastcall", File: "misc-fastcall.csv"},
				{Name: "stock", File: "misc-fccmp.csv"},
			},
			Measures:   []string{"fork-simple", "fork-fastcall"},
			MaxSamples: 10000,
			Stack: []StackSection{
				{Kernel: "fastcall", Measure: "fork-fastcall", Label: "w/ registrations"},
				{Kernel: "fastcall", Measure: "fork-simple", Label: "w/o registrations"},
				{Kernel: "stock", Measure: "fork-simple", Label: "stock kernel"},
			},
			Scale:    1e-3, // ns to µs
			YLabel:   "latency [µs]",
			PlotName: "fork",
		},
	}
}

// ScenarioIndex resolves a name-column label to its scenario index. The
// first scenario with a matching substring wins; unmatched labels report
// ok == false and are dropped by callers.
func (c Config) ScenarioIndex(label string) (index int, ok bool) {
	for i, scenario := range c.Scenarios {
		for _, ident := range scenario.Idents {
			if strings.Contains(label, ident) {
				return i, true
			}
		}
	}

	return 0, false
}

func (c Config) mitigationIndex(dir string) (int, bool) {
	for i, m := range c.Mitigations {
		if m.Dir == dir {
			return i, true
		}
	}

	return 0, false
}

func (c Config) methodIndex(file string) (int, bool) {
	for i, m := range c.Methods {
		if m.File == file {
			return i, true
		}
	}

	return 0, false
}
