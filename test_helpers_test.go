package bencheval_test

import (
	"os"
	"path/filepath"
	"testing"

	bencheval "github.com/tmiemietz/fastcall-spma"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	fullPath := filepath.Join(root, rel)
	parent := filepath.Dir(fullPath)

	err := os.MkdirAll(parent, 0o750)
	if err != nil {
		t.Fatalf("mkdir %s: %v", parent, err)
	}

	err = os.WriteFile(fullPath, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}
}

// testConfig returns a small fixture configuration with two mitigations, two
// methods, and two scenarios, rooted in dir.
func testConfig(dir string) bencheval.Config {
	return bencheval.Config{
		ResultsDir: filepath.Join(dir, "results"),
		PlotsDir:   filepath.Join(dir, "plots"),
		Ext:        ".png",
		CPUs:       []string{"cpu0", "cpu1"},
		Mitigations: []bencheval.Mitigation{
			{Dir: "on", Label: "Default Mitigations"},
			{Dir: "off", Label: "No Mitigations"},
		},
		Methods: []bencheval.Method{
			{File: "fastcall", Label: "fastcall"},
			{File: "syscall", Label: "syscall"},
		},
		Scenarios: []bencheval.Scenario{
			{Title: "Empty Function", Idents: []string{"noop"}},
			{Title: "64-Byte Copy", Idents: []string{"array/64"}},
		},
		ScenarioColumn: "name",
		ResultColumn:   "cpu_time",
		BytesColumn:    "bytes_per_second",
		Annotation: bencheval.Annotation{
			Enabled:    true,
			Methods:    [2]string{"fastcall", "syscall"},
			Mitigation: "on",
		},
		Compare: bencheval.Compare{
			CPUs: []bencheval.CompareCPU{
				{Dir: "cpu0", Label: "CPU Zero"},
				{Dir: "cpu1", Label: "CPU One"},
			},
			Mitigations: []string{"on", "off"},
			NormMethod:  "fastcall",
		},
		Fork: bencheval.ForkConfig{
			Mitigations: []bencheval.Mitigation{
				{Dir: "on", Label: "default mitigations"},
				{Dir: "off", Label: "no mitigations"},
			},
			Kernels: []bencheval.Kernel{
				{Name: "fastcall", File: "misc-fastcall.csv"},
				{Name: "stock", File: "misc-fccmp.csv"},
			},
			Measures:   []string{"fork-simple", "fork-fastcall"},
			MaxSamples: 10000,
			Stack: []bencheval.StackSection{
				{Kernel: "fastcall", Measure: "fork-fastcall", Label: "w/ registrations"},
				{Kernel: "fastcall", Measure: "fork-simple", Label: "w/o registrations"},
				{Kernel: "stock", Measure: "fork-simple", Label: "stock kernel"},
			},
			Scale:    1e-3,
			YLabel:   "latency [µs]",
			PlotName: "fork",
		},
	}
}

// writeMethodCSVs writes a complete set of method CSVs for one CPU so that
// array assembly succeeds for it.
func writeMethodCSVs(t *testing.T, cfg bencheval.Config, cpu, body string) {
	t.Helper()

	for _, mitigation := range cfg.Mitigations {
		for _, method := range cfg.Methods {
			rel := filepath.Join(cpu, mitigation.Dir, method.File+".csv")
			writeFile(t, cfg.ResultsDir, rel, body)
		}
	}
}

// assertFileExists fails the test when path does not exist or when exists is
// false and it does.
func assertFileExists(t *testing.T, path string, exists bool) {
	t.Helper()

	_, statErr := os.Stat(path)

	switch {
	case exists && statErr != nil:
		t.Fatalf("expected %s to exist: %v", path, statErr)
	case !exists && statErr == nil:
		t.Fatalf("expected %s to not exist", path)
	}
}
