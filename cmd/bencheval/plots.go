package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	bencheval "github.com/tmiemietz/fastcall-spma"
)

const plotsUsage = `bencheval plots - generate comparison charts

Reads results/<cpu>/<mitigation>/<method>.csv for the plotted CPUs and
renders grouped bar charts per scenario and evaluation kind, a cross-CPU
comparison chart, and the fork latency charts. CPUs with missing result
files are left out of the charts instead of being plotted with gaps.

Usage:
  bencheval plots [options]

Options:
  --results DIR    Benchmark results directory (default: results)
  --out DIR        Chart output directory (default: plots)
  --format FORMAT  Chart file format, png or pdf (default: png, or $PLOT_EXT)
  -h, --help       Show this help
`

func runPlots(args []string) error {
	fs := flag.NewFlagSet("plots", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, plotsUsage) }

	resultsDir := fs.String("results", "results", "benchmark results directory")
	plotsDir := fs.String("out", "plots", "chart output directory")
	format := fs.String("format", defaultFormat(), "chart file format: png or pdf")

	parseErr := fs.Parse(args)
	if parseErr != nil {
		return fmt.Errorf("parse flags: %w", parseErr)
	}

	ext := "." + strings.TrimPrefix(*format, ".")
	if ext != ".png" && ext != ".pdf" {
		return fmt.Errorf("unsupported chart format: %s", *format)
	}

	cfg := bencheval.DefaultConfig()
	cfg.ResultsDir = *resultsDir
	cfg.PlotsDir = *plotsDir
	cfg.Ext = ext

	res, err := bencheval.ReadBenchmarks(cfg)
	if err != nil {
		return fmt.Errorf("reading benchmarks: %w", err)
	}

	perCPUErr := bencheval.PlotPerCPU(cfg, res)
	if perCPUErr != nil {
		return fmt.Errorf("per-CPU charts: %w", perCPUErr)
	}

	compareErr := bencheval.PlotCPUCompare(cfg, res)
	if compareErr != nil {
		return fmt.Errorf("comparison charts: %w", compareErr)
	}

	forkRes, err := bencheval.ReadFork(cfg)
	if err != nil {
		return fmt.Errorf("reading fork benchmarks: %w", err)
	}

	forkErr := bencheval.PlotFork(cfg, forkRes)
	if forkErr != nil {
		return fmt.Errorf("fork charts: %w", forkErr)
	}

	fmt.Printf("Wrote charts for %d CPUs to %s\n", len(res.CPUs), *plotsDir)

	return nil
}

// defaultFormat honors the PLOT_EXT override used by the original
// evaluation scripts.
func defaultFormat() string {
	ext := os.Getenv("PLOT_EXT")
	if ext == "" {
		return "png"
	}

	return strings.TrimPrefix(ext, ".")
}
