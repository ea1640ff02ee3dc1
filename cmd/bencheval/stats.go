package main

import (
	"flag"
	"fmt"
	"os"

	bencheval "github.com/tmiemietz/fastcall-spma"
)

const statsUsage = `bencheval stats - summarize the cycle counting benchmarks

Reads results/<cpu>/<mitigation>/cycles-<kernel>.csv and writes one CSV row
per (CPU, mitigation, kernel, benchmark, adjusted) combination. Cycle counts
beyond the overflow threshold are dropped before aggregation.

Usage:
  bencheval stats [options]

Options:
  --results DIR   Benchmark results directory (default: results)
  --out FILE      Output CSV file (default: cycle_stats.csv)
  -h, --help      Show this help
`

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, statsUsage) }

	resultsDir := fs.String("results", "results", "benchmark results directory")
	out := fs.String("out", "cycle_stats.csv", "output CSV file")

	parseErr := fs.Parse(args)
	if parseErr != nil {
		return fmt.Errorf("parse flags: %w", parseErr)
	}

	rows, err := bencheval.CollectCycleStats(*resultsDir)
	if err != nil {
		return fmt.Errorf("collecting cycle stats: %w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *out, err)
	}

	writeErr := bencheval.WriteCycleStats(f, rows)
	if writeErr != nil {
		_ = f.Close()

		return fmt.Errorf("writing %s: %w", *out, writeErr)
	}

	closeErr := f.Close()
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", *out, closeErr)
	}

	fmt.Printf("Wrote %d rows to %s\n", len(rows), *out)

	return nil
}
