// bencheval evaluates the fastcall benchmark results in ./results/.
//
// Usage:
//
//	bencheval stats [options]
//	bencheval plots [options]
//
// See 'bencheval <command> --help' for command-specific options.
package main

import (
	"fmt"
	"os"
)

const usage = `bencheval - evaluate fastcall benchmark results

Usage:
  bencheval <command> [options]

Commands:
  stats   Generate cycle_stats.csv from the cycle counting benchmarks
  plots   Generate comparison charts from the per-method benchmarks

Examples:
  # Summarize the cycle counting benchmarks
  bencheval stats

  # Generate all charts as PDFs
  bencheval plots --format pdf

  # Read results from a different directory
  bencheval stats --results /data/results --out /data/cycle_stats.csv

Run 'bencheval <command> --help' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "stats":
		err := runStats(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "plots":
		err := runPlots(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}
