// Command sweepinfo reconstructs sweep data files and prints their grid geometry.
package main

import (
	"flag"
	"fmt"
	"os"

	"sweepview/internal/config"
	"sweepview/internal/dataset"
	"sweepview/internal/sweep"
)

func main() {
	configPath := flag.String("config", "", "Config file (default "+config.DefaultPath()+")")
	allowPartial := flag.Bool("allow-partial", false, "Drop an incomplete trailing cycle")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("Usage: sweepinfo [-config path] [-allow-partial] <file.dat>...")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	opts := dataset.Options{
		Columns: dataset.Columns{
			Phase: cfg.Columns.Phase,
			S1:    cfg.Columns.S1,
			S2:    cfg.Columns.S2,
			Value: cfg.Columns.Value,
		},
		Encoding: cfg.Input.Encoding,
	}
	sweepOpts := sweep.Options{
		BoundaryMarker: cfg.Input.BoundaryMarker,
		AllowPartial:   cfg.Input.AllowPartial || *allowPartial,
	}

	failed := 0
	for _, path := range flag.Args() {
		res, err := dataset.LoadResult(path, opts, sweepOpts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failed++
			continue
		}
		printResult(path, res)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printResult(path string, res *sweep.Result) {
	rows, cols := res.Grid.Dims()
	fmt.Printf("%s\n", path)
	fmt.Printf("  Mode:       %s\n", res.Mode)
	fmt.Printf("  Cycle:      %d samples\n", res.InnerLen)
	fmt.Printf("  s1 (x):     %d values, %g .. %g\n", len(res.X), res.X[0], res.X[len(res.X)-1])
	fmt.Printf("  s2 (y):     %d values, %g .. %g\n", len(res.Y), res.Y[0], res.Y[len(res.Y)-1])
	fmt.Printf("  Grid:       %d rows x %d cols\n", rows, cols)
	if lo, hi, ok := sweep.ValueRange(res.Grid); ok {
		fmt.Printf("  Values:     %g .. %g\n", lo, hi)
	} else {
		fmt.Printf("  Values:     no finite values\n")
	}
	if res.Backward != nil {
		if lo, hi, ok := sweep.ValueRange(res.Backward); ok {
			fmt.Printf("  Backward:   %g .. %g\n", lo, hi)
		}
	}
	if res.Dropped > 0 {
		fmt.Printf("  Dropped:    %d trailing samples\n", res.Dropped)
	}
}
