// Command bench sweeps committee sizes and reports ADKG convergence time.
package main

import (
	"fmt"
	"os"

	"adkg-protocol/bench"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.Disabled)

	scenarios := []bench.Scenario{
		{N: 4, F: 1},
		{N: 7, F: 2},
		{N: 10, F: 3},
	}

	results, err := bench.Run(scenarios, 3)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench failed:", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Printf("n=%d f=%d median_ms=%.1f p95_ms=%.1f\n", r.N, r.F, r.Median, r.P95)
	}
}
