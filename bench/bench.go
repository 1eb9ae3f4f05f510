// Package bench measures how long a full ADKG committee run takes to
// converge as committee size grows, giving the O(n^2) resource-bounds
// claims an actual measured counterpart rather than leaving them
// asserted-only.
package bench

import (
	"fmt"
	"time"

	"adkg-protocol/services"

	"github.com/montanaflynn/stats"
)

// Result is one committee-size's measured completion times, in
// milliseconds, across Runs repetitions.
type Result struct {
	N, F    int
	Samples []float64
	Median  float64
	P95     float64
}

// Scenario is one (n, f) committee size to sweep across.
type Scenario struct {
	N, F int
}

// Run executes runs independent committees for each scenario and reports
// median/p95 wall-clock completion time per scenario.
func Run(scenarios []Scenario, runs int) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		samples := make([]float64, 0, runs)
		for i := 0; i < runs; i++ {
			elapsed, err := runOnce(sc.N, sc.F)
			if err != nil {
				return nil, fmt.Errorf("scenario n=%d f=%d run %d: %w", sc.N, sc.F, i, err)
			}
			samples = append(samples, float64(elapsed.Milliseconds()))
		}

		median, err := stats.Median(samples)
		if err != nil {
			return nil, err
		}
		p95, err := stats.Percentile(samples, 95)
		if err != nil {
			return nil, err
		}

		results = append(results, Result{
			N: sc.N, F: sc.F,
			Samples: samples,
			Median:  median,
			P95:     p95,
		})
	}
	return results, nil
}

// runOnce builds one honest-only committee directly on top of
// services.Participant/ServiceManager/Network (the same primitives the
// production host wires together) and times its convergence.
func runOnce(n, f int) (time.Duration, error) {
	logN := services.CeilLog2(n)
	honestCount := n - f

	network := services.NewNetwork[services.Message]()
	managers := make([]*services.ServiceManager[services.Message, services.AdkgResult], honestCount)
	participants := make([]*services.Participant, honestCount)
	for id := 0; id < honestCount; id++ {
		participants[id] = services.NewParticipant(id, n, f, logN, true)
		managers[id] = services.NewServiceManager[services.Message, services.AdkgResult](participants[id], network)
		network.Register(id, managers[id].Inbox())
	}

	start := time.Now()
	for id := 0; id < honestCount; id++ {
		managers[id].Start()
		participants[id].Start(managers[id])
	}

	for id := 0; id < honestCount; id++ {
		select {
		case <-managers[id].Result():
		case <-time.After(60 * time.Second):
			return 0, fmt.Errorf("participant %d never converged", id)
		}
	}
	return time.Since(start), nil
}
