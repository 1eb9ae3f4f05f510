package bench

import "testing"

func TestRunSmallestScenario(t *testing.T) {
	results, err := Run([]Scenario{{N: 4, F: 1}}, 1)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Median <= 0 {
		t.Fatalf("median completion time should be positive, got %v", results[0].Median)
	}
}
