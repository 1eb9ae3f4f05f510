package main

import (
	"testing"
	"time"

	"adkg-protocol/services"
)

// runCommitteeForTest wires up the n-f honest participants exactly as
// runCommittee does (the f byzantine ids are never created, so they send
// nothing), but returns their results instead of printing them, for use by
// the scenario tests below.
func runCommitteeForTest(t *testing.T, n, f int) []services.AdkgResult {
	t.Helper()
	logN := services.CeilLog2(n)
	honestCount := n - f

	network := services.NewNetwork[services.Message]()
	nodes := make([]*Node, honestCount)
	for id := 0; id < honestCount; id++ {
		nodes[id] = NewNode(id, n, f, logN, true, network)
		network.Register(id, nodes[id].Inbox())
	}
	for id := 0; id < honestCount; id++ {
		go nodes[id].Start()
	}

	results := make([]services.AdkgResult, 0, honestCount)
	for id := 0; id < honestCount; id++ {
		select {
		case res := <-nodes[id].Result():
			results = append(results, res)
		case <-time.After(30 * time.Second):
			t.Fatalf("participant %d never produced an AdkgResult", id)
		}
	}
	return results
}

// TestAdkgScenarioFourMembers is spec seed scenario 1: n=4, f=1.
func TestAdkgScenarioFourMembers(t *testing.T) {
	results := runCommitteeForTest(t, 4, 1)

	first := results[0]
	if len(first.Users) < 2 {
		t.Fatalf("set_fin size %d, want >= 2", len(first.Users))
	}
	for _, r := range results[1:] {
		if len(r.Users) != len(first.Users) {
			t.Fatalf("set_fin mismatch: %v vs %v", first.Users, r.Users)
		}
		if r.PK != first.PK {
			t.Fatalf("pk mismatch across honest participants: %s vs %s", first.PK, r.PK)
		}
	}
}

// TestAdkgScenarioSevenMembers is spec seed scenario 2: n=7, f=2.
func TestAdkgScenarioSevenMembers(t *testing.T) {
	results := runCommitteeForTest(t, 7, 2)

	for _, r := range results {
		if len(r.Users) < 3 {
			t.Fatalf("dealer set converged at size %d, want >= 3", len(r.Users))
		}
	}
}

// TestAdkgScenarioTenMembersByzantineSilent is spec seed scenario 3:
// n=10, f=3, with the last three participants (ids 7-9) silent: they are
// never created.
func TestAdkgScenarioTenMembersByzantineSilent(t *testing.T) {
	results := runCommitteeForTest(t, 10, 3)

	for _, r := range results {
		if len(r.Users) < 4 {
			t.Fatalf("|users| = %d, want >= 4", len(r.Users))
		}
		for _, u := range r.Users {
			if u < 0 || u >= 10 {
				t.Fatalf("users contains out-of-range id %d", u)
			}
		}
	}
}
