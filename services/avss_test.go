package services

import (
	"testing"

	"adkg-protocol/utils"
)

func TestAvssSendAndVerifySucceeds(t *testing.T) {
	inst := NewAvssInstance(0, 2, 0)
	if !inst.SendAndVerify() {
		t.Fatalf("SendAndVerify on an untampered transcript returned false")
	}
}

func TestAvssReconstructIsDeterministic(t *testing.T) {
	inst := NewAvssInstance(0, 2, 0)
	if !inst.SendAndVerify() {
		t.Fatalf("SendAndVerify failed")
	}
	a := inst.Reconstruct()
	b := inst.Reconstruct()
	if !a.Equal(b) {
		t.Fatalf("Reconstruct is not deterministic: %v != %v", a, b)
	}
}

func TestAvssRejectsTamperedFunctionLeaf(t *testing.T) {
	inst := NewAvssInstance(0, 2, 0)
	inst.dealer.sendEvaluations(inst.parties)
	inst.dealer.commitFunctions(inst.parties)
	inst.dealer.prove()
	inst.dealer.commitFoldings(inst.parties)
	folding, function := inst.dealer.query()

	for idx := range function[0][0].ProofValues {
		function[0][0].ProofValues[idx] = function[0][0].ProofValues[idx].Add(utils.One)
		break
	}

	totalRound := len(function)
	var folding0, function0 []utils.MerkleProof
	for i := 0; i < totalRound; i++ {
		if i < totalRound-1 {
			folding0 = append(folding0, folding[i][0])
		}
		function0 = append(function0, function[i][0])
	}

	if inst.parties[0].verify(folding0, function0) {
		t.Fatalf("verification accepted a tampered Merkle leaf")
	}
}

func TestAvssSharesCoverEveryCommitteeMember(t *testing.T) {
	inst := NewAvssInstance(0, 2, 0)
	shares := inst.Shares()
	if len(shares) != 1<<2 {
		t.Fatalf("Shares returned %d entries, want %d", len(shares), 1<<2)
	}
}
