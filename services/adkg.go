package services

import (
	"strconv"

	"github.com/rs/zerolog/log"
)

// adkgMachine is the per-participant top sequencer: it owns an AVSS
// instance of its own, a nested vabaMachine, and threads every incoming
// Message into whichever of the two (or its own dealer/proposal/signature
// bookkeeping) the Tag belongs to, exactly mirroring the teacher's pattern
// of one top-level service owning nested sub-protocol state rather than a
// tree of independently scheduled services.
type adkgMachine struct {
	id, n, f, logN int
	honest         bool

	avss *AvssInstance
	vaba *vabaMachine

	setDealer []int
	setProp   []int
	hashProp  map[int][]int
	setSig    map[int]bool

	setFin   []int
	hashFin  map[int]uint64
	proposed bool
	decided  bool
	result   *AdkgResult
}

func newAdkgMachine(id, n, f, logN int, honest bool) *adkgMachine {
	return &adkgMachine{
		id:       id,
		n:        n,
		f:        f,
		logN:     logN,
		honest:   honest,
		avss:     NewAvssInstance(id, logN, 0),
		vaba:     newVabaMachine(id, n, f, logN),
		hashProp: map[int][]int{},
		setSig:   map[int]bool{},
		hashFin:  map[int]uint64{},
	}
}

// start implements step 1: if honest, drive this participant's own AVSS
// send-and-verify and broadcast AdkgAvssFin. A dishonest (silent)
// participant never starts and contributes no messages at all.
func (a *adkgMachine) start() []Message {
	if !a.honest {
		return nil
	}
	a.avss.SendAndVerify()
	return []Message{broadcast(a.id, AdkgAvssFin, nil, "")}
}

// handleAvssFin implements step 2: dealer collection and the set_prop
// snapshot once f+1 dealers are known.
func (a *adkgMachine) handleAvssFin(sender int) []Message {
	if isInVector(sender, a.setDealer) {
		return nil
	}
	a.setDealer = append(a.setDealer, sender)

	if len(a.setDealer) == a.f+1 && !a.proposed {
		a.proposed = true
		a.setProp = sortedDedup(a.setDealer)
		return []Message{broadcast(a.id, AdkgProp, a.setProp, "")}
	}
	return nil
}

// handleProp implements step 3: cache the proposer's claimed set, and
// unicast back an attributable AdkgSig iff it is a subset of our own
// set_dealer.
func (a *adkgMachine) handleProp(sender int, m []int) []Message {
	a.hashProp[sender] = sortedDedup(m)
	if !isSubset(m, a.setDealer) {
		return nil
	}
	return []Message{unicast(a.id, sender, AdkgSig, nil, attestationFor(a.id))}
}

// handleSig implements step 4: accept only self-attributable signatures;
// once f+1 accumulate, trigger the VABA machine's own start (step 1 of
// §4.5) as the VabaStart transition.
func (a *adkgMachine) handleSig(sender int, additional string) []Message {
	k, ok := trailingDecimalRun(additional)
	if !ok || k != sender {
		return nil
	}
	a.setSig[sender] = true

	if len(a.setSig) == a.f+1 {
		a.vaba.setProp = a.setProp
		return []Message{a.vaba.start()}
	}
	return nil
}

// handleVabaFin implements step 5: resolve the winner's proposed set from
// our own proposal cache and broadcast this participant's summed-and-
// reconstructed share for that set.
func (a *adkgMachine) handleVabaFin(winner int) []Message {
	a.setFin = a.hashProp[winner]
	sum := a.avss.SumAndReconstruct(a.setFin)
	return []Message{broadcast(a.id, SumAndRec, nil, strconv.FormatUint(sum.Real, 10))}
}

// handleSumAndRec implements step 6: accumulate per-term contributions
// and, once a quorum of n-f has reported, emit the terminal AdkgResult.
// Summing v/(n-f) term by term (rather than dividing the grand total once)
// is the reference's integer-division semantics, kept verbatim.
func (a *adkgMachine) handleSumAndRec(sender int, additional string) *AdkgResult {
	if a.decided {
		return nil
	}
	if _, seen := a.hashFin[sender]; seen {
		return nil
	}
	v, err := strconv.ParseUint(additional, 10, 64)
	if err != nil {
		log.Warn().Str("layer", "ADKG").Int("node_id", a.id).Int("sender", sender).Msg("unparsable SumAndRec payload")
		return nil
	}
	a.hashFin[sender] = v

	if len(a.hashFin) == a.n-a.f {
		a.decided = true
		nf := uint64(a.n - a.f)
		var sum uint64
		for _, term := range a.hashFin {
			sum += term / nf
		}
		a.result = &AdkgResult{
			ID:    a.id,
			Users: a.setFin,
			SK:    strconv.FormatUint(a.avss.Reconstruct().Real, 10),
			PK:    strconv.FormatUint(sum, 10),
		}
		return a.result
	}
	return nil
}
