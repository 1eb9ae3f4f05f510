package services

import (
	"strconv"

	"github.com/rs/zerolog/log"
)

// vabaMachine is one participant's end of a Validated Asynchronous
// Byzantine Agreement on a dealer set: it chains its own AVSS instance,
// signatures-over-sets, an embedded gatherMachine, and a final
// max-over-reconstructed-sums vote to land on a single winning id.
type vabaMachine struct {
	id, n, f int

	avss   *AvssInstance
	gather *gatherMachine

	setProp     []int
	setDealer   []int
	setAttached []int
	setSig      map[int]bool

	setIndice []int

	setFin   map[int]uint64
	sOf      map[int]string
	argmaxID int
	maxValue uint64
	haveMax  bool

	attached bool
	indexed  bool
	done     bool
}

func newVabaMachine(id, n, f, logN int) *vabaMachine {
	return &vabaMachine{
		id:     id,
		n:      n,
		f:      f,
		avss:   NewAvssInstance(id, logN, 0),
		gather: newGatherMachine(id, n, f),
		setSig: map[int]bool{},
		setFin: map[int]uint64{},
		sOf:    map[int]string{},
	}
}

// start drives this participant's own AVSS send-and-verify and reports the
// VabaAvssFin broadcast due on completion (step 1).
func (v *vabaMachine) start() Message {
	v.avss.SendAndVerify()
	return broadcast(v.id, VabaAvssFin, nil, "")
}

// handleAvssFin implements step 2: dealer collection, snapshotting
// set_attached and broadcasting VabaAttach once f+1 dealers are known.
func (v *vabaMachine) handleAvssFin(sender int) *Message {
	if isInVector(sender, v.setDealer) {
		return nil
	}
	v.setDealer = append(v.setDealer, sender)

	if len(v.setDealer) == v.f+1 && !v.attached {
		v.attached = true
		v.setAttached = sortedDedup(v.setDealer)
		log.Info().Str("layer", "VABA").Int("node_id", v.id).Ints("set_attached", v.setAttached).Msg("dealer set reached f+1, attaching")
		msg := broadcast(v.id, VabaAttach, v.setAttached, "")
		return &msg
	}
	return nil
}

// handleAttach implements step 3: iff M is a subset of our own set_dealer,
// reply with a unicast, self-attributable VabaSig.
func (v *vabaMachine) handleAttach(sender int, m []int) *Message {
	if !isSubset(m, v.setDealer) {
		return nil
	}
	msg := unicast(v.id, sender, VabaSig, nil, attestationFor(v.id))
	return &msg
}

// handleSig implements step 4: accept only self-attributable signatures,
// and once f+1 accumulate, trigger the local Gather instance.
func (v *vabaMachine) handleSig(sender int, additional string) *Message {
	k, ok := trailingDecimalRun(additional)
	if !ok || k != sender {
		return nil
	}
	v.setSig[sender] = true

	if len(v.setSig) == v.f+1 {
		log.Info().Str("layer", "VABA").Int("node_id", v.id).Msg("signature quorum reached, starting gather")
		msg := v.gather.start()
		return &msg
	}
	return nil
}

// handleGather1 through handleGather3 simply forward into the embedded
// gatherMachine so the VABA driver is the single dispatch point for its
// participant.
func (v *vabaMachine) handleGather1(sender int, payload []int) *Message {
	return v.gather.handleGather1(sender, payload)
}

func (v *vabaMachine) handleGather2(sender int, payload []int) *Message {
	return v.gather.handleGather2(sender, payload)
}

func (v *vabaMachine) handleGather3(payload []int) *Message {
	return v.gather.handleGather3(payload)
}

// handleGatherFin implements step 5: snapshot the common core as
// set_indice and broadcast VabaIndice.
func (v *vabaMachine) handleGatherFin(s []int) *Message {
	if v.indexed {
		return nil
	}
	v.indexed = true
	v.setIndice = sortedDedup(s)
	log.Info().Str("layer", "VABA").Int("node_id", v.id).Ints("set_indice", v.setIndice).Msg("gather common core decided, indexing")
	msg := broadcast(v.id, VabaIndice, v.setIndice, "")
	return &msg
}

// handleIndice implements step 6: verify X against our own Gather view and,
// if we are a member, broadcast our reconstructed share as VabaEval.
func (v *vabaMachine) handleIndice(x []int) *Message {
	if !v.gather.verify(x) || !isInVector(v.id, x) {
		return nil
	}
	value := v.avss.Reconstruct()
	msg := broadcast(v.id, VabaEval, nil, strconv.FormatUint(value.Real, 10))
	return &msg
}

// handleEval implements step 7: fold in sender's reconstructed value,
// track the running argmax, and once every expected value has arrived,
// emit VabaFin carrying the winner.
func (v *vabaMachine) handleEval(sender int, s string) *Message {
	if v.done || !isInVector(sender, v.setIndice) {
		return nil
	}
	if _, seen := v.setFin[sender]; seen {
		return nil
	}
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		log.Warn().Str("layer", "VABA").Int("node_id", v.id).Int("sender", sender).Msg("unparsable VabaEval payload")
		return nil
	}
	v.setFin[sender] = value
	v.sOf[sender] = s

	if !v.haveMax || value > v.maxValue {
		v.haveMax = true
		v.maxValue = value
		v.argmaxID = sender
		log.Info().Str("layer", "VABA").Int("node_id", v.id).Int("argmax", v.argmaxID).Uint64("max_value", v.maxValue).Msg("argmax updated")
	}

	if len(v.setFin) == len(v.setIndice) {
		v.done = true
		log.Info().Str("layer", "VABA").Int("node_id", v.id).Int("winner", v.argmaxID).Msg("agreement reached")
		msg := broadcast(v.id, VabaFin, []int{v.argmaxID}, v.sOf[v.argmaxID])
		return &msg
	}
	return nil
}
