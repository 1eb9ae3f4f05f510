package services

import "github.com/rs/zerolog/log"

// gatherMachine is the 3-round common-core set-agreement primitive used
// internally by VABA. It never runs as its own ServiceManager: its start
// and message handlers are invoked directly by the owning VabaMachine
// inside that participant's single-threaded dispatch, mirroring the
// teacher's pattern of layering a threshold-gated state machine (icc.go's
// T/A/S progression) on top of a single incoming message stream rather
// than spinning up a nested goroutine per layer.
type gatherMachine struct {
	id, n, f int

	setR    []gatherEntry
	setS    map[int]bool
	setT    map[int]bool
	setU    map[int]bool
	othersS map[int][]int
	done    bool
}

type gatherEntry struct {
	sender  int
	payload []int
}

func newGatherMachine(id, n, f int) *gatherMachine {
	return &gatherMachine{
		id:      id,
		n:       n,
		f:       f,
		setS:    map[int]bool{},
		setT:    map[int]bool{},
		setU:    map[int]bool{},
		othersS: map[int][]int{},
	}
}

func (g *gatherMachine) threshold() int {
	return g.n - g.f
}

// start broadcasts the empty-payload Gather1 that begins the round.
func (g *gatherMachine) start() Message {
	return broadcast(g.id, Gather1, nil, "")
}

func (g *gatherMachine) sortedSetS() []int {
	ids := make([]int, 0, len(g.setS))
	for id := range g.setS {
		ids = append(ids, id)
	}
	return sortedDedup(ids)
}

func (g *gatherMachine) sortedSetT() []int {
	ids := make([]int, 0, len(g.setT))
	for id := range g.setT {
		ids = append(ids, id)
	}
	return sortedDedup(ids)
}

// handleGather1 records a never-before-seen sender and, once set_s reaches
// quorum, broadcasts Gather2 carrying it.
func (g *gatherMachine) handleGather1(sender int, payload []int) *Message {
	for _, e := range g.setR {
		if e.sender == sender {
			return nil
		}
	}
	g.setR = append(g.setR, gatherEntry{sender: sender, payload: payload})
	g.setS[sender] = true

	if len(g.setS) >= g.threshold() {
		log.Info().Str("layer", "GATHER").Int("node_id", g.id).Int("set_s", len(g.setS)).Msg("round R quorum reached, advancing to T")
		msg := broadcast(g.id, Gather2, g.sortedSetS(), "")
		return &msg
	}
	return nil
}

// handleGather2 records the sender's reported set_s unconditionally, and
// additionally advances set_t when that set is a subset of our own.
func (g *gatherMachine) handleGather2(sender int, payload []int) *Message {
	g.othersS[sender] = payload

	if isSubset(payload, g.sortedSetS()) && !g.setT[sender] {
		g.setT[sender] = true
	}

	if len(g.setT) >= g.threshold() {
		log.Info().Str("layer", "GATHER").Int("node_id", g.id).Int("set_t", len(g.setT)).Msg("round T quorum reached, advancing to U")
		msg := broadcast(g.id, Gather3, g.sortedSetT(), "")
		return &msg
	}
	return nil
}

// handleGather3 folds the senders' set_t claims into set_u, and once set_u
// reaches quorum emits GatherFin carrying set_s (the common core).
func (g *gatherMachine) handleGather3(payload []int) *Message {
	if g.done {
		return nil
	}
	g.setU[g.id] = true

	if isSubset(payload, g.sortedSetT()) {
		for _, user := range payload {
			for _, member := range g.othersS[user] {
				g.setU[member] = true
			}
		}
	}

	if len(g.setU) >= g.threshold() && !g.done {
		g.done = true
		log.Info().Str("layer", "GATHER").Int("node_id", g.id).Int("set_u", len(g.setU)).Msg("round U quorum reached, common core decided")
		msg := broadcast(g.id, GatherFin, g.sortedSetS(), "")
		return &msg
	}
	return nil
}

// verify reports whether x, deduplicated and sorted, equals our own set_s.
func (g *gatherMachine) verify(x []int) bool {
	return isEqualSet(sortedDedup(x), g.sortedSetS())
}
