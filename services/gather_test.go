package services

import "testing"

// runGather drives n gatherMachines (only the first honestCount of which
// ever start) through a synchronous broadcast simulation until no further
// messages are produced, returning the final set_s of each of the first
// honestCount machines. Only those machines are delivered messages.
func runGather(n, f, honestCount int) [][]int {
	machines := make([]*gatherMachine, n)
	for i := range machines {
		machines[i] = newGatherMachine(i, n, f)
	}

	var queue []gatherEntry2
	for i := 0; i < honestCount; i++ {
		queue = append(queue, gatherEntry2{from: i, msg: machines[i].start()})
	}

	for len(queue) > 0 {
		ev := queue[0]
		queue = queue[1:]

		for i := 0; i < honestCount; i++ {
			if !addressedToMe(i, ev.msg) {
				continue
			}
			var out *Message
			switch ev.msg.Kind {
			case Gather1:
				out = machines[i].handleGather1(ev.msg.Sender, ev.msg.PayloadIDs)
			case Gather2:
				out = machines[i].handleGather2(ev.msg.Sender, ev.msg.PayloadIDs)
			case Gather3:
				out = machines[i].handleGather3(ev.msg.PayloadIDs)
			case GatherFin:
				continue
			}
			if out != nil {
				queue = append(queue, gatherEntry2{from: i, msg: *out})
			}
		}
	}

	sets := make([][]int, honestCount)
	for i := 0; i < honestCount; i++ {
		sets[i] = machines[i].sortedSetS()
	}
	return sets
}

type gatherEntry2 struct {
	from int
	msg  Message
}

func TestGatherReachesCommonCore(t *testing.T) {
	n, f, honest := 4, 1, 3
	sets := runGather(n, f, honest)

	for i, s := range sets {
		if len(s) < n-f {
			t.Fatalf("participant %d ended with |set_s|=%d, want >= %d", i, len(s), n-f)
		}
	}

	for i := 0; i < honest; i++ {
		for j := i + 1; j < honest; j++ {
			inter := 0
			setB := map[int]bool{}
			for _, x := range sets[j] {
				setB[x] = true
			}
			for _, x := range sets[i] {
				if setB[x] {
					inter++
				}
			}
			if inter < n-2*f {
				t.Fatalf("participants %d,%d share only %d ids, want >= %d", i, j, inter, n-2*f)
			}
		}
	}
}

func TestGatherVerifyAgreesWithSetS(t *testing.T) {
	g := newGatherMachine(0, 4, 1)
	g.setS = map[int]bool{0: true, 1: true, 2: true}
	if !g.verify([]int{2, 0, 1, 1}) {
		t.Fatalf("verify should accept a reordered, duplicated copy of set_s")
	}
	if g.verify([]int{0, 1}) {
		t.Fatalf("verify should reject a strict subset of set_s")
	}
}
