package services

import (
	"github.com/rs/zerolog/log"

	"adkg-protocol/utils"
)

// interpolateValue pairs a folding round's evaluation vector with the
// Merkle tree committing to it.
type interpolateValue struct {
	value []utils.Field
	tree  *utils.MerkleTreeProver
}

func newInterpolateValue(value []utils.Field) *interpolateValue {
	return &interpolateValue{value: value, tree: utils.NewMerkleTreeProver(value)}
}

func (v *interpolateValue) leaveNum() int                { return v.tree.LeaveNum() }
func (v *interpolateValue) commit() [utils.MerkleRootSize]byte { return v.tree.Commit() }

func (v *interpolateValue) query(indices []int) utils.MerkleProof {
	return v.tree.Open(indices, v.value)
}

// cosetInterpolate is one folding round's set of per-party interpolateValues
// (one per distinct residue class of open points modulo the row length).
type cosetInterpolate struct {
	rows []*interpolateValue
}

func newCosetInterpolate(functions [][]utils.Field) *cosetInterpolate {
	rows := make([]*interpolateValue, len(functions))
	for i, f := range functions {
		rows[i] = newInterpolateValue(f)
	}
	return &cosetInterpolate{rows: rows}
}

func (c *cosetInterpolate) len() int { return len(c.rows) }

func (c *cosetInterpolate) fieldSize() int { return len(c.rows[0].value) }

func (c *cosetInterpolate) get(index int) *interpolateValue {
	return c.rows[index%len(c.rows)]
}

// one2ManyVerifier is the party-side state of the folding protocol: the
// commitments it has received plus enough context (open point, final
// polynomial) to check a query response against them.
type one2ManyVerifier struct {
	totalRound       int
	interpolateCoset []utils.Coset
	functionRoot     []utils.MerkleTreeVerifier
	foldingRoot      []utils.MerkleTreeVerifier
	oracle           *utils.RandomOracle
	finalValue       *utils.Polynomial
}

func newOne2ManyVerifier(totalRound int, coset []utils.Coset, oracle *utils.RandomOracle) *one2ManyVerifier {
	return &one2ManyVerifier{totalRound: totalRound, interpolateCoset: coset, oracle: oracle}
}

func (v *one2ManyVerifier) setFunction(leaveNum int, root [utils.MerkleRootSize]byte) {
	v.functionRoot = append(v.functionRoot, utils.MerkleTreeVerifier{Root: root, LeaveNum: leaveNum})
}

func (v *one2ManyVerifier) receiveFoldingRoot(leaveNum int, root [utils.MerkleRootSize]byte) {
	v.foldingRoot = append(v.foldingRoot, utils.MerkleTreeVerifier{Root: root, LeaveNum: leaveNum})
}

func (v *one2ManyVerifier) setFinalValue(p utils.Polynomial) {
	v.finalValue = &p
}

// verifyWithExtraFolding replays the folding recursion over the queried
// leaves, checking every Merkle opening and arithmetic identity, and
// additionally checks the party's own open-point folding against every
// round's function values (the "extra folding" check), which ties this
// party's specific share to the very same commitments every other party
// is checking. Any mismatch or broken Merkle path is a fatal, non-fixable
// verification failure: the dealer's share for this party cannot be
// trusted and AVSS must not proceed to use it.
func (v *one2ManyVerifier) verifyWithExtraFolding(foldingProofs, functionProofs []utils.MerkleProof, extraFoldingParam []utils.Field, extraFinalPoly utils.MultilinearPolynomial) bool {
	fail := func(round int, reason string) bool {
		log.Warn().Str("layer", "AVSS").Int("round", round).Str("reason", reason).Msg("folding verification rejected")
		return false
	}

	leafIndices := append([]int(nil), v.oracle.QueryList...)
	for i := 0; i < v.totalRound; i++ {
		domainSize := v.interpolateCoset[i].Size()
		for j := range leafIndices {
			leafIndices[j] = leafIndices[j] % (domainSize >> 1)
		}
		leafIndices = sortDedupInts(leafIndices)

		if i == 0 {
			if !utils.VerifyMerkleTree(leafIndices, v.functionRoot[0], functionProofs[i]) {
				return fail(i, "function merkle path")
			}
		} else {
			if !utils.VerifyMerkleTree(leafIndices, v.foldingRoot[i-1], foldingProofs[i-1]) {
				return fail(i, "folding merkle path")
			}
		}

		challenge := v.oracle.FoldingChallenges[i]
		getFoldingValue := functionProofs[i].ProofValues
		if i != 0 {
			getFoldingValue = foldingProofs[i-1].ProofValues
		}

		var functionValues map[int]utils.Field
		if i != 0 {
			if !utils.VerifyMerkleTree(leafIndices, v.functionRoot[i], functionProofs[i]) {
				return fail(i, "function merkle path")
			}
			functionValues = functionProofs[i].ProofValues
		}

		for _, j := range leafIndices {
			x := getFoldingValue[j]
			nx := getFoldingValue[j+domainSize/2]
			val := x.Add(nx).Add(challenge.Mul(x.Sub(nx)).Mul(v.interpolateCoset[i].ElementInvAt(j)))

			if i != 0 {
				fx := functionValues[j]
				fnx := functionValues[j+domainSize/2]
				combined := val.Mul(challenge).Add(fx.Add(fnx)).Mul(challenge).Add(fx.Sub(fnx).Mul(v.interpolateCoset[i].ElementInvAt(j)))
				if i == v.totalRound-1 {
					x := v.interpolateCoset[i+1].ElementAt(j)
					if !combined.Equal(v.finalValue.EvaluateAt(x)) {
						return fail(i, "final value identity")
					}
				} else if !combined.Equal(foldingProofs[i].ProofValues[j]) {
					return fail(i, "folding identity")
				}
			} else if len(foldingProofs) > 0 {
				if !val.Equal(foldingProofs[i].ProofValues[j]) {
					return fail(i, "folding identity")
				}
			}

			fx := functionProofs[i].ProofValues[j]
			fnx := functionProofs[i].ProofValues[j+domainSize/2]
			extra := fx.Add(fnx).Add(extraFoldingParam[i].Mul(fx.Sub(fnx)).Mul(v.interpolateCoset[i].ElementInvAt(j)))
			if i < v.totalRound-1 {
				if !extra.Equal(functionProofs[i+1].ProofValues[j].Mul(utils.FromInt(2))) {
					return fail(i, "extra folding identity")
				}
			} else {
				x := v.interpolateCoset[i+1].ElementAt(j)
				polyV := extraFinalPoly.EvaluateAsPolynomial(x)
				if !extra.Equal(polyV.Mul(utils.FromInt(2))) {
					return fail(i, "extra folding final identity")
				}
			}
		}
	}
	return true
}

func sortDedupInts(v []int) []int {
	seen := make(map[int]struct{}, len(v))
	out := make([]int, 0, len(v))
	for _, x := range v {
		if _, ok := seen[x]; !ok {
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// one2ManyProver is the dealer side: it holds the full evaluation vectors
// for every round and answers commit/prove/query calls driving the parties'
// verifiers above.
type one2ManyProver struct {
	totalRound       int
	interpolateCoset []utils.Coset
	functions        []*cosetInterpolate
	foldings         []*cosetInterpolate
	oracle           *utils.RandomOracle
	finalValue       []utils.Polynomial
}

func newOne2ManyProver(totalRound int, coset []utils.Coset, functions [][][]utils.Field, oracle *utils.RandomOracle) *one2ManyProver {
	rounds := make([]*cosetInterpolate, len(functions))
	for i, f := range functions {
		rounds[i] = newCosetInterpolate(f)
	}
	return &one2ManyProver{totalRound: totalRound, interpolateCoset: coset, functions: rounds, oracle: oracle}
}

func (p *one2ManyProver) commitFunctions(verifiers []*one2ManyVerifier) {
	for i := 0; i < p.totalRound; i++ {
		for idx, v := range verifiers {
			f := p.functions[i].get(idx)
			v.setFunction(f.leaveNum(), f.commit())
		}
	}
}

func (p *one2ManyProver) commitFoldings(verifiers []*one2ManyVerifier) {
	for i := 0; i < p.totalRound-1; i++ {
		for idx, v := range verifiers {
			f := p.foldings[i].get(idx)
			v.receiveFoldingRoot(f.leaveNum(), f.commit())
		}
	}
	for i, v := range verifiers {
		v.setFinalValue(p.finalValue[i%len(p.finalValue)])
	}
}

func (p *one2ManyProver) evaluationNextDomain(round, rollingIndex int, challenge utils.Field) []utils.Field {
	length := p.functions[round].fieldSize()
	getFoldingValue := p.functions[round].get(rollingIndex)
	if round != 0 {
		getFoldingValue = p.foldings[round-1].get(rollingIndex)
	}
	coset := p.interpolateCoset[round]
	res := make([]utils.Field, 0, length/2)
	for i := 0; i < length/2; i++ {
		x := getFoldingValue.value[i]
		nx := getFoldingValue.value[i+length/2]
		newV := x.Add(nx).Add(challenge.Mul(x.Sub(nx)).Mul(coset.ElementInvAt(i)))
		if round == 0 {
			res = append(res, newV)
			continue
		}
		fv := p.functions[round].rows[rollingIndex]
		fx := fv.value[i]
		fnx := fv.value[i+length/2]
		newV = newV.Mul(challenge).Add(fx.Add(fnx)).Mul(challenge).Add(fx.Sub(fnx).Mul(coset.ElementInvAt(i)))
		res = append(res, newV)
	}
	return res
}

func (p *one2ManyProver) prove() {
	for i := 0; i < p.totalRound; i++ {
		challenge := p.oracle.FoldingChallenges[i]
		if i < p.totalRound-1 {
			rows := make([]*interpolateValue, p.functions[i].len())
			for j := 0; j < p.functions[i].len(); j++ {
				rows[j] = newInterpolateValue(p.evaluationNextDomain(i, j, challenge))
			}
			p.foldings = append(p.foldings, &cosetInterpolate{rows: rows})
		} else {
			for j := 0; j < p.functions[i].len(); j++ {
				next := p.evaluationNextDomain(i, j, challenge)
				coeffs := p.interpolateCoset[i+1].IFFT(next)
				p.finalValue = append(p.finalValue, utils.NewPolynomial(coeffs))
			}
		}
	}
}

func (p *one2ManyProver) query() (folding, functions [][]utils.MerkleProof) {
	leafIndices := append([]int(nil), p.oracle.QueryList...)
	for i := 0; i < p.totalRound; i++ {
		length := p.functions[i].fieldSize()
		for j := range leafIndices {
			leafIndices[j] = leafIndices[j] % (length >> 1)
		}
		leafIndices = sortDedupInts(leafIndices)

		if i == 0 {
			functions = append(functions, []utils.MerkleProof{p.functions[0].get(0).query(leafIndices)})
		} else {
			row := make([]utils.MerkleProof, p.functions[i].len())
			for j, r := range p.functions[i].rows {
				row[j] = r.query(leafIndices)
			}
			functions = append(functions, row)
		}

		if i > 0 {
			row := make([]utils.MerkleProof, p.foldings[i-1].len())
			for j, r := range p.foldings[i-1].rows {
				row[j] = r.query(leafIndices)
			}
			folding = append(folding, row)
		}
	}
	return folding, functions
}
