package services

import (
	"crypto/rand"

	"github.com/rs/zerolog/log"

	"adkg-protocol/utils"
)

// RandomSeed draws fresh entropy for seeding an AVSS instance's random
// oracle; each instance gets its own, since this reference never actually
// transmits oracle state between participants.
func RandomSeed() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

// codeRate is log2 of the Reed-Solomon blow-up factor used when laying out
// the dealer's evaluation domain relative to the polynomial's true degree
// (the domain is 2^codeRate times the coefficient count).
const codeRate = 3

// securityBits is the target soundness error exponent driving how many
// query positions the random oracle hands out.
const securityBits = 100

// avssParty is one of the 2^(2*logN) logical query points the dealer's
// bivariate polynomial is opened at. interpolate_share and share expose the
// two ways a party's point is consumed: as a single coordinate-indexed
// sharing point, or as the party's share of the secret.
type avssParty struct {
	verifier  *one2ManyVerifier
	openPoint []utils.Field
	finalPoly *utils.MultilinearPolynomial
	hasShare  bool
}

func newAvssParty(totalRound int, interpolateCoset []utils.Coset, openPoint []utils.Field, oracle *utils.RandomOracle) *avssParty {
	return &avssParty{
		verifier:  newOne2ManyVerifier(totalRound, interpolateCoset, oracle),
		openPoint: openPoint,
	}
}

func (p *avssParty) setShare(poly utils.MultilinearPolynomial) {
	p.finalPoly = &poly
	p.hasShare = true
}

func (p *avssParty) share() utils.Field {
	variableNum := p.finalPoly.VariableNum()
	n := len(p.openPoint)
	return p.finalPoly.Evaluate(p.openPoint[n-variableNum:])
}

func (p *avssParty) interpolateShare() [2]utils.Field {
	if !p.hasShare {
		return [2]utils.Field{}
	}
	variableNum := p.finalPoly.VariableNum()
	n := len(p.openPoint)
	point := p.openPoint[n-variableNum:]
	return [2]utils.Field{point[0], p.finalPoly.Evaluate(point)}
}

func (p *avssParty) allShare() utils.MultilinearPolynomial {
	return *p.finalPoly
}

func (p *avssParty) verify(folding, function []utils.MerkleProof) bool {
	return p.verifier.verifyWithExtraFolding(folding, function, p.openPoint, *p.finalPoly)
}

// avssDealer holds the prover state and the per-party share polynomials
// produced by folding the committed bivariate polynomial down to its
// residual at every query point.
type avssDealer struct {
	prover      *one2ManyProver
	evaluations []utils.MultilinearPolynomial
}

func foldEvaluations(values []utils.Field, parameter utils.Field, coset utils.Coset) []utils.Field {
	length := len(values) / 2
	res := make([]utils.Field, length)
	for i := 0; i < length; i++ {
		x := values[i]
		nx := values[i+length]
		newV := x.Add(nx).Add(parameter.Mul(x.Sub(nx)).Mul(coset.ElementInvAt(i)))
		res[i] = newV.Mul(utils.Inverse2)
	}
	return res
}

func batchFolding(totalRound int, polynomial utils.MultilinearPolynomial, foldingParameter [][]utils.Field, coset []utils.Coset) ([][][]utils.Field, []utils.MultilinearPolynomial) {
	res := [][][]utils.Field{{coset[0].FFT(polynomial.Coefficients())}}
	variableNum := polynomial.VariableNum()
	var evaluations []utils.MultilinearPolynomial

	for round := 0; round < totalRound; round++ {
		length := len(res[round])
		if round < totalRound-1 {
			var next [][]utils.Field
			for _, j := range foldingParameter[round] {
				index := len(next) % length
				next = append(next, foldEvaluations(res[round][index], j, coset[round]))
			}
			res = append(res, next)
		} else {
			for idx, j := range foldingParameter[round] {
				index := idx % length
				nextEval := foldEvaluations(res[round][index], j, coset[round])
				coeffs := coset[round+1].IFFT(nextEval)
				coeffs = coeffs[:1<<uint(variableNum-totalRound)]
				evaluations = append(evaluations, utils.NewMultilinearPolynomial(coeffs))
			}
		}
	}
	return res, evaluations
}

func newAvssDealer(totalRound int, polynomial utils.MultilinearPolynomial, interpolateCoset []utils.Coset, oracle *utils.RandomOracle, foldingParameter [][]utils.Field) *avssDealer {
	functions, evaluations := batchFolding(totalRound, polynomial, foldingParameter, interpolateCoset)
	return &avssDealer{
		evaluations: evaluations,
		prover:      newOne2ManyProver(totalRound, interpolateCoset, functions, oracle),
	}
}

func (d *avssDealer) sendEvaluations(parties []*avssParty) {
	for i, p := range parties {
		p.setShare(d.evaluations[i%len(d.evaluations)])
	}
}

func (d *avssDealer) commitFunctions(parties []*avssParty) {
	verifiers := make([]*one2ManyVerifier, len(parties))
	for i, p := range parties {
		verifiers[i] = p.verifier
	}
	d.prover.commitFunctions(verifiers)
}

func (d *avssDealer) commitFoldings(parties []*avssParty) {
	verifiers := make([]*one2ManyVerifier, len(parties))
	for i, p := range parties {
		verifiers[i] = p.verifier
	}
	d.prover.commitFoldings(verifiers)
}

func (d *avssDealer) prove() {
	d.prover.prove()
}

func (d *avssDealer) query() (folding, function [][]utils.MerkleProof) {
	return d.prover.query()
}

// AvssInstance is a single participant's end of the asynchronous verifiable
// secret-sharing scheme: it plays the dealer for its own random bivariate
// polynomial, and doubles as the store of "shares received from every
// dealer" the ADKG driver and VABA consult to sum and reconstruct secrets.
// Folding an n-variable bivariate polynomial down via the one-to-many FRI
// argument, and handing every party a low-degree residual plus a Merkle
// commitment to check it against, is what makes the dealer's claimed
// sharing either verifiably correct or fatally rejected - there is no
// partial-trust middle ground.
type AvssInstance struct {
	id              int
	logN            int
	terminateRound  int
	polynomial      utils.MultilinearPolynomial
	dealer          *avssDealer
	parties         []*avssParty
	interpolateCoset []utils.Coset
}

// ceilLog2 returns the smallest l with 2^l >= n.
func ceilLog2(n int) int {
	i, l := 1, 0
	for i < n {
		i <<= 1
		l++
	}
	return l
}

// CeilLog2 exposes ceilLog2 for hosts sizing an AVSS committee from a
// participant count.
func CeilLog2(n int) int {
	return ceilLog2(n)
}

// NewAvssInstance builds the dealer and every query-point party for a
// participant sharing among 2^logN peers. The folding schedule bottoms out
// after terminateRound rounds short of the full log_d depth.
//
// logT is floored at 1 so the protocol stays well-defined down to the
// smallest permitted committee size (n=4, where log_n is 2): the
// reference's log_n - 2 derivation gives 0 there, leaving nothing to fold.
func NewAvssInstance(id, logN, terminateRound int) *AvssInstance {
	logT := logN - 2
	if logT < 1 {
		logT = 1
	}
	logD := logT * 2

	totalRound := logD - terminateRound
	oracle := utils.NewRandomOracle(RandomSeed(), totalRound, (securityBits+codeRate-1)/codeRate, 1<<uint(logT*2+codeRate))

	// One domain per folding round plus the domain the last round folds
	// into, where the residual polynomial is interpolated.
	interpolateCoset := make([]utils.Coset, logD+1)
	interpolateCoset[0] = utils.NewCoset(1<<uint(logT*2+codeRate), utils.RandomElement())
	for i := 1; i <= logD; i++ {
		interpolateCoset[i] = interpolateCoset[i-1].Pow(2)
	}

	polynomial := utils.RandomMultilinearPolynomial(logD)

	cosetX := utils.NewCoset(1<<uint(logN), utils.RandomElement())
	cosetY := utils.NewCoset(1<<uint(logN), utils.RandomElement())

	var foldingParameter [][]utils.Field
	v := utils.SplitPowersOfTwo((1 << uint(logT)) - 1)
	for _, i := range v {
		foldingParameter = append(foldingParameter, cosetX.Pow(i).AllElements())
	}
	lastLen := len(foldingParameter[len(foldingParameter)-1])
	for _, i := range v {
		row := cosetY.Pow(i).AllElements()
		var repeated []utils.Field
		for _, x := range row {
			for k := 0; k < lastLen; k++ {
				repeated = append(repeated, x)
			}
		}
		foldingParameter = append(foldingParameter, repeated)
	}

	partyCount := 1 << uint(logN*2)
	parties := make([]*avssParty, partyCount)
	for i := 0; i < partyCount; i++ {
		openPoint := make([]utils.Field, logD)
		for j := 0; j < logD; j++ {
			openPoint[j] = foldingParameter[j][i%len(foldingParameter[j])]
		}
		parties[i] = newAvssParty(totalRound, interpolateCoset, openPoint, oracle)
	}

	dealer := newAvssDealer(totalRound, polynomial, interpolateCoset, oracle, foldingParameter)

	return &AvssInstance{
		id:               id,
		logN:             logN,
		terminateRound:   terminateRound,
		polynomial:       polynomial,
		dealer:           dealer,
		parties:          parties,
		interpolateCoset: interpolateCoset,
	}
}

// SendAndVerify runs the full dealer-to-parties folding protocol locally
// and reports whether party 0's verification of its own share succeeded.
// A real deployment would ship the commitments and query responses over
// the network for each party to check independently; this reference
// collapses that into a single local pass to measure the protocol's true
// computational cost while keeping the message actually broadcast empty,
// matching the transport contract that AVSS completion carries no payload.
func (a *AvssInstance) SendAndVerify() bool {
	a.dealer.sendEvaluations(a.parties)
	a.dealer.commitFunctions(a.parties)
	a.dealer.prove()
	a.dealer.commitFoldings(a.parties)
	folding, function := a.dealer.query()

	logD := (func() int {
		logT := a.logN - 2
		if logT < 1 {
			logT = 1
		}
		return logT * 2
	})()
	totalRound := logD - a.terminateRound

	var folding0, function0 []utils.MerkleProof
	for i := 0; i < totalRound; i++ {
		if i < totalRound-1 {
			folding0 = append(folding0, folding[i][0])
		}
		function0 = append(function0, function[i][0])
	}

	log.Info().Str("layer", "AVSS").Int("node_id", a.id).Int("parties", len(a.parties)).Msg("dealer committed and folded shares to every party")

	ok := a.parties[0].verify(folding0, function0)
	if !ok {
		log.Warn().Str("layer", "AVSS").Int("node_id", a.id).Msg("own share failed verification")
	}
	return ok
}

// Shares returns, for each of the 1<<logN committee members, the
// (open-point, evaluation) pair used to interpolate the reconstructed
// secret from a quorum of shares. Members whose party has not been dealt a
// share yet get a zero pair.
func (a *AvssInstance) Shares() [][2]utils.Field {
	n := 1 << uint(a.logN)
	out := make([][2]utils.Field, n)
	for i := 0; i < n; i++ {
		out[i] = a.parties[i*n].interpolateShare()
	}
	return out
}

// SumAndReconstruct sums this instance's share for every dealer id in
// dealers, standing in for "receive and reconstruct shares from each
// listed dealer" in this single-process simulation.
func (a *AvssInstance) SumAndReconstruct(dealers []int) utils.Field {
	sum := utils.Zero
	for _, id := range dealers {
		sum = sum.Add(a.parties[id].share())
	}
	return sum
}

// Reconstruct returns the degree-0 coefficient of party 0's residual share
// polynomial (the dealt polynomial partially evaluated at party 0's open
// point), or zero if party 0 has not been dealt a share.
func (a *AvssInstance) Reconstruct() utils.Field {
	if !a.parties[0].hasShare {
		return utils.Zero
	}
	return a.parties[0].allShare().EvaluateAsPolynomial(utils.Zero)
}
