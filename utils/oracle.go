package utils

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// RandomOracle supplies the non-interactive randomness a One2Many folding
// session needs: one folding challenge per round, and a fixed list of leaf
// indices to query. The reference protocol derives both a priori from a
// shared seed rather than interactively from the transcript; constructing
// one RandomOracle and handing it to the dealer and every party reproduces
// that non-interactive Fiat-Shamir simulation.
type RandomOracle struct {
	FoldingChallenges []Field
	QueryList         []int
}

// NewRandomOracle derives totalRound folding challenges and queryCount
// query indices (each in [0, domainSize)) from seed via a blake3 stream.
func NewRandomOracle(seed []byte, totalRound, queryCount, domainSize int) *RandomOracle {
	stream := newHashStream(seed)
	challenges := make([]Field, totalRound)
	for i := range challenges {
		challenges[i] = Field{Real: stream.next() % Modulus, Imag: stream.next() % Modulus}
	}
	queries := make([]int, queryCount)
	for i := range queries {
		queries[i] = int(stream.next() % uint64(domainSize))
	}
	return &RandomOracle{FoldingChallenges: challenges, QueryList: queries}
}

type hashStream struct {
	state   [32]byte
	counter uint64
}

func newHashStream(seed []byte) *hashStream {
	s := &hashStream{}
	h := blake3.Sum256(seed)
	s.state = h
	return s
}

func (s *hashStream) next() uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], s.counter)
	s.counter++
	h := blake3.New()
	h.Write(s.state[:])
	h.Write(buf[:])
	digest := h.Sum(nil)
	copy(s.state[:], digest)
	return binary.LittleEndian.Uint64(digest[:8])
}
