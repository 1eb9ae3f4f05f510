package utils

import "github.com/zeebo/blake3"

// MerkleRootSize is the width of a Merkle root digest.
const MerkleRootSize = 32

// MerkleTreeProver builds a Merkle tree over paired leaves (v[i], v[i+n/2])
// of a folding-round evaluation vector and answers query openings for it.
type MerkleTreeProver struct {
	leaves [][]byte
	layers [][][]byte
}

// NewMerkleTreeProver pairs the evaluation vector into len(values)/2 leaves
// and builds the tree bottom-up.
func NewMerkleTreeProver(values []Field) *MerkleTreeProver {
	half := len(values) / 2
	leaves := make([][]byte, half)
	for i := 0; i < half; i++ {
		leaves[i] = hashLeaf(values[i], values[i+half])
	}
	return &MerkleTreeProver{leaves: leaves, layers: buildLayers(leaves)}
}

func hashLeaf(a, b Field) []byte {
	h := blake3.New()
	h.Write(a.Bytes())
	h.Write(b.Bytes())
	return h.Sum(nil)
}

func hashNode(a, b []byte) []byte {
	h := blake3.New()
	h.Write(a)
	h.Write(b)
	return h.Sum(nil)
}

func buildLayers(leaves [][]byte) [][][]byte {
	layers := [][][]byte{leaves}
	cur := leaves
	for len(cur) > 1 {
		next := make([][]byte, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			if i+1 < len(cur) {
				next = append(next, hashNode(cur[i], cur[i+1]))
			} else {
				next = append(next, hashNode(cur[i], cur[i]))
			}
		}
		layers = append(layers, next)
		cur = next
	}
	return layers
}

// LeaveNum reports how many paired leaves the tree commits to.
func (t *MerkleTreeProver) LeaveNum() int {
	return len(t.leaves)
}

// Commit returns the tree's root digest.
func (t *MerkleTreeProver) Commit() [MerkleRootSize]byte {
	var root [MerkleRootSize]byte
	top := t.layers[len(t.layers)-1]
	if len(top) == 0 {
		return root
	}
	copy(root[:], top[0])
	return root
}

// MerkleProof is an opening of a MerkleTreeProver at a set of leaf indices,
// carrying the queried evaluation pairs and the sibling hashes needed to
// recompute the root.
type MerkleProof struct {
	Indices     []int
	ProofValues map[int]Field
	siblings    map[int][][]byte
}

// Open produces an opening proof for the given (sorted, deduplicated) leaf
// indices, including both halves of each paired evaluation.
func (t *MerkleTreeProver) Open(indices []int, values []Field) MerkleProof {
	half := len(t.leaves)
	proofValues := make(map[int]Field, 2*len(indices))
	siblings := make(map[int][][]byte, len(indices))
	for _, idx := range indices {
		proofValues[idx] = values[idx]
		proofValues[idx+half] = values[idx+half]
		path := make([][]byte, 0, len(t.layers)-1)
		pos := idx
		for layer := 0; layer < len(t.layers)-1; layer++ {
			cur := t.layers[layer]
			var sibling []byte
			if pos^1 < len(cur) {
				sibling = cur[pos^1]
			} else {
				sibling = cur[pos]
			}
			path = append(path, sibling)
			pos /= 2
		}
		siblings[idx] = path
	}
	return MerkleProof{Indices: append([]int(nil), indices...), ProofValues: proofValues, siblings: siblings}
}

// MerkleTreeVerifier holds just the public commitment (root and leaf count)
// needed to check openings against it.
type MerkleTreeVerifier struct {
	Root     [MerkleRootSize]byte
	LeaveNum int
}

// VerifyMerkleTree recomputes the root implied by proof against v's leaf
// indices and compares it to the committed root.
func VerifyMerkleTree(indices []int, v MerkleTreeVerifier, proof MerkleProof) bool {
	half := v.LeaveNum
	for _, idx := range indices {
		path, ok := proof.siblings[idx]
		if !ok {
			return false
		}
		a, okA := proof.ProofValues[idx]
		b, okB := proof.ProofValues[idx+half]
		if !okA || !okB {
			return false
		}
		cur := hashLeaf(a, b)
		pos := idx
		for _, sibling := range path {
			if pos%2 == 0 {
				cur = hashNode(cur, sibling)
			} else {
				cur = hashNode(sibling, cur)
			}
			pos /= 2
		}
		var gotRoot [MerkleRootSize]byte
		copy(gotRoot[:], cur)
		if gotRoot != v.Root {
			return false
		}
	}
	return true
}
