package services

// isSubset reports whether every element of sub also appears in super.
func isSubset(sub, super []int) bool {
	superSet := make(map[int]bool, len(super))
	for _, v := range super {
		superSet[v] = true
	}
	for _, v := range sub {
		if !superSet[v] {
			return false
		}
	}
	return true
}

// isInVector reports whether id appears anywhere in v.
func isInVector(id int, v []int) bool {
	for _, x := range v {
		if x == id {
			return true
		}
	}
	return false
}

// isEqualSet reports whether a and b contain the same elements, ignoring
// order and duplicates.
func isEqualSet(a, b []int) bool {
	return isSubset(a, b) && isSubset(b, a)
}

func sortedDedup(v []int) []int {
	seen := make(map[int]bool, len(v))
	out := make([]int, 0, len(v))
	for _, x := range v {
		if !seen[x] {
			seen[x] = true
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
