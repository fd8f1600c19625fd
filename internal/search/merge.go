package search

// The merge primitives below operate on strictly increasing postings
// lists and produce strictly increasing output. None of them mutate
// their inputs, so evaluator operands can share index snapshots.

// Intersect returns the IDs present in both a and b using a two-pointer
// scan. O(len(a)+len(b)).
func Intersect(a, b []int) []int {
	result := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return result
}

// Union returns the IDs present in either a or b using a two-pointer
// scan, emitting equal values once. O(len(a)+len(b)).
func Union(a, b []int) []int {
	result := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			result = append(result, a[i])
			i++
		default:
			result = append(result, b[j])
			j++
		}
	}
	result = append(result, a[i:]...)
	result = append(result, b[j:]...)
	return result
}

// Complement returns every ID in [0, universe) that is not present in a.
// O(universe).
func Complement(a []int, universe int) []int {
	result := make([]int, 0, universe-len(a))
	i := 0
	for id := 0; id < universe; id++ {
		if i < len(a) && a[i] == id {
			i++
			continue
		}
		result = append(result, id)
	}
	return result
}
