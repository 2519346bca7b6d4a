// Package testutil provides brute-force partition enumeration used as the
// oracle for engine cross-checks. It trades all efficiency for obviousness:
// every partition is materialized and inspected directly.
package testutil

// Partitions returns every integer partition of n, each as a
// non-increasing slice of parts. Partitions(0) is the single empty
// partition. Only usable for small n.
func Partitions(n int) [][]int {
	return partitionsMax(n, n)
}

// partitionsMax enumerates partitions of n with all parts <= max.
func partitionsMax(n, max int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for part := min(n, max); part >= 1; part-- {
		for _, rest := range partitionsMax(n-part, part) {
			p := append([]int{part}, rest...)
			out = append(out, p)
		}
	}
	return out
}

// DistinctSizes counts the unique part values in a partition.
func DistinctSizes(parts []int) int {
	seen := make(map[int]bool)
	for _, p := range parts {
		seen[p] = true
	}
	return len(seen)
}

// MultiplicityProduct returns the product of the part multiplicities, the
// weight each partition contributes to the MacMahonesque statistic. The
// empty partition has weight 1.
func MultiplicityProduct(parts []int) int64 {
	counts := make(map[int]int64)
	for _, p := range parts {
		counts[p]++
	}
	prod := int64(1)
	for _, c := range counts {
		prod *= c
	}
	return prod
}
