package jsonstat

// Unravel converts a linear index into one index per dimension.
// The last dimension varies fastest: digits are peeled off from the last size inward.
func Unravel(i int, sizes []int) []int {
	idx := make([]int, len(sizes))
	for d := len(sizes) - 1; d >= 0; d-- {
		if sizes[d] <= 0 {
			continue
		}
		idx[d] = i % sizes[d]
		i /= sizes[d]
	}
	return idx
}

// Ravel is the inverse of Unravel: sum of idx[d] times the product of sizes after d.
func Ravel(idx []int, sizes []int) int {
	i := 0
	for d := range sizes {
		i = i*sizes[d] + idx[d]
	}
	return i
}
