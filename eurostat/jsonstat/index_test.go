package jsonstat

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestUnravelLastDimensionFastest(t *testing.T) {
	sizes := []int{2, 3}
	assert.Equal(t, []int{0, 0}, Unravel(0, sizes))
	assert.Equal(t, []int{0, 1}, Unravel(1, sizes))
	assert.Equal(t, []int{1, 0}, Unravel(3, sizes))
	assert.Equal(t, []int{1, 2}, Unravel(5, sizes))

	assert.Equal(t, 5, Ravel([]int{1, 2}, sizes))
	assert.Equal(t, []int{}, Unravel(0, []int{}))
}

// Property: Ravel(Unravel(i, s), s) == i for every i in [0, prod(s)), over 0 to 6 dimensions
func TestRavelUnravelRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("linear index survives unravel and ravel", prop.ForAll(
		func(sizes []int, seed uint32) bool {
			total := 1
			for _, s := range sizes {
				total *= s
			}
			i := int(seed) % total

			idx := Unravel(i, sizes)
			for d, k := range idx {
				if k < 0 || k >= sizes[d] {
					return false
				}
			}
			return Ravel(idx, sizes) == i
		},
		gen.IntRange(0, 6).FlatMap(func(n interface{}) gopter.Gen {
			return gen.SliceOfN(n.(int), gen.IntRange(1, 12))
		}, reflect.TypeOf([]int{})),
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
