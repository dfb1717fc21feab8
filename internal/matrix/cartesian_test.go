package matrix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCartesianProduct(t *testing.T) {
	t.Run("two by two", func(t *testing.T) {
		got := CartesianProduct([][]string{{"a", "b"}, {"x", "y"}})
		want := [][]string{{"a", "x"}, {"a", "y"}, {"b", "x"}, {"b", "y"}}
		assert.Empty(t, cmp.Diff(want, got))
	})

	t.Run("cardinality is the product of input lengths", func(t *testing.T) {
		got := CartesianProduct([][]int{{1, 2, 3}, {4, 5}, {6, 7, 8, 9}})
		assert.Len(t, got, 3*2*4)
	})

	t.Run("zero inputs yields one empty combination", func(t *testing.T) {
		got := CartesianProduct[string](nil)
		assert.Len(t, got, 1)
		assert.Empty(t, got[0])
	})

	t.Run("any empty input yields no combinations", func(t *testing.T) {
		got := CartesianProduct([][]string{{"a", "b"}, {}, {"x"}})
		assert.Empty(t, got)
	})

	t.Run("input order is preserved in combinations", func(t *testing.T) {
		got := CartesianProduct([][]string{{"g1"}, {"g2"}, {"g3"}})
		assert.Empty(t, cmp.Diff([][]string{{"g1", "g2", "g3"}}, got))
	})

	t.Run("combinations do not share backing arrays", func(t *testing.T) {
		got := CartesianProduct([][]string{{"a"}, {"x", "y"}})
		got[0][0] = "mutated"
		assert.Equal(t, "a", got[1][0])
	})
}
