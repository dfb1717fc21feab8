package matrix

// CartesianProduct folds the inputs starting from a single empty combination,
// so zero inputs yield [[]] (one empty combination) and any empty input yields
// no combinations at all. Callers who need "no participating groups" to mean
// zero rows must guard for that before calling; see Reconcile.
//
// Outer input order is preserved in every combination's element order, and the
// result is ordered lexicographically by input order, so output is fully
// deterministic for deterministic input.
func CartesianProduct[T any](inputs [][]T) [][]T {
	combos := [][]T{{}}
	for _, in := range inputs {
		next := make([][]T, 0, len(combos)*len(in))
		for _, combo := range combos {
			for _, el := range in {
				extended := make([]T, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, el))
			}
		}
		combos = next
	}
	return combos
}
