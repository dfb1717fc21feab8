package matrix

// Reconcile recomputes the full variant row set for the given groups and
// selection, then merges it against prev by row key so user-entered data
// survives selection changes that do not affect a particular combination.
//
// Identity fields (Key, Parts) always come from the fresh computation, so a
// renamed group flows into existing rows. Mutable fields come from the previous
// row when its key is still present, and start at defaults otherwise. Rows
// whose key is no longer produced are dropped.
//
// Reconcile is pure and total: it never panics, treats nil or empty selection
// entries as "group not participating", ignores selection entries whose group
// no longer exists, and is idempotent for unchanged inputs.
func Reconcile(groups []Group, sel Selection, prev []Row) []Row {
	participating := make([]Group, 0, len(groups))
	for _, g := range groups {
		if len(sel[g.ID.String()]) > 0 {
			participating = append(participating, g)
		}
	}

	// An empty cartesian product of zero inputs is one empty combination, not
	// zero. No participating groups must clear the table, so guard here.
	if len(participating) == 0 {
		return []Row{}
	}

	perGroup := make([][]Part, len(participating))
	for i, g := range participating {
		values := sel[g.ID.String()]
		parts := make([]Part, len(values))
		for j, v := range values {
			parts[j] = Part{GroupID: g.ID, GroupName: g.Name, Value: v}
		}
		perGroup[i] = parts
	}

	prevByKey := make(map[string]Row, len(prev))
	for _, r := range prev {
		prevByKey[r.Key] = r
	}

	combos := CartesianProduct(perGroup)
	rows := make([]Row, 0, len(combos))
	for _, parts := range combos {
		key := BuildKey(parts)
		row := newRow(key, parts)
		if old, ok := prevByKey[key]; ok {
			row.PriceExtra = old.PriceExtra
			row.SKU = old.SKU
			row.Qty = old.Qty
			row.LowQty = old.LowQty
			row.Barcode = old.Barcode
			row.Image = old.Image
		}
		rows = append(rows, row)
	}
	return rows
}

// DroppedRows returns the rows of prev whose key no longer appears in next.
// Callers use it to release per-row resources (stored images) owned by rows
// that a reconciliation removed.
func DroppedRows(prev, next []Row) []Row {
	keep := make(map[string]struct{}, len(next))
	for _, r := range next {
		keep[r.Key] = struct{}{}
	}
	var dropped []Row
	for _, r := range prev {
		if _, ok := keep[r.Key]; !ok {
			dropped = append(dropped, r)
		}
	}
	return dropped
}
