package matrix

// RowPatch is a partial update of a row's mutable fields. Nil pointer fields
// are left untouched. Image is applied when SetImage is true, which also covers
// clearing the image by setting it to nil.
type RowPatch struct {
	PriceExtra *string
	SKU        *string
	Qty        *string
	LowQty     *string
	Barcode    *string
	Image      *ImageRef
	SetImage   bool
}

// ApplyPatch returns a new row list where the row matching key has the patch
// shallow-merged into its mutable fields. All other rows keep their values
// unchanged, and if no row matches the input slice is returned as-is. The
// second return value is the image reference the patch superseded, if any, so
// the caller can release the stored object; the third reports whether a row
// matched.
func ApplyPatch(rows []Row, key string, patch RowPatch) ([]Row, *ImageRef, bool) {
	idx := -1
	for i := range rows {
		if rows[i].Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rows, nil, false
	}

	out := make([]Row, len(rows))
	copy(out, rows)

	row := &out[idx]
	if patch.PriceExtra != nil {
		row.PriceExtra = *patch.PriceExtra
	}
	if patch.SKU != nil {
		row.SKU = *patch.SKU
	}
	if patch.Qty != nil {
		row.Qty = *patch.Qty
	}
	if patch.LowQty != nil {
		row.LowQty = *patch.LowQty
	}
	if patch.Barcode != nil {
		row.Barcode = *patch.Barcode
	}

	var superseded *ImageRef
	if patch.SetImage {
		superseded = row.Image
		row.Image = patch.Image
	}
	return out, superseded, true
}
