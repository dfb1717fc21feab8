package matrix

// Option is one selectable value inside an attribute group. Value is the
// canonical identifier used in selections and row keys; it is always a string
// even when the upstream source stores numeric ids.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Hex   string `json:"hex,omitempty"`
}

// Group is a normalized attribute group as consumed by the engine.
type Group struct {
	ID      GroupID  `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Selection maps a group's canonical id string to the option values currently
// selected in it. A missing or empty entry means the group does not participate
// in the matrix. A nil slice is equivalent to an empty one.
type Selection map[string][]string

// Part is one (group, value) coordinate of a variant combination. GroupName is
// carried alongside the id so serialized rows stay readable without the group
// catalog at hand.
type Part struct {
	GroupID   GroupID `json:"group_id"`
	GroupName string  `json:"group_name"`
	Value     string  `json:"value"`
}

// ImageRef points at a stored per-row image. The row owns the reference; when a
// row is dropped or its image replaced, the underlying object must be released
// by the caller.
type ImageRef struct {
	Path       string `json:"path"`
	PreviewURL string `json:"preview_url"`
}

// Row is one concrete sellable variant combination plus its user-entered
// commercial data. Key and Parts are identity fields recomputed on every
// reconciliation; the remaining fields are only ever touched by ApplyPatch.
type Row struct {
	Key   string `json:"key"`
	Parts []Part `json:"parts"`

	PriceExtra string    `json:"price_extra"`
	SKU        string    `json:"sku"`
	Qty        string    `json:"qty"`
	LowQty     string    `json:"low_qty"`
	Barcode    string    `json:"barcode"`
	Image      *ImageRef `json:"image,omitempty"`
}

// DefaultPriceExtra is the price delta a freshly created row starts with.
const DefaultPriceExtra = "0"

func newRow(key string, parts []Part) Row {
	return Row{
		Key:        key,
		Parts:      parts,
		PriceExtra: DefaultPriceExtra,
	}
}
