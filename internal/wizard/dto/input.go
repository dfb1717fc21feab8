package dto

import (
	"io"

	"github.com/altapos/variant-wizard-service/internal/matrix"
)

type StartSessionInput struct {
	MerchantID  string
	ProductName string
}

type SetSelectionInput struct {
	MerchantID string
	SessionID  string
	GroupID    string // canonical group id ("12" or "color")
	Values     []string
}

type ReplaceSelectionInput struct {
	MerchantID string
	SessionID  string
	Selection  matrix.Selection
}

type PatchRowInput struct {
	MerchantID string
	SessionID  string
	RowKey     string

	PriceExtra  *string
	SKU         *string
	Qty         *string
	LowQty      *string
	Barcode     *string
	RemoveImage bool
}

type AttachRowImageInput struct {
	MerchantID string
	SessionID  string
	RowKey     string
	Filename   string
	Data       io.Reader
}
