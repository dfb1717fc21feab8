package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/altapos/variant-wizard-service/internal/matrix"
)

const (
	SessionStatusDraft     = "draft"
	SessionStatusSubmitted = "submitted"
)

// WizardSession is one product-creation wizard in progress. Groups is the
// normalized catalog snapshot the session works against, Selection the per
// group chosen option values, Rows the reconciled variant matrix. All three
// live in jsonb columns.
type WizardSession struct {
	BaseModel
	MerchantID  string       `db:"merchant_id" json:"merchant_id"`
	ProductName string       `db:"product_name" json:"product_name"`
	Status      string       `db:"status" json:"status"`
	Groups      GroupList    `db:"groups" json:"groups"`
	Selection   SelectionMap `db:"selection" json:"selection"`
	Rows        RowList      `db:"rows" json:"rows"`
}

// DraftRow is the submission-ready form of a variant row: combination parts
// carry group id and name so downstream consumers do not need the group
// catalog, and the image travels as a boolean flag because the bytes go
// through a separate channel.
type DraftRow struct {
	Key        string        `json:"key"`
	Parts      []matrix.Part `json:"parts"`
	PriceExtra string        `json:"price_extra"`
	SKU        string        `json:"sku"`
	Qty        string        `json:"qty"`
	LowQty     string        `json:"low_qty"`
	Barcode    string        `json:"barcode"`
	HasImage   bool          `json:"has_image"`
}

type ProductDraft struct {
	BaseModel
	MerchantID  string       `db:"merchant_id" json:"merchant_id"`
	SessionID   string       `db:"session_id" json:"session_id"`
	ProductName string       `db:"product_name" json:"product_name"`
	Rows        DraftRowList `db:"rows" json:"rows"`
}

// jsonb column helpers

type GroupList []matrix.Group

func (g GroupList) Value() (driver.Value, error) { return jsonbValue(g) }
func (g *GroupList) Scan(src interface{}) error  { return jsonbScan(src, g) }

type SelectionMap matrix.Selection

func (s SelectionMap) Value() (driver.Value, error) { return jsonbValue(s) }
func (s *SelectionMap) Scan(src interface{}) error  { return jsonbScan(src, s) }

type RowList []matrix.Row

func (r RowList) Value() (driver.Value, error) { return jsonbValue(r) }
func (r *RowList) Scan(src interface{}) error  { return jsonbScan(src, r) }

type DraftRowList []DraftRow

func (r DraftRowList) Value() (driver.Value, error) { return jsonbValue(r) }
func (r *DraftRowList) Scan(src interface{}) error  { return jsonbScan(src, r) }

func jsonbValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonbScan(src, dst interface{}) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
