package model

import "time"

type AttributeGroup struct {
	ID         int64             `db:"id" json:"id"`
	MerchantID string            `db:"merchant_id" json:"merchant_id"`
	Name       string            `db:"name" json:"name"`
	SortOrder  int               `db:"sort_order" json:"sort_order"`
	IsActive   bool              `db:"is_active" json:"is_active"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
	Options    []AttributeOption `db:"-" json:"options"` // Joined data
}

type AttributeOption struct {
	ID        int64  `db:"id" json:"id"`
	GroupID   int64  `db:"group_id" json:"group_id"`
	Label     string `db:"label" json:"label"`
	Value     string `db:"value" json:"value"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

type Color struct {
	ID         int64  `db:"id" json:"id"`
	MerchantID string `db:"merchant_id" json:"merchant_id"`
	Name       string `db:"name" json:"name"`
	Hex        string `db:"hex" json:"hex"`
	SortOrder  int    `db:"sort_order" json:"sort_order"`
}
