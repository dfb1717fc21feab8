package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/altapos/variant-wizard-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateGroup(ctx context.Context, g *model.AttributeGroup) error {
	query := `
        INSERT INTO attribute_groups (merchant_id, name, sort_order, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.QueryRowxContext(ctx, query,
		g.MerchantID, g.Name, g.SortOrder, g.IsActive, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
}

func (r *PGRepository) FindGroupByID(ctx context.Context, merchantID string, id int64) (*model.AttributeGroup, error) {
	var group model.AttributeGroup
	query := `SELECT * FROM attribute_groups WHERE merchant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &group, query, merchantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.attachOptions(ctx, []*model.AttributeGroup{&group}); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroups returns active groups with their options attached, in catalog
// order (sort_order, then insertion order). The engine relies on this order
// being stable across calls.
func (r *PGRepository) ListGroups(ctx context.Context, merchantID string) ([]model.AttributeGroup, error) {
	var groups []model.AttributeGroup
	query := `
        SELECT * FROM attribute_groups
        WHERE merchant_id = $1 AND is_active = true
        ORDER BY sort_order, id
    `
	if err := r.DB.SelectContext(ctx, &groups, query, merchantID); err != nil {
		return nil, err
	}

	refs := make([]*model.AttributeGroup, len(groups))
	for i := range groups {
		refs[i] = &groups[i]
	}
	if err := r.attachOptions(ctx, refs); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PGRepository) attachOptions(ctx context.Context, groups []*model.AttributeGroup) error {
	if len(groups) == 0 {
		return nil
	}

	ids := make([]int64, len(groups))
	byID := make(map[int64]*model.AttributeGroup, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
		byID[g.ID] = g
	}

	query, args, err := sqlx.In(
		`SELECT * FROM attribute_options WHERE group_id IN (?) ORDER BY sort_order, id`, ids)
	if err != nil {
		return err
	}
	query = r.DB.Rebind(query)

	var options []model.AttributeOption
	if err := r.DB.SelectContext(ctx, &options, query, args...); err != nil {
		return err
	}

	for _, o := range options {
		if g, ok := byID[o.GroupID]; ok {
			g.Options = append(g.Options, o)
		}
	}
	return nil
}

func (r *PGRepository) UpdateGroup(ctx context.Context, g *model.AttributeGroup) error {
	query := `
        UPDATE attribute_groups
        SET name = :name, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at
        WHERE id = :id AND merchant_id = :merchant_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, g)
	return err
}

func (r *PGRepository) DeleteGroup(ctx context.Context, merchantID string, id int64) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attribute_options WHERE group_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attribute_groups WHERE merchant_id = $1 AND id = $2`, merchantID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) AddOption(ctx context.Context, o *model.AttributeOption) error {
	query := `
        INSERT INTO attribute_options (group_id, label, value, sort_order)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.QueryRowxContext(ctx, query,
		o.GroupID, o.Label, o.Value, o.SortOrder,
	).Scan(&o.ID)
}

func (r *PGRepository) DeleteOption(ctx context.Context, merchantID string, optionID int64) error {
	query := `
        DELETE FROM attribute_options o
        USING attribute_groups g
        WHERE o.group_id = g.id AND g.merchant_id = $1 AND o.id = $2
    `
	_, err := r.DB.ExecContext(ctx, query, merchantID, optionID)
	return err
}

func (r *PGRepository) ListColors(ctx context.Context, merchantID string) ([]model.Color, error) {
	var colors []model.Color
	query := `SELECT * FROM colors WHERE merchant_id = $1 ORDER BY sort_order, id`
	if err := r.DB.SelectContext(ctx, &colors, query, merchantID); err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *PGRepository) CreateColor(ctx context.Context, c *model.Color) error {
	query := `
        INSERT INTO colors (merchant_id, name, hex, sort_order)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.QueryRowxContext(ctx, query,
		c.MerchantID, c.Name, c.Hex, c.SortOrder,
	).Scan(&c.ID)
}

func (r *PGRepository) DeleteColor(ctx context.Context, merchantID string, id int64) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM colors WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	return err
}
