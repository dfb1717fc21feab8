package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/altapos/variant-wizard-service/internal/model"
	"github.com/altapos/variant-wizard-service/internal/wizard/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateSession(ctx context.Context, s *model.WizardSession) error {
	query := `
        INSERT INTO wizard_sessions (
            id, merchant_id, product_name, status, groups, selection, rows, created_at, updated_at
        )
        VALUES (
            :id, :merchant_id, :product_name, :status, :groups, :selection, :rows, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) FindSessionByID(ctx context.Context, merchantID, id string) (*model.WizardSession, error) {
	var session model.WizardSession
	query := `SELECT * FROM wizard_sessions WHERE merchant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &session, query, merchantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *PGRepository) UpdateSession(ctx context.Context, s *model.WizardSession) error {
	query := `
        UPDATE wizard_sessions
        SET product_name = :product_name,
            status = :status,
            groups = :groups,
            selection = :selection,
            rows = :rows,
            updated_at = :updated_at
        WHERE id = :id AND merchant_id = :merchant_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) DeleteSession(ctx context.Context, merchantID, id string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM wizard_sessions WHERE merchant_id = $1 AND id = $2`, merchantID, id)
	return err
}

func (r *PGRepository) CreateDraft(ctx context.Context, d *model.ProductDraft) error {
	query := `
        INSERT INTO product_drafts (
            id, merchant_id, session_id, product_name, rows, created_at, updated_at
        )
        VALUES (
            :id, :merchant_id, :session_id, :product_name, :rows, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, d)
	return err
}

func (r *PGRepository) FindDraftByID(ctx context.Context, merchantID, id string) (*model.ProductDraft, error) {
	var draft model.ProductDraft
	query := `SELECT * FROM product_drafts WHERE merchant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &draft, query, merchantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &draft, nil
}

func (r *PGRepository) ListDrafts(ctx context.Context, f *dto.DraftFilters) ([]model.ProductDraft, int, error) {
	var drafts []model.ProductDraft
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.MerchantID != "" {
		conditions = append(conditions, "merchant_id = :merchant_id")
		args["merchant_id"] = f.MerchantID
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "product_name ILIKE :search")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM product_drafts" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// Whitelist sortable columns
		switch f.SortBy {
		case "name":
			orderBy = "product_name"
		case "created_at":
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM product_drafts%s ORDER BY %s", whereClause, orderBy)

	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &drafts, args); err != nil {
		return nil, 0, err
	}

	return drafts, count, nil
}
