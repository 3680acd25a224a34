package form

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
	"github.com/MSamoilovic/FormForge-API/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, form *schema.Form) error {
	fields, err := json.Marshal(form.Fields)
	if err != nil {
		return err
	}
	rules, err := json.Marshal(form.Rules)
	if err != nil {
		return err
	}
	theme, err := marshalTheme(form.Theme)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO forms (id, name, description, fields, rules, theme, owner_id, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.DB.QueryRowContext(ctx, query,
		form.ID, form.Name, form.Description, fields, rules, theme, form.OwnerID, form.OrganizationID,
	).Scan(&form.CreatedAt, &form.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*schema.Form, error) {
	query := `
		SELECT id, name, description, fields, rules, theme, owner_id, organization_id, created_at, updated_at
		FROM forms
		WHERE id = $1`

	return r.scanForm(r.db.DB.QueryRowContext(ctx, query, id))
}

func (r *Repository) List(ctx context.Context, ownerID *uuid.UUID) ([]*schema.Form, error) {
	query := `
		SELECT id, name, description, fields, rules, theme, owner_id, organization_id, created_at, updated_at
		FROM forms`
	args := []any{}
	if ownerID != nil {
		query += ` WHERE owner_id = $1`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []*schema.Form
	for rows.Next() {
		form, err := r.scanFormRow(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, rows.Err()
}

func (r *Repository) Update(ctx context.Context, form *schema.Form) error {
	fields, err := json.Marshal(form.Fields)
	if err != nil {
		return err
	}
	rules, err := json.Marshal(form.Rules)
	if err != nil {
		return err
	}
	theme, err := marshalTheme(form.Theme)
	if err != nil {
		return err
	}

	query := `
		UPDATE forms
		SET name = $2, description = $3, fields = $4, rules = $5, theme = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	return r.db.DB.QueryRowContext(ctx, query,
		form.ID, form.Name, form.Description, fields, rules, theme,
	).Scan(&form.UpdatedAt)
}

// Delete removes the form; submissions cascade through the foreign key.
// Returns false when the id did not match anything.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM forms WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanForm(row rowScanner) (*schema.Form, error) {
	form, err := r.scanFormRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return form, err
}

func (r *Repository) scanFormRow(row rowScanner) (*schema.Form, error) {
	form := &schema.Form{}
	var description sql.NullString
	var fields, rules []byte
	var theme []byte

	err := row.Scan(
		&form.ID, &form.Name, &description, &fields, &rules, &theme,
		&form.OwnerID, &form.OrganizationID, &form.CreatedAt, &form.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	form.Description = description.String
	if err := json.Unmarshal(fields, &form.Fields); err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		if err := json.Unmarshal(rules, &form.Rules); err != nil {
			return nil, err
		}
	}
	if len(theme) > 0 {
		if err := json.Unmarshal(theme, &form.Theme); err != nil {
			return nil, err
		}
	}

	return form, nil
}

func marshalTheme(theme *schema.Theme) ([]byte, error) {
	if theme == nil {
		return nil, nil
	}
	return json.Marshal(theme)
}
