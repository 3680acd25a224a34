package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MSamoilovic/FormForge-API/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

// User methods

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, full_name, role, is_active, is_verified, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`
	return r.db.DB.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FullName,
		user.Role, user.IsActive, user.IsVerified, user.OrganizationID,
	).Scan(&user.CreatedAt)
}

const userColumns = `id, email, username, password_hash, full_name, role, is_active, is_verified, organization_id, last_login, created_at`

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *Repository) getUser(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	var fullName sql.NullString
	err := r.db.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &fullName,
		&user.Role, &user.IsActive, &user.IsVerified, &user.OrganizationID,
		&user.LastLogin, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.FullName = fullName.String
	return user, nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *User) error {
	query := `UPDATE users SET username = $2, full_name = $3 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, user.ID, user.Username, user.FullName)
	return err
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id, passwordHash)
	return err
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login = $2 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id, at)
	return err
}

// Organization methods

func (r *Repository) CreateOrganization(ctx context.Context, org *Organization) error {
	settings, _ := json.Marshal(org.Settings)
	query := `
		INSERT INTO organizations (id, name, slug, plan, max_forms, max_submissions_per_month, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	return r.db.DB.QueryRowContext(ctx, query,
		org.ID, org.Name, org.Slug, org.Plan, org.MaxForms, org.MaxSubmissionsPerMonth, settings,
	).Scan(&org.CreatedAt)
}

func (r *Repository) GetOrganizationBySlug(ctx context.Context, slug string) (*Organization, error) {
	query := `SELECT id, name, slug, plan, max_forms, max_submissions_per_month, settings, created_at
		FROM organizations WHERE slug = $1`
	org := &Organization{}
	var settings []byte
	err := r.db.DB.QueryRowContext(ctx, query, slug).Scan(
		&org.ID, &org.Name, &org.Slug, &org.Plan, &org.MaxForms, &org.MaxSubmissionsPerMonth,
		&settings, &org.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		json.Unmarshal(settings, &org.Settings)
	}
	return org, nil
}

// API Key methods

func (r *Repository) CreateAPIKey(ctx context.Context, key *APIKey) error {
	scopes, _ := json.Marshal(key.Scopes)
	query := `
		INSERT INTO api_keys (id, user_id, name, key_hash, scopes, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	return r.db.DB.QueryRowContext(ctx, query,
		key.ID, key.UserID, key.Name, key.KeyHash, scopes, key.IsActive, key.ExpiresAt,
	).Scan(&key.CreatedAt)
}

const apiKeyColumns = `id, user_id, name, key_hash, scopes, is_active, expires_at, last_used_at, created_at`

func (r *Repository) GetAPIKeyByHash(ctx context.Context, keyHash string) (*APIKey, error) {
	return r.getAPIKey(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = $1`, keyHash)
}

func (r *Repository) GetAPIKeyByID(ctx context.Context, id uuid.UUID) (*APIKey, error) {
	return r.getAPIKey(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE id = $1`, id)
}

func (r *Repository) getAPIKey(ctx context.Context, query string, arg any) (*APIKey, error) {
	key := &APIKey{}
	var scopes []byte
	err := r.db.DB.QueryRowContext(ctx, query, arg).Scan(
		&key.ID, &key.UserID, &key.Name, &key.KeyHash, &scopes,
		&key.IsActive, &key.ExpiresAt, &key.LastUsedAt, &key.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	json.Unmarshal(scopes, &key.Scopes)
	return key, nil
}

func (r *Repository) GetAPIKeysByUserID(ctx context.Context, userID uuid.UUID) ([]*APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*APIKey
	for rows.Next() {
		key := &APIKey{}
		var scopes []byte
		if err := rows.Scan(&key.ID, &key.UserID, &key.Name, &key.KeyHash, &scopes,
			&key.IsActive, &key.ExpiresAt, &key.LastUsedAt, &key.CreatedAt); err != nil {
			return nil, err
		}
		json.Unmarshal(scopes, &key.Scopes)
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *Repository) TouchAPIKey(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE api_keys SET last_used_at = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id)
	return err
}

func (r *Repository) DeactivateAPIKey(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE api_keys SET is_active = FALSE WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id)
	return err
}
