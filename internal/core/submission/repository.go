package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/MSamoilovic/FormForge-API/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, sub *Submission) error {
	data, err := json.Marshal(sub.Data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO submissions (id, form_id, data)
		VALUES ($1, $2, $3)
		RETURNING submitted_at`

	return r.db.DB.QueryRowContext(ctx, query, sub.ID, sub.FormID, data).Scan(&sub.SubmittedAt)
}

// ListByForm returns a form's submissions ordered by submission time. Filters
// are ANDed as case-insensitive substring matches on the data payload.
func (r *Repository) ListByForm(ctx context.Context, formID uuid.UUID, filters Filters) ([]*Submission, error) {
	where, args := buildFilterClause(formID, filters)

	query := fmt.Sprintf(`
		SELECT id, form_id, data, submitted_at
		FROM submissions
		WHERE %s
		ORDER BY submitted_at ASC`, where)

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		sub := &Submission{}
		var data []byte
		if err := rows.Scan(&sub.ID, &sub.FormID, &data, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &sub.Data); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// filterKeyPattern mirrors the field id rule. Keys that could not name a
// field are dropped before they reach the query text.
var filterKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// buildFilterClause assembles the WHERE clause for a filtered listing. Filter
// keys are sorted so placeholder numbering is stable.
func buildFilterClause(formID uuid.UUID, filters Filters) (string, []any) {
	whereClause := []string{"form_id = $1"}
	args := []any{formID}

	keys := make([]string, 0, len(filters))
	for field := range filters {
		if filterKeyPattern.MatchString(field) {
			keys = append(keys, field)
		}
	}
	sort.Strings(keys)

	for _, field := range keys {
		whereClause = append(whereClause, fmt.Sprintf("data->>'%s' ILIKE $%d", field, len(args)+1))
		args = append(args, "%"+filters[field]+"%")
	}

	return strings.Join(whereClause, " AND "), args
}
