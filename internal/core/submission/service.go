package submission

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/MSamoilovic/FormForge-API/internal/core/form"
	"github.com/MSamoilovic/FormForge-API/internal/core/validation"
)

var (
	ErrFormNotFound  = errors.New("form not found")
	ErrNoSubmissions = errors.New("no submissions found")
)

type Service struct {
	repo      *Repository
	formSvc   *form.Service
	validator *validation.Validator
}

func NewService(repo *Repository, formSvc *form.Service, validator *validation.Validator) *Service {
	return &Service{repo: repo, formSvc: formSvc, validator: validator}
}

// Create persists a submission. Form existence is a precondition enforced
// here, not left to the caller; the payload is validated against the schema
// derived from the form's fields.
func (s *Service) Create(ctx context.Context, formID uuid.UUID, req *CreateSubmissionRequest) (*Submission, error) {
	f, err := s.formSvc.Get(ctx, formID)
	if err != nil {
		if errors.Is(err, form.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	if err := s.validator.Validate(req.Data, f.SubmissionSchema()); err != nil {
		return nil, err
	}

	sub := &Submission{
		ID:     uuid.New(),
		FormID: formID,
		Data:   req.Data,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *Service) ListByForm(ctx context.Context, formID uuid.UUID, filters Filters) (*ListSubmissionsResponse, error) {
	exists, err := s.formSvc.Exists(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFormNotFound
	}

	subs, err := s.repo.ListByForm(ctx, formID, filters)
	if err != nil {
		return nil, err
	}

	if subs == nil {
		subs = []*Submission{}
	}

	return &ListSubmissionsResponse{Submissions: subs, Total: len(subs)}, nil
}

// ExportCSV renders a form's submissions as CSV. Columns come from the first
// submission's keys only: later submissions with extra keys have those keys
// dropped, and missing keys render as blank cells.
func (s *Service) ExportCSV(ctx context.Context, formID uuid.UUID) ([]byte, error) {
	resp, err := s.ListByForm(ctx, formID, nil)
	if err != nil {
		return nil, err
	}
	if resp.Total == 0 {
		return nil, ErrNoSubmissions
	}

	return renderCSV(resp.Submissions)
}

func renderCSV(subs []*Submission) ([]byte, error) {
	columns := make([]string, 0, len(subs[0].Data))
	for key := range subs[0].Data {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"id", "submitted_at"}, columns...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sub := range subs {
		record := []string{sub.ID.String(), sub.SubmittedAt.Format("2006-01-02 15:04:05")}
		for _, col := range columns {
			record = append(record, formatCell(sub.Data[col]))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// Whole numbers render without a trailing .0
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
