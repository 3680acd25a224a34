package submission

import (
	"time"

	"github.com/google/uuid"
)

// Submission is one user-supplied data instance against a form. Submissions
// are immutable once created.
type Submission struct {
	ID          uuid.UUID      `json:"id"`
	FormID      uuid.UUID      `json:"form_id"`
	Data        map[string]any `json:"data"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

type CreateSubmissionRequest struct {
	Data map[string]any `json:"data" binding:"required"`
}

// Filters narrow a listing: each entry maps a field id to a substring the
// submission's value must contain, case-insensitively. Entries are ANDed.
type Filters map[string]string

type ListSubmissionsResponse struct {
	Submissions []*Submission `json:"submissions"`
	Total       int           `json:"total"`
}
