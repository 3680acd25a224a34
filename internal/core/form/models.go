package form

import (
	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
)

type CreateFormRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Fields      []schema.FormField `json:"fields" binding:"required"`
	Rules       []schema.FormRule  `json:"rules"`
	Theme       *schema.Theme      `json:"theme"`
}

// UpdateFormRequest carries a partial overwrite: absent fields leave the
// stored value untouched.
type UpdateFormRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Fields      *[]schema.FormField `json:"fields"`
	Rules       *[]schema.FormRule  `json:"rules"`
	Theme       *schema.Theme       `json:"theme"`
}

type ListFormsResponse struct {
	Forms []*schema.Form `json:"forms"`
	Total int            `json:"total"`
}
