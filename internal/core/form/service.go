package form

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
)

var ErrNotFound = errors.New("form not found")

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new form. Validation is applied here so
// every entry path (JSON create, spreadsheet import, AI generation) passes
// through the same gate.
func (s *Service) Create(ctx context.Context, ownerID *uuid.UUID, req *CreateFormRequest) (*schema.Form, error) {
	form := &schema.Form{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Fields:      req.Fields,
		Rules:       req.Rules,
		Theme:       req.Theme,
		OwnerID:     ownerID,
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, form); err != nil {
		return nil, err
	}

	return form, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*schema.Form, error) {
	form, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	return form, nil
}

// List returns all forms, scoped to the owner when one is given.
func (s *Service) List(ctx context.Context, ownerID *uuid.UUID) (*ListFormsResponse, error) {
	forms, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if forms == nil {
		forms = []*schema.Form{}
	}

	return &ListFormsResponse{Forms: forms, Total: len(forms)}, nil
}

// Update overwrites only the request fields that were present, then runs the
// merged form back through schema validation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateFormRequest) (*schema.Form, error) {
	form, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		form.Name = *req.Name
	}
	if req.Description != nil {
		form.Description = *req.Description
	}
	if req.Fields != nil {
		form.Fields = *req.Fields
	}
	if req.Rules != nil {
		form.Rules = *req.Rules
	}
	if req.Theme != nil {
		form.Theme = req.Theme
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, form); err != nil {
		return nil, err
	}

	return form, nil
}

// Delete reports false when the form did not exist; that is not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}
