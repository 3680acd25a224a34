package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MSamoilovic/FormForge-API/internal/api/middleware"
	"github.com/MSamoilovic/FormForge-API/internal/core/form"
	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
)

type FormHandler struct {
	formService *form.Service
}

func NewFormHandler(formService *form.Service) *FormHandler {
	return &FormHandler{formService: formService}
}

func (h *FormHandler) Create(c *gin.Context) {
	var req form.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ownerID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		ownerID = &id
	}

	created, err := h.formService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		if schema.IsSchemaError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": err.(*schema.SchemaError).Errors})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *FormHandler) List(c *gin.Context) {
	var ownerID *uuid.UUID
	if c.Query("mine") == "true" {
		id, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		ownerID = &id
	}

	resp, err := h.formService.List(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FormHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form id"})
		return
	}

	f, err := h.formService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, form.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, f)
}

func (h *FormHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form id"})
		return
	}

	if !h.requireOwner(c, id) {
		return
	}

	var req form.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.formService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, form.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		case schema.IsSchemaError(err):
			c.JSON(http.StatusBadRequest, gin.H{"errors": err.(*schema.SchemaError).Errors})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *FormHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form id"})
		return
	}

	if !h.requireOwner(c, id) {
		return
	}

	deleted, err := h.formService.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

// requireOwner enforces the ownership boundary for mutations. Ownerless forms
// stay mutable by any authenticated user.
func (h *FormHandler) requireOwner(c *gin.Context, formID uuid.UUID) bool {
	f, err := h.formService.Get(c.Request.Context(), formID)
	if err != nil {
		if errors.Is(err, form.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}

	if f.OwnerID == nil {
		return true
	}

	userID, ok := middleware.GetUserID(c)
	if !ok || *f.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return false
	}
	return true
}
