package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MSamoilovic/FormForge-API/internal/core/submission"
	"github.com/MSamoilovic/FormForge-API/internal/core/validation"
)

type SubmissionHandler struct {
	submissionService *submission.Service
}

func NewSubmissionHandler(submissionService *submission.Service) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	formID, err := uuid.Parse(c.Param("formId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form id"})
		return
	}

	var req submission.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.submissionService.Create(c.Request.Context(), formID, &req)
	if err != nil {
		switch {
		case errors.Is(err, submission.ErrFormNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		case validation.IsValidationError(err):
			c.JSON(http.StatusBadRequest, validation.GetValidationErrors(err))
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// List returns a form's submissions. Every query parameter is treated as a
// field-id filter whose value must appear, case-insensitively, in the
// submission's value for that field.
func (h *SubmissionHandler) List(c *gin.Context) {
	formID, err := uuid.Parse(c.Param("formId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form id"})
		return
	}

	filters := submission.Filters{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 && values[0] != "" {
			filters[key] = values[0]
		}
	}

	resp, err := h.submissionService.ListByForm(c.Request.Context(), formID, filters)
	if err != nil {
		if errors.Is(err, submission.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SubmissionHandler) ExportCSV(c *gin.Context) {
	formID, err := uuid.Parse(c.Param("formId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form id"})
		return
	}

	data, err := h.submissionService.ExportCSV(c.Request.Context(), formID)
	if err != nil {
		switch {
		case errors.Is(err, submission.ErrFormNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		case errors.Is(err, submission.ErrNoSubmissions):
			c.JSON(http.StatusNotFound, gin.H{"error": "No submissions found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	filename := fmt.Sprintf("form_%s_submissions.csv", formID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}
