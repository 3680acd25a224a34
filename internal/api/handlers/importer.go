package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MSamoilovic/FormForge-API/internal/core/importer"
)

type ImportHandler struct {
	importService *importer.Service
}

func NewImportHandler(importService *importer.Service) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Template serves the empty import workbook.
func (h *ImportHandler) Template(c *gin.Context) {
	buf, err := h.importService.GenerateTemplate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate template"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+importer.TemplateFilename)
	c.Data(http.StatusOK, importer.ContentType, buf.Bytes())
}

// Import parses an uploaded workbook into a form definition. Nothing is
// persisted; the response is ready to feed into the create endpoint.
func (h *ImportHandler) Import(c *gin.Context) {
	h.parseUpload(c)
}

// Preview is the same as Import but mounted without authentication.
func (h *ImportHandler) Preview(c *gin.Context) {
	h.parseUpload(c)
}

func (h *ImportHandler) parseUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type, only .xlsx files are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "error reading file"})
		return
	}
	defer file.Close()

	success, parsed, errs := h.importService.Parse(file)
	if !success {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Validation errors found",
			"errors":  errs,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Excel parsed successfully. Use this data to create the form.",
		"form":    parsed,
	})
}
