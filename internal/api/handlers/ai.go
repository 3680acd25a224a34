package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MSamoilovic/FormForge-API/internal/core/ai"
	"github.com/MSamoilovic/FormForge-API/internal/core/form"
	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
)

const generateFormSystemPrompt = `You are a form designer. Produce a JSON object with keys ` +
	`"name", "description" and "fields", where each field has "id" (snake_case), "type" ` +
	`(one of: text, email, number, textarea, select, radio, checkbox, date), "label", ` +
	`optional "placeholder", "options" (list of {"label","value"}) and "validations" ` +
	`(list of {"type","value"}). Respond with JSON only.`

type AIHandler struct {
	generator ai.Generator
}

func NewAIHandler(generator ai.Generator) *AIHandler {
	return &AIHandler{generator: generator}
}

type PromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (h *AIHandler) TestPrompt(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get a response from the AI model"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": text})
}

// GenerateForm asks the model for a form definition and runs the output
// through the same schema gate as every other entry path. The upstream is
// untrusted, so decode and validation failures are reported distinctly.
func (h *AIHandler) GenerateForm(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.generator.Generate(c.Request.Context(), generateFormSystemPrompt+"\n\nUser request: '"+req.Prompt+"'")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get a response from the AI model"})
		return
	}

	var formReq form.CreateFormRequest
	if err := json.Unmarshal([]byte(text), &formReq); err != nil {
		log.Printf("ai: model returned unparseable JSON: %s", text)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI model returned unparseable JSON"})
		return
	}

	candidate := &schema.Form{
		Name:        formReq.Name,
		Description: formReq.Description,
		Fields:      formReq.Fields,
		Rules:       formReq.Rules,
		Theme:       formReq.Theme,
	}
	if err := candidate.Validate(); err != nil {
		log.Printf("ai: model returned invalid form schema: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI model returned an invalid form schema"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": formReq})
}
