package validation

import (
	"testing"

	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
)

func submissionSchema(t *testing.T) map[string]any {
	t.Helper()

	f := &schema.Form{
		Name: "Anketa",
		Fields: []schema.FormField{
			{
				ID:    "ime",
				Type:  schema.FieldTypeText,
				Label: "Ime",
				Validations: []schema.Validation{
					{Type: schema.ValidationRequired, Value: true},
				},
			},
			{
				ID:    "ocena",
				Type:  schema.FieldTypeNumber,
				Label: "Ocena",
				Validations: []schema.Validation{
					{Type: schema.ValidationMin, Value: float64(1)},
					{Type: schema.ValidationMax, Value: float64(5)},
				},
			},
			{
				ID:    "preporuka",
				Type:  schema.FieldTypeRadio,
				Label: "Preporuka",
				Options: []schema.FieldOption{
					{Label: "Da", Value: "da"},
					{Label: "Ne", Value: "ne"},
				},
			},
		},
	}
	return f.SubmissionSchema()
}

func TestValidate_AcceptsValidData(t *testing.T) {
	v := NewValidator()
	data := map[string]any{"ime": "Ana", "ocena": 4, "preporuka": "da"}

	if err := v.Validate(data, submissionSchema(t)); err != nil {
		t.Errorf("valid data should pass: %v", err)
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	v := NewValidator()
	data := map[string]any{"ocena": 4}

	err := v.Validate(data, submissionSchema(t))
	if err == nil {
		t.Fatal("missing required field should fail")
	}
	if !IsValidationError(err) {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}
}

func TestValidate_NumberOutOfRange(t *testing.T) {
	v := NewValidator()
	data := map[string]any{"ime": "Ana", "ocena": 9}

	err := v.Validate(data, submissionSchema(t))
	if err == nil {
		t.Fatal("out-of-range number should fail")
	}

	ve := GetValidationErrors(err)
	if ve == nil || len(ve.Errors) == 0 {
		t.Fatal("validation errors should be populated")
	}
}

func TestValidate_EnumMismatch(t *testing.T) {
	v := NewValidator()
	data := map[string]any{"ime": "Ana", "preporuka": "mozda"}

	if err := v.Validate(data, submissionSchema(t)); err == nil {
		t.Error("value outside the option enum should fail")
	}
}

func TestValidate_WrongType(t *testing.T) {
	v := NewValidator()
	data := map[string]any{"ime": "Ana", "ocena": "pet"}

	if err := v.Validate(data, submissionSchema(t)); err == nil {
		t.Error("string in a number field should fail")
	}
}

func TestValidate_EmptySchemaAllowsAnything(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(map[string]any{"whatever": 1}, nil); err != nil {
		t.Errorf("empty schema should pass everything: %v", err)
	}
}

func TestIsValidationError_OtherErrors(t *testing.T) {
	if IsValidationError(nil) {
		t.Error("nil is not a validation error")
	}
	if GetValidationErrors(nil) != nil {
		t.Error("GetValidationErrors(nil) should be nil")
	}
}
