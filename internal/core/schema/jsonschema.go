package schema

// SubmissionSchema derives a JSON Schema document from the form's field list.
// Submission payloads are validated against it before persisting.
func (f *Form) SubmissionSchema() map[string]any {
	properties := make(map[string]any, len(f.Fields))
	var required []string

	for i := range f.Fields {
		field := &f.Fields[i]
		properties[field.ID] = fieldProperty(field)
		if field.Required() {
			required = append(required, field.ID)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"title":      f.Name,
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func fieldProperty(field *FormField) map[string]any {
	prop := map[string]any{"title": field.Label}

	switch field.Type {
	case FieldTypeNumber:
		prop["type"] = "number"
		if min := numericBound(field, ValidationMin); min != nil {
			prop["minimum"] = *min
		}
		if max := numericBound(field, ValidationMax); max != nil {
			prop["maximum"] = *max
		}
	case FieldTypeCheckbox:
		if len(field.Options) > 0 {
			prop["type"] = "array"
			prop["items"] = map[string]any{"enum": optionValues(field.Options)}
		} else {
			prop["type"] = "boolean"
		}
	case FieldTypeSelect, FieldTypeRadio:
		prop["enum"] = optionValues(field.Options)
	case FieldTypeEmail:
		prop["type"] = "string"
		prop["format"] = "email"
	case FieldTypeDate:
		prop["type"] = "string"
		prop["format"] = "date"
	default:
		prop["type"] = "string"
	}

	return prop
}

func optionValues(options []FieldOption) []any {
	values := make([]any, len(options))
	for i, opt := range options {
		values[i] = opt.Value
	}
	return values
}
