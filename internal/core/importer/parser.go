package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
)

const (
	SheetForm         = "Form"
	SheetFields       = "Fields"
	SheetInstructions = "Instructions"
)

var fieldIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Truthy values accepted in the required column, case-insensitive.
var truthyValues = map[string]bool{"TRUE": true, "YES": true, "1": true, "DA": true}

// Service translates between the form schema and its workbook representation.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Parse reads a workbook and converts it into a form definition. It never
// fails on malformed content; instead it accumulates every discoverable error
// and succeeds only when none were found.
func (s *Service) Parse(r io.Reader) (bool, *schema.Form, []string) {
	var errs []string

	f, err := excelize.OpenReader(r)
	if err != nil {
		return false, nil, []string{fmt.Sprintf("Invalid Excel file: %v", err)}
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(SheetForm); idx == -1 {
		errs = append(errs, "Missing required sheet: 'Form'")
	}
	if idx, _ := f.GetSheetIndex(SheetFields); idx == -1 {
		errs = append(errs, "Missing required sheet: 'Fields'")
	}
	if len(errs) > 0 {
		return false, nil, errs
	}

	name, description, formErrs := s.parseFormSheet(f)
	errs = append(errs, formErrs...)

	fields, fieldErrs := s.parseFieldsSheet(f)
	errs = append(errs, fieldErrs...)

	if len(errs) > 0 {
		return false, nil, errs
	}

	form := &schema.Form{
		Name:        name,
		Description: description,
		Fields:      fields,
	}
	return true, form, nil
}

func (s *Service) parseFormSheet(f *excelize.File) (name, description string, errs []string) {
	rows, err := f.GetRows(SheetForm)
	if err != nil {
		return "", "", []string{fmt.Sprintf("Form sheet: %v", err)}
	}

	if len(rows) == 0 {
		return "", "", []string{"Form sheet: Missing 'name' column"}
	}

	headers := headerMap(rows[0])
	if _, ok := headers["name"]; !ok {
		return "", "", []string{"Form sheet: Missing 'name' column"}
	}

	if len(rows) < 2 {
		return "", "", []string{"Form sheet: No data found in row 2"}
	}
	values := rows[1]

	name = cellValue(values, headers, "name")
	if name == "" {
		errs = append(errs, "Form name is required")
	}
	description = cellValue(values, headers, "description")

	return name, description, errs
}

func (s *Service) parseFieldsSheet(f *excelize.File) ([]schema.FormField, []string) {
	var errs []string
	var fields []schema.FormField

	rows, err := f.GetRows(SheetFields)
	if err != nil {
		return nil, []string{fmt.Sprintf("Fields sheet: %v", err)}
	}

	if len(rows) == 0 || blankRow(rows[0]) {
		return nil, []string{"Fields sheet: No headers found"}
	}

	headers := headerMap(rows[0])
	for _, col := range []string{"id", "label", "type"} {
		if _, ok := headers[col]; !ok {
			errs = append(errs, fmt.Sprintf("Fields sheet: Missing required column '%s'", col))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	seen := make(map[string]bool)
	for i := 1; i < len(rows); i++ {
		// The first fully blank row terminates scanning.
		if blankRow(rows[i]) {
			break
		}

		field, rowErrs := s.parseFieldRow(rows[i], headers, i+1, seen)
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		fields = append(fields, *field)
		seen[field.ID] = true
	}

	if len(fields) == 0 && len(errs) == 0 {
		errs = append(errs, "At least one field is required")
	}

	return fields, errs
}

func (s *Service) parseFieldRow(values []string, headers map[string]int, rowNum int, seen map[string]bool) (*schema.FormField, []string) {
	var errs []string

	fieldID := cellValue(values, headers, "id")
	if fieldID == "" {
		return nil, []string{fmt.Sprintf("Row %d: Field ID is required", rowNum)}
	}
	if !fieldIDPattern.MatchString(fieldID) {
		errs = append(errs, fmt.Sprintf("Row %d: Field ID '%s' contains invalid characters (use only letters, numbers, underscore)", rowNum, fieldID))
	}
	if seen[fieldID] {
		errs = append(errs, fmt.Sprintf("Row %d: Duplicate field ID: '%s'", rowNum, fieldID))
		return nil, errs
	}

	label := cellValue(values, headers, "label")
	if label == "" {
		errs = append(errs, fmt.Sprintf("Row %d: Field label is required", rowNum))
		return nil, errs
	}

	typeStr := strings.ToLower(cellValue(values, headers, "type"))
	if typeStr == "" {
		errs = append(errs, fmt.Sprintf("Row %d: Field type is required", rowNum))
		return nil, errs
	}
	fieldType := schema.FieldType(typeStr)
	if !fieldType.Valid() {
		errs = append(errs, fmt.Sprintf("Row %d: Invalid field type '%s'. Allowed: %s", rowNum, typeStr, allowedTypes()))
		return nil, errs
	}

	placeholder := cellValue(values, headers, "placeholder")

	required := truthyValues[strings.ToUpper(cellValue(values, headers, "required"))]

	optionsStr := cellValue(values, headers, "options")
	var options []schema.FieldOption
	if schema.TypesRequiringOptions[fieldType] {
		if optionsStr == "" {
			errs = append(errs, fmt.Sprintf("Row %d: Field '%s' of type '%s' requires options", rowNum, fieldID, typeStr))
		} else {
			options = parseOptions(optionsStr)
			if len(options) == 0 {
				errs = append(errs, fmt.Sprintf("Row %d: Field '%s' has invalid options format", rowNum, fieldID))
			}
		}
	} else if optionsStr != "" {
		// Checkbox-with-options and friends still get their options parsed.
		options = parseOptions(optionsStr)
	}

	var validations []schema.Validation
	minStr := cellValue(values, headers, "min")
	maxStr := cellValue(values, headers, "max")
	if fieldType == schema.FieldTypeNumber {
		if minStr == "" {
			errs = append(errs, fmt.Sprintf("Row %d: Field '%s' of type 'number' requires 'min' value", rowNum, fieldID))
		}
		if maxStr == "" {
			errs = append(errs, fmt.Sprintf("Row %d: Field '%s' of type 'number' requires 'max' value", rowNum, fieldID))
		}
		if minStr != "" && maxStr != "" {
			minVal, minErr := strconv.ParseFloat(minStr, 64)
			maxVal, maxErr := strconv.ParseFloat(maxStr, 64)
			switch {
			case minErr != nil || maxErr != nil:
				errs = append(errs, fmt.Sprintf("Row %d: Field '%s' has invalid min/max values (must be numbers)", rowNum, fieldID))
			case minVal > maxVal:
				errs = append(errs, fmt.Sprintf("Row %d: Field '%s' has min (%s) greater than max (%s)", rowNum, fieldID, minStr, maxStr))
			default:
				validations = append(validations,
					schema.Validation{Type: schema.ValidationMin, Value: minVal},
					schema.Validation{Type: schema.ValidationMax, Value: maxVal},
				)
			}
		}
	}

	if required {
		validations = append(validations, schema.Validation{Type: schema.ValidationRequired, Value: true})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &schema.FormField{
		ID:          fieldID,
		Type:        fieldType,
		Label:       label,
		Placeholder: placeholder,
		Options:     options,
		Validations: validations,
		Rules:       []schema.FormRule{},
	}, nil
}

func parseOptions(raw string) []schema.FieldOption {
	var options []schema.FieldOption
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		options = append(options, schema.FieldOption{Label: part, Value: part})
	}
	return options
}

// headerMap builds a case-insensitive column name to index lookup from the
// header row.
func headerMap(headers []string) map[string]int {
	m := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			m[h] = i
		}
	}
	return m
}

// cellValue resolves a named column in a data row. Out-of-range and blank
// cells resolve to the empty string, never an error.
func cellValue(values []string, headers map[string]int, column string) string {
	idx, ok := headers[column]
	if !ok || idx >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[idx])
}

func blankRow(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func allowedTypes() string {
	parts := make([]string, len(schema.AllowedFieldTypes))
	for i, t := range schema.AllowedFieldTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
