package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/MSamoilovic/FormForge-API/internal/core/schema"
)

// buildWorkbook assembles an in-memory .xlsx with the given rows, header rows
// included. A nil sheet is omitted entirely.
func buildWorkbook(t *testing.T, formRows, fieldRows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	writeSheet := func(name string, rows [][]any) {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for i, row := range rows {
			for col, value := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
				if err := f.SetCellValue(name, cell, value); err != nil {
					t.Fatalf("set cell: %v", err)
				}
			}
		}
	}

	if formRows != nil {
		writeSheet(SheetForm, formRows)
	}
	if fieldRows != nil {
		writeSheet(SheetFields, fieldRows)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func defaultFormRows() [][]any {
	return [][]any{
		{"name", "description"},
		{"Test Forma", "Opis"},
	}
}

func fieldHeaderRow() []any {
	return []any{"id", "label", "type", "placeholder", "required", "options", "min", "max"}
}

func assertParseError(t *testing.T, errs []string, substr string) {
	t.Helper()
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return
		}
	}
	t.Errorf("no error containing %q in %v", substr, errs)
}

func TestParse_ValidWorkbook(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"ime", "Ime", "text", "Unesite ime", "TRUE", "", "", ""},
		{"ocena", "Ocena", "number", "", "FALSE", "", "1", "5"},
		{"drzava", "Država", "select", "", "TRUE", "Srbija, Hrvatska", "", ""},
	})

	ok, form, errs := NewService().Parse(buf)
	if !ok {
		t.Fatalf("parse should succeed, errors: %v", errs)
	}
	if form.Name != "Test Forma" {
		t.Errorf("form name = %q", form.Name)
	}
	if form.Description != "Opis" {
		t.Errorf("form description = %q", form.Description)
	}
	if len(form.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(form.Fields))
	}

	if !form.Fields[0].Required() {
		t.Error("first field should be required")
	}

	ocena := form.Fields[1]
	if ocena.Type != schema.FieldTypeNumber {
		t.Errorf("ocena type = %q", ocena.Type)
	}
	var sawMin, sawMax bool
	for _, v := range ocena.Validations {
		switch v.Type {
		case schema.ValidationMin:
			sawMin = v.Value == float64(1)
		case schema.ValidationMax:
			sawMax = v.Value == float64(5)
		}
	}
	if !sawMin || !sawMax {
		t.Errorf("number field should carry min/max validations: %+v", ocena.Validations)
	}

	drzava := form.Fields[2]
	if len(drzava.Options) != 2 {
		t.Fatalf("select field should have 2 options, got %d", len(drzava.Options))
	}
	if drzava.Options[0].Label != "Srbija" || drzava.Options[0].Value != "Srbija" {
		t.Errorf("option label and value should match the token: %+v", drzava.Options[0])
	}
}

func TestParse_InvalidFile(t *testing.T) {
	ok, _, errs := NewService().Parse(bytes.NewReader([]byte("definitely not a workbook")))
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Invalid Excel file:")
}

func TestParse_MissingSheets(t *testing.T) {
	ok, _, errs := NewService().Parse(buildWorkbook(t, nil, nil))
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Missing required sheet: 'Form'")
	assertParseError(t, errs, "Missing required sheet: 'Fields'")
}

func TestParse_MissingFieldsSheet(t *testing.T) {
	ok, _, errs := NewService().Parse(buildWorkbook(t, defaultFormRows(), nil))
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Missing required sheet: 'Fields'")
}

func TestParse_FormSheetMissingNameColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]any{{"title"}, {"Whatever"}}, [][]any{
		fieldHeaderRow(),
		{"ime", "Ime", "text"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Form sheet: Missing 'name' column")
}

func TestParse_FormSheetNoDataRow(t *testing.T) {
	buf := buildWorkbook(t, [][]any{{"name", "description"}}, [][]any{
		fieldHeaderRow(),
		{"ime", "Ime", "text"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Form sheet: No data found in row 2")
}

func TestParse_FormNameRequired(t *testing.T) {
	buf := buildWorkbook(t, [][]any{{"name", "description"}, {"", "opis"}}, [][]any{
		fieldHeaderRow(),
		{"ime", "Ime", "text"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Form name is required")
}

func TestParse_FieldsSheetMissingColumns(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		{"id", "label"},
		{"ime", "Ime"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Fields sheet: Missing required column 'type'")
}

func TestParse_NoFields(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{fieldHeaderRow()})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "At least one field is required")
}

func TestParse_BlankRowTerminatesScan(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"ime", "Ime", "text"},
		{},
		{"ignored", "Ignored", "text"},
	})

	ok, form, errs := NewService().Parse(buf)
	if !ok {
		t.Fatalf("parse should succeed, errors: %v", errs)
	}
	if len(form.Fields) != 1 {
		t.Errorf("rows after the first blank row should be ignored, got %d fields", len(form.Fields))
	}
}

func TestParse_DuplicateFieldID(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"ime", "Ime", "text"},
		{"ime", "Ime opet", "text"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Row 3: Duplicate field ID: 'ime'")
}

func TestParse_InvalidFieldID(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"ime prezime", "Ime", "text"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Row 2: Field ID 'ime prezime' contains invalid characters")
}

func TestParse_InvalidFieldType(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"lozinka", "Lozinka", "password"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Row 2: Invalid field type 'password'")
}

func TestParse_SelectRequiresOptions(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"drzava", "Država", "select"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Row 2: Field 'drzava' of type 'select' requires options")
}

func TestParse_NumberRequiresBounds(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"ocena", "Ocena", "number"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Row 2: Field 'ocena' of type 'number' requires 'min' value")
	assertParseError(t, errs, "Row 2: Field 'ocena' of type 'number' requires 'max' value")
}

func TestParse_NumberInvalidBounds(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"ocena", "Ocena", "number", "", "", "", "abc", "5"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Row 2: Field 'ocena' has invalid min/max values (must be numbers)")
}

func TestParse_NumberMinGreaterThanMax(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"ocena", "Ocena", "number", "", "", "", "10", "5"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Row 2: Field 'ocena' has min (10) greater than max (5)")
}

func TestParse_TruthyRequiredValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"TRUE", true},
		{"true", true},
		{"YES", true},
		{"1", true},
		{"DA", true},
		{"da", true},
		{"FALSE", false},
		{"NE", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("required="+tt.value, func(t *testing.T) {
			buf := buildWorkbook(t, defaultFormRows(), [][]any{
				fieldHeaderRow(),
				{"ime", "Ime", "text", "", tt.value},
			})

			ok, form, errs := NewService().Parse(buf)
			if !ok {
				t.Fatalf("parse should succeed, errors: %v", errs)
			}
			if form.Fields[0].Required() != tt.want {
				t.Errorf("required %q should map to %v", tt.value, tt.want)
			}
		})
	}
}

func TestParse_CaseInsensitiveHeaders(t *testing.T) {
	buf := buildWorkbook(t, [][]any{{"Name", "Description"}, {"Forma", ""}}, [][]any{
		{"ID", "Label", "TYPE"},
		{"ime", "Ime", "text"},
	})

	ok, form, errs := NewService().Parse(buf)
	if !ok {
		t.Fatalf("parse should succeed, errors: %v", errs)
	}
	if form.Name != "Forma" {
		t.Errorf("form name = %q", form.Name)
	}
}

func TestParse_AccumulatesRowErrors(t *testing.T) {
	buf := buildWorkbook(t, defaultFormRows(), [][]any{
		fieldHeaderRow(),
		{"", "No ID", "text"},
		{"ok", "", "text"},
		{"ocena", "Ocena", "number"},
	})

	ok, _, errs := NewService().Parse(buf)
	if ok {
		t.Fatal("parse should fail")
	}
	assertParseError(t, errs, "Row 2: Field ID is required")
	assertParseError(t, errs, "Row 3: Field label is required")
	assertParseError(t, errs, "Row 4: Field 'ocena' of type 'number' requires 'min' value")
}

// The generated template must parse back cleanly with its example rows intact.
func TestGenerateTemplate_RoundTrip(t *testing.T) {
	svc := NewService()

	buf, err := svc.GenerateTemplate()
	if err != nil {
		t.Fatalf("GenerateTemplate failed: %v", err)
	}

	ok, form, errs := svc.Parse(buf)
	if !ok {
		t.Fatalf("template should parse back cleanly, errors: %v", errs)
	}
	if form.Name != "Moja Forma" {
		t.Errorf("template form name = %q", form.Name)
	}
	if len(form.Fields) != len(fieldExamples) {
		t.Errorf("expected %d example fields, got %d", len(fieldExamples), len(form.Fields))
	}

	types := make(map[schema.FieldType]bool)
	for _, field := range form.Fields {
		types[field.Type] = true
	}
	for _, ft := range schema.AllowedFieldTypes {
		if !types[ft] {
			t.Errorf("template examples should cover type %q", ft)
		}
	}
}
