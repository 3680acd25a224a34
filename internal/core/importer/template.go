package importer

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

var formHeaders = []string{"name", "description"}

var fieldHeaders = []string{"id", "label", "type", "placeholder", "required", "options", "min", "max"}

// One example row per supported field type.
var fieldExamples = [][]any{
	{"name", "Ime i Prezime", "text", "Unesite ime...", "TRUE", "", "", ""},
	{"email", "Email Adresa", "email", "vas@email.com", "TRUE", "", "", ""},
	{"age", "Godine", "number", "", "FALSE", "", "18", "99"},
	{"country", "Država", "select", "Izaberite državu", "TRUE", "Srbija, Hrvatska, BiH", "", ""},
	{"gender", "Pol", "radio", "", "FALSE", "Muški, Ženski, Drugo", "", ""},
	{"newsletter", "Želim newsletter", "checkbox", "", "FALSE", "", "", ""},
	{"birth_date", "Datum rođenja", "date", "", "FALSE", "", "", ""},
	{"message", "Poruka", "textarea", "Unesite poruku...", "FALSE", "", "", ""},
}

var instructions = []string{
	"FormForge - Excel Import Template",
	"",
	"SHEET: Form",
	"- name: Naziv forme (obavezno)",
	"- description: Opis forme (opciono)",
	"",
	"SHEET: Fields",
	"- id: Jedinstveni ID polja (obavezno, bez razmaka)",
	"- label: Labela koja se prikazuje korisniku (obavezno)",
	"- type: Tip polja (obavezno)",
	"  Dozvoljeni tipovi: text, email, number, textarea, select, radio, checkbox, date",
	"- placeholder: Placeholder tekst (opciono)",
	"- required: TRUE ili FALSE (opciono, default: FALSE)",
	"- options: Za select/radio - opcije razdvojene zarezom (obavezno za select/radio)",
	"- min: Minimalna vrednost za number polja (obavezno za number)",
	"- max: Maksimalna vrednost za number polja (obavezno za number)",
	"",
	"NAPOMENE:",
	"- Ne menjajte nazive sheet-ova (Form, Fields)",
	"- Ne menjajte header redove",
	"- Možete obrisati primer redove i dodati svoje",
	"- ID polja mora biti jedinstven",
}

// GenerateTemplate builds the empty import workbook: a Form sheet, a Fields
// sheet with example rows, and a free-text Instructions sheet.
func (s *Service) GenerateTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetForm); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetFields); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetInstructions); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return nil, err
	}

	if err := s.writeSheet(f, SheetForm, formHeaders, [][]any{{"Moja Forma", "Opis forme (opciono)"}}, headerStyle, dataStyle); err != nil {
		return nil, err
	}
	if err := s.writeSheet(f, SheetFields, fieldHeaders, fieldExamples, headerStyle, dataStyle); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	for i, line := range instructions {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue(SheetInstructions, cell, line); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetInstructions, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetInstructions, "A", "A", 80); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func (s *Service) writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle, dataStyle int) error {
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}

		name, _ := excelize.ColumnNumberToName(col + 1)
		width := float64(len(header) + 5)
		if width < 15 {
			width = 15
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}

	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, dataStyle); err != nil {
				return err
			}
		}
	}

	return nil
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Style: 1, Color: "000000"}
	}
	return borders
}

// TemplateFilename is the download name served by the template endpoint.
const TemplateFilename = "formforge_template.xlsx"

// ContentType is the MIME type for .xlsx downloads.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
