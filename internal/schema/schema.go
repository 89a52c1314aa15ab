// Package schema loads the field-definition workbook that drives
// extraction: each row names a report section, a field within it and the
// business rule describing how to fill it.
package schema

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Field is one extractable field and its business rule.
type Field struct {
	Name        string
	Description string
}

// Section groups the fields of one report section, in workbook order.
type Section struct {
	Name   string
	Fields []Field
}

// Schema is the ordered set of sections from the workbook.
type Schema struct {
	Sections []Section
}

// Load reads field definitions from an Excel workbook. Expected columns:
// "Section / Data Category", "Field", "Description". Rows with an empty
// Field cell are skipped.
func Load(path, sheetName string) (*Schema, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	if sheetName == "" {
		sheetName = wb.GetSheetName(0)
	}
	rows, err := wb.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheetName)
	}

	sectionCol, fieldCol, descCol := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case "Section / Data Category", "Section":
			sectionCol = i
		case "Field":
			fieldCol = i
		case "Description":
			descCol = i
		}
	}
	if fieldCol < 0 {
		return nil, fmt.Errorf("sheet %q missing Field column", sheetName)
	}

	s := &Schema{}
	index := map[string]int{}
	for _, row := range rows[1:] {
		field := strings.TrimSpace(cell(row, fieldCol))
		if field == "" {
			continue
		}
		section := strings.TrimSpace(cell(row, sectionCol))
		desc := strings.TrimSpace(cell(row, descCol))

		i, ok := index[section]
		if !ok {
			i = len(s.Sections)
			index[section] = i
			s.Sections = append(s.Sections, Section{Name: section})
		}
		s.Sections[i].Fields = append(s.Sections[i].Fields, Field{
			Name:        field,
			Description: desc,
		})
	}
	if len(s.Sections) == 0 {
		return nil, fmt.Errorf("sheet %q has no field definitions", sheetName)
	}
	return s, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// PromptLines renders the schema as one rule line per field for the
// extraction prompt.
func (s *Schema) PromptLines() string {
	var buf strings.Builder
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			fmt.Fprintf(&buf, "  %q -> %q : %s\n", sec.Name, f.Name, f.Description)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

// TotalFields counts fields across every section.
func (s *Schema) TotalFields() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Fields)
	}
	return n
}
