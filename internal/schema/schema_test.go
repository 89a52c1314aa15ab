package schema

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "rules.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_GroupsFieldsBySection(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Section / Data Category", "Field", "Description"},
		{"Meeting", "Adviser Name", "Extract the adviser's full name"},
		{"Meeting", "Meeting Date", "Extract the meeting date"},
		{"1. Personal Details", "Client Name(s)", "Primary client full name only"},
		{"1. Personal Details", "", "row without a field is skipped"},
	})

	s, err := Load(path, "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(s.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(s.Sections))
	}
	if s.Sections[0].Name != "Meeting" {
		t.Errorf("expected workbook order preserved, got %q first", s.Sections[0].Name)
	}
	if len(s.Sections[0].Fields) != 2 {
		t.Errorf("expected 2 Meeting fields, got %d", len(s.Sections[0].Fields))
	}
	if s.TotalFields() != 3 {
		t.Errorf("expected 3 total fields, got %d", s.TotalFields())
	}
}

func TestLoad_MissingFieldColumn(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Section", "Name"},
		{"Meeting", "x"},
	})
	if _, err := Load(path, ""); err == nil {
		t.Error("expected error for workbook without Field column")
	}
}

func TestPromptLines_OneRulePerField(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Section / Data Category", "Field", "Description"},
		{"Meeting", "Adviser Name", "Extract the adviser's full name"},
	})
	s, err := Load(path, "")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	lines := s.PromptLines()
	if !strings.Contains(lines, `"Meeting" -> "Adviser Name" : Extract the adviser's full name`) {
		t.Errorf("unexpected prompt line format: %q", lines)
	}
	if strings.HasSuffix(lines, "\n") {
		t.Error("prompt lines must not end with a newline")
	}
}
