package mapping

import (
	"strings"
	"testing"
)

func TestDefault_Loads(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("embedded mapping failed to load: %v", err)
	}
	if len(cfg.Sections) == 0 {
		t.Fatal("expected sections in embedded mapping")
	}
	if _, ok := cfg.Sections["Meeting"]; !ok {
		t.Error("expected Meeting section")
	}
	if _, ok := cfg.Sections["Vulnerability"]; !ok {
		t.Error("expected Vulnerability section")
	}
}

func TestDefault_SectionShape(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	sav, ok := cfg.Sections["Savings & Investments"]
	if !ok {
		t.Fatal("expected Savings & Investments section")
	}
	if sav.JSONKey != "7. Savings & Investments" {
		t.Errorf("expected numbered json key, got %q", sav.JSONKey)
	}
	if sav.ArrayField != "Assets" {
		t.Errorf("expected Assets array field, got %q", sav.ArrayField)
	}
	if sav.SoftNotesPlaceholder == "" || !strings.Contains(sav.SoftNotesPlaceholder, "Soft Notes") {
		t.Errorf("expected a soft notes placeholder, got %q", sav.SoftNotesPlaceholder)
	}
}

func TestDefault_BoldPhrases(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	phrases := cfg.BoldPhrases["Actions & Recommendations"]
	if len(phrases) == 0 {
		t.Fatal("expected bold phrases for Actions & Recommendations")
	}
	found := false
	for _, p := range phrases {
		if p == "Immediate" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Immediate among phrases, got %v", phrases)
	}
}

func TestIsSplitSection(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsSplitSection("Retirement Planning") {
		t.Error("Retirement Planning should be a split section")
	}
	if cfg.IsSplitSection("Personal Details") {
		t.Error("Personal Details should not be a split section")
	}
}

func TestSectionNames_SortedWithoutMeeting(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	names := cfg.SectionNames()
	for i, n := range names {
		if n == "Meeting" {
			t.Error("Meeting must be excluded from section names")
		}
		if i > 0 && names[i-1] > n {
			t.Errorf("names not sorted: %q before %q", names[i-1], n)
		}
	}
	if len(names) != len(cfg.Sections)-1 {
		t.Errorf("expected %d names, got %d", len(cfg.Sections)-1, len(names))
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Sections) == 0 {
		t.Fatal("expected embedded default")
	}
}

func TestParse_RejectsEmpty(t *testing.T) {
	if _, err := parse([]byte("version: '1'")); err == nil {
		t.Error("expected error for mapping without sections")
	}
}
