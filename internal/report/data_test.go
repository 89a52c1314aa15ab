package report

import (
	"reflect"
	"testing"
)

func TestValue_MissingSectionAndField(t *testing.T) {
	d := Data{
		"1. Personal Details": Section{"Client Name": "Jordan Avery"},
	}

	if got := d.Value("1. Personal Details", "Client Name"); got != "Jordan Avery" {
		t.Errorf("expected value, got %q", got)
	}
	if got := d.Value("1. Personal Details", "Missing Field"); got != NotAvailable {
		t.Errorf("expected %q for missing field, got %q", NotAvailable, got)
	}
	if got := d.Value("99. Nope", "Client Name"); got != NotAvailable {
		t.Errorf("expected %q for missing section, got %q", NotAvailable, got)
	}
	if got := d.Value("1. Personal Details", "Client Name"); got == "" {
		t.Errorf("value lookup must never return empty")
	}
}

func TestIsValid_SentinelNormalization(t *testing.T) {
	invalid := []string{
		"", "Not Available", "not available", "NOT AVAILABLE",
		"Not found", "N/A", "n.a.", "None", "null", "  ",
	}
	for _, v := range invalid {
		if IsValid(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}

	valid := []string{"£45,000", "Retired", "0", "No current pension"}
	for _, v := range valid {
		if !IsValid(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
}

func TestSoftNotes_SingleField(t *testing.T) {
	d := Data{
		"2. Vulnerability": Section{"Vulnerability Soft Notes": "Client reported stress."},
	}

	if got := d.SoftNotes("2. Vulnerability", []string{"Vulnerability Soft Notes"}); got != "Client reported stress." {
		t.Errorf("expected raw notes, got %q", got)
	}
	if got := d.SoftNotes("2. Vulnerability", []string{"Other Notes"}); got != NoNotes {
		t.Errorf("expected %q, got %q", NoNotes, got)
	}
	if got := d.SoftNotes("2. Vulnerability", nil); got != NoNotes {
		t.Errorf("expected %q for no fields, got %q", NoNotes, got)
	}
}

func TestSoftNotes_TwoFieldsLabeled(t *testing.T) {
	d := Data{
		"3. Health": Section{
			"Health Soft Notes":    "Generally good health.",
			"Smoking Status Notes": "Non-smoker.",
		},
	}

	got := d.SoftNotes("3. Health", []string{"Health Soft Notes", "Smoking Status Notes"})
	want := "Health Soft Notes: Generally good health.\n\nSmoking Status Notes: Non-smoker."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSoftNotes_TwoFieldsSkipsInvalid(t *testing.T) {
	d := Data{
		"3. Health": Section{
			"Health Soft Notes":    "Not Available",
			"Smoking Status Notes": "Non-smoker.",
		},
	}

	got := d.SoftNotes("3. Health", []string{"Health Soft Notes", "Smoking Status Notes"})
	if got != "Smoking Status Notes: Non-smoker." {
		t.Errorf("expected only the valid field, got %q", got)
	}
}

func TestItems_ParsesArrayEntries(t *testing.T) {
	raw := []byte(`{
		"7. Savings & Investments": {
			"Assets": [
				{"Asset Type": "ISA", "Value": "£20,000", "Asset Soft Notes": "long note"},
				{"Asset Type": "GIA", "Value": "£5,000"},
				"not an object"
			]
		}
	}`)
	d, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	items := d.Items("7. Savings & Investments", "Assets")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0]["Asset Type"] != "ISA" {
		t.Errorf("expected first item ISA, got %q", items[0]["Asset Type"])
	}

	names := items[1].FieldNames()
	if !reflect.DeepEqual(names, []string{"Asset Type", "Value"}) {
		t.Errorf("expected sorted field names, got %v", names)
	}
}

func TestItems_MissingArray(t *testing.T) {
	d := Data{"7. Savings & Investments": Section{}}
	if got := d.Items("7. Savings & Investments", "Assets"); got != nil {
		t.Errorf("expected nil for missing array, got %v", got)
	}
}

func TestSet_CreatesSection(t *testing.T) {
	d := Data{}
	d.Set("Meeting", "Document Generation Date", "01-March-2026")
	if got := d.Value("Meeting", "Document Generation Date"); got != "01-March-2026" {
		t.Errorf("expected stored value, got %q", got)
	}
}
