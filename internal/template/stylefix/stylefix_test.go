package stylefix

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalize_SelfClosingFont(t *testing.T) {
	in := `<w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/></w:rPr>`
	got := Normalize(in, "Arial")
	want := `<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial" w:cs="Arial" w:eastAsia="Arial"/></w:rPr>`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_PairedFont(t *testing.T) {
	in := `<w:rFonts w:ascii="Calibri"><w:something/></w:rFonts>`
	got := Normalize(in, "Arial")
	if strings.Contains(got, "Calibri") || strings.Contains(got, "w:something") {
		t.Errorf("paired font element not replaced: %q", got)
	}
}

func TestNormalize_PairedRegexSkipsSelfClosingPairs(t *testing.T) {
	// Two self-closing tags with markup in between must not be treated as
	// one paired element.
	in := `<w:rFonts w:ascii="A"/><w:t>keep me</w:t><w:rFonts w:ascii="B"/>`
	got := Normalize(in, "Arial")
	if !strings.Contains(got, "keep me") {
		t.Errorf("markup between self-closing tags was swallowed: %q", got)
	}
}

func TestNormalize_ThemeAttributesStripped(t *testing.T) {
	in := `<w:rFonts w:asciiTheme="minorHAnsi" w:ascii="Calibri"/>`
	got := Normalize(in, "Arial")
	if strings.Contains(got, "Theme") {
		t.Errorf("theme attribute survived: %q", got)
	}
}

func TestNormalize_JustificationForcedLeft(t *testing.T) {
	cases := []string{
		`<w:jc w:val="both"/>`,
		`<w:jc w:val="distribute"/>`,
		`<w:pPr><w:jc w:val="both"/></w:pPr>`,
		`<w:pPrDefault><w:pPr><w:jc w:val="distribute"/></w:pPr></w:pPrDefault>`,
	}
	for _, in := range cases {
		got := Normalize(in, "Arial")
		if strings.Contains(got, `"both"`) || strings.Contains(got, `"distribute"`) {
			t.Errorf("justification not forced left in %q: got %q", in, got)
		}
		if !strings.Contains(got, `"left"`) {
			t.Errorf("expected left justification in %q: got %q", in, got)
		}
	}
}

func TestNormalize_LeftAndCenterUntouched(t *testing.T) {
	for _, in := range []string{`<w:jc w:val="left"/>`, `<w:jc w:val="center"/>`} {
		if got := Normalize(in, "Arial"); got != in {
			t.Errorf("expected %q unchanged, got %q", in, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := `<w:document><w:pPr><w:jc w:val="both"/></w:pPr>` +
		`<w:rPr><w:rFonts w:asciiTheme="minorHAnsi" w:ascii="Calibri"/></w:rPr>` +
		`<w:t>Body text</w:t></w:document>`
	once := Normalize(in, "Arial")
	twice := Normalize(once, "Arial")
	if once != twice {
		t.Errorf("normalization is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestApply_WritesHeadersAndSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	wordDir := filepath.Join(dir, "word")
	if err := os.MkdirAll(wordDir, 0o755); err != nil {
		t.Fatal(err)
	}

	docXML := `<w:document><w:rFonts w:ascii="Calibri"/></w:document>`
	headerXML := `<w:hdr><w:jc w:val="both"/></w:hdr>`
	if err := os.WriteFile(filepath.Join(wordDir, "document.xml"), []byte(docXML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(wordDir, "header1.xml"), []byte(headerXML), 0o644); err != nil {
		t.Fatal(err)
	}
	// No styles.xml, numbering.xml or settings.xml: must be skipped quietly.

	if err := Apply(dir, "Arial"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	doc, _ := os.ReadFile(filepath.Join(wordDir, "document.xml"))
	if !strings.Contains(string(doc), `w:ascii="Arial"`) {
		t.Errorf("document.xml font not normalized: %s", doc)
	}
	hdr, _ := os.ReadFile(filepath.Join(wordDir, "header1.xml"))
	if !strings.Contains(string(hdr), `w:val="left"`) {
		t.Errorf("header1.xml justification not normalized: %s", hdr)
	}
}
