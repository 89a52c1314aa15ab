// Package stylefix post-processes a filled, unpacked template: every font
// declaration is forced to one family and full-justify/distribute alignment
// is forced down to left. All rewrites are idempotent, so a second pass is a
// no-op.
package stylefix

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	selfClosingFontRe = regexp.MustCompile(`<w:rFonts[^>]*/>`)
	// The opening tag must not be self-closing, or a pair of self-closing
	// tags would be mistaken for one paired element and swallow the markup
	// between them.
	pairedFontRe = regexp.MustCompile(`(?s)<w:rFonts[^>]*[^/>]>.*?</w:rFonts>`)

	themeAttrRes = []*regexp.Regexp{
		regexp.MustCompile(`\s*w:asciiTheme="[^"]*"`),
		regexp.MustCompile(`\s*w:hAnsiTheme="[^"]*"`),
		regexp.MustCompile(`\s*w:cstheme="[^"]*"`),
		regexp.MustCompile(`\s*w:eastAsiaTheme="[^"]*"`),
	}

	jcSelfClosingRe = regexp.MustCompile(`<w:jc\s+w:val\s*=\s*"(?:both|distribute)"\s*/>`)
	jcOpenRe        = regexp.MustCompile(`<w:jc\s+w:val\s*=\s*"(?:both|distribute)"\s*>`)
	jcTagRe         = regexp.MustCompile(`<w:jc[^>]*>`)

	pPrBlockRe        = regexp.MustCompile(`(?s)<w:pPr>.*?</w:pPr>`)
	pPrDefaultBlockRe = regexp.MustCompile(`(?s)<w:pPrDefault>.*?</w:pPrDefault>`)
)

// Apply normalizes fonts and justification across the body, styles,
// numbering, settings and every header/footer part under unpackedDir.
// Missing optional parts are skipped silently.
func Apply(unpackedDir, font string) error {
	wordDir := filepath.Join(unpackedDir, "word")
	parts := []string{
		filepath.Join(wordDir, "document.xml"),
		filepath.Join(wordDir, "styles.xml"),
		filepath.Join(wordDir, "numbering.xml"),
		filepath.Join(wordDir, "settings.xml"),
	}

	entries, err := os.ReadDir(wordDir)
	if err == nil {
		for _, e := range entries {
			name := e.Name()
			if (strings.HasPrefix(name, "header") || strings.HasPrefix(name, "footer")) && strings.HasSuffix(name, ".xml") {
				parts = append(parts, filepath.Join(wordDir, name))
			}
		}
	}

	for _, part := range parts {
		if err := applyFile(part, font); err != nil {
			return err
		}
	}
	return nil
}

func applyFile(path, font string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	normalized := Normalize(string(raw), font)
	if normalized == string(raw) {
		return nil
	}
	if err := os.WriteFile(path, []byte(normalized), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Normalize applies the font and justification rewrites to one part's
// markup.
func Normalize(content, font string) string {
	fontTag := `<w:rFonts w:ascii="` + font + `" w:hAnsi="` + font + `" w:cs="` + font + `" w:eastAsia="` + font + `"/>`

	content = selfClosingFontRe.ReplaceAllString(content, fontTag)
	content = pairedFontRe.ReplaceAllString(content, fontTag)
	for _, re := range themeAttrRes {
		content = re.ReplaceAllString(content, "")
	}

	content = jcSelfClosingRe.ReplaceAllString(content, `<w:jc w:val="left"/>`)
	content = jcOpenRe.ReplaceAllString(content, `<w:jc w:val="left">`)
	content = jcTagRe.ReplaceAllStringFunc(content, leftJustify)
	content = pPrBlockRe.ReplaceAllStringFunc(content, leftJustify)
	content = pPrDefaultBlockRe.ReplaceAllStringFunc(content, leftJustify)

	return content
}

func leftJustify(block string) string {
	for _, v := range []string{"both", "distribute"} {
		block = strings.ReplaceAll(block, `"`+v+`"`, `"left"`)
		block = strings.ReplaceAll(block, `'`+v+`'`, `'left'`)
	}
	return block
}
