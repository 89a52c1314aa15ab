// Package ooxml builds WordprocessingML run fragments for splicing into a
// template's document.xml. Fragments follow a close-insert-reopen discipline:
// they begin by closing the text node and run the placeholder lives in, emit
// fully formed runs of their own, then reopen a run/text pair so the
// template markup that follows (which closes the text node itself) stays
// well formed.
package ooxml

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultFont is the family stamped on every run the formatters emit.
const DefaultFont = "Arial"

const bulletChar = "•"

// Sentinels rendered verbatim instead of being formatted.
const (
	noNotes      = "No notes available."
	notAvailable = "Not Available"
)

var listMarkerRe = regexp.MustCompile(`^\s*\*\s*`)

func runProps(font string) string {
	return `<w:rPr><w:rFonts w:ascii="` + font + `" w:hAnsi="` + font + `" w:cs="` + font + `"/></w:rPr>`
}

func boldRunProps(font string) string {
	return `<w:rPr><w:rFonts w:ascii="` + font + `" w:hAnsi="` + font + `" w:cs="` + font + `"/><w:b/></w:rPr>`
}

// FormatBullets renders soft-notes prose as one bulleted line per sentence,
// separated by explicit line breaks.
func FormatBullets(text, font string) string {
	if text == "" || text == noNotes {
		return text
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return Escape(text)
	}

	var cleaned []string
	for _, s := range sentences {
		if s = EnsureTerminated(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return Escape(text)
	}

	var b strings.Builder
	b.WriteString(`</w:t></w:r><w:r>` + runProps(font) + `<w:t>` + bulletChar + " " + Escape(cleaned[0]))
	for _, s := range cleaned[1:] {
		b.WriteString(`</w:t></w:r><w:r>` + runProps(font) + `<w:br/><w:t>` + bulletChar + " " + Escape(s))
	}
	b.WriteString(`</w:t></w:r><w:r><w:t>`)
	return b.String()
}

// cleanLines splits on literal newlines, strips "* " list markers and "**"
// bold markers, and drops blanks.
func cleanLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = listMarkerRe.ReplaceAllString(strings.TrimSpace(line), "")
		line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// FormatNewlines renders model-produced list text line by line, joined with
// explicit breaks. Unlike FormatBullets it splits on newlines, not sentences.
func FormatNewlines(text, font string) string {
	if text == "" || text == notAvailable {
		return text
	}

	lines := cleanLines(text)
	if len(lines) == 0 {
		return Escape(text)
	}

	var b strings.Builder
	b.WriteString(`</w:t></w:r><w:r>` + runProps(font) + `<w:t>` + Escape(lines[0]))
	for _, line := range lines[1:] {
		b.WriteString(`</w:t></w:r><w:r>` + runProps(font) + `<w:br/><w:t>` + Escape(line))
	}
	b.WriteString(`</w:t></w:r><w:r><w:t>`)
	return b.String()
}

// FormatNewlinesBold is FormatNewlines plus case-sensitive bolding of the
// configured phrases. Phrases are tried longest first so a shorter phrase
// never pre-empts a longer one containing it; a candidate starting inside an
// already accepted match is rejected.
func FormatNewlinesBold(text string, phrases []string, font string) string {
	if text == "" || text == notAvailable {
		return text
	}

	lines := cleanLines(text)
	if len(lines) == 0 {
		return Escape(text)
	}

	var b strings.Builder
	b.WriteString(applyBold(lines[0], phrases, font))
	for _, line := range lines[1:] {
		b.WriteString(`</w:t><w:br/><w:t>` + applyBold(line, phrases, font))
	}
	return b.String()
}

type phraseMatch struct {
	start, end int
	phrase     string
}

func applyBold(line string, phrases []string, font string) string {
	if len(phrases) == 0 {
		return Escape(line)
	}

	sorted := make([]string, len(phrases))
	copy(sorted, phrases)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	var matches []phraseMatch
	for _, phrase := range sorted {
		start := 0
		for {
			idx := strings.Index(line[start:], phrase)
			if idx < 0 {
				break
			}
			idx += start
			covered := false
			for _, m := range matches {
				if idx >= m.start && idx < m.end {
					covered = true
					break
				}
			}
			if !covered {
				matches = append(matches, phraseMatch{start: idx, end: idx + len(phrase), phrase: phrase})
			}
			start = idx + 1
		}
	}
	if len(matches) == 0 {
		return Escape(line)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	var b strings.Builder
	lastEnd := 0
	for _, m := range matches {
		if m.start > lastEnd {
			b.WriteString(Escape(line[lastEnd:m.start]))
		}
		b.WriteString(`</w:t></w:r><w:r>` + boldRunProps(font) + `<w:t>` + Escape(m.phrase) + `</w:t></w:r>`)
		b.WriteString(`<w:r>` + runProps(font) + `<w:t>`)
		lastEnd = m.end
	}
	if lastEnd < len(line) {
		b.WriteString(Escape(line[lastEnd:]))
	}
	return b.String()
}

// VulnerabilityCategories are the headings the categorized formatter
// recognizes in vulnerability soft notes.
var VulnerabilityCategories = []string{
	"Health Vulnerabilities",
	"Life Event Vulnerabilities",
	"Capability Vulnerabilities",
}

var categoryRe = func() *regexp.Regexp {
	quoted := make([]string, len(VulnerabilityCategories))
	for i, c := range VulnerabilityCategories {
		quoted[i] = regexp.QuoteMeta(c)
	}
	return regexp.MustCompile(`(` + strings.Join(quoted, "|") + `)\s*:\s*`)
}()

// FormatCategorized renders text under bold category headings, bulleting the
// sentences that follow each recognized label. Text with no category labels
// falls back to plain bulleted formatting.
func FormatCategorized(text, font string) string {
	if text == "" || text == noNotes {
		return text
	}

	cleaned := strings.ReplaceAll(text, "**", "")
	locs := categoryRe.FindAllStringSubmatchIndex(cleaned, -1)
	if len(locs) == 0 {
		return FormatBullets(text, font)
	}

	var b strings.Builder
	for i, loc := range locs {
		category := cleaned[loc[2]:loc[3]]
		contentEnd := len(cleaned)
		if i+1 < len(locs) {
			contentEnd = locs[i+1][0]
		}
		content := strings.TrimSpace(cleaned[loc[1]:contentEnd])

		if i == 0 {
			b.WriteString(`</w:t></w:r>`)
		} else {
			b.WriteString(`<w:r>` + runProps(font) + `<w:br/><w:br/></w:r>`)
		}

		b.WriteString(`<w:r>` + boldRunProps(font) + `<w:t>` + Escape(category) + `:</w:t></w:r>`)

		for _, sentence := range SplitSentences(content) {
			sentence = EnsureTerminated(sentence)
			if sentence == "" {
				continue
			}
			b.WriteString(`<w:r>` + runProps(font) + `<w:br/><w:t xml:space="preserve">` + bulletChar + " " + Escape(sentence) + `</w:t></w:r>`)
		}
	}
	b.WriteString(`<w:r><w:t>`)
	return b.String()
}

// FactRuns renders one "label: value" hard-fact line as a bold label run
// followed by a plain value run.
func FactRuns(label, value, font string) string {
	return `<w:r>` + boldRunProps(font) + `<w:t>` + Escape(label) + `:</w:t></w:r>` +
		`<w:r>` + runProps(font) + `<w:t xml:space="preserve"> ` + Escape(value) + `</w:t></w:r>`
}

// HeadingRun renders a bold standalone label, used for numbered array-item
// block headers.
func HeadingRun(label, font string) string {
	return `<w:r>` + boldRunProps(font) + `<w:t>` + Escape(label) + `</w:t></w:r>`
}

// LineBreak is the run-level break separating fact lines.
const LineBreak = `<w:r><w:br/></w:r>`

// IsFragment reports whether a value already contains run markup and must be
// spliced in raw rather than escaped.
func IsFragment(value string) bool {
	return strings.Contains(value, "</w:r>") || strings.Contains(value, "<w:br/>")
}
