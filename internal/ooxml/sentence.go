package ooxml

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Patterns whose periods must never be treated as sentence boundaries. Each
// match is swapped for an opaque token before splitting and restored after.
var protectedPatterns = []*regexp.Regexp{
	// Titles, business suffixes, Latin abbreviations, months, addresses,
	// countries and academic degrees. Longest alternatives first.
	regexp.MustCompile(`(?i)\b(?:U\.S\.A\.|Ph\.D\.|M\.B\.A\.|B\.Sc\.|M\.Sc\.|U\.S\.|U\.K\.|E\.U\.|M\.D\.|B\.A\.|M\.A\.|e\.g\.|i\.e\.|Mrs\.|Prof\.|Sept\.|Blvd\.|approx\.|Capt\.|Corp\.|Mr\.|Ms\.|Dr\.|Sr\.|Jr\.|Rev\.|Gen\.|Col\.|Lt\.|Sgt\.|Adm\.|Ltd\.|Inc\.|Co\.|Plc\.|LLP\.|LLC\.|etc\.|vs\.|v\.|cf\.|viz\.|est\.|min\.|max\.|avg\.|no\.|vol\.|pp\.|pg\.|fig\.|Jan\.|Feb\.|Mar\.|Apr\.|Jun\.|Jul\.|Aug\.|Sep\.|Oct\.|Nov\.|Dec\.|St\.|Ave\.|Rd\.|Ct\.|Pl\.|Mt\.|Ft\.)`),
	// Decimal numbers: £1.7, 3.2%, 4.5.
	regexp.MustCompile(`\d+\.\d+`),
	// Ellipsis.
	regexp.MustCompile(`\.{2,}`),
	// Quoted sentences ending with a period inside the quotes.
	regexp.MustCompile(`["'][^"']*\.["']`),
	// Time of day written with a period: 3.30pm, 10.15 AM.
	regexp.MustCompile(`\d{1,2}\.\d{2}\s*(?:am|pm|AM|PM)`),
	// Version numbers: v1.0, version 2.5.
	regexp.MustCompile(`(?i)v(?:ersion)?\s*\d+\.\d+`),
}

// SplitSentences splits narrative text into sentences without breaking on
// decimal numbers, abbreviations, times, versions, ellipses or quoted
// periods. Every returned sentence is trimmed; empty input yields nil.
func SplitSentences(text string) []string {
	if text == "" {
		return nil
	}

	// Protect non-boundary periods with opaque tokens. The token alphabet
	// (\x01, digits) contains nothing the boundary scan reacts to.
	protected := text
	var originals []string
	for _, re := range protectedPatterns {
		protected = re.ReplaceAllStringFunc(protected, func(m string) string {
			token := "\x01" + strconv.Itoa(len(originals)) + "\x01"
			originals = append(originals, m)
			return token
		})
	}

	var sentences []string
	for _, part := range splitAtBoundaries(protected) {
		for i := len(originals) - 1; i >= 0; i-- {
			part = strings.ReplaceAll(part, "\x01"+strconv.Itoa(i)+"\x01", originals[i])
		}
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// splitAtBoundaries breaks text after terminal punctuation that is followed
// by whitespace and an uppercase letter. This is the lookaround-free
// equivalent of splitting on `(?<=[.!?])\s+(?=[A-Z])`.
func splitAtBoundaries(text string) []string {
	runes := []rune(text)
	var parts []string
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		parts = append(parts, string(runes[start:i+1]))
		start = j
		i = j - 1
	}
	parts = append(parts, string(runes[start:]))
	return parts
}

// EnsureTerminated appends a period unless the sentence already ends in
// terminal punctuation or a closing quote.
func EnsureTerminated(sentence string) string {
	s := strings.TrimSpace(sentence)
	if s == "" {
		return ""
	}
	switch s[len(s)-1] {
	case '.', '!', '?', '"', '\'':
		return s
	}
	return s + "."
}
