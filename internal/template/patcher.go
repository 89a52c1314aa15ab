// Package template fills the report template: it unpacks the DOCX archive,
// substitutes placeholder tokens in word/document.xml with formatted run
// fragments, normalizes styling and repacks the archive. Substitution is
// textual: placeholders are literal bracketed tokens that never overlap
// control markup, and every non-placeholder byte passes through unchanged.
package template

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/advisordocs/reportgen/internal/ooxml"
	"github.com/advisordocs/reportgen/internal/report"
	"github.com/advisordocs/reportgen/internal/template/mapping"
	"github.com/advisordocs/reportgen/internal/template/stylefix"
)

// Placeholders living in simple one-line contexts on the cover page; their
// values are escaped but never wrapped in fresh runs.
var frontPagePlaceholders = map[string]bool{
	"[Meeting Objective]":        true,
	"[Client Name(s)]":           true,
	"[Adviser Name]":             true,
	"[Meeting Date]":             true,
	"[Meeting Format]":           true,
	"[Opportunity Value]":        true,
	"[Document Generation Date]": true,
}

// Patcher fills a report template from extracted data.
type Patcher struct {
	cfg    *mapping.Config
	font   string
	strict bool
	log    *slog.Logger
	now    func() time.Time
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithFont overrides the font family stamped on injected runs.
func WithFont(font string) Option { return func(p *Patcher) { p.font = font } }

// WithStrict makes unmatched placeholders fail the fill instead of being
// reported only.
func WithStrict(strict bool) Option { return func(p *Patcher) { p.strict = strict } }

// WithClock overrides the generation-date clock.
func WithClock(now func() time.Time) Option { return func(p *Patcher) { p.now = now } }

// New creates a Patcher for the given mapping.
func New(cfg *mapping.Config, log *slog.Logger, opts ...Option) *Patcher {
	p := &Patcher{
		cfg:  cfg,
		font: ooxml.DefaultFont,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result reports what a fill run did.
type Result struct {
	// Unmatched lists placeholders whose substitution was a no-op: the
	// token was not found in the document body.
	Unmatched []string
}

// Generate unpacks templatePath, fills it with data, normalizes styling and
// repacks the result at outPath. The scratch directory is removed on all
// paths.
func (p *Patcher) Generate(templatePath string, data report.Data, outPath string) (*Result, error) {
	workDir, err := os.MkdirTemp("", "reportgen-fill-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := Unpack(templatePath, workDir); err != nil {
		return nil, fmt.Errorf("unpack template: %w", err)
	}
	p.log.Info("template unpacked", "template", templatePath)

	docPath := filepath.Join(workDir, "word", "document.xml")
	raw, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("read document body: %w", err)
	}

	filled, res := p.Fill(string(raw), data)
	if err := os.WriteFile(docPath, []byte(filled), 0o644); err != nil {
		return nil, fmt.Errorf("write document body: %w", err)
	}
	p.log.Info("template filled", "unmatched_placeholders", len(res.Unmatched))

	if err := stylefix.Apply(workDir, p.font); err != nil {
		return nil, fmt.Errorf("normalize styles: %w", err)
	}
	p.log.Info("styles normalized", "font", p.font)

	if err := Pack(workDir, outPath); err != nil {
		return nil, fmt.Errorf("pack output: %w", err)
	}
	p.log.Info("archive packed", "output", outPath)

	if p.strict && len(res.Unmatched) > 0 {
		return res, fmt.Errorf("unmatched placeholders: %s", strings.Join(res.Unmatched, ", "))
	}
	return res, nil
}

// Fill substitutes every configured placeholder in the document body and
// applies the global cleanup passes. It never errors: unmatched placeholders
// are collected in the Result.
func (p *Patcher) Fill(content string, data report.Data) (string, *Result) {
	res := &Result{}

	data.Set("Meeting", "Document Generation Date", p.now().Format("02-January-2006"))

	content = p.fillMeeting(content, data, res)
	for _, name := range p.cfg.SectionNames() {
		content = p.fillSection(content, name, p.cfg.Sections[name], data, res)
		p.log.Debug("section filled", "section", name)
	}

	// Leftover opening brackets from partially fragmented placeholders.
	content = strings.ReplaceAll(content, "<w:t>[</w:t>", "<w:t></w:t>")
	// Ampersands escaped once by the template and once by the fill.
	content = strings.ReplaceAll(content, "&amp;amp;", "&amp;")
	content = suppressPageBreakBefore(content, "Executive Summary")

	sort.Strings(res.Unmatched)
	return content, res
}

func (p *Patcher) fillMeeting(content string, data report.Data, res *Result) string {
	meeting, ok := p.cfg.Sections["Meeting"]
	if !ok {
		return content
	}

	placeholders := make([]string, 0, len(meeting.Placeholders))
	for ph := range meeting.Placeholders {
		placeholders = append(placeholders, ph)
	}
	sort.Strings(placeholders)

	for _, ph := range placeholders {
		field := meeting.Placeholders[ph]
		value := data.Value(meeting.JSONKey, field)

		var replaced bool
		switch {
		case (ph == "[Summary of Discussion]" || ph == "[Actions & Recommendations]") && value != report.NotAvailable:
			formatted := ooxml.FormatNewlinesBold(value, p.cfg.BoldPhrases[field], p.font)
			content, replaced = p.substitute(content, ph, formatted, true)
		case ph == "[Next Steps]" && value != report.NotAvailable:
			content, replaced = p.substitute(content, ph, ooxml.FormatNewlines(value, p.font), true)
		default:
			content, replaced = p.substitute(content, ph, value, false)
		}
		if !replaced {
			res.Unmatched = append(res.Unmatched, ph)
		}
	}
	return content
}

func (p *Patcher) fillSection(content, name string, sec mapping.Section, data report.Data, res *Result) string {
	notes := data.SoftNotes(sec.JSONKey, sec.SoftNotesFields)
	if notes != report.NoNotes {
		if name == "Vulnerability" {
			notes = ooxml.FormatCategorized(notes, p.font)
		} else {
			notes = ooxml.FormatBullets(notes, p.font)
		}
	}

	if sec.SoftNotesPlaceholder != "" {
		var replaced bool
		content, replaced = p.substitute(content, sec.SoftNotesPlaceholder, notes, true)
		if !replaced && p.cfg.IsSplitSection(name) {
			content, replaced = p.substituteSplit(content, name, notes)
		}
		if !replaced {
			res.Unmatched = append(res.Unmatched, sec.SoftNotesPlaceholder)
		}
	}

	if sec.HardFactsPlaceholder != "" {
		facts := p.hardFacts(data, sec)
		var replaced bool
		content, replaced = p.substitute(content, sec.HardFactsPlaceholder, facts, true)
		if !replaced {
			res.Unmatched = append(res.Unmatched, sec.HardFactsPlaceholder)
		}
	}

	extra := make([]string, 0, len(sec.AdditionalPlaceholders))
	for ph := range sec.AdditionalPlaceholders {
		extra = append(extra, ph)
	}
	sort.Strings(extra)
	for _, ph := range extra {
		value := data.Value(sec.JSONKey, sec.AdditionalPlaceholders[ph])
		var replaced bool
		content, replaced = p.substitute(content, ph, value, false)
		if !replaced {
			res.Unmatched = append(res.Unmatched, ph)
		}
	}
	return content
}

// hardFacts renders a section's flat fields as labeled lines and its array
// items as numbered blocks, joined by blank-line breaks. Sentinel values are
// omitted entirely; a section with nothing to show yields NoData.
func (p *Patcher) hardFacts(data report.Data, sec mapping.Section) string {
	if _, ok := data[sec.JSONKey]; !ok {
		return report.NoData
	}

	var blocks []string

	var flat []string
	for _, field := range sec.HardFactsFields {
		value := data.Value(sec.JSONKey, field)
		if !report.IsValid(value) {
			continue
		}
		flat = append(flat, ooxml.FactRuns(field, value, p.font))
	}
	if len(flat) > 0 {
		blocks = append(blocks, strings.Join(flat, ooxml.LineBreak))
	}

	if sec.ArrayField != "" {
		itemLabel := strings.TrimSuffix(sec.ArrayField, "s")
		for n, item := range data.Items(sec.JSONKey, sec.ArrayField) {
			lines := []string{ooxml.HeadingRun(fmt.Sprintf("%s %d:", itemLabel, n+1), p.font)}
			for _, field := range item.FieldNames() {
				if strings.Contains(strings.ToLower(field), "soft notes") {
					continue
				}
				if value := item[field]; report.IsValid(value) {
					lines = append(lines, ooxml.FactRuns(field, value, p.font))
				}
			}
			if len(lines) > 1 {
				blocks = append(blocks, strings.Join(lines, ooxml.LineBreak))
			}
		}
	}

	if len(blocks) == 0 {
		return report.NoData
	}
	inner := strings.Join(blocks, ooxml.LineBreak+ooxml.LineBreak)
	return `</w:t></w:r>` + inner + `<w:r><w:t>`
}

// substitute replaces every occurrence of placeholder (raw and with the
// ampersand entity-escaped, as it appears inside markup) and reports whether
// anything changed. Fragment values are spliced raw; front-page placeholders
// are escaped without run wrapping; other plain values get their own run so
// the surrounding text node stays balanced.
func (p *Patcher) substitute(content, placeholder, value string, isFragment bool) (string, bool) {
	if placeholder == "" {
		return content, true
	}

	var injected string
	switch {
	case isFragment:
		injected = value
	case frontPagePlaceholders[placeholder]:
		injected = ooxml.Escape(value)
	default:
		injected = `</w:t></w:r><w:r><w:rPr><w:rFonts w:ascii="` + p.font + `" w:hAnsi="` + p.font + `" w:cs="` + p.font + `"/></w:rPr>` +
			`<w:t xml:space="preserve">` + ooxml.Escape(value) + `</w:t></w:r><w:r><w:t>`
	}

	before := content
	content = strings.ReplaceAll(content, placeholder, injected)
	content = strings.ReplaceAll(content, strings.ReplaceAll(placeholder, "&", "&amp;"), injected)
	return content, content != before
}

// substituteSplit handles placeholders fragmented across three runs by prior
// edits: an opening-bracket run, the section-name run and a " Soft Notes]"
// closer. Only the inner text nodes are rewritten; run and property wrappers
// stay intact.
func (p *Patcher) substituteSplit(content, sectionName, value string) (string, bool) {
	if !ooxml.IsFragment(value) {
		value = ooxml.Escape(value)
	}
	xmlName := strings.ReplaceAll(sectionName, "&", "&amp;")

	pattern := regexp.MustCompile(
		`(?s)<w:t>\[</w:t>\s*</w:r>\s*` +
			`<w:r[^>]*>\s*<w:rPr>\s*<w:color[^/]*/>\s*<w:szCs[^/]*/>\s*</w:rPr>\s*` +
			`<w:t>` + regexp.QuoteMeta(xmlName) + `</w:t>\s*</w:r>\s*` +
			`<w:r[^>]*>\s*<w:rPr>\s*<w:color[^/]*/>\s*<w:szCs[^/]*/>\s*</w:rPr>\s*` +
			`<w:t xml:space="preserve"> Soft Notes\]</w:t>`)

	nameNode := regexp.MustCompile(`<w:t>` + regexp.QuoteMeta(xmlName) + `</w:t>`)

	replaced := false
	content = pattern.ReplaceAllStringFunc(content, func(m string) string {
		replaced = true
		m = strings.Replace(m, "<w:t>[</w:t>", "<w:t></w:t>", 1)
		m = nameNode.ReplaceAllString(m, "<w:t>"+value+"</w:t>")
		m = strings.Replace(m, `<w:t xml:space="preserve"> Soft Notes]</w:t>`, `<w:t xml:space="preserve"></w:t>`, 1)
		return m
	})
	return content, replaced
}

var pageBreakRe = regexp.MustCompile(`<w:br\s+w:type="page"\s*/>`)

// suppressPageBreakBefore removes a page break when the heading follows it
// within a bounded window with no other page break in between. Cosmetic
// layout fix for the cover page.
func suppressPageBreakBefore(content, heading string) string {
	locs := pageBreakRe.FindAllStringIndex(content, -1)

	// Decide on the untouched text first: removing one break must not
	// unshield an earlier one whose window contained it.
	var remove [][2]int
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		windowEnd := end + 500 + len(heading)
		if windowEnd > len(content) {
			windowEnd = len(content)
		}
		window := content[end:windowEnd]
		hIdx := strings.Index(window, heading)
		if hIdx < 0 {
			continue
		}
		if pageBreakRe.MatchString(window[:hIdx]) {
			continue
		}
		remove = append(remove, [2]int{start, end})
	}
	for i := len(remove) - 1; i >= 0; i-- {
		content = content[:remove[i][0]] + content[remove[i][1]:]
	}
	return content
}
