package ooxml

import (
	"strings"
	"testing"
)

func TestFormatBullets_OneBulletPerSentence(t *testing.T) {
	got := FormatBullets("Client has £250,000 in savings. They want growth.", "Arial")

	if !strings.HasPrefix(got, "</w:t></w:r><w:r>") {
		t.Errorf("fragment must close the host run first, got prefix %q", got[:20])
	}
	if !strings.HasSuffix(got, "</w:t></w:r><w:r><w:t>") {
		t.Errorf("fragment must reopen a run/text pair at the end")
	}
	if !strings.Contains(got, "• Client has £250,000 in savings.") {
		t.Errorf("expected first bullet, got %q", got)
	}
	if !strings.Contains(got, `<w:br/><w:t>• They want growth.`) {
		t.Errorf("expected second bullet after a line break, got %q", got)
	}
	if strings.Count(got, "•") != 2 {
		t.Errorf("expected 2 bullets, got %d", strings.Count(got, "•"))
	}
}

func TestFormatBullets_SentinelPassesThrough(t *testing.T) {
	if got := FormatBullets("No notes available.", "Arial"); got != "No notes available." {
		t.Errorf("sentinel must pass through unformatted, got %q", got)
	}
	if got := FormatBullets("", "Arial"); got != "" {
		t.Errorf("empty input must pass through, got %q", got)
	}
}

func TestFormatBullets_TerminatesSentences(t *testing.T) {
	got := FormatBullets("client is risk averse", "Arial")
	if !strings.Contains(got, "• client is risk averse.") {
		t.Errorf("expected terminating period, got %q", got)
	}
}

func TestFormatNewlines_StripsListMarkers(t *testing.T) {
	got := FormatNewlines("* Book **annual review**\n* Send valuation", "Arial")
	if strings.Contains(got, "*") {
		t.Errorf("list and bold markers must be stripped, got %q", got)
	}
	if !strings.Contains(got, "Book annual review") {
		t.Errorf("expected cleaned first line, got %q", got)
	}
	if !strings.Contains(got, `<w:br/><w:t>Send valuation`) {
		t.Errorf("expected second line after break, got %q", got)
	}
}

func TestFormatNewlinesBold_LongestPhraseWins(t *testing.T) {
	got := FormatNewlinesBold("Review Retirement Planning options", []string{"Retirement", "Retirement Planning"}, "Arial")

	if !strings.Contains(got, `<w:b/></w:rPr><w:t>Retirement Planning</w:t>`) {
		t.Errorf("expected the longer phrase bolded whole, got %q", got)
	}
	if strings.Count(got, "<w:b/>") != 1 {
		t.Errorf("expected exactly one bold run, got %d", strings.Count(got, "<w:b/>"))
	}
}

func TestFormatNewlinesBold_NoPhrases(t *testing.T) {
	got := FormatNewlinesBold("Plain discussion text", nil, "Arial")
	if got != "Plain discussion text" {
		t.Errorf("expected escaped text only, got %q", got)
	}
}

func TestFormatNewlinesBold_LinesJoinedInsideTextNode(t *testing.T) {
	got := FormatNewlinesBold("First point\nSecond point", nil, "Arial")
	want := "First point</w:t><w:br/><w:t>Second point"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatCategorized_HeadingsAndBullets(t *testing.T) {
	in := "Health Vulnerabilities: Client has arthritis. Life Event Vulnerabilities: Recent bereavement affected decisions."
	got := FormatCategorized(in, "Arial")

	if !strings.HasPrefix(got, "</w:t></w:r>") {
		t.Errorf("fragment must close the host run first")
	}
	if !strings.HasSuffix(got, "<w:r><w:t>") {
		t.Errorf("fragment must reopen a run at the end")
	}
	if !strings.Contains(got, "<w:t>Health Vulnerabilities:</w:t>") {
		t.Errorf("expected bolded first category heading, got %q", got)
	}
	if !strings.Contains(got, "<w:t>Life Event Vulnerabilities:</w:t>") {
		t.Errorf("expected bolded second category heading, got %q", got)
	}
	if !strings.Contains(got, "• Client has arthritis.") {
		t.Errorf("expected bulleted sentence under first category, got %q", got)
	}
	if !strings.Contains(got, "<w:br/><w:br/>") {
		t.Errorf("expected blank line between categories, got %q", got)
	}
}

func TestFormatCategorized_FallsBackToBullets(t *testing.T) {
	got := FormatCategorized("No category labels here. Just prose.", "Arial")
	if !strings.Contains(got, "• No category labels here.") {
		t.Errorf("expected bullet fallback, got %q", got)
	}
	if strings.Contains(got, "<w:b/>") {
		t.Errorf("fallback must not bold anything, got %q", got)
	}
}

func TestFactRuns(t *testing.T) {
	got := FactRuns("Annual Income", "£45,000", "Arial")
	if !strings.Contains(got, "<w:b/></w:rPr><w:t>Annual Income:</w:t>") {
		t.Errorf("expected bold label run, got %q", got)
	}
	if !strings.Contains(got, `<w:t xml:space="preserve"> £45,000</w:t>`) {
		t.Errorf("expected space-preserving value run, got %q", got)
	}
}

func TestIsFragment(t *testing.T) {
	if IsFragment("plain value") {
		t.Errorf("plain text is not a fragment")
	}
	if !IsFragment(FormatBullets("One. Two.", "Arial")) {
		t.Errorf("bullet output is a fragment")
	}
	if !IsFragment("a</w:t><w:br/><w:t>b") {
		t.Errorf("break-joined output is a fragment")
	}
}
