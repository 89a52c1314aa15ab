package transcript

import (
	"regexp"
	"strings"
)

var (
	voiceTagRe = regexp.MustCompile(`<v\s+([^>]+)>`)
	cueTagRe   = regexp.MustCompile(`</?[^>]+>`)
	cueIDRe    = regexp.MustCompile(`^\d+$`)
)

// ReadVTT converts WebVTT caption content to plain dialogue text. Timing
// lines and numeric cue identifiers are dropped, and voice tags become
// "Speaker: " prefixes.
func ReadVTT(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "WEBVTT") {
			continue
		}
		if strings.HasPrefix(trimmed, "NOTE") || strings.HasPrefix(trimmed, "STYLE") || strings.HasPrefix(trimmed, "REGION") {
			continue
		}
		if strings.Contains(trimmed, "-->") || cueIDRe.MatchString(trimmed) {
			continue
		}

		trimmed = voiceTagRe.ReplaceAllString(trimmed, "$1: ")
		trimmed = cueTagRe.ReplaceAllString(trimmed, "")
		if trimmed = strings.TrimSpace(trimmed); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}
