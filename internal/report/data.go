// Package report models the extracted-data object produced by the LLM
// extraction pass and resolves field values for template filling.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Sentinels returned by the resolver when a field or section is absent.
const (
	NotAvailable = "Not Available"
	NoNotes      = "No notes available."
	NoData       = "No data available."
)

// Data maps a section key (e.g. "7. Savings & Investments") to its fields.
// Field values are strings; array-valued keys hold []any of item objects.
type Data map[string]Section

// Section is one extracted report section.
type Section map[string]any

// Parse decodes an extracted-data JSON document.
func Parse(raw []byte) (Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse extracted data: %w", err)
	}
	return d, nil
}

// Load reads and parses an extracted-data JSON file.
func Load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extracted data: %w", err)
	}
	return Parse(raw)
}

// Value returns the named field's value, or NotAvailable when the section or
// field is missing or empty. Absence is never an error.
func (d Data) Value(sectionKey, field string) string {
	sec, ok := d[sectionKey]
	if !ok || len(sec) == 0 {
		return NotAvailable
	}
	v, ok := sec[field].(string)
	if !ok || v == "" {
		return NotAvailable
	}
	return v
}

// Set stores a field value, creating the section if needed. Used only for
// the generation-date injection at fill time.
func (d Data) Set(sectionKey, field, value string) {
	sec, ok := d[sectionKey]
	if !ok {
		sec = Section{}
		d[sectionKey] = sec
	}
	sec[field] = value
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)

// sentinel strings the model emits for absent values, compared after
// normalization.
var emptyValues = map[string]bool{
	"not available": true,
	"not found":     true,
	"na":            true,
	"n a":           true,
	"none":          true,
	"null":          true,
	"":              true,
}

// IsValid reports whether a value carries real content: non-empty and not in
// the sentinel set after stripping punctuation and lowercasing.
func IsValid(value string) bool {
	normalized := strings.TrimSpace(nonAlnumRe.ReplaceAllString(strings.ToLower(value), ""))
	return !emptyValues[normalized]
}

// SoftNotes resolves a section's narrative notes. With one field it returns
// the raw value or NoNotes; with two it concatenates the valid sub-fields
// under label prefixes, separated by a blank line.
func (d Data) SoftNotes(sectionKey string, fields []string) string {
	switch len(fields) {
	case 0:
		return NoNotes
	case 1:
		v := d.Value(sectionKey, fields[0])
		if !IsValid(v) {
			return NoNotes
		}
		return v
	}

	var parts []string
	for _, field := range fields {
		v := d.Value(sectionKey, field)
		if IsValid(v) {
			parts = append(parts, field+": "+v)
		}
	}
	if len(parts) == 0 {
		return NoNotes
	}
	return strings.Join(parts, "\n\n")
}

// Item is one array-field entry with its scalar fields.
type Item map[string]string

// Items returns the section's array-field entries in order. Non-map entries
// and non-scalar fields are skipped; a missing array resolves to nil.
func (d Data) Items(sectionKey, arrayField string) []Item {
	sec, ok := d[sectionKey]
	if !ok || arrayField == "" {
		return nil
	}
	raw, ok := sec[arrayField].([]any)
	if !ok {
		return nil
	}

	var items []Item
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := Item{}
		for k, v := range m {
			if s, ok := v.(string); ok {
				item[k] = s
			}
		}
		if len(item) > 0 {
			items = append(items, item)
		}
	}
	return items
}

// FieldNames returns an item's field names sorted for deterministic output.
func (it Item) FieldNames() []string {
	names := make([]string, 0, len(it))
	for k := range it {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
