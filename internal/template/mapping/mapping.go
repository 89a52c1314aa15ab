// Package mapping holds the static section-mapping configuration: which
// placeholders map to which extracted-data fields and which special
// formatting each requires. Loaded once at startup, never mutated.
package mapping

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed mapping.yaml
var embedded []byte

// Config is the full template mapping document.
type Config struct {
	Version     string `yaml:"version"`
	Description string `yaml:"description"`

	// BoldPhrases maps a free-text field name to phrases that render bold
	// wherever they occur in its value.
	BoldPhrases map[string][]string `yaml:"bold_phrases"`

	Sections map[string]Section `yaml:"sections"`

	// SplitPlaceholderSections flags sections whose soft-notes placeholder
	// may be fragmented across adjacent runs.
	SplitPlaceholderSections []string `yaml:"split_placeholder_sections"`
}

// Section describes one report section's placeholders and fields.
type Section struct {
	JSONKey string `yaml:"json_key"`

	// Placeholders maps literal placeholder tokens directly to field names;
	// used by the Meeting section.
	Placeholders map[string]string `yaml:"placeholders,omitempty"`

	SoftNotesPlaceholder string   `yaml:"soft_notes_placeholder,omitempty"`
	SoftNotesFields      []string `yaml:"soft_notes_fields,omitempty"`

	HardFactsPlaceholder string   `yaml:"hard_facts_placeholder,omitempty"`
	HardFactsFields      []string `yaml:"hard_facts_fields,omitempty"`

	// ArrayField names the section's repeated-item list (e.g. "Assets").
	ArrayField string `yaml:"array_field,omitempty"`

	AdditionalPlaceholders map[string]string `yaml:"additional_placeholders,omitempty"`
}

// Default returns the mapping packaged with the binary.
func Default() (*Config, error) {
	return parse(embedded)
}

// Load reads a mapping file, falling back to the embedded default when path
// is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	if len(cfg.Sections) == 0 {
		return nil, fmt.Errorf("mapping has no sections")
	}
	return &cfg, nil
}

// IsSplitSection reports whether a section's soft-notes placeholder may be
// split across runs.
func (c *Config) IsSplitSection(name string) bool {
	for _, s := range c.SplitPlaceholderSections {
		if s == name {
			return true
		}
	}
	return false
}

// SectionNames returns all non-Meeting section names in sorted order.
func (c *Config) SectionNames() []string {
	names := make([]string, 0, len(c.Sections))
	for name := range c.Sections {
		if name == "Meeting" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
