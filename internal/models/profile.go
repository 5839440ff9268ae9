package models

import (
	"math/big"
	"regexp"
	"sort"
	"strings"
)

// Profile represents an edit-prompt vocabulary: a set of templates with
// {placeholder} slots and the phrase pools those placeholders draw from.
// Profiles are loaded once from JSON or YAML and treated as immutable.
type Profile struct {
	Name      string              `json:"name" yaml:"name"`
	Summary   string              `json:"description" yaml:"description"`
	Version   string              `json:"version" yaml:"version"`
	Templates []string            `json:"templates" yaml:"templates"`
	Pools     map[string][]string `json:"pools" yaml:"pools"`

	// Load-time fields, not part of the serialized document
	FilePath    string `json:"-" yaml:"-"` // Path to the profile file
	ContentHash string `json:"-" yaml:"-"` // SHA256 hash of the file contents
}

// placeholderPattern matches {pool_name} references inside templates.
var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// TemplateCount returns the number of templates in the profile.
func (p *Profile) TemplateCount() int {
	return len(p.Templates)
}

// TemplateAt returns the template at position i. The caller is responsible
// for keeping i inside [0, TemplateCount()).
func (p *Profile) TemplateAt(i int) string {
	return p.Templates[i]
}

// PoolNames returns all pool names in sorted order. Map iteration order is
// not stable in Go, so every surface that enumerates pools goes through
// this accessor to keep output reproducible.
func (p *Profile) PoolNames() []string {
	names := make([]string, 0, len(p.Pools))
	for name := range p.Pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPool reports whether a pool with the given name exists.
func (p *Profile) HasPool(name string) bool {
	_, ok := p.Pools[name]
	return ok
}

// PoolSize returns the number of entries in the named pool, or 0 if the
// pool does not exist.
func (p *Profile) PoolSize(name string) int {
	return len(p.Pools[name])
}

// PoolEntryAt returns entry i of the named pool. The caller is responsible
// for keeping i inside [0, PoolSize(name)).
func (p *Profile) PoolEntryAt(name string, i int) string {
	return p.Pools[name][i]
}

// Placeholders returns the distinct placeholder names of template i in
// order of first appearance, scanning left to right. A name that repeats
// within the template appears once. This ordering determines slot
// assignment during composition and must never change.
func (p *Profile) Placeholders(i int) []string {
	return ExtractPlaceholders(p.Templates[i])
}

// ExtractPlaceholders returns the distinct {placeholder} names of a single
// template string in first-appearance order.
func ExtractPlaceholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Stats summarizes a profile for display: template count, per-pool sizes,
// and the total number of distinct prompts the profile can produce.
type Stats struct {
	TemplateCount     int            `json:"templateCount"`
	PoolSizes         map[string]int `json:"poolSizes"`
	TotalCombinations *big.Int       `json:"totalCombinations"`
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (p Profile) FilterValue() string {
	return cleanString(p.Name)
}

// Title satisfies the list.Item interface
func (p Profile) Title() string {
	if p.Name != "" {
		return cleanString(p.Name)
	}
	return cleanString(p.FilePath)
}

// Description satisfies the list.Item interface
func (p Profile) Description() string {
	var parts []string

	if p.Summary != "" {
		summary := cleanString(p.Summary)
		maxSummaryLength := 60
		if len(summary) > maxSummaryLength {
			summary = summary[:maxSummaryLength-3] + "..."
		}
		if summary != "" {
			parts = append(parts, summary)
		}
	}

	if p.Version != "" {
		parts = append(parts, "v"+cleanString(p.Version))
	}

	result := ""
	for i, part := range parts {
		if i > 0 {
			result += " • "
		}
		result += part
	}
	return cleanString(result)
}

// cleanString removes problematic characters that might cause rendering issues
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	cleaned := ""
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			cleaned += " "
		} else if r >= 32 && r != 127 {
			cleaned += string(r)
		}
	}

	for cleaned != strings.ReplaceAll(cleaned, "  ", " ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}

	return strings.TrimSpace(cleaned)
}
