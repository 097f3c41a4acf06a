// Package statement normalizes uploaded bank statement files (delimited CSV
// or OFX/QFX) into canonical BankTransactions.
package statement

import (
	"strings"

	"github.com/concilia-dev/concilia/internal/model"
)

// Parser converts raw statement text into a normalized Statement.
type Parser interface {
	Parse(content string) (*model.Statement, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&OFXParser{})
	return r
}

// DetectFormat picks a parser format for the file. The file name extension
// is a fast-path hint; the authoritative check scans the content for the
// top-level <OFX> marker, because banks export OFX under .txt and worse.
func DetectFormat(content, filename string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".ofx"),
		strings.HasSuffix(strings.ToLower(filename), ".qfx"):
		return "ofx"
	case strings.Contains(strings.ToUpper(content), "<OFX>"):
		return "ofx"
	default:
		return "csv"
	}
}

// Normalize parses raw statement content, auto-detecting the format.
func Normalize(content, filename string) (*model.Statement, error) {
	format := DetectFormat(content, filename)
	return DefaultRegistry().Get(format).Parse(content)
}
