package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Diagnostics
// -----------------------------------------------------------------------------
//
// Renames, duplicate library entries and aborted walks are not failures, but
// the translation driver wants to show them to the user afterwards. Each
// component appends to a Report; the caller decides what to print.

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SevInfo    Severity = iota // Informational, e.g. a cell was renamed
	SevWarning                 // Suspicious input that was accepted anyway
	SevError                   // An operation was abandoned
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output is readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Category says which subsystem produced a diagnostic.
type Category int

const (
	CatRename    Category = iota // Alias minted for a cell
	CatLibrary                   // Library description parsing and lookup
	CatHierarchy                 // Hierarchy traversal
	CatPersist                   // Alias file read/write
)

func (c Category) String() string {
	switch c {
	case CatRename:
		return "rename"
	case CatLibrary:
		return "library"
	case CatHierarchy:
		return "hierarchy"
	case CatPersist:
		return "persist"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Diagnostic is a single reported event.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`

	// Location, when known
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`

	// Subject
	Name  string `json:"name,omitempty"`  // Cell or reference name
	Alias string `json:"alias,omitempty"` // Substituted name, for renames

	Issue string `json:"issue"` // Human-readable description
}

// DiagSummary provides quick counts.
type DiagSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Report collects diagnostics in arrival order.
//
// NOT thread-safe.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     DiagSummary  `json:"summary"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends d and updates the summary. A nil report drops d.
func (r *Report) Add(d Diagnostic) {
	if r == nil {
		return
	}
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}
}

// Len returns the number of diagnostics collected.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Diagnostics)
}

// HasErrors reports whether any error-level diagnostic was added.
func (r *Report) HasErrors() bool {
	return r != nil && r.Summary.Errors > 0
}

// Filter returns the diagnostics of the given category.
func (r *Report) Filter(c Category) []Diagnostic {
	if r == nil {
		return nil
	}
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Reset drops all collected diagnostics.
func (r *Report) Reset() {
	if r == nil {
		return
	}
	r.Diagnostics = r.Diagnostics[:0]
	r.Summary = DiagSummary{}
}

// FormatJSON returns the report as indented JSON.
func (r *Report) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns one line per diagnostic.
func (r *Report) FormatText() string {
	var b strings.Builder
	for _, d := range r.Diagnostics {
		fmt.Fprintf(&b, "%-7s [%s]", d.Severity, d.Category)
		if d.File != "" {
			if d.Line > 0 {
				fmt.Fprintf(&b, " %s:%d:", d.File, d.Line)
			} else {
				fmt.Fprintf(&b, " %s:", d.File)
			}
		}
		b.WriteString(" ")
		b.WriteString(d.Issue)
		b.WriteString("\n")
	}
	return b.String()
}
