package alias

import (
	"fmt"
	"strings"
)

// Policy selects the renaming behavior of a Resolver.
type Policy uint16

const (
	// Prefix prepends Options.Prefix.
	Prefix Policy = 1 << iota
	// Suffix appends Options.Suffix.
	Suffix
	// ToLower folds all-upper-case names to lower case.
	ToLower
	// ToUpper folds all-lower-case names to upper case.
	ToUpper
	// ReadFile enables ReadFile.
	ReadFile
	// WriteFile enables WriteFile.
	WriteFile
	// Charset restricts names to [A-Za-z0-9_?$].
	Charset
	// Limit32 limits names to 32 bytes.
	Limit32
	// AutoRename renames cells whose names are already live in the database.
	AutoRename
	// KeepSpace leaves whitespace and control characters alone.
	KeepSpace
)

// policyWords is the keyword table shared by ParsePolicy and String.
var policyWords = []struct {
	bit  Policy
	word string
}{
	{Prefix, "prefix"},
	{Suffix, "suffix"},
	{ToLower, "lower"},
	{ToUpper, "upper"},
	{ReadFile, "read"},
	{WriteFile, "write"},
	{Charset, "charset"},
	{Limit32, "limit32"},
	{AutoRename, "auto-rename"},
	{KeepSpace, "keep-space"},
}

// policyAliases are accepted by ParsePolicy but never printed.
var policyAliases = map[string]Policy{
	"tolower":     ToLower,
	"toupper":     ToUpper,
	"gds_check":   Charset,
	"gds-check":   Charset,
	"limit":       Limit32,
	"autorename":  AutoRename,
	"auto_rename": AutoRename,
	"rw":          ReadFile | WriteFile,
}

// Has reports whether all bits of q are set in p.
func (p Policy) Has(q Policy) bool {
	return p&q == q
}

// String returns the comma-separated keyword form.
func (p Policy) String() string {
	if p == 0 {
		return "none"
	}
	var words []string
	for _, w := range policyWords {
		if p&w.bit != 0 {
			words = append(words, w.word)
		}
	}
	return strings.Join(words, ",")
}

// Validate rejects combinations that cannot take effect together.
func (p Policy) Validate() error {
	if p.Has(ToLower | ToUpper) {
		return ErrConflictingCase
	}
	return nil
}

// ParsePolicy parses a comma or space separated keyword list such as
// "lower,limit32,charset". The empty string and "none" parse to zero.
func ParsePolicy(s string) (Policy, error) {
	var p Policy
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '|' || r == '\t'
	})
	for _, f := range fields {
		f = strings.ToLower(f)
		if f == "none" {
			continue
		}
		if bit, ok := lookupPolicyWord(f); ok {
			p |= bit
			continue
		}
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, f)
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return p, nil
}

func lookupPolicyWord(f string) (Policy, bool) {
	for _, w := range policyWords {
		if w.word == f {
			return w.bit, true
		}
	}
	bit, ok := policyAliases[f]
	return bit, ok
}
