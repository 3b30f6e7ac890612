// Package strtab interns cell and file names.
//
// A Handle is a canonical, comparable token for a string: two handles are ==
// exactly when their strings are equal, so the rest of the cell identity core
// compares names in O(1) and uses handles directly as map keys.
//
// Handles are built on the unique package. The Table type adds what unique
// alone cannot: a non-mutating Find, which answers "has anyone interned this
// name?" without creating it.
package strtab

import (
	"sync"
	"unique"
)

// Handle is an interned string. The zero Handle stands for "no name" and is
// distinct from the handle of the empty string.
type Handle struct {
	h unique.Handle[string]
}

// Make interns s without registering it in any Table.
func Make(s string) Handle {
	return Handle{h: unique.Make(s)}
}

// String returns the interned string ("" for the zero Handle).
func (h Handle) String() string {
	if h.IsZero() {
		return ""
	}
	return h.h.Value()
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// Len returns the length of the interned string in bytes.
func (h Handle) Len() int {
	return len(h.String())
}

// Interner is the collaborator interface the core consumes.
type Interner interface {
	Intern(s string) Handle
	Find(s string) (Handle, bool)
}

// Table is a registry of interned names. Handles from different tables
// compare equal when their strings are equal; the table only records which
// strings were interned through it.
//
// Safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	names map[string]Handle
}

// NewTable creates an empty table with a capacity hint.
func NewTable(capacity int) *Table {
	return &Table{names: make(map[string]Handle, capacity)}
}

// Intern returns the handle for s, registering it.
func (t *Table) Intern(s string) Handle {
	t.mu.RLock()
	h, ok := t.names[s]
	t.mu.RUnlock()
	if ok {
		return h
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok := t.names[s]; ok {
		return h
	}
	h = Make(s)
	t.names[h.String()] = h
	return h
}

// Find returns the handle for s if it was interned through t.
func (t *Table) Find(s string) (Handle, bool) {
	t.mu.RLock()
	h, ok := t.names[s]
	t.mu.RUnlock()
	return h, ok
}

// Len returns the number of registered names.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}

// Global is the process-wide name table.
var Global = NewTable(4096)

// Intern registers s in Global.
func Intern(s string) Handle { return Global.Intern(s) }

// Find probes Global without registering s.
func Find(s string) (Handle, bool) { return Global.Find(s) }
