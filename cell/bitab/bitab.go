// Package bitab is the name/alias bidirectional table.
//
// Each Entry is a single node reachable from two indexes: by name and by
// alias. Both indexes hold the same *Entry, so the table is a bijection over
// its live entries and growing an index never copies an entry.
package bitab

import (
	"iter"
	"slices"
	"strings"

	"github.com/joshuapare/cellkit/cell/strtab"
)

// Entry binds a name to its alias.
type Entry struct {
	Name  strtab.Handle
	Alias strtab.Handle
}

// Table maps names to aliases and back.
//
// NOT thread-safe.
type Table struct {
	byName  map[strtab.Handle]*Entry
	byAlias map[strtab.Handle]*Entry
}

// defaultCapacity sizes both indexes when no hint is given.
const defaultCapacity = 16

// New creates an empty table with a capacity hint.
func New(capacity int) *Table {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Table{
		byName:  make(map[strtab.Handle]*Entry, capacity),
		byAlias: make(map[strtab.Handle]*Entry, capacity),
	}
}

// FindAlias returns the alias bound to name.
func (t *Table) FindAlias(name strtab.Handle) (strtab.Handle, bool) {
	e, ok := t.byName[name]
	if !ok {
		return strtab.Handle{}, false
	}
	return e.Alias, true
}

// FindName returns the name bound to alias.
func (t *Table) FindName(alias strtab.Handle) (strtab.Handle, bool) {
	e, ok := t.byAlias[alias]
	if !ok {
		return strtab.Handle{}, false
	}
	return e.Name, true
}

// Add binds name to alias. It reports false, changing nothing, when either
// side is already bound; callers normally probe with FindAlias first.
func (t *Table) Add(name, alias strtab.Handle) bool {
	if _, ok := t.byName[name]; ok {
		return false
	}
	if _, ok := t.byAlias[alias]; ok {
		return false
	}
	e := &Entry{Name: name, Alias: alias}
	t.byName[name] = e
	t.byAlias[alias] = e
	return true
}

// Remove unbinds the entry keyed by name from both indexes.
func (t *Table) Remove(name strtab.Handle) bool {
	e, ok := t.byName[name]
	if !ok {
		return false
	}
	delete(t.byName, name)
	delete(t.byAlias, e.Alias)
	return true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return len(t.byName)
}

// Clear removes every entry.
func (t *Table) Clear() {
	clear(t.byName)
	clear(t.byAlias)
}

// All iterates over the live entries in no particular order.
func (t *Table) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range t.byName {
			if !yield(*e) {
				return
			}
		}
	}
}

// Sorted returns the live entries ordered by name, for stable output.
func (t *Table) Sorted() []Entry {
	out := make([]Entry, 0, len(t.byName))
	for _, e := range t.byName {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(a.Name.String(), b.Name.String())
	})
	return out
}
