package cell

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/joshuapare/cellkit/cell/strtab"
)

// CellFinder looks up live cells. The alias resolver uses it to detect name
// collisions, the walker to pair a physical cell with its electrical view.
type CellFinder interface {
	FindCell(name strtab.Handle, view View) (*Cell, bool)
}

// DeviceChecker reports names that belong to a protected device library and
// must never be renamed.
type DeviceChecker interface {
	IsDeviceCell(name strtab.Handle) bool
}

// Database is an in-memory working database: one cell table per view.
//
// NOT thread-safe.
type Database struct {
	tables [NumViews]map[strtab.Handle]*Cell
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	db := &Database{}
	for i := range db.tables {
		db.tables[i] = make(map[strtab.Handle]*Cell)
	}
	return db
}

// FindCell implements CellFinder.
func (db *Database) FindCell(name strtab.Handle, view View) (*Cell, bool) {
	if int(view) >= NumViews {
		return nil, false
	}
	c, ok := db.tables[view][name]
	return c, ok
}

// Add returns the cell for (name, view), creating it if absent.
func (db *Database) Add(name strtab.Handle, view View) *Cell {
	if c, ok := db.tables[view][name]; ok {
		return c
	}
	c := New(name, view)
	db.tables[view][name] = c
	return c
}

// AddNamed is Add with a string name.
func (db *Database) AddNamed(name string, view View) *Cell {
	return db.Add(strtab.Make(name), view)
}

// Remove deletes (name, view) and reports whether it existed. Masters in
// other cells that pointed at it become unresolved.
func (db *Database) Remove(name strtab.Handle, view View) bool {
	c, ok := db.tables[view][name]
	if !ok {
		return false
	}
	delete(db.tables[view], name)
	for _, other := range db.tables[view] {
		for i := range other.masters {
			if other.masters[i].Cell == c {
				other.masters[i].Cell = nil
			}
		}
	}
	return true
}

// Len returns the number of cells in one view.
func (db *Database) Len(view View) int {
	return len(db.tables[view])
}

// Cells iterates over one view's cells in name order.
func (db *Database) Cells(view View) iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		keys := slices.SortedFunc(maps.Keys(db.tables[view]), func(a, b strtab.Handle) int {
			return strings.Compare(a.String(), b.String())
		})
		for _, k := range keys {
			if !yield(db.tables[view][k]) {
				return
			}
		}
	}
}

// IsDeviceCell implements DeviceChecker using the per-cell device flag.
func (db *Database) IsDeviceCell(name strtab.Handle) bool {
	for v := range View(NumViews) {
		if c, ok := db.tables[v][name]; ok && c.device {
			return true
		}
	}
	return false
}

// Link resolves unresolved masters in every cell against cells that now
// exist in the same view, returning how many were resolved.
func (db *Database) Link() int {
	n := 0
	for v := range View(NumViews) {
		for _, c := range db.tables[v] {
			for i := range c.masters {
				m := &c.masters[i]
				if m.Cell != nil {
					continue
				}
				if target, ok := db.tables[v][m.Name]; ok {
					m.Cell = target
					n++
				}
			}
		}
	}
	return n
}
