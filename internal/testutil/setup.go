// Package testutil holds fixtures shared by the cell packages' tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/cellkit/cell"
)

// NewDatabase builds a database from a YAML hierarchy description (see
// cell.ReadDatabase). Calls t.Fatalf on error.
//
// Example:
//
//	db := testutil.NewDatabase(t, `
//	cells:
//	  - {name: top, place: [{cell: inv}]}
//	  - {name: inv}
//	`)
func NewDatabase(t *testing.T, hierarchy string) *cell.Database {
	t.Helper()
	db, err := cell.ReadDatabase(strings.NewReader(hierarchy))
	if err != nil {
		t.Fatalf("Failed to build database: %v", err)
	}
	return db
}

// Chain adds a physical chain prefix0 -> prefix1 -> ... -> prefix<n-1> to
// db, each cell placing the next once, and returns prefix0.
func Chain(db *cell.Database, prefix string, n int) *cell.Cell {
	var top, prev *cell.Cell
	for i := range n {
		c := db.AddNamed(fmt.Sprintf("%s%d", prefix, i), cell.Physical)
		if prev != nil {
			prev.Place(c, 1)
		} else {
			top = c
		}
		prev = c
	}
	return top
}

// WriteFile writes content to name under dir and returns the path.
// Calls t.Fatalf on error.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// Names returns c.String() for each cell, in order.
func Names(cells []*cell.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}
