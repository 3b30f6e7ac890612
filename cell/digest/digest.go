// Package digest builds hierarchy digests: flat summaries of the cells
// below a top cell, cheap to keep around so an archive scanned once need not
// be parsed again.
package digest

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/cell/walker"
)

// Entry summarizes one cell name across both views.
type Entry struct {
	Name     string
	Views    [cell.NumViews]bool
	Device   bool
	BBox     cell.BBox // own geometry, physical view
	Extent   cell.BBox // geometry including subcells, physical view
	Children []string  // distinct subcell names, both views, sorted
}

// Digest is the summary of one hierarchy. ID identifies the digest itself,
// so holders can tell a rebuilt digest from the one they cached.
type Digest struct {
	ID    uuid.UUID
	Top   string
	Cells map[string]*Entry
}

// Build walks the hierarchy below top and summarizes it.
func Build(db cell.CellFinder, top strtab.Handle) (*Digest, error) {
	return BuildWithOptions(db, top, walker.DefaultOptions())
}

// BuildWithOptions is Build with explicit walker options.
func BuildWithOptions(db cell.CellFinder, top strtab.Handle, opts walker.Options) (*Digest, error) {
	d := &Digest{
		ID:    uuid.New(),
		Top:   top.String(),
		Cells: make(map[string]*Entry),
	}
	// post-order, so every child's extent is final before its parent's
	err := walker.Walk(db, top, opts, func(c *cell.Cell) error {
		d.add(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, e := range d.Cells {
		slices.Sort(e.Children)
		e.Children = slices.Compact(e.Children)
	}
	return d, nil
}

func (d *Digest) add(c *cell.Cell) {
	name := c.Name().String()
	e, ok := d.Cells[name]
	if !ok {
		e = &Entry{Name: name}
		d.Cells[name] = e
	}
	e.Views[c.View()] = true
	if c.IsDevice() {
		e.Device = true
	}
	for _, m := range c.Masters() {
		if m.Instances > 0 {
			e.Children = append(e.Children, m.Name.String())
		}
	}
	if c.View() != cell.Physical {
		return
	}
	e.BBox = c.BBox()
	e.Extent = c.BBox()
	for _, m := range c.Masters() {
		if m.Cell == nil || m.Instances <= 0 {
			continue
		}
		if child, ok := d.Cells[m.Name.String()]; ok {
			e.Extent = e.Extent.Union(child.Extent)
		}
	}
}

// Lookup returns the entry for name.
func (d *Digest) Lookup(name string) (*Entry, bool) {
	e, ok := d.Cells[name]
	return e, ok
}

// Names returns all cell names in the digest, sorted.
func (d *Digest) Names() []string {
	out := make([]string, 0, len(d.Cells))
	for n := range d.Cells {
		out = append(out, n)
	}
	slices.SortFunc(out, strings.Compare)
	return out
}

// Len returns the number of distinct cell names.
func (d *Digest) Len() int { return len(d.Cells) }
