package cell

import (
	"github.com/joshuapare/cellkit/cell/strtab"
)

// View selects one half of a dual-view cell.
type View uint8

const (
	// Physical is the layout view.
	Physical View = iota
	// Electrical is the schematic view.
	Electrical
)

// NumViews is the number of views a cell name can carry.
const NumViews = 2

func (v View) String() string {
	switch v {
	case Physical:
		return "physical"
	case Electrical:
		return "electrical"
	default:
		return "unknown"
	}
}

// Other returns the opposite view.
func (v View) Other() View {
	if v == Physical {
		return Electrical
	}
	return Physical
}

// BBox is an axis-aligned bounding box in database units.
type BBox struct {
	Left, Bottom, Right, Top int
}

// IsEmpty reports whether b has no area.
func (b BBox) IsEmpty() bool {
	return b.Right <= b.Left || b.Top <= b.Bottom
}

// Union returns the smallest box containing b and o. Empty boxes are ignored.
func (b BBox) Union(o BBox) BBox {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return BBox{
		Left:   min(b.Left, o.Left),
		Bottom: min(b.Bottom, o.Bottom),
		Right:  max(b.Right, o.Right),
		Top:    max(b.Top, o.Top),
	}
}

// Master is a reference from a cell to one of its subcells. Cell is nil when
// the subcell has no body in the database (an unresolved reference).
type Master struct {
	Name      strtab.Handle
	Cell      *Cell
	Instances int
}

// Cell is one view of a named cell.
type Cell struct {
	name    strtab.Handle
	view    View
	masters []Master
	bbox    BBox
	device  bool
}

// New creates a detached cell. Most callers use Database.Add instead.
func New(name strtab.Handle, view View) *Cell {
	return &Cell{name: name, view: view}
}

// Name returns the cell name.
func (c *Cell) Name() strtab.Handle { return c.name }

// View returns which view c is.
func (c *Cell) View() View { return c.view }

// Masters returns the subcell references. The slice is owned by c.
func (c *Cell) Masters() []Master { return c.masters }

// BBox returns the cell's own geometry extent (not including subcells).
func (c *Cell) BBox() BBox { return c.bbox }

// SetBBox sets the cell's own geometry extent.
func (c *Cell) SetBBox(b BBox) { c.bbox = b }

// IsDevice reports whether c is a protected device cell.
func (c *Cell) IsDevice() bool { return c.device }

// SetDevice marks c as a device cell.
func (c *Cell) SetDevice(device bool) { c.device = device }

// IsEmpty reports whether c has neither geometry nor placed subcells.
func (c *Cell) IsEmpty() bool {
	if !c.bbox.IsEmpty() {
		return false
	}
	for _, m := range c.masters {
		if m.Instances > 0 {
			return false
		}
	}
	return true
}

// Place adds n instances of child. Repeated placements of the same child
// accumulate on one Master.
func (c *Cell) Place(child *Cell, n int) {
	for i := range c.masters {
		if c.masters[i].Cell == child {
			c.masters[i].Instances += n
			return
		}
	}
	c.masters = append(c.masters, Master{Name: child.name, Cell: child, Instances: n})
}

// PlaceUnresolved adds n instances of a subcell that has no body yet.
func (c *Cell) PlaceUnresolved(name strtab.Handle, n int) {
	c.masters = append(c.masters, Master{Name: name, Instances: n})
}

func (c *Cell) String() string {
	return c.name.String() + "/" + c.view.String()
}
