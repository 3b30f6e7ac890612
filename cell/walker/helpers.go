package walker

import (
	"errors"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/strtab"
)

// Walk calls fn for every cell below and including top, in walk order.
// If fn returns ErrStopWalk, the walk stops early and nil is returned.
// Any other error from fn is returned to the caller, as is a depth overflow.
func Walk(db cell.CellFinder, top strtab.Handle, opts Options, fn func(*cell.Cell) error) error {
	w := New(db, top, opts)
	for {
		c, ok := w.Next()
		if !ok {
			return w.Err()
		}
		if err := fn(c); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}
	}
}

// Collect returns every cell below and including top in walk order.
func Collect(db cell.CellFinder, top strtab.Handle, opts Options) ([]*cell.Cell, error) {
	var out []*cell.Cell
	err := Walk(db, top, opts, func(c *cell.Cell) error {
		out = append(out, c)
		return nil
	})
	return out, err
}

// EmptyCells returns the cells below top that have neither geometry nor
// placed subcells. The top cell itself is never reported.
func EmptyCells(db cell.CellFinder, top strtab.Handle, opts Options) ([]*cell.Cell, error) {
	var out []*cell.Cell
	err := Walk(db, top, opts, func(c *cell.Cell) error {
		if c.Name() != top && c.IsEmpty() {
			out = append(out, c)
		}
		return nil
	})
	return out, err
}
