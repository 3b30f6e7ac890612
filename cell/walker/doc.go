// Package walker enumerates the cells below a top cell, across both the
// physical and the electrical view, without visiting any cell twice.
//
// The traversal is iterative over an explicit stack of frames, bounded by
// Options.MaxDepth. A hierarchy deeper than that stops the walk with
// ErrDepthOverflow instead of truncating it silently.
//
// Cells are produced in post-order: a cell is returned once all of its
// subcells in that view have been returned. When a physical cell has an
// electrical counterpart, the counterpart's subtree is walked right after
// the physical one at the same depth.
//
//	w := walker.New(db, strtab.Make("top"), walker.DefaultOptions())
//	for c := range w.All() {
//	    fmt.Println(c)
//	}
//	if err := w.Err(); err != nil {
//	    return err
//	}
package walker
