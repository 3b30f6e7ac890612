package walker

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/internal/logger"
	"github.com/joshuapare/cellkit/pkg/types"
)

// DefaultMaxDepth is the default hierarchy depth limit.
const DefaultMaxDepth = 40

// ErrDepthOverflow is reported by Err when the hierarchy is deeper than
// Options.MaxDepth.
var ErrDepthOverflow = errors.New("walker: hierarchy depth overflow")

// ErrStopWalk is a sentinel error that can be returned from walk callbacks
// to stop the walk early without triggering an error condition.
var ErrStopWalk = errors.New("stop walk")

// Options configures a Walker.
type Options struct {
	// MaxDepth is the number of hierarchy levels allowed, counting the top
	// cell. Zero means DefaultMaxDepth.
	MaxDepth int

	Logger *slog.Logger
	Report *types.Report // Receives an error on depth overflow. Optional.
}

// DefaultOptions returns Options with DefaultMaxDepth.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// frame is one level of the descent: a cell and the index of the next
// master to look at.
type frame struct {
	cell *cell.Cell
	next int
}

// Walker is a pull-based hierarchy traversal. The zero value is an
// exhausted walker.
//
// NOT thread-safe.
type Walker struct {
	db       cell.CellFinder
	maxDepth int
	log      *slog.Logger
	report   *types.Report

	stack   []frame
	visited map[*cell.Cell]struct{}
	err     error
}

// New starts a walk at the named cell, in its physical view when there is
// one and its electrical view otherwise. If neither exists the walker is
// already exhausted.
func New(db cell.CellFinder, top strtab.Handle, opts Options) *Walker {
	w := newWalker(db, opts)
	c, ok := db.FindCell(top, cell.Physical)
	if !ok {
		c, ok = db.FindCell(top, cell.Electrical)
	}
	if ok {
		w.push(c)
	}
	return w
}

// NewFromCell starts a walk at c. The electrical counterpart of a physical
// c is looked up in db, which may be nil.
func NewFromCell(db cell.CellFinder, c *cell.Cell, opts Options) *Walker {
	w := newWalker(db, opts)
	if c != nil {
		w.push(c)
	}
	return w
}

func newWalker(db cell.CellFinder, opts Options) *Walker {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Walker{
		db:       db,
		maxDepth: depth,
		log:      logger.Or(opts.Logger),
		report:   opts.Report,
		stack:    make([]frame, 0, min(depth, 64)),
		visited:  make(map[*cell.Cell]struct{}),
	}
}

func (w *Walker) push(c *cell.Cell) {
	w.visited[c] = struct{}{}
	w.stack = append(w.stack, frame{cell: c})
}

func (w *Walker) seen(c *cell.Cell) bool {
	_, ok := w.visited[c]
	return ok
}

// Next returns the next completed cell. It returns false when the walk is
// over, either finished or stopped by an error; Err tells which.
func (w *Walker) Next() (*cell.Cell, bool) {
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		masters := top.cell.Masters()

		if top.next < len(masters) {
			m := masters[top.next]
			top.next++
			if m.Cell == nil || m.Instances <= 0 || w.seen(m.Cell) {
				continue
			}
			if len(w.stack) >= w.maxDepth {
				w.fail(m.Cell)
				return nil, false
			}
			w.push(m.Cell)
			continue
		}

		done := top.cell
		if done.View() == cell.Physical && w.db != nil {
			if e, ok := w.db.FindCell(done.Name(), cell.Electrical); ok && !w.seen(e) {
				// same depth, electrical subtree next
				w.visited[e] = struct{}{}
				*top = frame{cell: e}
				return done, true
			}
		}
		w.stack = w.stack[:len(w.stack)-1]
		return done, true
	}
	return nil, false
}

func (w *Walker) fail(at *cell.Cell) {
	path := make([]string, 0, len(w.stack)+1)
	for _, f := range w.stack {
		path = append(path, f.cell.Name().String())
	}
	path = append(path, at.Name().String())
	w.err = fmt.Errorf("%w: %s at depth %d (limit %d)", ErrDepthOverflow, at, len(w.stack), w.maxDepth)
	w.log.Warn("walker: depth overflow", "cell", at.String(), "limit", w.maxDepth, "path", path)
	w.report.Add(types.Diagnostic{
		Severity: types.SevError,
		Category: types.CatHierarchy,
		Name:     at.Name().String(),
		Issue:    "hierarchy deeper than " + strconv.Itoa(w.maxDepth) + " levels: " + strings.Join(path, "/"),
	})
	w.stack = nil
}

// Err returns ErrDepthOverflow (wrapped) if the walk was cut short.
func (w *Walker) Err() error { return w.err }

// Depth returns the current stack depth.
func (w *Walker) Depth() int { return len(w.stack) }

// All returns an iterator over the remaining cells.
func (w *Walker) All() iter.Seq[*cell.Cell] {
	return func(yield func(*cell.Cell) bool) {
		for {
			c, ok := w.Next()
			if !ok || !yield(c) {
				return
			}
		}
	}
}
