// Package namepool deduplicates the alias strings a resolver mints.
//
// A pool remembers every string interned through it, so "has this alias
// already been handed out?" is a map probe. Handles in both modes come from
// the process-wide unique store behind strtab.Make; the modes differ only in
// registration. Local mode records a string in the pool alone. Global mode
// also records it in a strtab.Interner (strtab.Global by default), so it is
// findable by name after the pool is reset or dropped, as a persistent cell
// name must be.
package namepool

import (
	"github.com/joshuapare/cellkit/cell/strtab"
)

// Mode selects where interned strings are registered.
type Mode int

const (
	// Local records strings in the pool only.
	Local Mode = iota
	// Global also registers strings in a strtab.Interner.
	Global
)

func (m Mode) String() string {
	if m == Global {
		return "global"
	}
	return "local"
}

// Pool is a deduplicating string store.
//
// NOT thread-safe.
type Pool struct {
	mode   Mode
	global strtab.Interner
	names  map[string]strtab.Handle
}

// New creates a pool. Global mode registers in strtab.Global.
func New(mode Mode) *Pool {
	p := &Pool{mode: mode, names: make(map[string]strtab.Handle)}
	if mode == Global {
		p.global = strtab.Global
	}
	return p
}

// NewWithInterner creates a Global-mode pool backed by in.
func NewWithInterner(in strtab.Interner) *Pool {
	return &Pool{mode: Global, global: in, names: make(map[string]strtab.Handle)}
}

// Mode returns the pool's mode.
func (p *Pool) Mode() Mode { return p.mode }

// Intern returns the handle for s, adding it to the pool.
func (p *Pool) Intern(s string) strtab.Handle {
	if h, ok := p.names[s]; ok {
		return h
	}
	var h strtab.Handle
	if p.global != nil {
		h = p.global.Intern(s)
	} else {
		h = strtab.Make(s)
	}
	p.names[h.String()] = h
	return h
}

// Find probes the pool without adding s.
func (p *Pool) Find(s string) (strtab.Handle, bool) {
	h, ok := p.names[s]
	return h, ok
}

// Contains reports whether h was interned through this pool.
func (p *Pool) Contains(h strtab.Handle) bool {
	got, ok := p.names[h.String()]
	return ok && got == h
}

// Len returns the number of distinct strings in the pool.
func (p *Pool) Len() int { return len(p.names) }

// Reset forgets every string. Handles already returned stay valid.
func (p *Pool) Reset() {
	clear(p.names)
}
