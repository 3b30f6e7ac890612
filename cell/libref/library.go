package libref

import (
	"slices"
	"strings"

	"github.com/joshuapare/cellkit/cell/digest"
	"github.com/joshuapare/cellkit/cell/strtab"
)

// Library is one opened library file.
type Library struct {
	name string
	path string
	kind Kind

	names   map[strtab.Handle]*Reference
	order   []*Reference
	digests map[fileKey]*digest.Digest
}

func newLibrary(path string, kind Kind) *Library {
	return &Library{
		path:    path,
		kind:    kind,
		names:   make(map[strtab.Handle]*Reference),
		digests: make(map[fileKey]*digest.Digest),
	}
}

// Name returns the name declared in the library header.
func (l *Library) Name() string { return l.name }

// Path returns the absolute path of the library file.
func (l *Library) Path() string { return l.path }

// Kind returns whether l is a device or user library.
func (l *Library) Kind() Kind { return l.kind }

// Len returns the number of references.
func (l *Library) Len() int { return len(l.names) }

// Find returns the reference for name.
func (l *Library) Find(name strtab.Handle) (*Reference, bool) {
	r, ok := l.names[name]
	return r, ok
}

// References returns the references in file order. When a name was
// defined twice only the later definition is listed.
func (l *Library) References() []*Reference {
	out := make([]*Reference, 0, len(l.names))
	for _, r := range l.order {
		if l.names[r.Name] == r {
			out = append(out, r)
		}
	}
	return out
}

// Names returns the provided cell names, sorted.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.names))
	for h := range l.names {
		out = append(out, h.String())
	}
	slices.Sort(out)
	return out
}

// add stores r, replacing an earlier definition of the same name. It
// returns the replaced reference, if any.
func (l *Library) add(r *Reference) *Reference {
	r.lib = l
	prev := l.names[r.Name]
	l.names[r.Name] = r
	l.order = append(l.order, r)
	return prev
}

// resolveAlias follows alias references inside l to a concrete one.
func (l *Library) resolveAlias(r *Reference) (*Reference, error) {
	for hops := 0; r.IsAlias; hops++ {
		if hops >= MaxRedirects {
			return nil, ErrRedirectLoop
		}
		next, ok := l.names[r.Loc.Cell]
		if !ok {
			return nil, ErrNotFound
		}
		r = next
	}
	return r, nil
}

// matches reports whether name selects l, by full path, by base name, or by
// the name in the library header.
func (l *Library) matches(name string) bool {
	if name == l.path || name == l.name {
		return true
	}
	return baseName(name) == baseName(l.path)
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
