package libref

import (
	"path/filepath"
	"strconv"

	"github.com/joshuapare/cellkit/cell/strtab"
)

// Kind classifies libraries. Kinds are bits so lookups can take a mask.
type Kind uint8

const (
	// KindDevice marks a device library. Its cell names are never renamed.
	KindDevice Kind = 1 << iota
	// KindUser marks an ordinary user library.
	KindUser

	// KindAny matches every library.
	KindAny = KindDevice | KindUser
)

func (k Kind) String() string {
	switch k {
	case KindDevice:
		return "device"
	case KindUser:
		return "user"
	case KindAny:
		return "any"
	}
	return "none"
}

// LocationKind tags a Location.
type LocationKind uint8

const (
	// AtOffset locates a cell at a byte offset in an archive.
	AtOffset LocationKind = iota
	// AtCell redirects to a cell by name, in an archive or another library.
	AtCell
)

// Location is where a referenced cell lives: a byte offset or a cell name.
type Location struct {
	Kind   LocationKind
	Offset int64
	Cell   strtab.Handle
}

// OffsetLocation returns a Location at byte offset off.
func OffsetLocation(off int64) Location {
	return Location{Kind: AtOffset, Offset: off}
}

// CellLocation returns a Location redirecting to name.
func CellLocation(name strtab.Handle) Location {
	return Location{Kind: AtCell, Cell: name}
}

func (l Location) String() string {
	if l.Kind == AtOffset {
		return "@" + strconv.FormatInt(l.Offset, 10)
	}
	return l.Cell.String()
}

// Reference is one entry of a library: the name it provides and where the
// cell can be found.
//
// For an alias reference (IsAlias), Loc names another reference of the same
// library and Dir/File are unset.
type Reference struct {
	Name    strtab.Handle
	Dir     strtab.Handle
	File    strtab.Handle
	Loc     Location
	IsAlias bool

	lib *Library
}

// Path returns the archive or library file the reference points into.
func (r *Reference) Path() string {
	if r.File.IsZero() {
		return ""
	}
	return filepath.Join(r.Dir.String(), r.File.String())
}

// Target returns the name of the cell to read from the target file: the
// redirect name when there is one, otherwise the reference name.
func (r *Reference) Target() strtab.Handle {
	if r.Loc.Kind == AtCell {
		return r.Loc.Cell
	}
	return r.Name
}

// Library returns the library that owns r.
func (r *Reference) Library() *Library { return r.lib }

func (r *Reference) String() string {
	if r.IsAlias {
		return r.Name.String() + " -> " + r.Loc.Cell.String()
	}
	return r.Name.String() + " " + r.Path() + " " + r.Loc.String()
}

// fileKey identifies a physical file by interned directory and base name.
type fileKey struct {
	dir, file strtab.Handle
}

func (r *Reference) fileKey() fileKey {
	return fileKey{dir: r.Dir, file: r.File}
}
