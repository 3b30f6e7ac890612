package libref

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/joshuapare/cellkit/cell"
	"github.com/joshuapare/cellkit/cell/alias"
	"github.com/joshuapare/cellkit/cell/digest"
	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/internal/format"
	"github.com/joshuapare/cellkit/internal/logger"
	"github.com/joshuapare/cellkit/internal/mmfile"
	"github.com/joshuapare/cellkit/pkg/types"
)

// MaxRedirects bounds how many alias and library redirects one lookup may
// follow.
const MaxRedirects = 16

// Codec reads one cell from an archive stream. The stream is positioned at
// the cell for offset references and at the start of the archive otherwise;
// name is the cell to read. The stream is closed after ReadCell returns, so
// the returned cell must not retain it.
type Codec interface {
	ReadCell(r io.ReadSeeker, name strtab.Handle) (*cell.Cell, error)
}

// CodecFunc adapts a function to Codec.
type CodecFunc func(r io.ReadSeeker, name strtab.Handle) (*cell.Cell, error)

// ReadCell calls f.
func (f CodecFunc) ReadCell(r io.ReadSeeker, name strtab.Handle) (*cell.Cell, error) {
	return f(r, name)
}

// Options configures an Index.
type Options struct {
	// SearchPath lists directories tried, in order, for relative library
	// paths that do not exist relative to the working directory.
	SearchPath []string

	Logger *slog.Logger
	Report *types.Report // Receives parse warnings. Optional.
}

// Index holds the open libraries of a session.
//
// NOT thread-safe.
type Index struct {
	libs   []*Library
	byPath map[string]*Library
	codecs map[format.Kind]Codec
	search []string
	log    *slog.Logger
	report *types.Report
}

// NewIndex creates an empty index.
func NewIndex(opts Options) *Index {
	return &Index{
		byPath: make(map[string]*Library),
		codecs: make(map[format.Kind]Codec),
		search: slices.Clone(opts.SearchPath),
		log:    logger.Or(opts.Logger),
		report: opts.Report,
	}
}

// RegisterCodec installs the codec OpenCell uses for archives of kind k.
func (x *Index) RegisterCodec(k format.Kind, c Codec) {
	x.codecs[k] = c
}

// OpenLibrary parses the library file at path and adds it to the index.
// Opening a library that is already open returns the existing one. On a
// parse error nothing is added. A name defined twice is a warning; the
// later definition wins.
func (x *Index) OpenLibrary(path string, kind Kind) (*Library, error) {
	full, err := x.locate(path)
	if err != nil {
		return nil, err
	}
	if lib, ok := x.byPath[full]; ok {
		return lib, nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("libref: open library: %w", err)
	}
	p := newParser(full, kind)
	if err := p.parse(data); err != nil {
		x.log.Warn("libref: library rejected", "path", full, "err", err)
		return nil, err
	}
	for _, d := range p.dups {
		x.log.Warn("libref: duplicate reference, later entry wins", "path", full, "line", d.line, "name", d.name)
		x.report.Add(types.Diagnostic{
			Severity: types.SevWarning,
			Category: types.CatLibrary,
			File:     full,
			Line:     d.line,
			Name:     d.name,
			Issue:    "duplicate reference " + d.name + ", later entry wins",
		})
	}

	lib := p.lib
	x.libs = append(x.libs, lib)
	x.byPath[full] = lib
	x.log.Debug("libref: library opened", "path", full, "name", lib.name, "kind", kind.String(), "refs", lib.Len())
	return lib, nil
}

// locate makes path absolute, consulting the search path for relative
// paths that do not exist as given.
func (x *Index) locate(path string) (string, error) {
	if _, err := os.Stat(path); err == nil || filepath.IsAbs(path) {
		return filepath.Abs(path)
	}
	for _, dir := range x.search {
		cand := filepath.Join(dir, path)
		if _, err := os.Stat(cand); err == nil {
			return filepath.Abs(cand)
		}
	}
	return "", fmt.Errorf("libref: open library %s: %w", path, fs.ErrNotExist)
}

// Close removes the library matching name along with its digest cache and
// reports whether one was open.
func (x *Index) Close(name string) bool {
	lib, ok := x.Find(name)
	if !ok {
		return false
	}
	x.libs = slices.DeleteFunc(x.libs, func(l *Library) bool { return l == lib })
	delete(x.byPath, lib.path)
	clear(lib.digests)
	return true
}

// Libraries returns the open libraries in the order they were opened.
func (x *Index) Libraries() []*Library {
	return slices.Clone(x.libs)
}

// Paths returns the paths of the open libraries in open order.
func (x *Index) Paths() []string {
	out := make([]string, len(x.libs))
	for i, l := range x.libs {
		out[i] = l.path
	}
	return out
}

// Find returns the open library matching name by full path, base name or
// header name.
func (x *Index) Find(name string) (*Library, bool) {
	if lib, ok := x.byPath[name]; ok {
		return lib, true
	}
	for _, lib := range x.libs {
		if lib.matches(name) {
			return lib, true
		}
	}
	return nil, false
}

// Lookup finds the reference for cellName. With libName empty every open
// library whose kind is in mask is searched, in open order; otherwise only
// the named library is.
func (x *Index) Lookup(libName string, cellName strtab.Handle, mask Kind) (*Library, *Reference, bool) {
	if libName != "" {
		lib, ok := x.Find(libName)
		if !ok || lib.kind&mask == 0 {
			return nil, nil, false
		}
		ref, ok := lib.Find(cellName)
		if !ok {
			return nil, nil, false
		}
		return lib, ref, true
	}
	for _, lib := range x.libs {
		if lib.kind&mask == 0 {
			continue
		}
		if ref, ok := lib.Find(cellName); ok {
			return lib, ref, true
		}
	}
	return nil, nil, false
}

// IsDeviceCell implements cell.DeviceChecker: it reports whether an open
// device library provides name.
func (x *Index) IsDeviceCell(name strtab.Handle) bool {
	_, _, ok := x.Lookup("", name, KindDevice)
	return ok
}

// ImportAliases binds every alias reference of the open libraries in r: the
// archive cell the alias resolves to is read under the alias name. It
// returns the number of bindings made.
func (x *Index) ImportAliases(r *alias.Resolver) int {
	n := 0
	for _, lib := range x.libs {
		for _, ref := range lib.References() {
			if !ref.IsAlias {
				continue
			}
			target, err := lib.resolveAlias(ref)
			if err != nil {
				x.log.Warn("libref: unresolved alias", "library", lib.path, "name", ref.Name.String(), "err", err)
				continue
			}
			if r.SetAlias(target.Target(), ref.Name) {
				n++
			}
		}
	}
	return n
}

// Detect reports the format of the file at path, falling back to the file
// extension when the contents match no signature.
func (x *Index) Detect(path string) (format.Kind, error) {
	k, err := format.DetectFile(path)
	if err != nil {
		return format.KindUnknown, err
	}
	if k == format.KindUnknown {
		k = format.KindFromExtension(path)
	}
	return k, nil
}

// Stream is an open archive positioned at a referenced cell.
type Stream struct {
	io.ReadSeeker

	Kind format.Kind   // archive format
	Cell strtab.Handle // cell to read from the archive
	Ref  *Reference    // reference the lookup resolved to
	Lib  *Library      // library owning Ref

	mm *mmfile.File
}

// Close releases the archive mapping.
func (s *Stream) Close() error {
	return s.mm.Close()
}

// OpenFile resolves a cell to an open archive stream, following alias and
// library redirects. Missing cells return ErrNotFound.
func (x *Index) OpenFile(libName string, cellName strtab.Handle, mask Kind) (*Stream, error) {
	lib, ref, ok := x.Lookup(libName, cellName, mask)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cellName)
	}
	return x.open(lib, ref, 0)
}

func (x *Index) open(lib *Library, ref *Reference, depth int) (*Stream, error) {
	if depth > MaxRedirects {
		return nil, fmt.Errorf("%w: %s", ErrRedirectLoop, ref.Name)
	}
	if ref.IsAlias {
		target, ok := lib.Find(ref.Loc.Cell)
		if !ok {
			return nil, fmt.Errorf("%w: alias target %s in %s", ErrNotFound, ref.Loc.Cell, lib.path)
		}
		return x.open(lib, target, depth+1)
	}

	path := ref.Path()
	mm, err := mmfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("libref: %s: %w", ref.Name, err)
	}
	kind := format.Detect(head(mm.Bytes()))
	if kind == format.KindUnknown {
		kind = format.KindFromExtension(path)
	}

	if kind == format.KindLibrary {
		_ = mm.Close()
		next, err := x.OpenLibrary(path, lib.kind)
		if err != nil {
			return nil, err
		}
		target, ok := next.Find(ref.Target())
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, ref.Target(), path)
		}
		return x.open(next, target, depth+1)
	}
	if !kind.IsArchive() {
		_ = mm.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotArchive, path)
	}

	var off int64
	if ref.Loc.Kind == AtOffset {
		off = ref.Loc.Offset
	}
	rs, err := mm.Section(off)
	if err != nil {
		_ = mm.Close()
		return nil, fmt.Errorf("libref: %s: %w", ref.Name, err)
	}
	return &Stream{ReadSeeker: rs, Kind: kind, Cell: ref.Target(), Ref: ref, Lib: lib, mm: mm}, nil
}

func head(data []byte) []byte {
	if len(data) > format.HeaderPeekSize {
		return data[:format.HeaderPeekSize]
	}
	return data
}

// ResolvedCell is a cell read through a library reference.
type ResolvedCell struct {
	Cell *cell.Cell
	Kind format.Kind
	Ref  *Reference
	Lib  *Library
}

// OpenCell resolves a reference as OpenFile does and reads the cell with
// the codec registered for the archive format.
func (x *Index) OpenCell(libName string, cellName strtab.Handle, mask Kind) (*ResolvedCell, error) {
	s, err := x.OpenFile(libName, cellName, mask)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	codec, ok := x.codecs[s.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCodec, s.Kind)
	}
	c, err := codec.ReadCell(s, s.Cell)
	if err != nil {
		return nil, fmt.Errorf("libref: read %s from %s: %w", s.Cell, s.Ref.Path(), err)
	}
	return &ResolvedCell{Cell: c, Kind: s.Kind, Ref: s.Ref, Lib: s.Lib}, nil
}

// digestSlot returns the library and key caching the digest for ref.
// Alias references share the slot of their target.
func digestSlot(ref *Reference) (*Library, fileKey, bool) {
	if ref == nil || ref.lib == nil {
		return nil, fileKey{}, false
	}
	if ref.IsAlias {
		target, err := ref.lib.resolveAlias(ref)
		if err != nil {
			return nil, fileKey{}, false
		}
		ref = target
	}
	return ref.lib, ref.fileKey(), true
}

// GetDigest returns the cached hierarchy digest for the file ref points
// into. References into the same file share one digest.
func (x *Index) GetDigest(ref *Reference) (*digest.Digest, bool) {
	lib, key, ok := digestSlot(ref)
	if !ok {
		return nil, false
	}
	d, ok := lib.digests[key]
	return d, ok
}

// SetDigest caches d for the file ref points into, replacing any earlier
// digest.
func (x *Index) SetDigest(ref *Reference, d *digest.Digest) error {
	lib, key, ok := digestSlot(ref)
	if !ok {
		return fmt.Errorf("%w: reference is not owned by an open library", ErrNotFound)
	}
	if _, open := x.byPath[lib.path]; !open {
		return fmt.Errorf("%w: library %s is closed", ErrNotFound, lib.path)
	}
	lib.digests[key] = d
	return nil
}

// DeleteDigest removes the cached digest for ref's file and hands it to
// the caller.
func (x *Index) DeleteDigest(ref *Reference) (*digest.Digest, bool) {
	lib, key, ok := digestSlot(ref)
	if !ok {
		return nil, false
	}
	d, ok := lib.digests[key]
	if ok {
		delete(lib.digests, key)
	}
	return d, ok
}

// IsNotFound reports whether err means the requested cell or library does
// not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
