// Package mmfile provides read-only, memory-mapped access to archive files.
//
// Library references point into archives by byte offset; mapping the archive
// lets the index hand out positioned readers without copying it.
package mmfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrClosed is returned when a closed File is used.
var ErrClosed = errors.New("mmfile: file closed")

// File is a read-only mapping of a file on disk.
//
// NOT thread-safe for Close; readers returned by Section share the mapping
// and must not be used after Close.
type File struct {
	path    string
	data    []byte
	release func() error
}

// Open maps the file at path.
func Open(path string) (*File, error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, fmt.Errorf("mmfile: open %s: %w", path, err)
	}
	return &File{path: path, data: data, release: release}, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Bytes returns the mapped contents. The slice is invalid after Close.
func (f *File) Bytes() []byte { return f.data }

// Len returns the mapped size in bytes.
func (f *File) Len() int64 { return int64(len(f.data)) }

// Section returns a reader positioned at off. Seeking is relative to the
// start of the file, not to off.
func (f *File) Section(off int64) (io.ReadSeeker, error) {
	if f.release == nil {
		return nil, ErrClosed
	}
	if off < 0 || off > int64(len(f.data)) {
		return nil, fmt.Errorf("mmfile: offset %d outside %s (%d bytes)", off, f.path, len(f.data))
	}
	r := bytes.NewReader(f.data)
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the mapping. Closing twice is a no-op.
func (f *File) Close() error {
	if f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	f.data = nil
	return release()
}
