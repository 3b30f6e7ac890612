package format

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/cellkit/internal/buf"
)

const (
	// HeaderPeekSize is how many leading bytes Detect needs at most.
	HeaderPeekSize = 512

	// gdsHeaderRecordLen is the byte length of the GDSII HEADER record.
	gdsHeaderRecordLen = 6

	// gdsHeaderRecordType is the record type/data type word of HEADER (0x00, INT2).
	gdsHeaderRecordType = 0x0002
)

const (
	// OASISMagic starts every OASIS file.
	OASISMagic = "%SEMI-OASIS\r\n"

	// CGXMagic starts every CGX archive.
	CGXMagic = "cgx"

	// NativeMagic starts a native ASCII cell file.
	NativeMagic = "(Symbol"

	// LibraryMagic starts a library description file.
	LibraryMagic = "(Library"
)

// Detect classifies header bytes. It is tolerant of short input: anything
// too short to be conclusive is KindUnknown.
func Detect(header []byte) Kind {
	if n, ok := buf.U16BE(header, 0); ok && n == gdsHeaderRecordLen {
		if rt, ok := buf.U16BE(header, 2); ok && rt == gdsHeaderRecordType {
			return KindGDSII
		}
	}
	if buf.HasPrefixAt(header, 0, OASISMagic) {
		return KindOASIS
	}
	if buf.HasPrefixAt(header, 0, CGXMagic) {
		return KindCGX
	}

	off := buf.SkipSpace(header, 0)
	switch {
	case buf.HasPrefixAt(header, off, LibraryMagic):
		return KindLibrary
	case buf.HasPrefixAt(header, off, NativeMagic):
		return KindNative
	case looksLikeCIF(header, off):
		return KindCIF
	}
	return KindUnknown
}

// looksLikeCIF accepts CIF comments and the command letters a CIF file can
// legally open with.
func looksLikeCIF(header []byte, off int) bool {
	if off >= len(header) {
		return false
	}
	switch header[off] {
	case '(':
		return true
	case 'D':
		return buf.HasPrefixAt(header, off, "DS")
	case 'L', 'B', 'P', 'W', 'R', 'C', 'E', '9':
		next := off + 1
		return next < len(header) && (header[next] == ' ' || header[next] == '\t' ||
			(header[next] >= '0' && header[next] <= '9') || (header[next] >= 'A' && header[next] <= 'Z'))
	}
	return false
}

// DetectReader reads up to HeaderPeekSize bytes from r and classifies them.
func DetectReader(r io.Reader) (Kind, error) {
	header := make([]byte, HeaderPeekSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, err
	}
	if n == 0 {
		return KindUnknown, ErrTruncated
	}
	return Detect(header[:n]), nil
}

// DetectFile opens path and classifies its header.
func DetectFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	k, err := DetectReader(f)
	if err != nil {
		return KindUnknown, fmt.Errorf("format: detect %s: %w", path, err)
	}
	return k, nil
}
