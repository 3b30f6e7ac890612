// Package format identifies the layout archive and library file formats the
// cell identity core has to reason about. It never decodes cell bodies; the
// per-format codecs own that. It answers "is this a known archive, and of
// what type" and decodes the text files the core parses itself.
package format

import (
	"path/filepath"
	"strings"
)

// Kind is a layout archive or library file type.
type Kind uint8

const (
	// KindUnknown is returned for data that matches no known signature.
	KindUnknown Kind = iota
	// KindGDSII is a Calma GDSII stream file.
	KindGDSII
	// KindOASIS is a SEMI OASIS file.
	KindOASIS
	// KindCIF is Caltech Intermediate Form text.
	KindCIF
	// KindCGX is the compact binary native archive.
	KindCGX
	// KindNative is a native ASCII cell file.
	KindNative
	// KindLibrary is a library description file.
	KindLibrary
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindGDSII:   "gds",
	KindOASIS:   "oas",
	KindCIF:     "cif",
	KindCGX:     "cgx",
	KindNative:  "native",
	KindLibrary: "library",
}

// String returns the short name used in logs and CLI output.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// IsArchive reports whether k is a cell archive (as opposed to a library
// description or unknown data).
func (k Kind) IsArchive() bool {
	switch k {
	case KindGDSII, KindOASIS, KindCIF, KindCGX, KindNative:
		return true
	case KindUnknown, KindLibrary:
		return false
	}
	return false
}

// ParseKind maps a short name (as printed by String) back to a Kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// KindFromExtension guesses a Kind from the file name alone. Detect should be
// preferred whenever the header bytes are available.
func KindFromExtension(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gds", ".gds2", ".gdsii", ".strm", ".str":
		return KindGDSII
	case ".oas", ".oasis":
		return KindOASIS
	case ".cif":
		return KindCIF
	case ".cgx":
		return KindCGX
	case ".lib", ".yaml", ".yml":
		return KindLibrary
	}
	return KindUnknown
}
