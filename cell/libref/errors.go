package libref

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by OpenFile and OpenCell when no library
	// provides the requested cell.
	ErrNotFound = errors.New("libref: not found")

	// ErrSyntax is matched by every ParseError.
	ErrSyntax = errors.New("libref: syntax error")

	// ErrRedirectLoop is returned when resolving a reference follows more
	// than MaxRedirects redirects.
	ErrRedirectLoop = errors.New("libref: too many redirects")

	// ErrNoCodec is returned by OpenCell when no codec is registered for the
	// archive's format.
	ErrNoCodec = errors.New("libref: no codec for format")

	// ErrNotArchive is returned when a reference points at a file that is
	// neither an archive nor a library.
	ErrNotArchive = errors.New("libref: not an archive")
)

// ParseError reports a malformed library file.
type ParseError struct {
	File string
	Line int // 1-based; 0 when unknown
	Col  int // 1-based; 0 when unknown
	Msg  string
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Col > 0:
		return fmt.Sprintf("libref: %s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("libref: %s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("libref: %s: %s", e.File, e.Msg)
}

// Unwrap lets errors.Is(err, ErrSyntax) match.
func (e *ParseError) Unwrap() error { return ErrSyntax }
