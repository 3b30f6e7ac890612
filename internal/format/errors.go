package format

import "errors"

var (
	// ErrUnknownFormat indicates a file matched no known archive signature.
	ErrUnknownFormat = errors.New("format: unknown archive format")
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated header")
)
