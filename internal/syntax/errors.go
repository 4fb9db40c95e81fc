package syntax

import "errors"

var (
	// ErrMalformedTree reports structural input that cannot be trusted:
	// undecodable JSON, negative or overflowing extents, extents outside the
	// file, or children outside their parent.
	ErrMalformedTree = errors.New("malformed syntax tree")
	// ErrStaleTree reports structural input produced for different content.
	ErrStaleTree = errors.New("syntax tree does not match source content")
)
