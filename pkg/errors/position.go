package errors

import "coral/pkg/source"

// Position pins a diagnostic to a location in the source text. Line and
// Column are 1-based for display; StartPos/EndPos are 0-based byte offsets
// for tooling.
type Position struct {
	Line     int
	Column   int
	StartPos int
	EndPos   int
	Source   *source.File
}
