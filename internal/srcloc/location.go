// Package srcloc defines the source-location value attached to tokens,
// instructions, and diagnostics throughout the forge pipeline.
package srcloc

import "fmt"

// Location identifies a single position in a named source.
//
// Locations are created by the tokenizer and are immutable thereafter;
// they are attached to tokens and, optionally, to compiled instructions.
type Location struct {
	Path   string
	Line   int
	Column int
}

// New returns the starting location of a source named path: line 1, column 1.
func New(path string) Location {
	return Location{Path: path, Line: 1, Column: 1}
}

// NextColumn advances the location by one column, for an ordinary character.
func (l Location) NextColumn() Location {
	l.Column++
	return l
}

// NextLine advances the location to the start of the next line.
func (l Location) NextLine() Location {
	l.Line++
	l.Column = 1
	return l
}

// String renders the location as "path:line:column", omitting the path
// when it is empty (e.g. for in-memory or REPL sources).
func (l Location) String() string {
	if l.Path == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
}
