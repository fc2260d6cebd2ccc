package types

import "fmt"

// MalformedRowError reports a row that is missing a field or cannot be parsed.
// Index is the zero-based position of the row in the slice being processed.
// Line is the 1-based line or sheet row in the source file, 0 when unknown.
type MalformedRowError struct {
	Index  int
	Line   int
	Field  string
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed row %d (line %d): field %s: %s", e.Index, e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed row %d: field %s: %s", e.Index, e.Field, e.Reason)
}
