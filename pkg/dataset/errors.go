package dataset

import (
	"fmt"
)

// MalformedInputError reports a source row that cannot be parsed: a missing
// column, a non-integer numeric field or broken delimiters.
type MalformedInputError struct {
	File   string
	Row    int // 1-based line number; 0 when the whole file is affected
	Column string
	Reason string
}

func (e *MalformedInputError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("%s:%d: column %q: %s", e.File, e.Row, e.Column, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Row, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("%s: column %q: %s", e.File, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}

// SourceNotFoundError is returned when an input file or database is missing.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source not found: %s", e.Path)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// DuplicateKeyError signals a unique key that survived deduplication and was
// rejected by the database. It indicates a bug, not bad input.
type DuplicateKeyError struct {
	Table string
	Key   string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q in table %s", e.Key, e.Table)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }
