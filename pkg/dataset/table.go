package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// table is a delimited file with a header row, read fully into memory.
type table struct {
	name    string
	columns map[string]int
	rows    []row
}

type row struct {
	line   int
	fields []string
}

// readTable parses a delimited source and checks that every required column
// is present in the header.
func readTable(r io.Reader, name string, comma rune, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &MalformedInputError{File: name, Reason: "missing header row"}
	}
	if err != nil {
		return nil, csvError(name, err)
	}

	t := &table{name: name, columns: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}
	for _, c := range required {
		if _, ok := t.columns[c]; !ok {
			return nil, &MalformedInputError{File: name, Row: 1, Column: c, Reason: "missing required column"}
		}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, row{line: line, fields: rec})
	}
	return t, nil
}

func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &MalformedInputError{File: name, Row: pe.Line, Reason: pe.Err.Error()}
	}
	return &MalformedInputError{File: name, Reason: err.Error()}
}

func (t *table) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// str returns the named field of r. A row too short to hold a required
// column is malformed.
func (t *table) str(r row, column string) (string, error) {
	i, ok := t.columns[column]
	if !ok {
		return "", nil
	}
	if i >= len(r.fields) {
		return "", &MalformedInputError{File: t.name, Row: r.line, Column: column, Reason: "missing value"}
	}
	return r.fields[i], nil
}

func (t *table) integer(r row, column string) (int, error) {
	s, err := t.str(r, column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &MalformedInputError{File: t.name, Row: r.line, Column: column, Reason: "not an integer: " + strconv.Quote(s)}
	}
	return n, nil
}

// opt returns the named field of r, or "" when the column is absent from
// the header or the row stops before it. Optional trailing columns may be
// left off a row.
func (t *table) opt(r row, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// optInt is opt for an integer column. A blank or missing value is nil;
// a present value that is not an integer is malformed.
func (t *table) optInt(r row, column string) (*int, error) {
	s := strings.TrimSpace(t.opt(r, column))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &MalformedInputError{File: t.name, Row: r.line, Column: column, Reason: "not an integer: " + strconv.Quote(s)}
	}
	return &n, nil
}

// openSource opens a source file, mapping a missing file to SourceNotFoundError.
func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceNotFoundError{Path: path, Err: err}
		}
		return nil, err
	}
	return f, nil
}
