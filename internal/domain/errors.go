package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch marks an input table whose header breaks the column contract.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaError lists what is wrong with a table header. It matches
// ErrSchemaMismatch under errors.Is.
type SchemaError struct {
	Table     string
	Missing   []string
	Misplaced []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Misplaced) > 0 {
		parts = append(parts, "misplaced columns: "+strings.Join(e.Misplaced, ", "))
	}
	return fmt.Sprintf("%s: %s: %s", e.Table, ErrSchemaMismatch, strings.Join(parts, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// CheckHeader verifies that expected occupies the leading columns of header in
// order. Comparison ignores case and surrounding whitespace; trailing extra
// columns are allowed. It returns nil or a *SchemaError.
func CheckHeader(table string, header, expected []string) error {
	present := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeColumn(h)
		if _, dup := present[key]; !dup {
			present[key] = i
		}
	}

	serr := &SchemaError{Table: table}
	for i, col := range expected {
		pos, ok := present[col]
		switch {
		case !ok:
			serr.Missing = append(serr.Missing, col)
		case pos != i:
			serr.Misplaced = append(serr.Misplaced, col)
		}
	}
	if len(serr.Missing) == 0 && len(serr.Misplaced) == 0 {
		return nil
	}
	return serr
}

func normalizeColumn(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}
