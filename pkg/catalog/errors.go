package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("group not found")

// NotFoundError is returned by strict lookups when no group has the exact name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("group %q not found", e.Name)
}

// Is makes errors.Is(err, ErrNotFound) true for any *NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RecordProblem describes one structurally invalid source record.
type RecordProblem struct {
	Index  int    // position in the source, 0-based
	Name   string // "" when the name itself is missing
	Field  string // "name" or "components"
	Reason string
}

func (p RecordProblem) String() string {
	if p.Name == "" {
		return fmt.Sprintf("groups[%d]: %s %s", p.Index, p.Field, p.Reason)
	}
	return fmt.Sprintf("groups[%d] (%q): %s %s", p.Index, p.Name, p.Field, p.Reason)
}

// MalformedCatalogError aborts a load. Either Cause is set (the source could
// not be decoded at all) or Problems lists every offending record.
type MalformedCatalogError struct {
	Cause    error
	Problems []RecordProblem
}

func (e *MalformedCatalogError) Error() string {
	if e.Cause != nil {
		return "malformed catalog: " + e.Cause.Error()
	}
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return "malformed catalog: " + strings.Join(parts, "; ")
}

func (e *MalformedCatalogError) Unwrap() error {
	return e.Cause
}
