package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFieldNotFound is matched by every *FieldNotFoundError via errors.Is.
var ErrFieldNotFound = errors.New("field not found")

// FieldNotFoundError reports a field reference that could not be resolved to
// exactly one column. Candidates is empty when nothing matched. Otherwise it
// holds the columns that matched only partially, or the competing keys when
// several columns normalise to the same name.
type FieldNotFoundError struct {
	Field      string
	Candidates []string
}

func (e *FieldNotFoundError) Error() string {
	switch n := len(e.Candidates); {
	case n > 1:
		return fmt.Sprintf("field %q is ambiguous, candidates: %s", e.Field, strings.Join(e.Candidates, ", "))
	case n == 1:
		return fmt.Sprintf("field %q not found, did you mean %s", e.Field, e.Candidates[0])
	}
	return fmt.Sprintf("field %q not found", e.Field)
}

// Is lets errors.Is(err, ErrFieldNotFound) match.
func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}

// Ambiguous reports whether more than one column matched the field.
func (e *FieldNotFoundError) Ambiguous() bool {
	return len(e.Candidates) > 1
}

// InvalidOperationError reports misuse of a builder or store.
type InvalidOperationError struct {
	Op     string
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation %s: %s", e.Op, e.Reason)
}
