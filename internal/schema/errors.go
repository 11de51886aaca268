package schema

import "fmt"

// Error is a fatal schema error attached to a declaration and, when it
// concerns one field, to that field.
type Error struct {
	Type  string // Declaring struct
	Field string // Offending field, empty for struct-level errors
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field '%s' of struct '%s': %v", e.Field, e.Type, e.Err)
	}
	return fmt.Sprintf("struct '%s': %v", e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func typeErr(typ string, format string, args ...any) *Error {
	return &Error{Type: typ, Err: fmt.Errorf(format, args...)}
}

func fieldErr(typ, field string, err error) *Error {
	return &Error{Type: typ, Field: field, Err: err}
}

// Diagnostic reports an annotation key that was supplied but never
// consulted. It does not stop compilation.
type Diagnostic struct {
	Type  string
	Field string // Empty for struct-level annotations
	Key   string
}

func (d Diagnostic) String() string {
	if d.Field != "" {
		return fmt.Sprintf("unexpected attribute '%s' on field '%s' of struct '%s'", d.Key, d.Field, d.Type)
	}
	return fmt.Sprintf("unexpected attribute '%s' on struct '%s'", d.Key, d.Type)
}
