package cmdkit

import "fmt"

// Integer is the set of types a counted argument may decode into.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Count decodes a counted argument: the number of occurrences, zero if unseen.
func Count[T Integer](m *Matches, name string) T {
	return T(m.Count(name))
}

// Flag decodes a boolean switch.
func Flag(m *Matches, name string) bool {
	return m.Present(name)
}

// Multi decodes every value of name in order. An absent argument yields an
// empty, non-nil slice.
func Multi[T any](m *Matches, name string, parse func(string) (T, error)) ([]T, error) {
	raw := m.Values(name)
	out := make([]T, 0, len(raw))
	for _, s := range raw {
		v, err := coerce(name, s, parse)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Single decodes a required single value.
func Single[T any](m *Matches, name string, parse func(string) (T, error)) (T, error) {
	s, ok := m.Value(name)
	if !ok {
		var zero T
		return zero, missing(name)
	}
	return coerce(name, s, parse)
}

// SingleOr decodes a single value, falling back to the raw default def.
func SingleOr[T any](m *Matches, name, def string, parse func(string) (T, error)) (T, error) {
	s, ok := m.Value(name)
	if !ok {
		s = def
	}
	return coerce(name, s, parse)
}

// Optional decodes a single value into a pointer, nil when absent.
func Optional[T any](m *Matches, name string, parse func(string) (T, error)) (*T, error) {
	s, ok := m.Value(name)
	if !ok {
		return nil, nil
	}
	v, err := coerce(name, s, parse)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// OptionalOr decodes a single value into a pointer, falling back to the raw
// default def when absent.
func OptionalOr[T any](m *Matches, name, def string, parse func(string) (T, error)) (*T, error) {
	s, ok := m.Value(name)
	if !ok {
		s = def
	}
	v, err := coerce(name, s, parse)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Subcommand decodes the selected subcommand into a new T, or returns nil
// when none was selected.
func Subcommand[T any, PT interface {
	*T
	CommandSet
}](m *Matches) (*T, error) {
	sub := m.Sub()
	if sub == nil {
		return nil, nil
	}
	v := new(T)
	if err := PT(v).Parse(sub.Name, sub.Matches); err != nil {
		return nil, err
	}
	return v, nil
}

// RequiredSubcommand decodes the selected subcommand of the command named
// parent. The grammar marks the selection as required, so its absence is a
// backend contract violation.
func RequiredSubcommand[T any, PT interface {
	*T
	CommandSet
}](m *Matches, parent string) (T, error) {
	v, err := Subcommand[T, PT](m)
	if err != nil {
		var zero T
		return zero, err
	}
	if v == nil {
		var zero T
		return zero, fmt.Errorf("%w: no subcommand selected for '%s'", ErrContract, parent)
	}
	return *v, nil
}

func coerce[T any](name, raw string, parse func(string) (T, error)) (T, error) {
	v, err := parse(raw)
	if err != nil {
		return v, fmt.Errorf("%w: %w", ErrContract, &ValueError{Arg: name, Value: raw, Err: err})
	}
	return v, nil
}
