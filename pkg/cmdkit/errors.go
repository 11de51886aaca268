package cmdkit

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrContract is wrapped by every decode error that a conforming parser
// backend should have made impossible: a missing required value, an
// unvalidated value, or a subcommand name outside the grammar.
var ErrContract = errors.New("parser backend contract violation")

// ErrNoCommand is returned when a command set is run with no variant selected.
var ErrNoCommand = errors.New("no command selected")

// ValueError reports a raw value that could not be converted.
type ValueError struct {
	Arg   string // External name of the argument
	Value string // Offending raw value
	Err   error  // Underlying parse failure
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for '%s': %v", e.Value, e.Arg, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Validator adapts a parse rule into a Grammar validator for argument name.
func Validator[T any](name string, parse func(string) (T, error)) func(string) error {
	return func(raw string) error {
		if _, err := parse(raw); err != nil {
			return &ValueError{Arg: name, Value: raw, Err: err}
		}
		return nil
	}
}

// UnknownCommand is returned by command set dispatchers for names they do
// not list.
func UnknownCommand(name string) error {
	return fmt.Errorf("%w: unknown command '%s'", ErrContract, name)
}

func missing(name string) error {
	return fmt.Errorf("%w: required argument '%s' is missing", ErrContract, name)
}

// numErr strips the strconv function prefix so messages read
// "invalid syntax" rather than `strconv.ParseUint: parsing "x": invalid syntax`.
func numErr(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
