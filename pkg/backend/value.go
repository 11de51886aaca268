package backend

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"cmdgen/pkg/cmdkit"
)

var _ pflag.Value = (*value)(nil)

// value is the pflag.Value of a named argument. Every occurrence is recorded
// into the command's matches after validation.
type value struct {
	arg     *cmdkit.Arg
	matches *cmdkit.Matches
}

func (v *value) String() string {
	if v.arg.HasDefault {
		return v.arg.Default
	}
	return ""
}

func (v *value) Set(s string) error {
	switch v.arg.Arity {
	case cmdkit.ArityFlag:
		on, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("expected true or false")
		}
		if on {
			v.matches.Mark(v.arg.Name)
		}
	case cmdkit.ArityCounted:
		v.matches.Mark(v.arg.Name)
	default:
		if err := validate(v.arg, s); err != nil {
			return err
		}
		v.matches.Add(v.arg.Name, s)
	}
	return nil
}

// Type names the value in usage output. pflag hides the placeholder of
// "bool" and "count" flags.
func (v *value) Type() string {
	switch v.arg.Arity {
	case cmdkit.ArityFlag:
		return "bool"
	case cmdkit.ArityCounted:
		return "count"
	}
	if v.arg.ValueName != "" {
		return v.arg.ValueName
	}
	return "string"
}
