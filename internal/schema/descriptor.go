package schema

import (
	"fmt"
	"strings"

	"cmdgen/internal/config"
	"cmdgen/internal/meta"
	"cmdgen/internal/model"
	"cmdgen/pkg/cmdkit"
)

// Arg is the descriptor of a leaf argument field.
type Arg struct {
	Field      string // Go field name
	Name       string // External name
	Short      string
	Long       string
	ValueName  string
	Index      int // 1-based position, 0 for named arguments
	Doc        meta.Doc
	Arity      cmdkit.Arity
	Required   bool
	Default    string
	HasDefault bool
	MinValues  int
	MaxValues  int

	Shape Shape
	Elem  string // Go element type, e.g. "uint32" or "uuid.UUID"
	Rule  Rule   // Empty for flag and counted arguments
}

// Positional reports whether the argument is matched by position.
func (a *Arg) Positional() bool {
	return a.Index > 0
}

// Slot is the descriptor of a subcommand field.
type Slot struct {
	Field    string
	SetType  string // Command set type name
	Optional bool   // Declared as *SetType

	Set *CommandSet // Resolved by Compile
}

// Descriptor is exactly one of Arg or Slot.
type Descriptor struct {
	Arg  *Arg
	Slot *Slot
}

// Classify turns a struct field and its annotations into a descriptor.
func Classify(field model.Field, r *meta.Reader, cfg *config.Config) (Descriptor, error) {
	if r.Bool("subcommand") {
		slot, err := classifySlot(field)
		if err != nil {
			return Descriptor{}, err
		}
		return Descriptor{Slot: slot}, r.Err()
	}

	arg, err := classifyArg(field, r, cfg)
	if err != nil {
		return Descriptor{}, err
	}
	if err := r.Err(); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Arg: arg}, nil
}

func classifySlot(field model.Field) (*Slot, error) {
	ref := field.Type
	switch {
	case ref.IsLocal():
		return &Slot{Field: field.Name, SetType: ref.Name}, nil
	case ref.Kind == model.KindPointer && ref.Elem != nil && ref.Elem.IsLocal():
		return &Slot{Field: field.Name, SetType: ref.Elem.Name, Optional: true}, nil
	}
	return nil, fmt.Errorf("unsupported subcommand field type %s", ref.Raw)
}

func classifyArg(field model.Field, r *meta.Reader, cfg *config.Config) (*Arg, error) {
	shape, elem, err := resolveShape(field.Type)
	if err != nil {
		return nil, err
	}

	a := &Arg{
		Field: field.Name,
		Name:  strings.ToLower(field.Name),
		Doc:   meta.SplitDoc(field.Doc),
		Shape: shape,
		Elem:  elem.Raw,
	}
	if name, ok := r.String("name"); ok {
		a.Name = name
	}

	if idx, ok := r.Uint("index"); ok {
		if idx == 0 {
			return nil, fmt.Errorf("index is 1-based, got 0")
		}
		a.Index = int(idx)
	}
	if short, ok := r.Char("short"); ok {
		a.Short = string(short)
	}
	long, hasLong := r.String("long")
	if a.Positional() && (a.Short != "" || hasLong) {
		return nil, fmt.Errorf("a positional argument cannot have a short or long form")
	}
	switch {
	case hasLong:
		a.Long = long
	case !a.Positional():
		a.Long = a.Name
	}
	if a.Short == "h" || a.Long == "help" {
		return nil, fmt.Errorf("-h/--help is reserved for the help flag")
	}
	a.ValueName, _ = r.String("value_name")

	counted, counter := r.Bool("counted"), r.Bool("counter")
	counted = counted || counter
	takesValue, hasTakesValue := true, r.Has("takes_value")
	if hasTakesValue {
		takesValue = r.Bool("takes_value")
	}
	minValues, hasMin := r.Uint("min_values")
	maxValues, hasMax := r.Uint("max_values")
	a.Default, a.HasDefault = r.Text("default_value")

	switch {
	case counted:
		if shape == ShapeSequence || hasMin || hasMax {
			return nil, fmt.Errorf("conflicting arity: a counted field cannot take multiple values")
		}
		if shape != ShapeScalar || !isInteger(elem) {
			return nil, fmt.Errorf("a counted field must be an integer, got %s", field.Type.Raw)
		}
		a.Arity = cmdkit.ArityCounted
	case shape == ShapeScalar && isBool(elem) && !(hasTakesValue && takesValue):
		a.Arity = cmdkit.ArityFlag
	case shape == ShapeSequence:
		a.Arity = cmdkit.ArityMulti
	default:
		a.Arity = cmdkit.AritySingle
	}

	if hasTakesValue && !takesValue && a.Arity != cmdkit.ArityFlag {
		return nil, fmt.Errorf("takes_value=false requires a bool field")
	}
	if (hasMin || hasMax) && a.Arity != cmdkit.ArityMulti {
		return nil, fmt.Errorf("min_values and max_values require a slice field")
	}
	if hasMin && hasMax && minValues > maxValues {
		return nil, fmt.Errorf("min_values %d exceeds max_values %d", minValues, maxValues)
	}
	a.MinValues, a.MaxValues = int(minValues), int(maxValues)

	if a.Positional() && (a.Arity == cmdkit.ArityFlag || a.Arity == cmdkit.ArityCounted) {
		return nil, fmt.Errorf("a %s argument cannot be positional", a.Arity)
	}
	if a.HasDefault && a.Arity != cmdkit.AritySingle {
		return nil, fmt.Errorf("default_value requires a single-valued field, not %s", a.Arity)
	}

	a.Required = !(shape == ShapeOptional || a.HasDefault ||
		a.Arity == cmdkit.ArityMulti || a.Arity == cmdkit.ArityFlag || a.Arity == cmdkit.ArityCounted)

	if a.Arity.TakesValue() {
		if a.Rule, err = parseRule(elem, cfg); err != nil {
			return nil, err
		}
	}
	return a, nil
}
