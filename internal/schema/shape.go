package schema

import (
	"fmt"
	"go/parser"

	"cmdgen/internal/config"
	"cmdgen/internal/model"
)

// Shape is the declared type shape of an argument field.
type Shape int

const (
	// ShapeScalar is a plain T.
	ShapeScalar Shape = iota
	// ShapeOptional is *T.
	ShapeOptional
	// ShapeSequence is []T.
	ShapeSequence
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeOptional:
		return "optional"
	case ShapeSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// resolveShape splits a field type into its shape and element type.
func resolveShape(ref model.TypeRef) (Shape, *model.TypeRef, error) {
	switch {
	case ref.IsIdent():
		return ShapeScalar, &ref, nil
	case ref.Kind == model.KindPointer && ref.Elem != nil && ref.Elem.IsIdent():
		return ShapeOptional, ref.Elem, nil
	case ref.Kind == model.KindSlice && ref.Elem != nil && ref.Elem.IsIdent():
		return ShapeSequence, ref.Elem, nil
	}
	return 0, nil, fmt.Errorf("unsupported field type %s", ref.Raw)
}

var predeclared = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true,
}

var integers = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"byte": true, "rune": true,
}

func isBool(ref *model.TypeRef) bool {
	return ref.IsLocal() && ref.Name == "bool"
}

func isInteger(ref *model.TypeRef) bool {
	return ref.IsLocal() && integers[ref.Name]
}

// Rule is the parse rule of an element type: a Go function expression of
// type func(string) (T, error) plus the import it needs.
type Rule struct {
	Func   string
	Import string
}

// parseRule looks up the configured rule for elem. Named types without a
// rule are parsed through encoding.TextUnmarshaler.
func parseRule(elem *model.TypeRef, cfg *config.Config) (Rule, error) {
	if p, ok := cfg.ParserFor(elem.FullName()); ok {
		if _, err := parser.ParseExpr(p.Func); err != nil {
			return Rule{}, fmt.Errorf("invalid parse func %q for type %s: %v", p.Func, elem.FullName(), err)
		}
		return Rule{Func: p.Func, Import: p.Import}, nil
	}
	if elem.IsLocal() && predeclared[elem.Name] {
		return Rule{}, fmt.Errorf("no parse rule for type %s", elem.Name)
	}
	return Rule{Func: "cmdkit.ParseText[" + elem.Raw + "]"}, nil
}
