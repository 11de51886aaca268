package schema

import (
	"fmt"
	"go/ast"
	"go/parser"
	"sort"

	"cmdgen/internal/config"
	"cmdgen/internal/meta"
	"cmdgen/internal/model"
)

// CommandSet is a compiled tagged union of commands: a struct of pointer
// fields of which exactly one is populated after decoding.
type CommandSet struct {
	TypeName    string
	Context     string   // Go type of the environment passed to Run
	ContextPkgs []string // Package qualifiers used by Context
	Doc         meta.Doc
	Variants    []*Variant
}

// Variant is one alternative of a command set.
type Variant struct {
	Field   string // Variant tag, the Go field name
	Payload string // Command type name
	Name    string // Command name the variant is selected by, set by Compile

	explicitName string
	Command      *Command // Resolved by Compile
}

// Variant returns the variant selected by name, or nil.
func (s *CommandSet) Variant(name string) *Variant {
	for _, v := range s.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Methods generated for command set types.
var reservedSetFields = map[string]bool{"Commands": true, "Parse": true, "Selected": true, "Run": true}

// CompileCommandSet compiles a struct marked with //cmdgen:commands.
// Variant payloads are left unresolved. Fields tagged "-" are not variants
// and are cleared when a variant is decoded.
func CompileCommandSet(typ *model.Type, cfg *config.Config) (*CommandSet, []Diagnostic, error) {
	if typ.Kind != model.KindStruct {
		return nil, nil, typeErr(typ.Name, "a command set must be a struct, got %s", typ.Kind)
	}

	set, err := meta.Extract(payloads(typ, CommandsDirective))
	if err != nil {
		return nil, nil, &Error{Type: typ.Name, Err: err}
	}
	r := meta.NewReader(set)

	cs := &CommandSet{
		TypeName: typ.Name,
		Doc:      meta.SplitDoc(typ.Doc),
	}
	ctx, ok := r.String("context")
	if err := r.Err(); err != nil {
		return nil, nil, &Error{Type: typ.Name, Err: err}
	}
	if !ok {
		return nil, nil, typeErr(typ.Name, "missing required attribute 'context'")
	}
	pkgs, err := typeQualifiers(ctx)
	if err != nil {
		return nil, nil, typeErr(typ.Name, "invalid context type %q: %v", ctx, err)
	}
	cs.Context, cs.ContextPkgs = ctx, pkgs
	diags := unused(r, typ.Name, "")

	for _, f := range typ.Fields {
		tag, _ := f.Tag.Lookup(cfg.Options.TagKey)
		if tag == "-" {
			continue
		}

		ref := f.Type
		if f.IsEmbedded || ref.Kind != model.KindPointer || ref.Elem == nil || !ref.Elem.IsLocal() {
			return nil, nil, fieldErr(typ.Name, f.Name, fmt.Errorf("a single-payload variant is required, got %s", ref.Raw))
		}

		if reservedSetFields[f.Name] {
			return nil, nil, fieldErr(typ.Name, f.Name, fmt.Errorf("field name collides with the generated %s method", f.Name))
		}

		fset, err := meta.Extract([]string{tag})
		if err != nil {
			return nil, nil, fieldErr(typ.Name, f.Name, err)
		}
		fr := meta.NewReader(fset)

		v := &Variant{Field: f.Name, Payload: ref.Elem.Name}
		v.explicitName, _ = fr.String("name")
		if err := fr.Err(); err != nil {
			return nil, nil, fieldErr(typ.Name, f.Name, err)
		}
		diags = append(diags, unused(fr, typ.Name, f.Name)...)

		cs.Variants = append(cs.Variants, v)
	}
	if len(cs.Variants) == 0 {
		return nil, nil, typeErr(typ.Name, "a command set needs at least one variant")
	}
	return cs, diags, nil
}

// typeQualifiers parses a Go type expression and returns the package
// qualifiers it references.
func typeQualifiers(expr string) ([]string, error) {
	x, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	ast.Inspect(x, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				seen[id.Name] = true
			}
		}
		return true
	})

	pkgs := make([]string, 0, len(seen))
	for p := range seen {
		pkgs = append(pkgs, p)
	}
	sort.Strings(pkgs)
	return pkgs, nil
}
