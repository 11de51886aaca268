package schema

import (
	"fmt"
	"sort"
	"strings"

	"cmdgen/internal/config"
	"cmdgen/internal/meta"
	"cmdgen/internal/model"
)

// Directive names marking declarations for compilation.
const (
	CommandDirective  = "cmdgen:command"
	CommandsDirective = "cmdgen:commands"
)

// Command is a compiled command type.
type Command struct {
	TypeName     string
	Name         string
	ExplicitName bool // Name came from annotations
	Version      string
	Author       string
	Aliases      []string
	Doc          meta.Doc
	Args         []*Arg
	Slot         *Slot
}

// Methods generated for command types.
var reservedCommandFields = map[string]bool{"Command": true, "Parse": true}

// CompileCommand compiles a struct marked with //cmdgen:command. The
// subcommand slot, if any, is left unresolved.
func CompileCommand(typ *model.Type, pkg *model.Package, cfg *config.Config) (*Command, []Diagnostic, error) {
	if typ.Kind != model.KindStruct {
		return nil, nil, typeErr(typ.Name, "a command must be a struct, got %s", typ.Kind)
	}

	set, err := meta.Extract(payloads(typ, CommandDirective))
	if err != nil {
		return nil, nil, &Error{Type: typ.Name, Err: err}
	}
	r := meta.NewReader(set)

	cmd := &Command{
		TypeName: typ.Name,
		Name:     strings.ToLower(typ.Name),
		Doc:      meta.SplitDoc(typ.Doc),
	}
	if name, ok := r.String("name"); ok {
		cmd.Name, cmd.ExplicitName = name, true
	}
	cmd.Version, _ = r.Text("version")
	cmd.Author, _ = r.String("author")
	cmd.Aliases = r.List("alias")
	if err := r.Err(); err != nil {
		return nil, nil, &Error{Type: typ.Name, Err: err}
	}
	diags := unused(r, typ.Name, "")

	fields, err := flattenFields(typ.Name, typ.Fields, typeIndex(pkg), cfg.Options.TagKey, map[string]bool{typ.Name: true})
	if err != nil {
		return nil, nil, err
	}

	for _, f := range fields {
		tag, _ := f.Tag.Lookup(cfg.Options.TagKey)
		if tag == "-" {
			continue
		}
		fset, err := meta.Extract([]string{tag})
		if err != nil {
			return nil, nil, fieldErr(f.owner, f.Name, err)
		}
		fr := meta.NewReader(fset)

		d, err := Classify(f.Field, fr, cfg)
		if err != nil {
			return nil, nil, fieldErr(f.owner, f.Name, err)
		}
		diags = append(diags, unused(fr, f.owner, f.Name)...)

		if reservedCommandFields[f.Name] {
			return nil, nil, fieldErr(f.owner, f.Name, fmt.Errorf("field name collides with the generated %s method", f.Name))
		}
		if d.Slot != nil {
			if cmd.Slot != nil {
				return nil, nil, typeErr(typ.Name, "multiple subcommand fields: %s and %s", cmd.Slot.Field, d.Slot.Field)
			}
			cmd.Slot = d.Slot
			continue
		}
		cmd.Args = append(cmd.Args, d.Arg)
	}

	if cmd.Version != "" {
		for _, a := range cmd.Args {
			if a.Long == "version" {
				return nil, nil, fieldErr(typ.Name, a.Field, fmt.Errorf("--version is reserved for the version flag"))
			}
		}
	}
	if err := checkArgs(cmd.Args); err != nil {
		return nil, nil, &Error{Type: typ.Name, Err: err}
	}
	return cmd, diags, nil
}

// checkArgs verifies the invariants that span several arguments.
func checkArgs(args []*Arg) error {
	names := make(map[string]string)
	shorts := make(map[string]string)
	longs := make(map[string]string)
	indices := make(map[int]string)
	var positionals []*Arg

	for _, a := range args {
		if prev, ok := names[a.Name]; ok {
			return fmt.Errorf("fields %s and %s share the name '%s'", prev, a.Field, a.Name)
		}
		names[a.Name] = a.Field

		if a.Short != "" {
			if prev, ok := shorts[a.Short]; ok {
				return fmt.Errorf("fields %s and %s share the short form -%s", prev, a.Field, a.Short)
			}
			shorts[a.Short] = a.Field
		}
		if a.Long != "" {
			if prev, ok := longs[a.Long]; ok {
				return fmt.Errorf("fields %s and %s share the long form --%s", prev, a.Field, a.Long)
			}
			longs[a.Long] = a.Field
		}
		if a.Positional() {
			if prev, ok := indices[a.Index]; ok {
				return fmt.Errorf("fields %s and %s share the index %d", prev, a.Field, a.Index)
			}
			indices[a.Index] = a.Field
			positionals = append(positionals, a)
		}
	}

	sort.Slice(positionals, func(i, j int) bool { return positionals[i].Index < positionals[j].Index })
	for i, a := range positionals {
		if a.Shape == ShapeSequence && i != len(positionals)-1 {
			return fmt.Errorf("multi-valued positional %s must be the last positional", a.Field)
		}
	}
	return nil
}

type ownedField struct {
	owner string // Struct declaring the field
	model.Field
}

// flattenFields recursively flattens embedded structs of the same package.
func flattenFields(owner string, fields []model.Field, types map[string]*model.Type, tagKey string, seen map[string]bool) ([]ownedField, error) {
	var result []ownedField

	for _, f := range fields {
		if !f.IsEmbedded {
			result = append(result, ownedField{owner: owner, Field: f})
			continue
		}

		tag, hasTag := f.Tag.Lookup(tagKey)
		if tag == "-" {
			continue
		}
		if hasTag {
			return nil, fieldErr(owner, f.Name, fmt.Errorf("embedded fields cannot carry annotations"))
		}
		if !f.Type.IsLocal() {
			return nil, fieldErr(owner, f.Name, fmt.Errorf("embedded type %s must be a struct of this package", f.Type.Raw))
		}

		// Prevent infinite recursion
		if seen[f.Type.Name] {
			return nil, fieldErr(owner, f.Name, fmt.Errorf("embedding cycle through %s", f.Type.Name))
		}

		embedded, ok := types[f.Type.Name]
		if !ok || embedded.Kind != model.KindStruct {
			return nil, fieldErr(owner, f.Name, fmt.Errorf("embedded type %s must be a struct of this package", f.Type.Raw))
		}

		seen[f.Type.Name] = true
		sub, err := flattenFields(embedded.Name, embedded.Fields, types, tagKey, seen)
		if err != nil {
			return nil, err
		}
		result = append(result, sub...)

		delete(seen, f.Type.Name)
	}

	return result, nil
}

func typeIndex(pkg *model.Package) map[string]*model.Type {
	index := make(map[string]*model.Type, len(pkg.Types))
	for i := range pkg.Types {
		index[pkg.Types[i].Name] = &pkg.Types[i]
	}
	return index
}

func payloads(typ *model.Type, directive string) []string {
	var out []string
	for _, d := range typ.DirectivesNamed(directive) {
		out = append(out, d.Payload)
	}
	return out
}

func unused(r *meta.Reader, typ, field string) []Diagnostic {
	var diags []Diagnostic
	for _, key := range r.Unused() {
		diags = append(diags, Diagnostic{Type: typ, Field: field, Key: key})
	}
	return diags
}
