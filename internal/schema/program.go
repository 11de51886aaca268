// Package schema compiles annotated struct declarations into command
// descriptors: argument classification, grammar synthesis and the
// aggregation of command sets.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cmdgen/internal/config"
	"cmdgen/internal/model"
)

// Program is the compiled form of every marked declaration of a package.
type Program struct {
	Package     *model.Package
	Commands    []*Command
	CommandSets []*CommandSet
	Diagnostics []Diagnostic
}

// Compile compiles every declaration of pkg marked with a cmdgen directive
// and accepted by the config type filters, in declaration order. The errors
// of all failing declarations are joined.
func Compile(pkg *model.Package, cfg *config.Config) (*Program, error) {
	p := &Program{Package: pkg}

	var errs []error
	for i := range pkg.Types {
		typ := &pkg.Types[i]
		isCmd := len(typ.DirectivesNamed(CommandDirective)) > 0
		isSet := len(typ.DirectivesNamed(CommandsDirective)) > 0
		if !isCmd && !isSet || !cfg.ShouldIncludeType(typ.Name) {
			continue
		}

		switch {
		case isCmd && isSet:
			errs = append(errs, typeErr(typ.Name, "cannot be both a command and a command set"))
		case isCmd:
			cmd, diags, err := CompileCommand(typ, pkg, cfg)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			p.Commands = append(p.Commands, cmd)
			p.Diagnostics = append(p.Diagnostics, diags...)
		default:
			set, diags, err := CompileCommandSet(typ, cfg)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			p.CommandSets = append(p.CommandSets, set)
			p.Diagnostics = append(p.Diagnostics, diags...)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := p.resolve(); err != nil {
		return nil, err
	}
	return p, nil
}

// Command returns the command compiled from the named type, or nil.
func (p *Program) Command(typeName string) *Command {
	for _, c := range p.Commands {
		if c.TypeName == typeName {
			return c
		}
	}
	return nil
}

// CommandSet returns the command set compiled from the named type, or nil.
func (p *Program) CommandSet(typeName string) *CommandSet {
	for _, s := range p.CommandSets {
		if s.TypeName == typeName {
			return s
		}
	}
	return nil
}

// resolve links variants to their payload commands and subcommand slots to
// their command sets, then rejects subcommand cycles.
func (p *Program) resolve() error {
	var errs []error

	for _, set := range p.CommandSets {
		names := make(map[string]string)
		for _, v := range set.Variants {
			cmd := p.Command(v.Payload)
			if cmd == nil {
				errs = append(errs, fieldErr(set.TypeName, v.Field, fmt.Errorf("payload %s is not a command type", v.Payload)))
				continue
			}
			v.Command = cmd

			switch {
			case v.explicitName != "":
				v.Name = v.explicitName
			case cmd.ExplicitName:
				v.Name = cmd.Name
			default:
				v.Name = strings.ToLower(v.Field)
			}
			if prev, ok := names[v.Name]; ok {
				errs = append(errs, typeErr(set.TypeName, "variants %s and %s share the name '%s'", prev, v.Field, v.Name))
			}
			names[v.Name] = v.Field
		}
	}

	for _, cmd := range p.Commands {
		if cmd.Slot == nil {
			continue
		}
		set := p.CommandSet(cmd.Slot.SetType)
		if set == nil {
			errs = append(errs, fieldErr(cmd.TypeName, cmd.Slot.Field, fmt.Errorf("%s is not a command set", cmd.Slot.SetType)))
			continue
		}
		cmd.Slot.Set = set
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return p.checkCycles()
}

func (p *Program) checkCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*Command]int)

	var visit func(c *Command, path []string) error
	visit = func(c *Command, path []string) error {
		state[c] = visiting
		path = append(path, c.TypeName)

		if c.Slot != nil {
			for _, v := range c.Slot.Set.Variants {
				switch state[v.Command] {
				case visiting:
					cycle := append(path, c.Slot.SetType, v.Command.TypeName)
					return typeErr(v.Command.TypeName, "subcommand cycle: %s", strings.Join(cycle, " -> "))
				case 0:
					if err := visit(v.Command, append(path, c.Slot.SetType)); err != nil {
						return err
					}
				}
			}
		}

		state[c] = done
		return nil
	}

	for _, c := range p.Commands {
		if state[c] == 0 {
			if err := visit(c, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// Imports returns the imports generated code needs besides the runtime:
// the packages referenced by parse rules and by context types. Qualifiers
// resolve against the source imports first, then against the import a
// parse rule declares.
func (p *Program) Imports() []model.Import {
	byName := make(map[string]model.Import)
	for _, imp := range p.Package.Imports {
		byName[imp.Name()] = imp
	}

	seen := make(map[string]bool)
	var out []model.Import
	need := func(qualifier, fallback string) {
		imp, ok := byName[qualifier]
		if !ok && fallback != "" && (model.Import{Path: fallback}).Name() == qualifier {
			imp, ok = model.Import{Path: fallback}, true
		}
		if !ok || seen[imp.Path] {
			return
		}
		seen[imp.Path] = true
		out = append(out, imp)
	}

	for _, cmd := range p.Commands {
		for _, a := range cmd.Args {
			if a.Rule.Func == "" {
				continue
			}
			// Rules are validated when classified.
			qualifiers, _ := typeQualifiers(a.Rule.Func)
			for _, q := range qualifiers {
				if q != "cmdkit" {
					need(q, a.Rule.Import)
				}
			}
		}
	}
	for _, set := range p.CommandSets {
		for _, q := range set.ContextPkgs {
			need(q, "")
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
