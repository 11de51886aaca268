// Package cmdkit is the runtime half of cmdgen. Generated code builds a
// Grammar for every command type, hands it to a parser backend, and decodes
// the backend's Matches back into the typed command with the helpers in
// this package.
package cmdkit

import (
	"fmt"
	"sort"
)

// Arity describes how many times an argument may occur and whether it
// carries a value.
type Arity int

const (
	// ArityFlag is a boolean switch without a value.
	ArityFlag Arity = iota
	// AritySingle takes exactly one value.
	AritySingle
	// ArityCounted is a switch whose number of occurrences is the value (-vvv).
	ArityCounted
	// ArityMulti collects zero or more values.
	ArityMulti
)

// String returns the arity name.
func (a Arity) String() string {
	switch a {
	case ArityFlag:
		return "flag"
	case AritySingle:
		return "single"
	case ArityCounted:
		return "counted"
	case ArityMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// TakesValue reports whether occurrences of the argument carry a value.
func (a Arity) TakesValue() bool {
	return a == AritySingle || a == ArityMulti
}

// Arg describes a single argument of a command.
type Arg struct {
	Name       string // External name, the key used in Matches
	Short      string // Single-rune short form (e.g. "l" for -l)
	Long       string // Long form (e.g. "len" for --len)
	ValueName  string // Placeholder shown in help
	Index      int    // 1-based position for positional arguments, 0 otherwise
	Help       string // One-line help text
	LongHelp   string // Additional help paragraphs
	Arity      Arity
	Required   bool
	Default    string // Raw default value, used when HasDefault is set
	HasDefault bool
	MinValues  int // Minimum number of values when present, 0 for no bound
	MaxValues  int // Maximum number of values, 0 for no bound

	// Validate checks a raw value before it is accepted into Matches.
	Validate func(string) error
}

// Positional reports whether the argument is matched by position.
func (a *Arg) Positional() bool {
	return a.Index > 0
}

// Grammar is the command-line grammar of one command.
type Grammar struct {
	Name               string
	Version            string
	Author             string
	Summary            string
	Detail             string
	Aliases            []string
	Args               []*Arg
	Subcommands        []*Grammar
	SubcommandRequired bool
}

// Arg returns the argument with the given external name, or nil.
func (g *Grammar) Arg(name string) *Arg {
	for _, a := range g.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Positionals returns the positional arguments ordered by index.
func (g *Grammar) Positionals() []*Arg {
	var pos []*Arg
	for _, a := range g.Args {
		if a.Positional() {
			pos = append(pos, a)
		}
	}
	sort.SliceStable(pos, func(i, j int) bool { return pos[i].Index < pos[j].Index })
	return pos
}

// Subcommand returns the nested grammar selected by name or alias, or nil.
func (g *Grammar) Subcommand(name string) *Grammar {
	for _, sub := range g.Subcommands {
		if sub.Name == name {
			return sub
		}
		for _, alias := range sub.Aliases {
			if alias == name {
				return sub
			}
		}
	}
	return nil
}

// Renamed returns a shallow copy of g presented under another name.
func (g *Grammar) Renamed(name string) *Grammar {
	c := *g
	c.Name = name
	return &c
}

// Check verifies the structural invariants of g and its subcommands.
func (g *Grammar) Check() error {
	if g.Name == "" {
		return fmt.Errorf("grammar has no name")
	}

	names := make(map[string]bool)
	indices := make(map[int]string)
	for _, a := range g.Args {
		if names[a.Name] {
			return fmt.Errorf("%s: duplicate argument %q", g.Name, a.Name)
		}
		names[a.Name] = true

		if a.Positional() {
			if a.Short != "" || a.Long != "" {
				return fmt.Errorf("%s: positional argument %q has a short or long form", g.Name, a.Name)
			}
			if prev, ok := indices[a.Index]; ok {
				return fmt.Errorf("%s: arguments %q and %q share index %d", g.Name, prev, a.Name, a.Index)
			}
			indices[a.Index] = a.Name
		} else if a.Short == "" && a.Long == "" {
			return fmt.Errorf("%s: argument %q is neither positional nor named", g.Name, a.Name)
		}

		if a.Short == "h" || a.Long == "help" {
			return fmt.Errorf("%s: -h/--help is reserved for the help flag", g.Name)
		}
		if g.Version != "" && a.Long == "version" {
			return fmt.Errorf("%s: --version is reserved for the version flag", g.Name)
		}
		if a.HasDefault && a.Validate != nil {
			if err := a.Validate(a.Default); err != nil {
				return fmt.Errorf("%s: default of %q: %w", g.Name, a.Name, err)
			}
		}
	}

	subs := make(map[string]bool)
	for _, sub := range g.Subcommands {
		if subs[sub.Name] {
			return fmt.Errorf("%s: duplicate subcommand %q", g.Name, sub.Name)
		}
		subs[sub.Name] = true
		if err := sub.Check(); err != nil {
			return err
		}
	}
	return nil
}
