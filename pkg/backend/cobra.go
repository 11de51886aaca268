// Package backend is a parser backend for cmdkit grammars built on cobra and
// pflag. It turns a Grammar tree into a cobra command tree, matches argv
// against it and hands the resulting Matches to the generated decoders.
//
// Arguments of a command must precede the name of its subcommand; a command
// that declares positional arguments consumes every following word, so its
// subcommands can only be reached when the positionals are omitted.
//
// A word starting with a dash is read as a flag, so a negative number given
// as a positional value (app -5) is rejected as an unknown shorthand flag.
// Words after "--" are always positional: app -- -5.
package backend

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cmdgen/pkg/cmdkit"
)

// ErrShown is returned when matching stopped after printing help or the
// version. No command was selected.
var ErrShown = errors.New("help or version shown")

type options struct {
	out io.Writer
}

// Option configures Match, Parse and Run.
type Option func(*options)

// WithOutput sends help, version and usage output to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// node ties a cobra command to the grammar it was built from and the matches
// its flags and arguments record into.
type node struct {
	grammar *cmdkit.Grammar
	matches *cmdkit.Matches
	parent  *node
}

// Result collects the matches of one execution of a built command tree.
type Result struct {
	root *node
	leaf *node
}

// Matches returns the matches of the root command, with the selected
// subcommand chain linked in. It returns ErrShown when the execution printed
// help or the version instead of selecting a command.
func (r *Result) Matches() (*cmdkit.Matches, error) {
	if r.leaf == nil {
		return nil, ErrShown
	}
	return r.root.matches, nil
}

// Build creates the cobra command tree of g. The returned Result is filled in
// when the command is executed.
func Build(g *cmdkit.Grammar) (*cobra.Command, *Result) {
	r := &Result{}
	cmd, root := build(g, nil, r)
	r.root = root

	cmd.TraverseChildren = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd, r
}

func build(g *cmdkit.Grammar, parent *node, r *Result) (*cobra.Command, *node) {
	n := &node{grammar: g, matches: cmdkit.NewMatches(), parent: parent}

	cmd := &cobra.Command{
		Use:     use(g),
		Short:   g.Summary,
		Long:    long(g),
		Version: g.Version,
		Aliases: g.Aliases,
		Args: func(_ *cobra.Command, args []string) error {
			return n.matchPositionals(args)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := n.check(); err != nil {
				return err
			}
			r.leaf = n
			for c := n; c.parent != nil; c = c.parent {
				c.parent.matches.Select(c.grammar.Name, c.matches)
			}
			return nil
		},
	}
	if g.Author != "" {
		cmd.Annotations = map[string]string{"author": g.Author}
	}

	for _, a := range g.Args {
		if a.Positional() {
			continue
		}
		name := a.Long
		if name == "" {
			name = a.Name
		}
		f := cmd.Flags().VarPF(&value{arg: a, matches: n.matches}, name, a.Short, a.Help)
		switch a.Arity {
		case cmdkit.ArityFlag:
			f.NoOptDefVal = "true"
		case cmdkit.ArityCounted:
			f.NoOptDefVal = "+1"
		}
	}

	for _, sub := range g.Subcommands {
		child, _ := build(sub, n, r)
		cmd.AddCommand(child)
	}
	return cmd, n
}

func use(g *cmdkit.Grammar) string {
	parts := []string{g.Name}
	if len(g.Args) > len(g.Positionals()) {
		parts = append(parts, "[flags]")
	}
	for _, a := range g.Positionals() {
		p := "<" + valueName(a) + ">"
		if a.Arity == cmdkit.ArityMulti {
			p += "..."
		}
		if !a.Required {
			p = "[" + p + "]"
		}
		parts = append(parts, p)
	}
	if len(g.Subcommands) > 0 {
		parts = append(parts, "<command>")
	}
	return strings.Join(parts, " ")
}

func long(g *cmdkit.Grammar) string {
	if g.Detail == "" {
		return g.Summary
	}
	return g.Summary + "\n\n" + g.Detail
}

func valueName(a *cmdkit.Arg) string {
	if a.ValueName != "" {
		return a.ValueName
	}
	return strings.ToUpper(a.Name)
}

// display names an argument the way a user would type it.
func display(a *cmdkit.Arg) string {
	switch {
	case a.Positional():
		return "<" + valueName(a) + ">"
	case a.Long != "":
		return "--" + a.Long
	default:
		return "-" + a.Short
	}
}

// matchPositionals assigns the words left after flag parsing to the
// positional arguments in index order. A multi-valued positional takes the
// rest.
func (n *node) matchPositionals(args []string) error {
	i := 0
	for _, a := range n.grammar.Positionals() {
		if i == len(args) {
			break
		}
		take := 1
		if a.Arity == cmdkit.ArityMulti {
			take = len(args) - i
		}
		for _, s := range args[i : i+take] {
			if err := validate(a, s); err != nil {
				return err
			}
		}
		n.matches.Add(a.Name, args[i:i+take]...)
		i += take
	}

	if i < len(args) {
		if len(n.grammar.Subcommands) > 0 {
			return fmt.Errorf("unknown command '%s' for '%s'", args[i], n.grammar.Name)
		}
		return fmt.Errorf("unexpected argument '%s'", args[i])
	}
	return nil
}

// check enforces the constraints that only hold once matching is complete,
// on n and every command above it.
func (n *node) check() error {
	if n.grammar.SubcommandRequired {
		return fmt.Errorf("'%s' requires a subcommand", n.grammar.Name)
	}
	for c := n; c != nil; c = c.parent {
		for _, a := range c.grammar.Args {
			count := len(c.matches.Values(a.Name))
			switch {
			case a.Required && !c.matches.Present(a.Name):
				return fmt.Errorf("required argument %s was not provided", display(a))
			case count == 0:
			case a.MinValues > 0 && count < a.MinValues:
				return fmt.Errorf("%s takes at least %d values, got %d", display(a), a.MinValues, count)
			case a.MaxValues > 0 && count > a.MaxValues:
				return fmt.Errorf("%s takes at most %d values, got %d", display(a), a.MaxValues, count)
			}
		}
	}
	return nil
}

func validate(a *cmdkit.Arg, raw string) error {
	if a.Validate == nil {
		return nil
	}
	return a.Validate(raw)
}

// Match checks g, then matches argv against it.
func Match(g *cmdkit.Grammar, argv []string, opts ...Option) (*cmdkit.Matches, error) {
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("invalid grammar: %w", err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cmd, r := Build(g)
	if o.out != nil {
		cmd.SetOut(o.out)
		cmd.SetErr(o.out)
	}
	if argv == nil {
		argv = []string{}
	}
	cmd.SetArgs(argv)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	return r.Matches()
}

// Parse matches argv against the grammar of T and decodes the result.
func Parse[T any, PT interface {
	*T
	cmdkit.Command
}](argv []string, opts ...Option) (T, error) {
	var v T
	m, err := Match(PT(&v).Command(), argv, opts...)
	if err != nil {
		return v, err
	}
	if err := PT(&v).Parse(m); err != nil {
		return v, err
	}
	return v, nil
}

// Run parses argv into a T and runs it with env.
func Run[T any, C any, PT interface {
	*T
	cmdkit.Command
	cmdkit.Executor[C]
}](argv []string, env C, opts ...Option) error {
	v, err := Parse[T, PT](argv, opts...)
	if err != nil {
		return err
	}
	return PT(&v).Run(env)
}
