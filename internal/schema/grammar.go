package schema

// Grammar is the synthesized grammar of a command with its subcommand
// grammars resolved, as printed by `cmdgen inspect`.
type Grammar struct {
	Name               string     `yaml:"name"`
	Type               string     `yaml:"type"`
	Version            string     `yaml:"version,omitempty"`
	Author             string     `yaml:"author,omitempty"`
	Summary            string     `yaml:"summary,omitempty"`
	Detail             string     `yaml:"detail,omitempty"`
	Aliases            []string   `yaml:"aliases,omitempty"`
	Args               []ArgSpec  `yaml:"args,omitempty"`
	Subcommands        []*Grammar `yaml:"subcommands,omitempty"`
	SubcommandRequired bool       `yaml:"subcommandRequired,omitempty"`
}

// ArgSpec is the grammar of one argument.
type ArgSpec struct {
	Name      string  `yaml:"name"`
	Short     string  `yaml:"short,omitempty"`
	Long      string  `yaml:"long,omitempty"`
	ValueName string  `yaml:"valueName,omitempty"`
	Index     int     `yaml:"index,omitempty"`
	Help      string  `yaml:"help,omitempty"`
	Arity     string  `yaml:"arity"`
	Type      string  `yaml:"type"`
	Required  bool    `yaml:"required"`
	Default   *string `yaml:"default,omitempty"`
	MinValues int     `yaml:"minValues,omitempty"`
	MaxValues int     `yaml:"maxValues,omitempty"`
}

// Grammar synthesizes the grammar tree of cmd.
func (p *Program) Grammar(cmd *Command) *Grammar {
	return grammarOf(cmd, cmd.Name)
}

// Grammars returns the grammar tree of every command, in declaration order.
func (p *Program) Grammars() []*Grammar {
	out := make([]*Grammar, 0, len(p.Commands))
	for _, cmd := range p.Commands {
		out = append(out, p.Grammar(cmd))
	}
	return out
}

func grammarOf(cmd *Command, name string) *Grammar {
	g := &Grammar{
		Name:    name,
		Type:    cmd.TypeName,
		Version: cmd.Version,
		Author:  cmd.Author,
		Summary: cmd.Doc.Summary,
		Detail:  cmd.Doc.Detail,
		Aliases: cmd.Aliases,
	}

	for _, a := range cmd.Args {
		spec := ArgSpec{
			Name:      a.Name,
			Short:     a.Short,
			Long:      a.Long,
			ValueName: a.ValueName,
			Index:     a.Index,
			Help:      a.Doc.Summary,
			Arity:     a.Arity.String(),
			Type:      a.Elem,
			Required:  a.Required,
			MinValues: a.MinValues,
			MaxValues: a.MaxValues,
		}
		if a.HasDefault {
			def := a.Default
			spec.Default = &def
		}
		g.Args = append(g.Args, spec)
	}

	// Cycles are rejected by Compile, so the recursion terminates.
	if cmd.Slot != nil && cmd.Slot.Set != nil {
		g.SubcommandRequired = !cmd.Slot.Optional
		for _, v := range cmd.Slot.Set.Variants {
			g.Subcommands = append(g.Subcommands, grammarOf(v.Command, v.Name))
		}
	}
	return g
}
