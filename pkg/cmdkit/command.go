package cmdkit

// Command is implemented by pointers to generated command types.
type Command interface {
	// Command returns the grammar of the command.
	Command() *Grammar
	// Parse decodes a backend's matches into the receiver.
	Parse(m *Matches) error
}

// CommandSet is implemented by pointers to generated command set types, a
// struct of variant pointers of which exactly one is populated.
type CommandSet interface {
	// Commands returns the grammars of all variants in declaration order.
	Commands() []*Grammar
	// Parse decodes the variant selected by name.
	Parse(name string, m *Matches) error
}

// Executor runs a decoded command with an environment of type C.
type Executor[C any] interface {
	Run(env C) error
}
