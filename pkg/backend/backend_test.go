package backend_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdgen/pkg/backend"
	"cmdgen/pkg/cmdkit"
)

// Typed mirrors what cmdgen emits for
//
//	type Typed struct {
//		Seq []uint32 `cmd:"index=1, min_values=1"`
//		Len uint32   `cmd:"short=l, default_value=\"10\""`
//	}
type Typed struct {
	Seq []uint32
	Len uint32
}

func (Typed) Command() *cmdkit.Grammar {
	return &cmdkit.Grammar{
		Name:    "typed",
		Version: "0.1.0",
		Summary: "Generates a sequence.",
		Args: []*cmdkit.Arg{
			{
				Name:      "seq",
				Index:     1,
				Arity:     cmdkit.ArityMulti,
				MinValues: 1,
				Validate:  cmdkit.Validator("seq", cmdkit.ParseUint32),
			},
			{
				Name:       "len",
				Short:      "l",
				Long:       "len",
				Help:       "Length of the output",
				Arity:      cmdkit.AritySingle,
				Default:    "10",
				HasDefault: true,
				Validate:   cmdkit.Validator("len", cmdkit.ParseUint32),
			},
		},
	}
}

func (t *Typed) Parse(m *cmdkit.Matches) error {
	var err error
	if t.Seq, err = cmdkit.Multi(m, "seq", cmdkit.ParseUint32); err != nil {
		return err
	}
	if t.Len, err = cmdkit.SingleOr(m, "len", "10", cmdkit.ParseUint32); err != nil {
		return err
	}
	return nil
}

type App struct {
	Verbose uint8
	Name    string
	Cmd     Commands
}

func (App) Command() *cmdkit.Grammar {
	return &cmdkit.Grammar{
		Name: "app",
		Args: []*cmdkit.Arg{
			{Name: "verbose", Short: "v", Long: "verbose", Arity: cmdkit.ArityCounted},
			{Name: "name", Short: "n", Long: "name", Arity: cmdkit.AritySingle, Required: true, Validate: cmdkit.Validator("name", cmdkit.ParseString)},
		},
		Subcommands:        Commands{}.Commands(),
		SubcommandRequired: true,
	}
}

func (t *App) Parse(m *cmdkit.Matches) error {
	var err error
	t.Verbose = cmdkit.Count[uint8](m, "verbose")
	if t.Name, err = cmdkit.Single(m, "name", cmdkit.ParseString); err != nil {
		return err
	}
	if t.Cmd, err = cmdkit.RequiredSubcommand[Commands](m, "app"); err != nil {
		return err
	}
	return nil
}

func (t *App) Run(log *[]string) error {
	return t.Cmd.Run(log)
}

type Commands struct {
	Add    *Add
	Remove *Remove
}

func (Commands) Commands() []*cmdkit.Grammar {
	return []*cmdkit.Grammar{
		Add{}.Command(),
		Remove{}.Command().Renamed("rm"),
	}
}

func (s *Commands) Parse(name string, m *cmdkit.Matches) error {
	switch name {
	case "add":
		var v Add
		if err := v.Parse(m); err != nil {
			return err
		}
		*s = Commands{Add: &v}
	case "rm":
		var v Remove
		if err := v.Parse(m); err != nil {
			return err
		}
		*s = Commands{Remove: &v}
	default:
		return cmdkit.UnknownCommand(name)
	}
	return nil
}

func (s Commands) Run(env *[]string) error {
	switch {
	case s.Add != nil:
		return s.Add.Run(env)
	case s.Remove != nil:
		return s.Remove.Run(env)
	}
	return cmdkit.ErrNoCommand
}

type Add struct {
	Force bool
	Words []string
}

func (Add) Command() *cmdkit.Grammar {
	return &cmdkit.Grammar{
		Name: "add",
		Args: []*cmdkit.Arg{
			{Name: "force", Short: "f", Long: "force", Arity: cmdkit.ArityFlag},
			{Name: "words", Index: 1, Arity: cmdkit.ArityMulti, MaxValues: 3, Validate: cmdkit.Validator("words", cmdkit.ParseString)},
		},
	}
}

func (t *Add) Parse(m *cmdkit.Matches) error {
	var err error
	t.Force = cmdkit.Flag(m, "force")
	if t.Words, err = cmdkit.Multi(m, "words", cmdkit.ParseString); err != nil {
		return err
	}
	return nil
}

func (t *Add) Run(log *[]string) error {
	*log = append(*log, t.Words...)
	return nil
}

type Remove struct {
	ID int
}

func (Remove) Command() *cmdkit.Grammar {
	return &cmdkit.Grammar{
		Name:    "remove",
		Aliases: []string{"del"},
		Args: []*cmdkit.Arg{
			{Name: "id", Index: 1, ValueName: "ID", Arity: cmdkit.AritySingle, Required: true, Validate: cmdkit.Validator("id", cmdkit.ParseInt)},
		},
	}
}

func (t *Remove) Parse(m *cmdkit.Matches) error {
	var err error
	if t.ID, err = cmdkit.Single(m, "id", cmdkit.ParseInt); err != nil {
		return err
	}
	return nil
}

func (t *Remove) Run(log *[]string) error {
	*log = append(*log, "removed")
	return nil
}

func TestParseTyped(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Typed
	}{
		{
			name: "explicit length",
			argv: []string{"20", "25", "30", "-l", "7"},
			want: Typed{Seq: []uint32{20, 25, 30}, Len: 7},
		},
		{
			name: "default length",
			argv: []string{"20", "25", "30"},
			want: Typed{Seq: []uint32{20, 25, 30}, Len: 10},
		},
		{
			name: "long form before positionals",
			argv: []string{"--len=3", "1"},
			want: Typed{Seq: []uint32{1}, Len: 3},
		},
		{
			// min_values only binds an argument that is present.
			name: "absent sequence",
			argv: []string{"-l", "7"},
			want: Typed{Seq: []uint32{}, Len: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := backend.Parse[Typed](tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTypedErrors(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantErr string
	}{
		{
			name:    "invalid positional",
			argv:    []string{"20", "x"},
			wantErr: `invalid value "x" for 'seq': invalid syntax`,
		},
		{
			name:    "invalid flag value",
			argv:    []string{"20", "-l", "-1"},
			wantErr: `invalid value "-1" for 'len'`,
		},
		{
			name:    "unknown flag",
			argv:    []string{"20", "--width", "3"},
			wantErr: "unknown flag: --width",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := backend.Parse[Typed](tt.argv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseSubcommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want App
	}{
		{
			name: "add",
			argv: []string{"-vvv", "-n", "x", "add", "-f", "a", "b"},
			want: App{Verbose: 3, Name: "x", Cmd: Commands{Add: &Add{Force: true, Words: []string{"a", "b"}}}},
		},
		{
			name: "renamed",
			argv: []string{"--name=x", "rm", "4"},
			want: App{Name: "x", Cmd: Commands{Remove: &Remove{ID: 4}}},
		},
		{
			name: "alias",
			argv: []string{"-n", "x", "del", "5"},
			want: App{Name: "x", Cmd: Commands{Remove: &Remove{ID: 5}}},
		},
		{
			name: "negative positional after terminator",
			argv: []string{"-n", "x", "rm", "--", "-5"},
			want: App{Name: "x", Cmd: Commands{Remove: &Remove{ID: -5}}},
		},
		{
			name: "empty multi",
			argv: []string{"-n", "x", "add"},
			want: App{Name: "x", Cmd: Commands{Add: &Add{Words: []string{}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := backend.Parse[App](tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSubcommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantErr string
	}{
		{
			name:    "subcommand required",
			argv:    []string{"-n", "x"},
			wantErr: "'app' requires a subcommand",
		},
		{
			name:    "parent flag missing",
			argv:    []string{"add", "a"},
			wantErr: "required argument --name was not provided",
		},
		{
			name:    "unknown subcommand",
			argv:    []string{"-n", "x", "list"},
			wantErr: "unknown command 'list' for 'app'",
		},
		{
			name:    "too many values",
			argv:    []string{"-n", "x", "add", "a", "b", "c", "d"},
			wantErr: "<WORDS> takes at most 3 values, got 4",
		},
		{
			name:    "unexpected argument",
			argv:    []string{"-n", "x", "rm", "1", "2"},
			wantErr: "unexpected argument '2'",
		},
		{
			name:    "negative positional",
			argv:    []string{"-n", "x", "rm", "-5"},
			wantErr: "unknown shorthand flag: '5'",
		},
		{
			name:    "parent flag after subcommand",
			argv:    []string{"add", "-n", "x"},
			wantErr: "unknown shorthand flag: 'n'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := backend.Parse[App](tt.argv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHelpAndVersion(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{name: "help", argv: []string{"--help"}, want: "Generates a sequence."},
		{name: "short help", argv: []string{"-h"}, want: "-l, --len"},
		{name: "version", argv: []string{"--version"}, want: "0.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := backend.Parse[Typed](tt.argv, backend.WithOutput(&out))
			assert.ErrorIs(t, err, backend.ErrShown)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestMatch(t *testing.T) {
	m, err := backend.Match(App{}.Command(), []string{"-v", "-n", "x", "add", "w"})
	require.NoError(t, err)

	assert.Equal(t, 1, m.Count("verbose"))
	assert.Equal(t, []string{"x"}, m.Values("name"))
	require.NotNil(t, m.Sub())
	assert.Equal(t, "add", m.Sub().Name)
	assert.Equal(t, []string{"w"}, m.Sub().Matches.Values("words"))
	assert.False(t, m.Sub().Matches.Present("force"))

	_, err = backend.Match(&cmdkit.Grammar{}, nil)
	assert.EqualError(t, err, "invalid grammar: grammar has no name")
}

func TestMatchInvalidGrammar(t *testing.T) {
	tests := []struct {
		name    string
		grammar *cmdkit.Grammar
		wantErr string
	}{
		{
			name: "version flag shadowed",
			grammar: &cmdkit.Grammar{
				Name:    "app",
				Version: "1.0",
				Args:    []*cmdkit.Arg{{Name: "version", Long: "version", Arity: cmdkit.ArityFlag}},
			},
			wantErr: "invalid grammar: app: --version is reserved for the version flag",
		},
		{
			name: "unparsable default",
			grammar: &cmdkit.Grammar{
				Name: "app",
				Args: []*cmdkit.Arg{{
					Name: "len", Long: "len", Arity: cmdkit.AritySingle,
					Default: "abc", HasDefault: true,
					Validate: cmdkit.Validator("len", cmdkit.ParseUint32),
				}},
			},
			wantErr: `invalid grammar: app: default of "len": invalid value "abc" for 'len'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := backend.Match(tt.grammar, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun(t *testing.T) {
	var log []string
	require.NoError(t, backend.Run[App](
		[]string{"-n", "x", "add", "milk", "eggs"}, &log))
	assert.Equal(t, []string{"milk", "eggs"}, log)

	err := backend.Run[App]([]string{"-n", "x", "rm", "nope"}, &log)
	var ve *cmdkit.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "id", ve.Arg)
	assert.Equal(t, "nope", ve.Value)
}
