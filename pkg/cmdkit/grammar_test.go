package cmdkit

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarCheck(t *testing.T) {
	tests := []struct {
		name    string
		grammar *Grammar
		wantErr string
	}{
		{
			name: "valid",
			grammar: &Grammar{
				Name: "app",
				Args: []*Arg{
					{Name: "seq", Index: 1, Arity: ArityMulti},
					{Name: "len", Short: "l", Long: "len", Arity: AritySingle},
				},
				Subcommands: []*Grammar{{Name: "add"}, {Name: "remove"}},
			},
		},
		{
			name: "positional with long",
			grammar: &Grammar{
				Name: "app",
				Args: []*Arg{{Name: "seq", Index: 1, Long: "seq"}},
			},
			wantErr: "positional argument \"seq\" has a short or long form",
		},
		{
			name: "duplicate index",
			grammar: &Grammar{
				Name: "app",
				Args: []*Arg{{Name: "a", Index: 1}, {Name: "b", Index: 1}},
			},
			wantErr: "share index 1",
		},
		{
			name: "unreachable argument",
			grammar: &Grammar{
				Name: "app",
				Args: []*Arg{{Name: "a"}},
			},
			wantErr: "neither positional nor named",
		},
		{
			name: "help flag",
			grammar: &Grammar{
				Name: "app",
				Args: []*Arg{{Name: "h", Short: "h", Arity: ArityFlag}},
			},
			wantErr: "-h/--help is reserved",
		},
		{
			name: "version flag",
			grammar: &Grammar{
				Name:    "app",
				Version: "1.0",
				Args:    []*Arg{{Name: "version", Long: "version", Arity: ArityFlag}},
			},
			wantErr: "app: --version is reserved for the version flag",
		},
		{
			name: "version flag without version",
			grammar: &Grammar{
				Name: "app",
				Args: []*Arg{{Name: "version", Long: "version", Arity: ArityFlag}},
			},
		},
		{
			name: "invalid default",
			grammar: &Grammar{
				Name: "app",
				Args: []*Arg{{
					Name: "len", Long: "len", Arity: AritySingle,
					Default: "abc", HasDefault: true,
					Validate: Validator("len", ParseUint32),
				}},
			},
			wantErr: `app: default of "len": invalid value "abc" for 'len'`,
		},
		{
			name: "duplicate subcommand",
			grammar: &Grammar{
				Name:        "app",
				Subcommands: []*Grammar{{Name: "add"}, {Name: "add"}},
			},
			wantErr: "duplicate subcommand",
		},
		{
			name: "nested failure",
			grammar: &Grammar{
				Name:        "app",
				Subcommands: []*Grammar{{Name: "add", Args: []*Arg{{Name: "x", Long: "x"}, {Name: "x", Long: "y"}}}},
			},
			wantErr: "add: duplicate argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grammar.Check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGrammarLookups(t *testing.T) {
	g := &Grammar{
		Name: "app",
		Args: []*Arg{
			{Name: "b", Index: 2},
			{Name: "flag", Long: "flag"},
			{Name: "a", Index: 1},
		},
		Subcommands: []*Grammar{{Name: "remove", Aliases: []string{"rm"}}},
	}

	pos := g.Positionals()
	require.Len(t, pos, 2)
	assert.Equal(t, "a", pos[0].Name)
	assert.Equal(t, "b", pos[1].Name)

	assert.NotNil(t, g.Arg("flag"))
	assert.Nil(t, g.Arg("missing"))
	assert.Equal(t, "remove", g.Subcommand("rm").Name)
	assert.Nil(t, g.Subcommand("add"))

	renamed := g.Renamed("tool")
	assert.Equal(t, "tool", renamed.Name)
	assert.Equal(t, "app", g.Name)
}

func TestParseRules(t *testing.T) {
	v, err := ParseUint8("255")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), v)

	_, err = ParseUint8("256")
	assert.EqualError(t, err, "value out of range")

	d, err := ParseDuration("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	r, err := ParseRune("é")
	require.NoError(t, err)
	assert.Equal(t, 'é', r)

	_, err = ParseRune("ab")
	assert.Error(t, err)

	addr, err := ParseText[netip.Addr]("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", addr.String())

	validate := Validator("port", ParseUint16)
	assert.NoError(t, validate("8080"))
	assert.EqualError(t, validate("http"), `invalid value "http" for 'port': invalid syntax`)
}
