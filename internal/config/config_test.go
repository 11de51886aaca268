package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := New()
	require.NoError(t, c.Validate())

	assert.Equal(t, "cmd", c.Options.TagKey)
	assert.Equal(t, "cmdgen_gen.go", c.Options.Output)
	assert.Equal(t, DefaultRuntime, c.Options.Runtime)

	p, ok := c.ParserFor("uint32")
	assert.True(t, ok)
	assert.Equal(t, Parser{Func: "cmdkit.ParseUint32"}, p)

	p, ok = c.ParserFor("uuid.UUID")
	assert.True(t, ok)
	assert.Equal(t, "github.com/google/uuid", p.Import)

	_, ok = c.ParserFor("complex128")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{
			name: "yaml",
			file: "cmdgen.yaml",
			data: `
parsers:
  url.URL:
    func: parseURL
  uint32:
    func: strictUint32
options:
  tagKey: arg
  excludeTypes: [Internal]
`,
		},
		{
			name: "json",
			file: "cmdgen.json",
			data: `{
  "parsers": {"url.URL": {"func": "parseURL"}, "uint32": {"func": "strictUint32"}},
  "options": {"tagKey": "arg", "excludeTypes": ["Internal"]}
}`,
		},
		{
			name: "no extension",
			file: "cmdgenrc",
			data: `{"parsers": {"url.URL": {"func": "parseURL"}, "uint32": {"func": "strictUint32"}}, "options": {"tagKey": "arg", "excludeTypes": ["Internal"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			c := New()
			require.NoError(t, c.LoadFile(path))

			assert.Equal(t, "arg", c.Options.TagKey)
			assert.Equal(t, "cmdgen_gen.go", c.Options.Output, "unset options keep defaults")

			p, ok := c.ParserFor("url.URL")
			assert.True(t, ok)
			assert.Equal(t, "parseURL", p.Func)

			p, _ = c.ParserFor("uint32")
			assert.Equal(t, "strictUint32", p.Func)

			p, _ = c.ParserFor("string")
			assert.Equal(t, "cmdkit.ParseString", p.Func)

			assert.False(t, c.ShouldIncludeType("Internal"))
			assert.True(t, c.ShouldIncludeType("App"))
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    string
		wantErr string
	}{
		{"bad yaml", "c.yaml", "options: [", "parsing YAML config"},
		{"bad json", "c.json", "{", "parsing JSON config"},
		{"unparseable", "c", "options: [", "unable to parse config"},
		{"output", "c.yaml", "options: {output: gen.txt}", `output "gen.txt" is not a .go file`},
		{"empty func", "c.yaml", "parsers: {url.URL: {import: net/url}}", "parser for url.URL has no func"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			err := New().LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	err := New().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestShouldIncludeType(t *testing.T) {
	c := New()
	c.Options.IncludeTypes = []string{"App", "Commands"}
	c.Options.ExcludeTypes = []string{"Commands"}

	assert.True(t, c.ShouldIncludeType("App"))
	assert.False(t, c.ShouldIncludeType("Commands"))
	assert.False(t, c.ShouldIncludeType("Other"))
}
