package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	entries, err := ParsePayload(`short='l', default_value="10", min_values=1, counted, name=dry-run, data=b"\x01", sep=b',', version=1.2.0`)
	require.NoError(t, err)
	require.Len(t, entries, 8)

	tests := []struct {
		key  string
		kind Kind
		text string
	}{
		{"short", KindChar, "l"},
		{"default_value", KindString, "10"},
		{"min_values", KindUint, "1"},
		{"counted", KindBool, "true"},
		{"name", KindString, "dry-run"},
		{"data", KindByteString, "\x01"},
		{"sep", KindByte, ","},
		{"version", KindString, "1.2.0"},
	}
	for i, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, entries[i].Key)
			assert.Equal(t, tt.kind, entries[i].Value.Kind)
			assert.Equal(t, tt.text, entries[i].Value.Value())
		})
	}
}

func TestParsePayloadQuotedComma(t *testing.T) {
	entries, err := ParsePayload(`alias="rm,del", author='x'`)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "rm,del", entries[0].Value.Str)
}

func TestParsePayloadEmpty(t *testing.T) {
	entries, err := ParsePayload("  ")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParsePayloadErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"sublist", "alias(a, b)", `invalid annotation "alias(a, b)": unexpected sublist`},
		{"sublist value", "name=f(x)", "unexpected sublist"},
		{"bare string", `"hello"`, "literal value not supported"},
		{"bare int", "10", "literal value not supported"},
		{"trailing comma", "short=l,", "empty entry"},
		{"unterminated", `name="abc`, "unterminated"},
		{"bad char", "short='ab'", "malformed char"},
		{"bad value", "name=a b", "invalid value"},
		{"missing value", "name=", "missing value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(tt.payload)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExtract(t *testing.T) {
	set, err := Extract([]string{"name=app", `version="1.0"`})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "version"}, set.Keys())

	_, err = Extract([]string{"name=app", "name=other"})
	assert.EqualError(t, err, "duplicate attribute 'name'")

	_, err = Extract([]string{"shrot=l"})
	assert.EqualError(t, err, "unknown attribute 'shrot'")
}

func TestReader(t *testing.T) {
	set, err := Extract([]string{`short=l, long="length", index=2, counted, default_value=10, alias="a, b", version=7`})
	require.NoError(t, err)
	r := NewReader(set)

	c, ok := r.Char("short")
	assert.True(t, ok)
	assert.Equal(t, 'l', c)

	s, ok := r.String("long")
	assert.True(t, ok)
	assert.Equal(t, "length", s)

	n, ok := r.Uint("index")
	assert.True(t, ok)
	assert.Equal(t, uint64(2), n)

	assert.True(t, r.Bool("counted"))
	assert.False(t, r.Bool("subcommand"))

	d, ok := r.Text("default_value")
	assert.True(t, ok)
	assert.Equal(t, "10", d)

	assert.Equal(t, []string{"a", "b"}, r.List("alias"))
	assert.NoError(t, r.Err())
	assert.Equal(t, []string{"version"}, r.Unused())

	_, ok = r.String("version")
	assert.False(t, ok)
	assert.EqualError(t, r.Err(), "expected string value for attribute 'version' but got int")
	assert.Empty(t, r.Unused())
}

func TestSplitDoc(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Doc
	}{
		{
			name:     "empty",
			text:     "",
			expected: Doc{},
		},
		{
			name:     "single paragraph",
			text:     "A sequence of whole positive numbers,\n  i.e. 20 25 30\n",
			expected: Doc{Summary: "A sequence of whole positive numbers, i.e. 20 25 30"},
		},
		{
			name:     "summary and detail",
			text:     "Adds an item.\n\nThe item is appended\nto the list.\n\nIt is saved.",
			expected: Doc{Summary: "Adds an item.", Detail: "The item is appended\nto the list.\n\nIt is saved."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitDoc(tt.text))
		})
	}

	assert.Equal(t, "a\n\nb", Doc{Summary: "a", Detail: "b"}.Full())
}
