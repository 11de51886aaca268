// Package meta extracts cmdgen annotations from declarations into an
// immutable key/value store and tracks which keys a compilation consulted.
package meta

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Keys lists every annotation key cmdgen understands. Any other key inside
// the reserved namespace is an error.
var Keys = []string{
	"name", "short", "long", "value_name", "index",
	"version", "author", "alias", "context",
	"subcommand", "counter", "counted",
	"min_values", "max_values", "default_value", "takes_value",
}

// Entry is one key/value annotation.
type Entry struct {
	Key    string
	Value  Literal
	Source string // Entry text as written
}

// ParsePayload parses a comma-separated annotation payload such as
// `short='l', default_value="10"`. A bare key stands for key=true.
func ParsePayload(payload string) ([]Entry, error) {
	parts, err := splitEntries(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid annotation %q: %w", payload, err)
	}

	entries := make([]Entry, 0, len(parts))
	for _, part := range parts {
		e, err := parseEntry(part)
		if err != nil {
			return nil, fmt.Errorf("invalid annotation %q: %w", part, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseEntry(text string) (Entry, error) {
	key, value, hasValue := cutTopLevel(text, '=')
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch {
	case key == "":
		return Entry{}, fmt.Errorf("empty entry")
	case strings.ContainsRune(key, '('):
		return Entry{}, fmt.Errorf("unexpected sublist")
	case !isIdent(key):
		return Entry{}, fmt.Errorf("literal value not supported")
	}

	if !hasValue {
		return Entry{Key: key, Value: Literal{Kind: KindBool, Bool: true, Text: "true"}, Source: text}, nil
	}
	if strings.ContainsRune(value, '(') && !isQuoted(value) {
		return Entry{}, fmt.Errorf("unexpected sublist")
	}
	lit, err := parseLiteral(value)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Value: lit, Source: text}, nil
}

// splitEntries splits on commas that are outside quotes and parentheses.
func splitEntries(payload string) ([]string, error) {
	var (
		parts []string
		start int
		depth int
		quote rune
	)
	for i := 0; i < len(payload); i++ {
		c := rune(payload[i])
		switch {
		case quote != 0:
			if c == '\\' && quote != '`' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(payload[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c", quote)
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	if rest := strings.TrimSpace(payload[start:]); rest != "" || len(parts) > 0 {
		parts = append(parts, rest)
	}
	return parts, nil
}

// cutTopLevel is strings.Cut that ignores sep inside quotes.
func cutTopLevel(s string, sep byte) (before, after string, found bool) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' && quote != '`' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == sep:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func isQuoted(s string) bool {
	s = strings.TrimPrefix(s, "b")
	return s != "" && (s[0] == '"' || s[0] == '\'' || s[0] == '`')
}

// Set is the immutable annotation store of one declaration.
type Set struct {
	entries []Entry
	index   map[string]int
}

// NewSet builds a Set, rejecting duplicate and unknown keys.
func NewSet(entries []Entry) (Set, error) {
	s := Set{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if !known(e.Key) {
			return Set{}, fmt.Errorf("unknown attribute '%s'", e.Key)
		}
		if _, dup := s.index[e.Key]; dup {
			return Set{}, fmt.Errorf("duplicate attribute '%s'", e.Key)
		}
		s.index[e.Key] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// Extract parses every annotation payload of a declaration, in source
// order, into one Set.
func Extract(payloads []string) (Set, error) {
	var all []Entry
	for _, p := range payloads {
		entries, err := ParsePayload(p)
		if err != nil {
			return Set{}, err
		}
		all = append(all, entries...)
	}
	return NewSet(all)
}

// Get returns the entry for key.
func (s Set) Get(key string) (Entry, bool) {
	i, ok := s.index[key]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Keys returns the keys in declaration order.
func (s Set) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (s Set) Len() int {
	return len(s.entries)
}

func known(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Reader is the lookup front of a Set for one compilation. It records
// every key it was asked for so unconsulted keys can be reported.
type Reader struct {
	set  Set
	used map[string]bool
	err  error
}

// NewReader returns a Reader over set.
func NewReader(set Set) *Reader {
	return &Reader{set: set, used: make(map[string]bool)}
}

func (r *Reader) lookup(key string) (Entry, bool) {
	e, ok := r.set.Get(key)
	if ok {
		r.used[key] = true
	}
	return e, ok
}

func (r *Reader) mismatch(e Entry, want string) {
	if r.err == nil {
		r.err = fmt.Errorf("expected %s value for attribute '%s' but got %s", want, e.Key, e.Value.Kind)
	}
}

// Has reports whether key is present.
func (r *Reader) Has(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

// String returns a string attribute. Character literals are accepted.
func (r *Reader) String(key string) (string, bool) {
	e, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	switch e.Value.Kind {
	case KindString:
		return e.Value.Str, true
	case KindChar:
		return string(e.Value.Char), true
	}
	r.mismatch(e, "string")
	return "", false
}

// Char returns a character attribute. One-character strings are accepted.
func (r *Reader) Char(key string) (rune, bool) {
	e, ok := r.lookup(key)
	if !ok {
		return 0, false
	}
	switch e.Value.Kind {
	case KindChar:
		return e.Value.Char, true
	case KindString:
		if utf8.RuneCountInString(e.Value.Str) == 1 {
			c, _ := utf8.DecodeRuneInString(e.Value.Str)
			return c, true
		}
	}
	r.mismatch(e, "char")
	return 0, false
}

// Byte returns a byte attribute. Characters below 256 are accepted.
func (r *Reader) Byte(key string) (byte, bool) {
	e, ok := r.lookup(key)
	if !ok {
		return 0, false
	}
	if (e.Value.Kind == KindByte || e.Value.Kind == KindChar) && e.Value.Char <= 0xff {
		return byte(e.Value.Char), true
	}
	r.mismatch(e, "byte")
	return 0, false
}

// Bytes returns a byte string attribute. Strings are accepted.
func (r *Reader) Bytes(key string) ([]byte, bool) {
	e, ok := r.lookup(key)
	if !ok {
		return nil, false
	}
	if e.Value.Kind == KindByteString || e.Value.Kind == KindString {
		return []byte(e.Value.Str), true
	}
	r.mismatch(e, "bytestring")
	return nil, false
}

// Uint returns an unsigned integer attribute.
func (r *Reader) Uint(key string) (uint64, bool) {
	e, ok := r.lookup(key)
	if !ok {
		return 0, false
	}
	if e.Value.Kind != KindUint {
		r.mismatch(e, "int")
		return 0, false
	}
	return e.Value.Uint, true
}

// Bool returns a boolean attribute; absent keys read as false.
func (r *Reader) Bool(key string) bool {
	e, ok := r.lookup(key)
	if !ok {
		return false
	}
	if e.Value.Kind != KindBool {
		r.mismatch(e, "bool")
		return false
	}
	return e.Value.Bool
}

// Text returns the textual value of any scalar attribute.
func (r *Reader) Text(key string) (string, bool) {
	e, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	if e.Value.Kind == KindByteString {
		r.mismatch(e, "string")
		return "", false
	}
	return e.Value.Value(), true
}

// List returns a comma-separated string attribute split into its items.
func (r *Reader) List(key string) []string {
	s, ok := r.String(key)
	if !ok {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Err returns the first type mismatch met by a lookup.
func (r *Reader) Err() error {
	return r.err
}

// Unused returns the keys that were never looked up, in declaration order.
func (r *Reader) Unused() []string {
	var unused []string
	for _, k := range r.set.Keys() {
		if !r.used[k] {
			unused = append(unused, k)
		}
	}
	return unused
}
