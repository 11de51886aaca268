package meta

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the lexical category of an annotation value.
type Kind int

const (
	KindString Kind = iota
	KindByteString
	KindByte
	KindChar
	KindUint
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindByteString:
		return "bytestring"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindUint:
		return "int"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Literal is a typed annotation value.
type Literal struct {
	Kind Kind
	Str  string // KindString and KindByteString
	Char rune   // KindChar and KindByte
	Uint uint64 // KindUint
	Bool bool   // KindBool
	Text string // Source text
}

// Value returns the textual value of the literal, the way it would be
// written on a command line.
func (l Literal) Value() string {
	switch l.Kind {
	case KindString, KindByteString:
		return l.Str
	case KindChar, KindByte:
		return string(l.Char)
	case KindUint:
		return strconv.FormatUint(l.Uint, 10)
	case KindBool:
		return strconv.FormatBool(l.Bool)
	}
	return l.Text
}

// parseLiteral reads the value half of a key=value entry.
func parseLiteral(text string) (Literal, error) {
	lit := Literal{Text: text}
	switch {
	case text == "":
		return lit, fmt.Errorf("missing value")

	case strings.HasPrefix(text, `b"`):
		s, err := strconv.Unquote(text[1:])
		if err != nil {
			return lit, fmt.Errorf("malformed byte string %s", text)
		}
		lit.Kind, lit.Str = KindByteString, s

	case strings.HasPrefix(text, "b'"):
		r, err := unquoteChar(text[1:])
		if err != nil || r > 0xff {
			return lit, fmt.Errorf("malformed byte %s", text)
		}
		lit.Kind, lit.Char = KindByte, r

	case text[0] == '"' || text[0] == '`':
		s, err := strconv.Unquote(text)
		if err != nil {
			return lit, fmt.Errorf("malformed string %s", text)
		}
		lit.Kind, lit.Str = KindString, s

	case text[0] == '\'':
		r, err := unquoteChar(text)
		if err != nil {
			return lit, fmt.Errorf("malformed char %s", text)
		}
		lit.Kind, lit.Char = KindChar, r

	case text == "true" || text == "false":
		lit.Kind, lit.Bool = KindBool, text == "true"

	case isDigits(text):
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return lit, fmt.Errorf("integer %s out of range", text)
		}
		lit.Kind, lit.Uint = KindUint, n

	case isWord(text):
		lit.Kind, lit.Str = KindString, text

	default:
		return lit, fmt.Errorf("invalid value %s", text)
	}
	return lit, nil
}

func unquoteChar(text string) (rune, error) {
	s, err := strconv.Unquote(text)
	if err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("not a single character")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// isWord reports whether s may be written unquoted, such as a name, a
// version number or a Go type expression like *store.DB.
func isWord(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.', r == '/', r == '*':
		default:
			return false
		}
	}
	return s != ""
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
