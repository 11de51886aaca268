// Package config provides configuration handling for cmdgen.
package config

// DefaultRuntime is the import path of the package generated code calls into.
const DefaultRuntime = "cmdgen/pkg/cmdkit"

// DefaultParsers returns the parse rules for predeclared and common
// library types. Types missing here fall back to encoding.TextUnmarshaler.
func DefaultParsers() map[string]Parser {
	return map[string]Parser{
		// Basic types
		"string":  {Func: "cmdkit.ParseString"},
		"bool":    {Func: "cmdkit.ParseBool"},
		"int":     {Func: "cmdkit.ParseInt"},
		"int8":    {Func: "cmdkit.ParseInt8"},
		"int16":   {Func: "cmdkit.ParseInt16"},
		"int32":   {Func: "cmdkit.ParseInt32"},
		"int64":   {Func: "cmdkit.ParseInt64"},
		"uint":    {Func: "cmdkit.ParseUint"},
		"uint8":   {Func: "cmdkit.ParseUint8"},
		"uint16":  {Func: "cmdkit.ParseUint16"},
		"uint32":  {Func: "cmdkit.ParseUint32"},
		"uint64":  {Func: "cmdkit.ParseUint64"},
		"float32": {Func: "cmdkit.ParseFloat32"},
		"float64": {Func: "cmdkit.ParseFloat64"},
		"byte":    {Func: "cmdkit.ParseUint8"},
		"rune":    {Func: "cmdkit.ParseRune"},

		// Special types
		"time.Time":     {Func: "cmdkit.ParseTime"},
		"time.Duration": {Func: "cmdkit.ParseDuration"},
		"netip.Addr":    {Func: "netip.ParseAddr", Import: "net/netip"},
		"netip.Prefix":  {Func: "netip.ParsePrefix", Import: "net/netip"},

		// UUID types
		"uuid.UUID": {Func: "uuid.Parse", Import: "github.com/google/uuid"},
	}
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		TagKey:  "cmd",
		Output:  "cmdgen_gen.go",
		Runtime: DefaultRuntime,
	}
}
