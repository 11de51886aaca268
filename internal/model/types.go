// Package model defines the intermediate representation for parsed Go types.
package model

import (
	"reflect"
	"strings"
)

// TypeKind represents the category of a Go type.
type TypeKind string

const (
	KindStruct    TypeKind = "struct"
	KindAlias     TypeKind = "alias"
	KindNamed     TypeKind = "named"
	KindBasic     TypeKind = "basic"
	KindSlice     TypeKind = "slice"
	KindArray     TypeKind = "array"
	KindMap       TypeKind = "map"
	KindPointer   TypeKind = "pointer"
	KindInterface TypeKind = "interface"
	KindFunc      TypeKind = "func"
	KindChan      TypeKind = "chan"
	KindUnknown   TypeKind = "unknown"
)

// Package represents a parsed Go package (one or more source files).
type Package struct {
	Name    string   // Package name
	Dir     string   // Directory holding the files
	Files   []string // Parsed file paths
	Types   []Type   // All type definitions, in file then source order
	Imports []Import // Import statements of all files, deduplicated
}

// Import represents a Go import statement.
type Import struct {
	Alias string // Optional alias (empty if none)
	Path  string // Import path
}

// Name returns the identifier the import is referenced by in source.
func (i Import) Name() string {
	if i.Alias != "" {
		return i.Alias
	}
	name := i.Path[strings.LastIndex(i.Path, "/")+1:]
	// gopkg.in/yaml.v3 is referenced as yaml
	if dot := strings.Index(name, "."); dot > 0 {
		name = name[:dot]
	}
	return name
}

// Type represents a Go type definition.
type Type struct {
	Name       string      // Type name (e.g., "AddArgs")
	Kind       TypeKind    // Type category
	Doc        string      // Documentation comment, directives excluded
	Directives []Directive // Comment directives attached to the declaration
	Fields     []Field     // Fields (for structs)
	Underlying *TypeRef    // Underlying type (for aliases/named types)
	IsExported bool        // Whether the type is exported
}

// Directive is a `//name:verb payload` comment line such as
// `//cmdgen:command name=add`.
type Directive struct {
	Name    string // e.g. "cmdgen:command"
	Payload string // Text after the first space
}

// DirectivesNamed returns the directives with the given name, in source order.
func (t *Type) DirectivesNamed(name string) []Directive {
	var out []Directive
	for _, d := range t.Directives {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// Field represents a struct field.
type Field struct {
	Name       string    // Field name (type name for embedded fields)
	Type       TypeRef   // Field type reference
	Tag        StructTag // Struct tag
	Doc        string    // Documentation comment
	IsExported bool      // Whether the field is exported
	IsEmbedded bool      // Whether this is an embedded field
}

// TypeRef represents a reference to a type.
type TypeRef struct {
	Kind    TypeKind // Type category
	Name    string   // Type name (for named/basic types)
	Package string   // Package name (for imported types, e.g., "time" for time.Time)
	Elem    *TypeRef // Element type (for slice, array, pointer)
	Key     *TypeRef // Key type (for maps)
	Value   *TypeRef // Value type (for maps)
	Raw     string   // Raw Go type string representation
}

// StructTag represents a raw struct tag.
type StructTag struct {
	Raw string // Raw tag string, without backquotes
}

// Lookup returns the value of key in the tag.
func (t StructTag) Lookup(key string) (string, bool) {
	return reflect.StructTag(t.Raw).Lookup(key)
}

// FullName returns the full qualified name of a TypeRef (e.g., "time.Time").
func (t *TypeRef) FullName() string {
	if t.Package != "" {
		return t.Package + "." + t.Name
	}
	return t.Name
}

// IsIdent reports whether the reference is a plain or package-qualified
// type name.
func (t *TypeRef) IsIdent() bool {
	return t.Kind == KindBasic || t.Kind == KindNamed
}

// IsLocal reports whether the reference names a type of the current package
// or a predeclared type.
func (t *TypeRef) IsLocal() bool {
	return t.IsIdent() && t.Package == ""
}
