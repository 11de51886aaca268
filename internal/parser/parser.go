// Package parser provides Go source file parsing functionality.
package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"cmdgen/internal/model"
)

// Parser parses Go source files and extracts type definitions.
type Parser struct {
	fset *token.FileSet
}

// New creates a new Parser.
func New() *Parser {
	return &Parser{
		fset: token.NewFileSet(),
	}
}

// ParseDir parses every non-test, non-generated Go file in dir as one package.
func (p *Parser) ParseDir(dir string) (*model.Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no Go files in %s", dir)
	}

	pkg := &model.Package{Dir: dir}
	for _, path := range paths {
		file, err := parser.ParseFile(p.fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if ast.IsGenerated(file) {
			continue
		}
		if err := p.addFile(pkg, path, file); err != nil {
			return nil, err
		}
	}
	return pkg, nil
}

// ParseFile parses a single Go source file and returns its type definitions.
func (p *Parser) ParseFile(path string) (*model.Package, error) {
	file, err := parser.ParseFile(p.fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	pkg := &model.Package{Dir: filepath.Dir(path)}
	if err := p.addFile(pkg, path, file); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (p *Parser) addFile(pkg *model.Package, path string, file *ast.File) error {
	if pkg.Name == "" {
		pkg.Name = file.Name.Name
	} else if pkg.Name != file.Name.Name {
		return fmt.Errorf("%s: found package %s, expected %s", path, file.Name.Name, pkg.Name)
	}
	pkg.Files = append(pkg.Files, path)

	for _, imp := range p.extractImports(file) {
		if !containsImport(pkg.Imports, imp) {
			pkg.Imports = append(pkg.Imports, imp)
		}
	}

	// Only top-level declarations; types local to functions cannot carry
	// generated methods.
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			pkg.Types = append(pkg.Types, p.extractType(typeSpec, doc))
		}
	}
	return nil
}

// extractImports extracts import statements from a Go file.
func (p *Parser) extractImports(file *ast.File) []model.Import {
	var imports []model.Import
	for _, imp := range file.Imports {
		i := model.Import{
			Path: strings.Trim(imp.Path.Value, `"`),
		}
		if imp.Name != nil {
			i.Alias = imp.Name.Name
		}
		imports = append(imports, i)
	}
	return imports
}

func containsImport(imports []model.Import, imp model.Import) bool {
	for _, i := range imports {
		if i == imp {
			return true
		}
	}
	return false
}

// extractType extracts type information from an ast.TypeSpec.
func (p *Parser) extractType(spec *ast.TypeSpec, doc *ast.CommentGroup) model.Type {
	t := model.Type{
		Name:       spec.Name.Name,
		IsExported: ast.IsExported(spec.Name.Name),
		Doc:        commentText(doc),
		Directives: directives(doc),
	}

	// Determine type kind and extract details
	switch typeExpr := spec.Type.(type) {
	case *ast.StructType:
		t.Kind = model.KindStruct
		t.Fields = p.extractFields(typeExpr.Fields)

	case *ast.InterfaceType:
		t.Kind = model.KindInterface

	default:
		// Type alias or named type
		if spec.Assign.IsValid() {
			t.Kind = model.KindAlias
		} else {
			t.Kind = model.KindNamed
		}
		t.Underlying = p.typeRefFromExpr(typeExpr)
	}

	return t
}

// extractFields extracts fields from a struct.
func (p *Parser) extractFields(fieldList *ast.FieldList) []model.Field {
	if fieldList == nil {
		return nil
	}

	var fields []model.Field
	for _, f := range fieldList.List {
		typeRef := p.typeRefFromExpr(f.Type)
		tag := p.parseTag(f.Tag)
		doc := commentText(f.Doc)

		if len(f.Names) == 0 {
			// Embedded field
			name := typeRef.Name
			if typeRef.Kind == model.KindPointer && typeRef.Elem != nil {
				name = typeRef.Elem.Name
			}
			fields = append(fields, model.Field{
				Name:       name,
				Type:       *typeRef,
				Tag:        tag,
				Doc:        doc,
				IsEmbedded: true,
				IsExported: ast.IsExported(name),
			})
		} else {
			for _, name := range f.Names {
				fields = append(fields, model.Field{
					Name:       name.Name,
					Type:       *typeRef,
					Tag:        tag,
					Doc:        doc,
					IsExported: ast.IsExported(name.Name),
				})
			}
		}
	}
	return fields
}

// typeRefFromExpr converts an ast.Expr to a TypeRef.
func (p *Parser) typeRefFromExpr(expr ast.Expr) *model.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		return &model.TypeRef{
			Kind: model.KindBasic,
			Name: t.Name,
			Raw:  t.Name,
		}

	case *ast.SelectorExpr:
		// Package-qualified type (e.g., time.Time)
		pkg := ""
		if ident, ok := t.X.(*ast.Ident); ok {
			pkg = ident.Name
		}
		return &model.TypeRef{
			Kind:    model.KindNamed,
			Name:    t.Sel.Name,
			Package: pkg,
			Raw:     fmt.Sprintf("%s.%s", pkg, t.Sel.Name),
		}

	case *ast.StarExpr:
		elem := p.typeRefFromExpr(t.X)
		return &model.TypeRef{
			Kind: model.KindPointer,
			Elem: elem,
			Raw:  "*" + elem.Raw,
		}

	case *ast.ArrayType:
		elem := p.typeRefFromExpr(t.Elt)
		if t.Len == nil {
			// Slice
			return &model.TypeRef{
				Kind: model.KindSlice,
				Elem: elem,
				Raw:  "[]" + elem.Raw,
			}
		}
		// Array
		return &model.TypeRef{
			Kind: model.KindArray,
			Elem: elem,
			Raw:  fmt.Sprintf("[...]%s", elem.Raw),
		}

	case *ast.MapType:
		key := p.typeRefFromExpr(t.Key)
		value := p.typeRefFromExpr(t.Value)
		return &model.TypeRef{
			Kind:  model.KindMap,
			Key:   key,
			Value: value,
			Raw:   fmt.Sprintf("map[%s]%s", key.Raw, value.Raw),
		}

	case *ast.InterfaceType:
		return &model.TypeRef{
			Kind: model.KindInterface,
			Name: "interface{}",
			Raw:  "interface{}",
		}

	case *ast.StructType:
		return &model.TypeRef{
			Kind: model.KindStruct,
			Raw:  "struct{...}",
		}

	case *ast.ChanType:
		elem := p.typeRefFromExpr(t.Value)
		return &model.TypeRef{
			Kind: model.KindChan,
			Elem: elem,
			Raw:  "chan " + elem.Raw,
		}

	case *ast.FuncType:
		return &model.TypeRef{
			Kind: model.KindFunc,
			Raw:  "func",
		}

	case *ast.ParenExpr:
		return p.typeRefFromExpr(t.X)

	default:
		return &model.TypeRef{
			Kind: model.KindUnknown,
			Raw:  "unknown",
		}
	}
}

// parseTag parses a struct tag.
func (p *Parser) parseTag(lit *ast.BasicLit) model.StructTag {
	if lit == nil {
		return model.StructTag{}
	}
	return model.StructTag{Raw: strings.Trim(lit.Value, "`")}
}

// commentText extracts text from a comment group. Directive lines are
// dropped by ast.CommentGroup.Text.
func commentText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}

// directives returns the `//name:verb payload` lines of a comment group.
func directives(cg *ast.CommentGroup) []model.Directive {
	if cg == nil {
		return nil
	}

	var out []model.Directive
	for _, c := range cg.List {
		body, ok := strings.CutPrefix(c.Text, "//")
		if !ok || body == "" || body[0] == ' ' || body[0] == '\t' {
			continue
		}
		name, payload, _ := strings.Cut(body, " ")
		if !strings.Contains(name, ":") {
			continue
		}
		out = append(out, model.Directive{Name: name, Payload: strings.TrimSpace(payload)})
	}
	return out
}
