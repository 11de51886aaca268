// Package generator renders compiled command schemas into Go source: the
// grammar and decoder methods of every command type and the dispatch
// methods of every command set.
package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"text/template"

	"github.com/rs/zerolog"
	"golang.org/x/tools/imports"

	"cmdgen/internal/config"
	"cmdgen/internal/model"
	"cmdgen/internal/schema"
)

//go:embed templates/cmdgen.go.tmpl
var templates embed.FS

const defaultTemplate = "templates/cmdgen.go.tmpl"

// Generator executes templates against compiled programs.
type Generator struct {
	config   *config.Config
	template *template.Template
	log      zerolog.Logger
}

// New creates a new Generator using the built-in template.
func New(cfg *config.Config, log zerolog.Logger) *Generator {
	tmpl := template.Must(template.New(filepath.Base(defaultTemplate)).
		Funcs(templateFuncs()).
		ParseFS(templates, defaultTemplate))

	return &Generator{
		config:   cfg,
		template: tmpl,
		log:      log,
	}
}

// LoadTemplate replaces the built-in template with one loaded from file.
func (g *Generator) LoadTemplate(path string) error {
	tmpl, err := template.New(filepath.Base(path)).
		Funcs(templateFuncs()).
		ParseFiles(path)
	if err != nil {
		return fmt.Errorf("loading template: %w", err)
	}
	g.template = tmpl
	return nil
}

// TemplateData represents data passed to templates.
type TemplateData struct {
	Package     string              // Package clause of the output
	Runtime     string              // Import path of the runtime package
	Imports     []model.Import      // Imports besides the runtime
	Commands    []*schema.Command   // Command types, in declaration order
	CommandSets []*schema.CommandSet // Command set types, in declaration order
}

// Render executes the template for p and returns the formatted source.
// filename is used to resolve imports relative to the output location.
func (g *Generator) Render(p *schema.Program, filename string) ([]byte, error) {
	if len(p.Commands) == 0 && len(p.CommandSets) == 0 {
		return nil, fmt.Errorf("package %s has no cmdgen declarations", p.Package.Name)
	}

	data := &TemplateData{
		Package:     p.Package.Name,
		Runtime:     g.config.Options.Runtime,
		Imports:     p.Imports(),
		Commands:    p.Commands,
		CommandSets: p.CommandSets,
	}

	var buf bytes.Buffer
	if err := g.template.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	src, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}

	g.log.Debug().
		Str("package", p.Package.Name).
		Int("commands", len(p.Commands)).
		Int("commandSets", len(p.CommandSets)).
		Int("bytes", len(src)).
		Msg("rendered")
	return src, nil
}

// Generate renders p and writes it to w.
func (g *Generator) Generate(p *schema.Program, filename string, w io.Writer) error {
	src, err := g.Render(p, filename)
	if err != nil {
		return err
	}
	if _, err := w.Write(src); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
