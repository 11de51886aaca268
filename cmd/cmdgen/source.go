package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cmdgen/internal/config"
	"cmdgen/internal/model"
	"cmdgen/internal/parser"
	"cmdgen/internal/schema"
)

// source selects the package to compile and the configuration to compile
// it with.
type source struct {
	dir     string
	input   string
	config  string
	output  string
	tag     string
	types   string
	exclude string
}

func addSourceFlags(cmd *cobra.Command, s *source) {
	cmd.Flags().StringVarP(&s.dir, "dir", "d", ".", "package directory")
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "single input file instead of the whole package")
	cmd.Flags().StringVarP(&s.config, "config", "c", "", "config file (YAML/JSON)")
	cmd.Flags().StringVar(&s.tag, "tag", "", "struct tag key holding field annotations")
	cmd.Flags().StringVarP(&s.types, "types", "T", "", "only compile these types (comma-separated)")
	cmd.Flags().StringVarP(&s.exclude, "exclude", "X", "", "skip these types (comma-separated)")
}

// packageDir is the directory of the compiled package.
func (s *source) packageDir() string {
	if s.input != "" {
		return filepath.Dir(s.input)
	}
	return s.dir
}

// outputPath resolves the configured output file against the package
// directory.
func (s *source) outputPath(cfg *config.Config) string {
	out := cfg.Options.Output
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(s.packageDir(), out)
}

// load reads the config file, if any, and applies the command-line
// overrides on top of it.
func (s *source) load() (*config.Config, error) {
	cfg := config.New()
	if s.config != "" {
		if err := cfg.LoadFile(s.config); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if s.tag != "" {
		cfg.Options.TagKey = s.tag
	}
	if s.output != "" {
		cfg.Options.Output = s.output
	}
	if s.types != "" {
		cfg.Options.IncludeTypes = parseCommaSeparated(s.types)
	}
	if s.exclude != "" {
		cfg.Options.ExcludeTypes = parseCommaSeparated(s.exclude)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// compile parses the package and compiles its declarations. Unused
// annotations are logged as warnings.
func (s *source) compile(log zerolog.Logger) (*config.Config, *schema.Program, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, nil, err
	}

	p := parser.New()
	var parsed *model.Package
	if s.input != "" {
		parsed, err = p.ParseFile(s.input)
	} else {
		parsed, err = p.ParseDir(s.dir)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parsing input: %w", err)
	}

	log.Debug().
		Str("package", parsed.Name).
		Int("files", len(parsed.Files)).
		Int("types", len(parsed.Types)).
		Msg("parsed")
	for _, t := range parsed.Types {
		log.Debug().Str("type", t.Name).Str("kind", string(t.Kind)).Msg("found type")
	}

	prog, err := schema.Compile(parsed, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("compiling package %s: %w", parsed.Name, err)
	}
	for _, d := range prog.Diagnostics {
		log.Warn().Str("type", d.Type).Str("field", d.Field).Msg(d.String())
	}
	return cfg, prog, nil
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
