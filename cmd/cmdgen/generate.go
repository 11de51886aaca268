package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cmdgen/internal/generator"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate grammars and decoders for a package",
	Long: `Compile every //cmdgen: declaration of a package and write the
generated Command, Parse, Commands, Selected and Run methods.

The output file is resolved against the package directory and is skipped
when the package is parsed again.

Examples:
  cmdgen generate
  cmdgen generate -d ./cli -o cli_gen.go
  cmdgen generate -i cli/app.go --stdout
  cmdgen generate -d ./cli -T App,Commands -c cmdgen.yaml
  cmdgen generate -d ./cli --watch`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

type generateOptions struct {
	source
	template string
	stdout   bool
	watch    bool
}

var genOpts generateOptions

func init() {
	rootCmd.AddCommand(generateCmd)

	addSourceFlags(generateCmd, &genOpts.source)
	generateCmd.Flags().StringVarP(&genOpts.output, "output", "o", "", "output file, relative to the package directory (default cmdgen_gen.go)")
	generateCmd.Flags().StringVarP(&genOpts.template, "template", "t", "", "custom template file")
	generateCmd.Flags().BoolVar(&genOpts.stdout, "stdout", false, "write to stdout instead of the output file")
	generateCmd.Flags().BoolVarP(&genOpts.watch, "watch", "w", false, "regenerate when a Go file of the package changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	regenerate := func() error {
		return generate(&genOpts, cmd.OutOrStdout(), logger)
	}
	if err := regenerate(); err != nil {
		if !genOpts.watch {
			return err
		}
		logger.Error().Err(err).Msg("generation failed")
	}
	if !genOpts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := genOpts.load()
	if err != nil {
		return err
	}
	return watch(ctx, genOpts.packageDir(), genOpts.outputPath(cfg), logger, regenerate)
}

// generate compiles the package selected by o and writes the generated
// source to its output file, or to stdout.
func generate(o *generateOptions, stdout io.Writer, log zerolog.Logger) error {
	cfg, prog, err := o.compile(log)
	if err != nil {
		return err
	}

	gen := generator.New(cfg, log)
	if o.template != "" {
		if err := gen.LoadTemplate(o.template); err != nil {
			return err
		}
	}

	out := o.outputPath(cfg)
	if o.stdout {
		return gen.Generate(prog, out, stdout)
	}

	src, err := gen.Render(prog, out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.Info().
		Str("output", out).
		Int("commands", len(prog.Commands)).
		Int("commandSets", len(prog.CommandSets)).
		Msg("generated")
	return nil
}
