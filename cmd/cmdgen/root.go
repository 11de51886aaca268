package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool

	logger = newLogger(false)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmdgen",
	Short: "Command-line grammar and decoder generator",
	Long: `cmdgen reads Go struct declarations marked with //cmdgen: directives
and generates, for each of them, the command-line grammar and the decoder
that fills the struct from parsed arguments.

  //cmdgen:command             marks a command type
  //cmdgen:commands context=T  marks a set of subcommands run with a T

Examples:
  cmdgen generate -d ./cli
  cmdgen generate -i cli/app.go --stdout
  cmdgen inspect -d ./cli`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("cmdgen failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("cmdgen %s (commit: %s)\n", version, commit))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
