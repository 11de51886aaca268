package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the compiled grammars as YAML",
	Long: `Compile every //cmdgen: declaration of a package and print the grammar
of each command type, with its subcommands resolved, as YAML.

Examples:
  cmdgen inspect
  cmdgen inspect -d ./cli -T App`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

var inspectSource source

func init() {
	rootCmd.AddCommand(inspectCmd)

	addSourceFlags(inspectCmd, &inspectSource)
}

func runInspect(cmd *cobra.Command, args []string) error {
	_, prog, err := inspectSource.compile(logger)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(prog.Grammars()); err != nil {
		return fmt.Errorf("encoding grammars: %w", err)
	}
	return enc.Close()
}
