package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/tapegraph/pkg/io"
)

// machineCommand groups the machine file subcommands.
func (c *CLI) machineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machine",
		Short: "Inspect and convert machine files",
	}

	cmd.AddCommand(c.machineDescribeCommand())
	cmd.AddCommand(c.machineValidateCommand())
	cmd.AddCommand(c.machineConvertCommand())

	return cmd
}

func (c *CLI) machineDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [machine]",
		Short: "List states, alphabet and transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pkgio.ImportMachine(args[0], c.Config.BlankSymbol())
			if err != nil {
				return fmt.Errorf("load machine %s: %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), m.Describe())
			return nil
		},
	}
}

func (c *CLI) machineValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [machine]",
		Short: "Check that a machine can be run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pkgio.ImportMachine(args[0], c.Config.BlankSymbol())
			if err != nil {
				return fmt.Errorf("load machine %s: %w", args[0], err)
			}
			if err := m.Validate(); err != nil {
				printError("%s", args[0])
				return err
			}
			printSuccess("%s: %d tapes, %d states, %d transitions", args[0], m.Tapes(), len(m.States()), len(m.Transitions()))
			return nil
		},
	}
}

func (c *CLI) machineConvertCommand() *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "convert [machine]",
		Short: "Convert a machine between text, TOML and YAML",
		Long: `Convert a machine between the text, TOML and YAML formats.

The input format is taken from the file extension (.toml, .yaml/.yml,
anything else is text). The output format comes from --output's extension
or --format; without --output the result is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pkgio.ImportMachine(args[0], c.Config.BlankSymbol())
			if err != nil {
				return fmt.Errorf("load machine %s: %w", args[0], err)
			}
			if output == "" {
				return pkgio.EncodeMachine(m, cmd.OutOrStdout(), format)
			}
			if format == "" {
				format = pkgio.FormatFromPath(output)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := pkgio.EncodeMachine(m, f, format); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", output, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			printSuccess("Converted %s", args[0])
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, toml, yaml")
	return cmd
}
