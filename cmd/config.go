package cmd

import (
	"fmt"
	"io"

	"sfgen/pkg/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the sfgen configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a default " + config.ConfigFileName,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		path, err := config.SaveDefault(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return emit(cmd, cfg, func(w io.Writer) {
			fmt.Fprintf(w, "macro:          %s\n", cfg.Scan.Macro)
			fmt.Fprintf(w, "float types:    %v\n", cfg.Coerce.FloatTypes)
			fmt.Fprintf(w, "int types:      %v\n", cfg.Coerce.IntTypes)
			fmt.Fprintf(w, "exclude types:  %v\n", cfg.Headers.ExcludeTypes)
			fmt.Fprintf(w, "output format:  %s\n", cfg.Output.Format)
		})
	},
}

func init() {
	addFormatFlag(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
