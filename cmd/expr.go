package cmd

import (
	"fmt"
	"io"

	"sfgen/pkg/ast"
	"sfgen/pkg/coerce"
	"sfgen/pkg/parser"

	"github.com/spf13/cobra"
)

var exprCmd = &cobra.Command{
	Use:   "expr <expression>",
	Short: "Parse a test argument expression and print it back",
	Long: `Parse an expression in the restricted grammar used inside test macros and
print its serialized form. With --type, literals are coerced as they would be
when passed to a parameter of that C type.

Examples:
  sfgen expr "1 + 2*x"
  sfgen expr --type double "(1, 2)"
  sfgen expr --type int "2.5"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := parser.ParseExpr(args[0])
		if err != nil {
			return err
		}

		typ, _ := cmd.Flags().GetString("type")
		if typ != "" {
			co := coerce.New(cfg.Coerce.FloatTypes, cfg.Coerce.IntTypes)
			e = co.CoerceType(typ, e)
		}

		result := struct {
			Input  string `json:"input" yaml:"input"`
			Type   string `json:"type,omitempty" yaml:"type,omitempty"`
			Output string `json:"output" yaml:"output"`
		}{Input: args[0], Type: typ, Output: ast.Serialize(e)}

		return emit(cmd, result, func(w io.Writer) {
			fmt.Fprintln(w, result.Output)
		})
	},
}

func init() {
	addFormatFlag(exprCmd)
	exprCmd.Flags().StringP("type", "t", "", "Coerce literals for a parameter of this C type")
}
