package cmd

import (
	"fmt"
	"io"
	"strings"

	"sfgen/pkg/ast"
	"sfgen/pkg/headers"
	"sfgen/pkg/parser"

	"github.com/spf13/cobra"
)

var signatureCmd = &cobra.Command{
	Use:   "signature [declaration...]",
	Short: "Parse C function declarations",
	Long: `Parse one or more C function declarations such as

  int gsl_sf_bessel_Jn_e (int n, double x, gsl_sf_result * result)

and print the normalized signature. Without arguments, declarations are read
from stdin, one per line. A trailing ';' is ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lines := args
		if len(lines) == 0 {
			content, err := readInput("-", cmd.InOrStdin())
			if err != nil {
				return err
			}
			lines = strings.Split(content, "\n")
		}

		var sigs []ast.Signature
		for i, line := range lines {
			text := headers.Flatten(line)
			if text == "" {
				continue
			}
			sig, err := parser.ParseDeclaration(text)
			if err != nil {
				return fmt.Errorf("declaration %d: %w", i+1, err)
			}
			sigs = append(sigs, sig)
		}
		logger.Printf("parsed %d declarations", len(sigs))

		views := make([]signatureView, len(sigs))
		for i, sig := range sigs {
			views[i] = newSignatureView(sig)
		}
		return emit(cmd, views, func(w io.Writer) {
			for _, sig := range sigs {
				fmt.Fprintln(w, sig)
			}
		})
	},
}

func init() {
	addFormatFlag(signatureCmd)
}
