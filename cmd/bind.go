package cmd

import (
	"fmt"
	"io"

	"sfgen/pkg/catalog"
	"sfgen/pkg/coerce"
	"sfgen/pkg/parser"

	"github.com/spf13/cobra"
)

var bindCmd = &cobra.Command{
	Use:   "bind --headers <header-or-directory> <source-or-directory>...",
	Short: "Bind test cases to header signatures and coerce their literals",
	Long: `Collect function prototypes from the headers and test cases from the sources,
pair every test case with the signature of the function it calls, and coerce
integer and floating-point literals to the declared parameter types.

Test cases whose function has no signature are reported as unbound. With --db
the result is also saved to a SQLite catalog.

Examples:
  sfgen bind --headers specfunc/ specfunc/test_bessel.c
  sfgen bind --headers gsl_sf_bessel.h --db catalog.db -f json test_*.c`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		headerTargets, _ := cmd.Flags().GetStringSlice("headers")
		if len(headerTargets) == 0 {
			return fmt.Errorf("at least one --headers path is required")
		}

		headerFiles, err := findAll(headerTargets, isHeader)
		if err != nil {
			return err
		}
		heads, err := extractHeads(cmd, headerFiles)
		if err != nil {
			return err
		}

		cat := catalog.New()
		for _, r := range heads {
			for _, h := range r.Heads {
				if cat.AddSignature(h.Signature) {
					logger.Printf("signature of %s redeclared at line %d", h.Signature.Name, h.Line)
				}
			}
		}

		cases, err := scanTestFiles(cmd, args)
		if err != nil {
			return err
		}
		cat.AddTests(cases...)

		result := cat.Bind(coerce.New(cfg.Coerce.FloatTypes, cfg.Coerce.IntTypes))
		logger.Printf("%d bound functions, %d unbound test cases, %d untested signatures",
			len(result.Bindings), len(result.Unbound), len(result.Untested))

		if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
			if err := saveCatalog(cmd, dbPath, result); err != nil {
				return err
			}
		}

		return emit(cmd, newBindView(result), func(w io.Writer) {
			for _, b := range result.Bindings {
				fmt.Fprintf(w, "%s\n", b.Signature)
				for _, tc := range b.Tests {
					fmt.Fprintf(w, "  %s\n", formatTestCase(tc))
				}
			}
			if len(result.Unbound) > 0 {
				fmt.Fprintf(w, "unbound:\n")
				for _, tc := range result.Unbound {
					fmt.Fprintf(w, "  line %d: %s\n", tc.Line, formatTestCase(tc))
				}
			}
		})
	},
}

type bindingView struct {
	Signature signatureView  `json:"signature" yaml:"signature"`
	Tests     []testCaseView `json:"tests" yaml:"tests"`
}

type bindView struct {
	Bindings []bindingView   `json:"bindings" yaml:"bindings"`
	Unbound  []testCaseView  `json:"unbound" yaml:"unbound"`
	Untested []signatureView `json:"untested" yaml:"untested"`
}

func newBindView(result *catalog.BindResult) bindView {
	v := bindView{
		Bindings: []bindingView{},
		Unbound:  []testCaseView{},
		Untested: []signatureView{},
	}
	for _, b := range result.Bindings {
		bv := bindingView{Signature: newSignatureView(b.Signature), Tests: []testCaseView{}}
		for _, tc := range b.Tests {
			bv.Tests = append(bv.Tests, newTestCaseView(tc))
		}
		v.Bindings = append(v.Bindings, bv)
	}
	for _, tc := range result.Unbound {
		v.Unbound = append(v.Unbound, newTestCaseView(tc))
	}
	for _, sig := range result.Untested {
		v.Untested = append(v.Untested, newSignatureView(sig))
	}
	return v
}

func saveCatalog(cmd *cobra.Command, dbPath string, result *catalog.BindResult) error {
	store, err := catalog.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog %s: %w", dbPath, err)
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), result); err != nil {
		return fmt.Errorf("failed to save catalog %s: %w", dbPath, err)
	}

	stats, err := store.GetStats(cmd.Context())
	if err != nil {
		return err
	}
	logger.Printf("catalog %s: %d signatures, %d test cases", store.Path(), stats.Signatures, stats.TestCases)
	return nil
}

func init() {
	addFormatFlag(bindCmd)
	bindCmd.Flags().StringSlice("headers", nil, "Header files or directories to take signatures from")
	bindCmd.Flags().StringP("macro", "m", "", "Test macro name (default from config, "+parser.DefaultMacro+")")
	bindCmd.Flags().String("db", "", "Save the result to this SQLite catalog")
}
