package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"sfgen/pkg/ast"
	"sfgen/pkg/parser"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var testsCmd = &cobra.Command{
	Use:   "tests <source-or-directory>...",
	Short: "List the TEST_SF test cases found in C sources",
	Long: `Scan C sources (directories are searched for *.c files) for test macro
invocations of the form

  TEST_SF(s, (r, fn, (args...), expected, tolerance, status));

and print the test cases they describe. Text that does not parse as an
invocation is ignored. Use "-" to read from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cases, err := scanTestFiles(cmd, args)
		if err != nil {
			return err
		}

		views := make([]testCaseView, len(cases))
		for i, tc := range cases {
			views[i] = newTestCaseView(tc)
		}
		return emit(cmd, views, func(w io.Writer) {
			for _, tc := range cases {
				fmt.Fprintln(w, formatTestCase(tc))
			}
		})
	},
}

// scanTestFiles scans sources concurrently and returns their test cases in argument order.
func scanTestFiles(cmd *cobra.Command, targets []string) ([]ast.TestCase, error) {
	var files []string
	for _, target := range targets {
		if target == "-" {
			files = append(files, target)
			continue
		}
		found, err := findAll([]string{target}, isCSource)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	macro, _ := cmd.Flags().GetString("macro")
	if macro == "" {
		macro = cfg.Scan.Macro
	}
	scanner := parser.NewScanner(macro)

	stdin := cmd.InOrStdin()
	results := make([][]ast.TestCase, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			cases, err := scanFile(ctx, scanner, file, stdin)
			if err != nil {
				return err
			}
			results[i] = cases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var cases []ast.TestCase
	for _, r := range results {
		cases = append(cases, r...)
	}
	return cases, nil
}

func scanFile(ctx context.Context, scanner *parser.Scanner, file string, stdin io.Reader) ([]ast.TestCase, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := readInput(file, stdin)
	if err != nil {
		return nil, err
	}

	cases, err := scanner.TestCases(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	logger.Printf("%s: %d %s test cases", file, len(cases), scanner.Macro())
	return cases, nil
}

func init() {
	addFormatFlag(testsCmd)
	testsCmd.Flags().StringP("macro", "m", "", "Test macro name (default from config, "+parser.DefaultMacro+")")
}
