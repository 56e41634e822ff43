package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"sfgen/pkg/ast"
	"sfgen/pkg/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type signatureView struct {
	Declaration string         `json:"declaration" yaml:"declaration"`
	ReturnType  string         `json:"returnType" yaml:"return_type"`
	Name        string         `json:"name" yaml:"name"`
	Arguments   []ast.Argument `json:"arguments" yaml:"arguments"`
}

type testCaseView struct {
	Tag       string   `json:"tag" yaml:"tag"`
	Function  string   `json:"function" yaml:"function"`
	Args      []string `json:"args" yaml:"args"`
	Expected  string   `json:"expected" yaml:"expected"`
	Tolerance string   `json:"tolerance" yaml:"tolerance"`
	Line      int      `json:"line,omitempty" yaml:"line,omitempty"`
}

func newSignatureView(sig ast.Signature) signatureView {
	args := sig.Arguments
	if args == nil {
		args = []ast.Argument{}
	}
	return signatureView{
		Declaration: sig.String(),
		ReturnType:  sig.ReturnType,
		Name:        sig.Name,
		Arguments:   args,
	}
}

func newTestCaseView(tc ast.TestCase) testCaseView {
	args := make([]string, len(tc.Args))
	for i, a := range tc.Args {
		args[i] = ast.Serialize(a)
	}
	return testCaseView{
		Tag:       tc.Tag,
		Function:  tc.FunctionName,
		Args:      args,
		Expected:  ast.Serialize(tc.Expected),
		Tolerance: ast.Serialize(tc.Tolerance),
		Line:      tc.Line,
	}
}

// formatTestCase renders a test case the way it is written in a TEST_SF call.
func formatTestCase(tc ast.TestCase) string {
	return fmt.Sprintf("%s(%s) = %s +/- %s",
		tc.FunctionName, ast.SerializeList(tc.Args),
		ast.Serialize(tc.Expected), ast.Serialize(tc.Tolerance))
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", fmt.Sprintf("Output format %v (default from config)", config.ValidFormats))
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
}

// outputFormat returns the --format flag, or the configured format when unset.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if !cmd.Flags().Changed("format") || format == "" {
		format = cfg.Output.Format
	}
	if !config.IsValidFormat(format) {
		return "", fmt.Errorf("unsupported format %q, expected one of %v", format, config.ValidFormats)
	}
	return format, nil
}

// emit writes structured output as JSON or YAML, or calls text for the text format.
func emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case "json":
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case "yaml":
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
	default:
		text(&buf)
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		logger.Printf("writing %s", out)
		return writeToFile(out, buf.Bytes())
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
