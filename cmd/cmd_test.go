package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sfgen/pkg/catalog"
	"sfgen/pkg/parser"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const besselHeader = `#ifndef __GSL_SF_BESSEL_H__
#define __GSL_SF_BESSEL_H__

int gsl_sf_bessel_J0_e(const double x,  gsl_sf_result * result);
int gsl_sf_bessel_Jn_e(int n, double x, gsl_sf_result * result);
int gsl_sf_airy_Ai_e(const double x, const gsl_mode_t mode, gsl_sf_result * result);

#endif
`

const besselSource = `#include "test_sf.h"

int test_bessel(void)
{
  gsl_sf_result r;
  int s = 0;

  TEST_SF(s, (r, gsl_sf_bessel_J0_e, (2, &r), 0.22389077914123566805, TEST_TOL0, GSL_SUCCESS));
  TEST_SF(s, (r, gsl_sf_bessel_Jn_e, (2.0, 1, &r), 0.11490348493190048047, TEST_TOL0, GSL_SUCCESS));
  TEST_SF(s, (r, gsl_sf_bessel_Y0_e, (1, &r), 0.08825696421567695798, TEST_TOL0, GSL_SUCCESS));

  return s;
}
`

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace([]string{})
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestCommandsRegistered(t *testing.T) {
	expected := []string{"signature", "expr", "heads", "tests", "bind", "config", "version"}
	for _, name := range expected {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command '%s' to be registered", name)
		}
	}

	for _, flagName := range []string{"headers", "db", "format", "output", "macro"} {
		if bindCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("Expected bind flag '%s' to be defined", flagName)
		}
	}
}

func TestMacroFlagUsage(t *testing.T) {
	for _, c := range []*cobra.Command{testsCmd, bindCmd} {
		flag := c.Flags().Lookup("macro")
		if flag == nil {
			t.Fatalf("Expected %s to define --macro", c.Name())
		}
		if !strings.Contains(flag.Usage, parser.DefaultMacro) {
			t.Errorf("Expected %s --macro usage to name %s, got %q", c.Name(), parser.DefaultMacro, flag.Usage)
		}
	}
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gsl_sf_bessel.h", besselHeader)
	writeFile(t, dir, "nested/gsl_sf_airy.h", "")
	writeFile(t, dir, "test_bessel.c", besselSource)
	writeFile(t, dir, "README.txt", "")
	writeFile(t, dir, "build/generated.h", "")

	headers, err := findFiles(dir, isHeader)
	if err != nil {
		t.Fatalf("findFiles failed: %v", err)
	}
	if len(headers) != 2 {
		t.Errorf("Expected 2 headers, got %v", headers)
	}

	sources, err := findFiles(dir, isCSource)
	if err != nil {
		t.Fatalf("findFiles failed: %v", err)
	}
	if len(sources) != 1 || filepath.Base(sources[0]) != "test_bessel.c" {
		t.Errorf("Expected test_bessel.c, got %v", sources)
	}

	// A file target is returned as is.
	single, err := findFiles(filepath.Join(dir, "README.txt"), isHeader)
	if err != nil || len(single) != 1 {
		t.Errorf("Expected the file itself, got %v (%v)", single, err)
	}

	if _, err := findFiles(filepath.Join(dir, "missing"), isHeader); err == nil {
		t.Error("Expected an error for a missing target")
	}
}

func TestSignatureCommand(t *testing.T) {
	out, err := executeCommand(t, "", "signature", "-f", "text", "int  f(double a,char b);")
	if err != nil {
		t.Fatalf("signature failed: %v", err)
	}
	if out != "int f (double a, char b)\n" {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestSignatureCommandJSONFromStdin(t *testing.T) {
	stdin := "int f (double a, char b)\n\ndouble g (unsigned long int n);\n"
	out, err := executeCommand(t, stdin, "signature", "-f", "json")
	if err != nil {
		t.Fatalf("signature failed: %v", err)
	}

	var views []signatureView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("Invalid json %q: %v", out, err)
	}
	if len(views) != 2 {
		t.Fatalf("Expected 2 signatures, got %d", len(views))
	}
	if views[1].Name != "g" || views[1].Arguments[0].Type != "unsigned long int" {
		t.Errorf("Unexpected signature %+v", views[1])
	}
}

func TestSignatureCommandError(t *testing.T) {
	_, err := executeCommand(t, "", "signature", "-f", "text", "int f (double a", "int g (int)")
	if err == nil {
		t.Fatal("Expected a parse error")
	}
	if !strings.Contains(err.Error(), "declaration 1") {
		t.Errorf("Expected the failing declaration to be named, got %v", err)
	}
}

func TestExprCommand(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"expr", "-f", "text", "1 + 2*x"}, "1 + 2 * x\n"},
		{[]string{"expr", "-f", "text", "--type", "double", "1 + 2*x"}, "1.0 + 2.0 * x\n"},
		{[]string{"expr", "-f", "text", "--type", "int", "2.5"}, "3\n"},
		{[]string{"expr", "-f", "text", "--type", "double", "sqrt(2)"}, "sqrt(2)\n"},
		{[]string{"expr", "-f", "text", "a - b"}, "a + b\n"},
	}

	for _, tt := range tests {
		out, err := executeCommand(t, "", tt.args...)
		if err != nil {
			t.Errorf("%v failed: %v", tt.args, err)
			continue
		}
		if out != tt.expected {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.expected, out)
		}
	}

	if _, err := executeCommand(t, "", "expr", "-f", "text", "1 +"); err == nil {
		t.Error("Expected an error for an incomplete expression")
	}
}

func TestTestsCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_bessel.c", besselSource)

	out, err := executeCommand(t, "", "tests", "-f", "yaml", dir)
	if err != nil {
		t.Fatalf("tests failed: %v", err)
	}

	var views []testCaseView
	if err := yaml.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("Invalid yaml %q: %v", out, err)
	}
	if len(views) != 3 {
		t.Fatalf("Expected 3 test cases, got %d", len(views))
	}
	if views[1].Function != "gsl_sf_bessel_Jn_e" || views[1].Line != 9 {
		t.Errorf("Unexpected test case %+v", views[1])
	}
	if strings.Join(views[1].Args, "|") != "2.0|1|&r" {
		t.Errorf("Expected uncoerced args, got %v", views[1].Args)
	}
}

func TestTestsCommandStdinAndMacro(t *testing.T) {
	stdin := "CHECK(s, (r, f, (1), 1, TOL, OK));\nTEST_SF(s, (r, g, (1), 1, TOL, OK));\n"

	out, err := executeCommand(t, stdin, "tests", "-f", "text", "--macro", "CHECK", "-")
	if err != nil {
		t.Fatalf("tests failed: %v", err)
	}
	if out != "f(1) = 1 +/- TOL\n" {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestBindCommand(t *testing.T) {
	dir := t.TempDir()
	header := writeFile(t, dir, "include/gsl_sf_bessel.h", besselHeader)
	source := writeFile(t, dir, "test_bessel.c", besselSource)
	db := filepath.Join(dir, "catalog.db")

	out, err := executeCommand(t, "", "bind", "-f", "json", "--headers", header, "--db", db, source)
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	var view bindView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("Invalid json %q: %v", out, err)
	}

	if len(view.Bindings) != 2 {
		t.Fatalf("Expected 2 bindings, got %d", len(view.Bindings))
	}
	if got := strings.Join(view.Bindings[0].Tests[0].Args, ", "); got != "2.0, &r" {
		t.Errorf("Expected coerced J0 args, got %q", got)
	}
	if got := strings.Join(view.Bindings[1].Tests[0].Args, ", "); got != "2, 1.0, &r" {
		t.Errorf("Expected coerced Jn args, got %q", got)
	}
	if len(view.Unbound) != 1 || view.Unbound[0].Function != "gsl_sf_bessel_Y0_e" {
		t.Errorf("Expected Y0 to be unbound, got %+v", view.Unbound)
	}
	if len(view.Untested) != 0 {
		t.Errorf("Expected the gsl_mode_t function to be excluded, got %+v", view.Untested)
	}

	store, err := catalog.Open(db)
	if err != nil {
		t.Fatalf("Failed to open catalog: %v", err)
	}
	defer store.Close()

	stats, err := store.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Signatures != 2 || stats.TestCases != 3 {
		t.Errorf("Unexpected catalog contents %+v", stats)
	}
}

func TestBindCommandRequiresHeaders(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "test_bessel.c", besselSource)

	if _, err := executeCommand(t, "", "bind", "-f", "text", source); err == nil {
		t.Error("Expected an error without --headers")
	}
}

func TestHeadsCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gsl_sf_bessel.h", besselHeader)

	out, err := executeCommand(t, "", "heads", "-f", "text", dir)
	if err != nil {
		t.Fatalf("heads failed: %v", err)
	}
	if !strings.Contains(out, "2 heads, 1 excluded, 0 skipped") {
		t.Errorf("Unexpected summary in %q", out)
	}
	if !strings.Contains(out, "  int gsl_sf_bessel_Jn_e (int n, double x, gsl_sf_result * result)\n") {
		t.Errorf("Expected the Jn prototype in %q", out)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := executeCommand(t, "", "config", "init", dir)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, ".sfgen.yaml") {
		t.Errorf("Unexpected output %q", out)
	}

	path := filepath.Join(dir, ".sfgen.yaml")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Config file not written: %v", err)
	}
	edited := strings.Replace(string(content), "macro: TEST_SF", "macro: CHECK_SF", 1)
	writeFile(t, dir, ".sfgen.yaml", edited)

	out, err = executeCommand(t, "", "--config", path, "config", "show", "-f", "text")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "CHECK_SF") {
		t.Errorf("Expected the edited macro in %q", out)
	}

	if _, err := executeCommand(t, "", "--config", filepath.Join(dir, "missing.yaml"), "config", "show"); err == nil {
		t.Error("Expected an error for a missing --config file")
	}
}

func TestOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	out, err := executeCommand(t, "", "signature", "-f", "text", "-o", path, "int f (int n)")
	if err != nil {
		t.Fatalf("signature failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Output file not written: %v", err)
	}
	if string(content) != "int f (int n)\n" {
		t.Errorf("Unexpected file content %q", content)
	}
}

func TestInvalidFormat(t *testing.T) {
	if _, err := executeCommand(t, "", "signature", "-f", "xml", "int f (int n)"); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}
