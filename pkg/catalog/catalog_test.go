package catalog

import (
	"testing"

	"sfgen/pkg/ast"
	"sfgen/pkg/parser"
)

const besselTests = `
  TEST_SF(s, (r, gsl_sf_bessel_J0_e, (2, &r), 0.22389077914123566805, TEST_TOL0, GSL_SUCCESS));
  TEST_SF(s, (r, gsl_sf_bessel_Jn_e, (4, 0.1, &r), 2.6028648545684032338e-07, TEST_TOL0, GSL_SUCCESS));
  TEST_SF(s, (r, gsl_sf_bessel_Y0_e, (1, &r), 0.08825696421567695798, TEST_TOL0, GSL_SUCCESS));
  TEST_SF(s, (r, gsl_sf_bessel_J0_e, (100.0, &r), 0.019985850304223122424, TEST_TOL2, GSL_SUCCESS));
  TEST_SF(s, (r, gsl_sf_bessel_Jn_e, (2.0, 1, &r), 0.11490348493190048047, TEST_TOL0, GSL_SUCCESS));
`

func mustDeclaration(t *testing.T, text string) ast.Signature {
	t.Helper()
	sig, err := parser.ParseDeclaration(text)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", text, err)
	}
	return sig
}

func newBesselCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	c.AddSignature(mustDeclaration(t, "int gsl_sf_bessel_J0_e (const double x, gsl_sf_result * result)"))
	c.AddSignature(mustDeclaration(t, "int gsl_sf_bessel_Jn_e (int n, double x, gsl_sf_result * result)"))
	c.AddSignature(mustDeclaration(t, "int gsl_sf_bessel_I0_e (const double x, gsl_sf_result * result)"))

	cases, err := parser.ParseTestCases(besselTests)
	if err != nil {
		t.Fatalf("Failed to parse test cases: %v", err)
	}
	c.AddTests(cases...)
	return c
}

func TestCatalogGroupsInFirstAppearanceOrder(t *testing.T) {
	c := newBesselCatalog(t)

	functions := c.Functions()
	expected := []string{"gsl_sf_bessel_J0_e", "gsl_sf_bessel_Jn_e", "gsl_sf_bessel_Y0_e"}
	if len(functions) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, functions)
	}
	for i := range expected {
		if functions[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, functions)
			break
		}
	}

	if n := len(c.Tests("gsl_sf_bessel_J0_e")); n != 2 {
		t.Errorf("Expected 2 J0 tests, got %d", n)
	}
	if n := len(c.Tests("missing")); n != 0 {
		t.Errorf("Expected no tests for an unknown function, got %d", n)
	}
}

func TestCatalogAddSignatureReplaces(t *testing.T) {
	c := New()
	if c.AddSignature(mustDeclaration(t, "int f (int x)")) {
		t.Error("First registration should not report a replacement")
	}
	if !c.AddSignature(mustDeclaration(t, "int f (double x)")) {
		t.Error("Second registration should report a replacement")
	}

	sig, ok := c.Signature("f")
	if !ok || sig.Arguments[0].Type != "double" {
		t.Errorf("Expected the later signature to win, got %v", sig)
	}
	if n := len(c.Signatures()); n != 1 {
		t.Errorf("Expected 1 signature, got %d", n)
	}
}

func TestCatalogBind(t *testing.T) {
	c := newBesselCatalog(t)
	result := c.Bind(nil)

	if len(result.Bindings) != 2 {
		t.Fatalf("Expected 2 bindings, got %d", len(result.Bindings))
	}

	j0 := result.Bindings[0]
	if j0.Signature.Name != "gsl_sf_bessel_J0_e" {
		t.Fatalf("Expected J0 first, got %s", j0.Signature.Name)
	}
	if got := ast.SerializeList(j0.Tests[0].Args); got != "2.0, &r" {
		t.Errorf("Expected coerced args \"2.0, &r\", got %q", got)
	}
	if got := ast.SerializeList(j0.Tests[1].Args); got != "100.0, &r" {
		t.Errorf("Expected args to stay \"100.0, &r\", got %q", got)
	}

	jn := result.Bindings[1]
	if got := ast.SerializeList(jn.Tests[0].Args); got != "4, 0.1, &r" {
		t.Errorf("Unexpected Jn args %q", got)
	}
	if got := ast.SerializeList(jn.Tests[1].Args); got != "2, 1.0, &r" {
		t.Errorf("Unexpected Jn args %q", got)
	}

	if len(result.Unbound) != 1 || result.Unbound[0].FunctionName != "gsl_sf_bessel_Y0_e" {
		t.Errorf("Expected Y0 to be unbound, got %+v", result.Unbound)
	}
	if len(result.Untested) != 1 || result.Untested[0].Name != "gsl_sf_bessel_I0_e" {
		t.Errorf("Expected I0 to be untested, got %+v", result.Untested)
	}
}

func TestCatalogBindLeavesInputUntouched(t *testing.T) {
	c := newBesselCatalog(t)
	c.Bind(nil)

	if got := ast.SerializeList(c.Tests("gsl_sf_bessel_J0_e")[0].Args); got != "2, &r" {
		t.Errorf("Bind modified the catalog: %q", got)
	}
}

func TestCatalogTestsReturnsCopy(t *testing.T) {
	c := newBesselCatalog(t)

	tests := c.Tests("gsl_sf_bessel_J0_e")
	tests[0].FunctionName = "changed"
	_ = append(tests[:1], ast.TestCase{FunctionName: "appended"})

	again := c.Tests("gsl_sf_bessel_J0_e")
	if len(again) != 2 {
		t.Fatalf("Expected 2 tests, got %d", len(again))
	}
	if again[0].FunctionName != "gsl_sf_bessel_J0_e" || again[1].FunctionName != "gsl_sf_bessel_J0_e" {
		t.Errorf("Catalog was modified through Tests: %q, %q", again[0].FunctionName, again[1].FunctionName)
	}

	result := c.Bind(nil)
	if len(result.Bindings[0].Tests) != 2 {
		t.Errorf("Expected Bind to see 2 J0 tests, got %d", len(result.Bindings[0].Tests))
	}
}
