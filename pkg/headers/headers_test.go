package headers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleHeader = `/* specfunc/gsl_sf_bessel.h */
#ifndef __GSL_SF_BESSEL_H__
#define __GSL_SF_BESSEL_H__

#include <gsl/gsl_mode.h>
#include <gsl/gsl_sf_result.h>

typedef struct {
  double val;
  double err;
} gsl_sf_result;

extern int gsl_sf_bessel_verbose;

/* Regular Bessel Function J_0(x)
 *
 * exceptions: none
 */
int gsl_sf_bessel_J0_e(const double x,  gsl_sf_result * result);
double gsl_sf_bessel_J0(const double x);

int gsl_sf_bessel_Jn_e(int n,
                       double x,
                       gsl_sf_result * result);

int gsl_sf_airy_Ai_e(const double x, const gsl_mode_t mode, gsl_sf_result * result);

int gsl_sf_bessel_Jn_array(int nmin, int nmax, double x, double * result_array);

int gsl_sf_bessel_callback(int (*cb)(double), double x);

static int helper(int k)
{
  int inner(int x);
  return inner(k);
}

#endif
`

func extractSample(t *testing.T, exclude []string) *Result {
	t.Helper()
	e := NewExtractor(exclude)
	defer e.Close()

	result, err := e.Extract(context.Background(), []byte(sampleHeader))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return result
}

func TestExtractHeads(t *testing.T) {
	result := extractSample(t, []string{"gsl_mode_t"})

	expected := []string{
		"int gsl_sf_bessel_J0_e (const double x, gsl_sf_result * result)",
		"double gsl_sf_bessel_J0 (const double x)",
		"int gsl_sf_bessel_Jn_e (int n, double x, gsl_sf_result * result)",
		"int gsl_sf_bessel_Jn_array (int nmin, int nmax, double x, double * result_array)",
	}

	if len(result.Heads) != len(expected) {
		for _, h := range result.Heads {
			t.Logf("head: %s", h.Signature)
		}
		t.Fatalf("Expected %d heads, got %d", len(expected), len(result.Heads))
	}
	for i, want := range expected {
		if got := result.Heads[i].Signature.String(); got != want {
			t.Errorf("Head %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestExtractFlattensMultiLinePrototypes(t *testing.T) {
	result := extractSample(t, nil)

	for _, h := range result.Heads {
		if h.Signature.Name != "gsl_sf_bessel_Jn_e" {
			continue
		}
		if h.Text != "int gsl_sf_bessel_Jn_e(int n, double x, gsl_sf_result * result)" {
			t.Errorf("Unexpected flattened text %q", h.Text)
		}
		if h.Line != 22 {
			t.Errorf("Expected line 22, got %d", h.Line)
		}
		return
	}
	t.Fatal("gsl_sf_bessel_Jn_e not found")
}

func TestExtractExcludedTypes(t *testing.T) {
	result := extractSample(t, []string{"gsl_mode_t"})

	if len(result.Excluded) != 1 || result.Excluded[0].Signature.Name != "gsl_sf_airy_Ai_e" {
		t.Fatalf("Expected gsl_sf_airy_Ai_e to be excluded, got %+v", result.Excluded)
	}
	for _, h := range result.Heads {
		if h.Signature.Name == "gsl_sf_airy_Ai_e" {
			t.Error("Excluded function should not be in heads")
		}
	}

	// Without exclusions the function is a regular head.
	all := extractSample(t, nil)
	if len(all.Excluded) != 0 {
		t.Errorf("Expected no exclusions, got %d", len(all.Excluded))
	}
	if len(all.Heads) != 5 {
		t.Errorf("Expected 5 heads without exclusions, got %d", len(all.Heads))
	}
}

func TestExtractSkipsUnparsablePrototypes(t *testing.T) {
	result := extractSample(t, nil)

	if len(result.Skipped) != 1 {
		t.Fatalf("Expected 1 skipped prototype, got %+v", result.Skipped)
	}
	s := result.Skipped[0]
	if s.Text != "int gsl_sf_bessel_callback(int (*cb)(double), double x)" {
		t.Errorf("Unexpected skipped text %q", s.Text)
	}
	if s.Reason == "" {
		t.Error("Expected a reason for the skipped prototype")
	}
}

func TestExtractIgnoresFunctionBodies(t *testing.T) {
	result := extractSample(t, nil)

	for _, h := range result.Heads {
		if h.Signature.Name == "inner" || h.Signature.Name == "helper" {
			t.Errorf("Unexpected head %s", h.Signature.Name)
		}
	}
}

func TestExtractPointerReturn(t *testing.T) {
	e := NewExtractor(nil)
	defer e.Close()

	result, err := e.Extract(context.Background(), []byte("double * gsl_vector_ptr(gsl_vector * v, const size_t i);\n"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(result.Heads) != 1 {
		t.Fatalf("Expected 1 head, got %d", len(result.Heads))
	}
	sig := result.Heads[0].Signature
	if sig.ReturnType != "double *" || sig.Name != "gsl_vector_ptr" {
		t.Errorf("Unexpected signature %s", sig)
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gsl_sf_bessel.h")
	if err := os.WriteFile(path, []byte(sampleHeader), 0644); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor(nil)
	defer e.Close()

	result, err := e.ExtractFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if len(result.Heads) == 0 {
		t.Error("Expected heads from file")
	}

	if _, err := e.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.h")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"int f(int x);", "int f(int x)"},
		{"int  f(int x,\n\t double y) ;", "int f(int x, double y)"},
		{"  double g(void)  ", "double g(void)"},
	}
	for _, tt := range tests {
		if got := Flatten(tt.input); got != tt.expected {
			t.Errorf("Flatten(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}
