// Package catalog joins parsed declarations with the test cases written for them.
package catalog

import (
	"sfgen/pkg/ast"
	"sfgen/pkg/coerce"
)

// Catalog collects signatures keyed by function name and test cases grouped by
// the function they exercise. Groups keep the order in which their function
// first appeared.
type Catalog struct {
	signatures map[string]ast.Signature
	sigOrder   []string
	groups     map[string][]ast.TestCase
	order      []string
}

// Binding is a signature together with its coerced test cases.
type Binding struct {
	Signature ast.Signature
	Tests     []ast.TestCase
}

// BindResult is the outcome of Bind.
type BindResult struct {
	Bindings []Binding
	// Unbound holds test cases whose function has no known signature.
	Unbound []ast.TestCase
	// Untested holds signatures no test case refers to.
	Untested []ast.Signature
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		signatures: make(map[string]ast.Signature),
		groups:     make(map[string][]ast.TestCase),
	}
}

// AddSignature registers a signature. A later signature with the same name
// replaces the earlier one and reports true.
func (c *Catalog) AddSignature(sig ast.Signature) bool {
	_, replaced := c.signatures[sig.Name]
	if !replaced {
		c.sigOrder = append(c.sigOrder, sig.Name)
	}
	c.signatures[sig.Name] = sig
	return replaced
}

// AddTests appends test cases to the groups of their functions.
func (c *Catalog) AddTests(cases ...ast.TestCase) {
	for _, tc := range cases {
		if _, ok := c.groups[tc.FunctionName]; !ok {
			c.order = append(c.order, tc.FunctionName)
		}
		c.groups[tc.FunctionName] = append(c.groups[tc.FunctionName], tc)
	}
}

// Signature looks up a signature by function name.
func (c *Catalog) Signature(name string) (ast.Signature, bool) {
	sig, ok := c.signatures[name]
	return sig, ok
}

// Signatures returns all signatures in registration order.
func (c *Catalog) Signatures() []ast.Signature {
	sigs := make([]ast.Signature, 0, len(c.sigOrder))
	for _, name := range c.sigOrder {
		sigs = append(sigs, c.signatures[name])
	}
	return sigs
}

// Functions returns the names of tested functions in first-appearance order.
func (c *Catalog) Functions() []string {
	return append([]string(nil), c.order...)
}

// Tests returns a copy of the test cases recorded for a function.
func (c *Catalog) Tests(name string) []ast.TestCase {
	return append([]ast.TestCase(nil), c.groups[name]...)
}

// Bind pairs every test group with its signature and coerces the literals of
// each test case against it. A nil coercer selects the default type sets.
func (c *Catalog) Bind(co *coerce.Coercer) *BindResult {
	if co == nil {
		co = coerce.Default()
	}

	result := &BindResult{}
	for _, name := range c.order {
		cases := c.groups[name]
		sig, ok := c.signatures[name]
		if !ok {
			result.Unbound = append(result.Unbound, cases...)
			continue
		}

		b := Binding{Signature: sig, Tests: make([]ast.TestCase, len(cases))}
		for i, tc := range cases {
			b.Tests[i] = co.CoerceTestCase(sig, tc)
		}
		result.Bindings = append(result.Bindings, b)
	}

	for _, name := range c.sigOrder {
		if _, ok := c.groups[name]; !ok {
			result.Untested = append(result.Untested, c.signatures[name])
		}
	}
	return result
}
