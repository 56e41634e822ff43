// Package headers discovers function prototypes in C header files.
//
// Headers are parsed with the tree-sitter C grammar, which tolerates the
// preprocessor and macro noise found in real headers. Every prototype is then
// flattened to a single line and handed to the declaration parser, so the
// signatures produced here are exactly those the rest of sfgen understands.
package headers

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"sfgen/pkg/ast"
	"sfgen/pkg/parser"
	"sfgen/pkg/utils"
)

// Head is a prototype that parsed successfully.
type Head struct {
	Signature ast.Signature
	Line      int
	Text      string
}

// Skipped is a prototype the declaration parser rejected.
type Skipped struct {
	Line   int
	Text   string
	Reason string
}

// Result is the outcome of scanning one header.
type Result struct {
	Heads    []Head
	Excluded []Head
	Skipped  []Skipped
}

// Extractor finds prototypes in header source.
// An Extractor is not safe for concurrent use.
type Extractor struct {
	parser       *sitter.Parser
	excludeTypes []string
}

// NewExtractor creates an extractor. Prototypes with an argument whose type
// mentions one of excludeTypes are reported in Result.Excluded instead of Heads.
func NewExtractor(excludeTypes []string) *Extractor {
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())
	return &Extractor{parser: p, excludeTypes: excludeTypes}
}

// Close releases parser resources.
func (e *Extractor) Close() {
	if e.parser != nil {
		e.parser.Close()
		e.parser = nil
	}
}

// ExtractFile reads and scans a header from disk.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read header %s: %w", path, err)
	}
	result, err := e.Extract(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// Extract scans header source for function prototypes, in source order.
func (e *Extractor) Extract(ctx context.Context, source []byte) (*Result, error) {
	tree, err := e.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	defer tree.Close()

	result := &Result{}
	walk(tree.RootNode(), func(n *sitter.Node) {
		if n.Type() != "declaration" || findFunctionDeclarator(n) == nil {
			return
		}
		e.add(result, n, source)
	})
	return result, nil
}

func (e *Extractor) add(result *Result, n *sitter.Node, source []byte) {
	text := Flatten(n.Content(source))
	line := int(n.StartPoint().Row) + 1

	sig, err := parser.ParseDeclaration(text)
	if err != nil {
		result.Skipped = append(result.Skipped, Skipped{Line: line, Text: text, Reason: err.Error()})
		return
	}

	head := Head{Signature: sig, Line: line, Text: text}
	if e.excluded(sig) {
		result.Excluded = append(result.Excluded, head)
		return
	}
	result.Heads = append(result.Heads, head)
}

func (e *Extractor) excluded(sig ast.Signature) bool {
	for _, t := range e.excludeTypes {
		if sig.HasArgumentType(t) {
			return true
		}
	}
	return false
}

// Flatten collapses all whitespace runs to single spaces and drops a trailing ';'.
func Flatten(text string) string {
	text = utils.CollapseSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, ";"))
}

// walk visits nodes depth-first. Function bodies are not entered.
func walk(n *sitter.Node, visit func(*sitter.Node)) {
	visit(n)
	if n.Type() == "function_definition" {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}

// findFunctionDeclarator follows the declarator chain of a declaration through
// pointer and parenthesized declarators down to a function_declarator.
func findFunctionDeclarator(n *sitter.Node) *sitter.Node {
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Type() {
		case "function_declarator":
			return d
		case "pointer_declarator", "parenthesized_declarator":
			next := d.ChildByFieldName("declarator")
			if next == nil && d.NamedChildCount() > 0 {
				next = d.NamedChild(int(d.NamedChildCount()) - 1)
			}
			d = next
		default:
			return nil
		}
	}
	return nil
}
