package ast

import "strings"

// Argument is one typed parameter of a C function declaration.
// Type is the space-joined token form, e.g. "const double" or "double []".
type Argument struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// Signature is a parsed C function declaration.
type Signature struct {
	ReturnType string     `json:"returnType" yaml:"return_type"`
	Name       string     `json:"name" yaml:"name"`
	Arguments  []Argument `json:"arguments" yaml:"arguments"`
}

// String renders the signature in the same token-joined form the parser emits.
func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteString(s.ReturnType)
	sb.WriteByte(' ')
	sb.WriteString(s.Name)
	sb.WriteString(" (")
	for i, arg := range s.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.Type)
		sb.WriteByte(' ')
		sb.WriteString(arg.Name)
	}
	sb.WriteByte(')')
	return sb.String()
}

// HasArgumentType reports whether any argument type mentions the given type name
// as one of its tokens.
func (s Signature) HasArgumentType(name string) bool {
	for _, arg := range s.Arguments {
		for _, tok := range strings.Fields(arg.Type) {
			if tok == name {
				return true
			}
		}
	}
	return false
}

// Equal compares two signatures field by field.
func (s Signature) Equal(other Signature) bool {
	if s.ReturnType != other.ReturnType || s.Name != other.Name || len(s.Arguments) != len(other.Arguments) {
		return false
	}
	for i := range s.Arguments {
		if s.Arguments[i] != other.Arguments[i] {
			return false
		}
	}
	return true
}
