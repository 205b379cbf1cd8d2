// Package types holds the checker's resolved type representation
// (spec.md §3.2). It is separate from package ast: the AST is the
// shared shape every stage consumes, while a resolved Type only ever
// exists inside the checker's analysis.
package types

import "fmt"

// Tag discriminates the sum-of-variants Type.
type Tag int

const (
	Int Tag = iota
	Double
	Bool
	String
	Void
	Array
	Function
	Struct
	Unknown
)

// Type is a resolved type. Payload fields are only meaningful for the
// Tag that defines them: Element for Array, Params/Return for
// Function, Name/Fields for Struct.
type Type struct {
	Tag     Tag
	Element *Type            // Array
	Params  []Type           // Function
	Return  *Type            // Function
	Name    string           // Struct
	Fields  map[string]Type  // Struct, by field name
	Order   []string         // Struct, declaration order of Fields keys
}

var (
	TInt     = Type{Tag: Int}
	TDouble  = Type{Tag: Double}
	TBool    = Type{Tag: Bool}
	TString  = Type{Tag: String}
	TVoid    = Type{Tag: Void}
	TUnknown = Type{Tag: Unknown}
)

// NewArray builds an Array(element) type.
func NewArray(element Type) Type {
	e := element
	return Type{Tag: Array, Element: &e}
}

// NewFunction builds a Function(params, return) type.
func NewFunction(params []Type, ret Type) Type {
	r := ret
	return Type{Tag: Function, Params: params, Return: &r}
}

// NewStruct builds a Struct(name, fields) type. order must list every
// key of fields exactly once, in declaration order.
func NewStruct(name string, order []string, fields map[string]Type) Type {
	return Type{Tag: Struct, Name: name, Order: order, Fields: fields}
}

// IsNumeric reports whether t is Int or Double.
func (t Type) IsNumeric() bool {
	return t.Tag == Int || t.Tag == Double
}

// Equal implements the structural equality of spec.md §3.2: tags must
// match and payloads must be equal; structs compare by name only;
// arrays recurse on element; functions compare by arity, parameter
// types, and return type.
func (t Type) Equal(other Type) bool {
	if t.Tag != other.Tag {
		return false
	}
	switch t.Tag {
	case Array:
		return t.Element.Equal(*other.Element)
	case Function:
		if len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return t.Return.Equal(*other.Return)
	case Struct:
		return t.Name == other.Name
	default:
		return true
	}
}

// String renders a human-readable type name for error messages.
func (t Type) String() string {
	switch t.Tag {
	case Int:
		return "int"
	case Double:
		return "double"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Void:
		return "void"
	case Unknown:
		return "unknown"
	case Array:
		return fmt.Sprintf("%s[]", t.Element.String())
	case Function:
		return fmt.Sprintf("fn(%d args): %s", len(t.Params), t.Return.String())
	case Struct:
		return t.Name
	default:
		return "?"
	}
}
