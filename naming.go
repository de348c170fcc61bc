package dflow

import (
	"reflect"
	"strings"
	"unicode"
)

// NamingStrategy derives a default node name from its concrete Go type.
// Graph.Add does not use one; it registers a node under Base().Name() or
// the explicit name it is given.
type NamingStrategy interface {
	TypeName(t reflect.Type) string
}

// KebabNaming converts PascalCase type names to dot-separated lowercase.
// Example: *Generator[int] → "generator".
var KebabNaming NamingStrategy = kebabNaming{}

// SnakeNaming converts PascalCase type names to underscore-separated
// lowercase. Example: ConstAdder[int] → "const_adder".
var SnakeNaming NamingStrategy = snakeNaming{}

type kebabNaming struct{}

func (kebabNaming) TypeName(t reflect.Type) string {
	return splitPascalCase(baseTypeName(t), ".")
}

type snakeNaming struct{}

func (snakeNaming) TypeName(t reflect.Type) string {
	return splitPascalCase(baseTypeName(t), "_")
}

// baseTypeName strips pointer indirection and generic instantiation
// brackets, so *samples.ConstAdder[int] yields "ConstAdder".
func baseTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// splitPascalCase splits a PascalCase string into lowercase words joined by sep.
func splitPascalCase(s string, sep string) string {
	if s == "" {
		return ""
	}

	var words []string
	var current strings.Builder

	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, strings.ToLower(current.String()))
	}

	return strings.Join(words, sep)
}
