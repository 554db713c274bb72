package ast

import (
	"strings"

	"mocheck/internal/source"
)

// ClassKind is the restricted class keyword of a definition.
type ClassKind uint8

const (
	ClassUnknown ClassKind = iota
	ClassClass
	ClassModel
	ClassRecord
	ClassOperatorRecord
	ClassBlock
	ClassConnector
	ClassExpandableConnector
	ClassType
	ClassPackage
	ClassFunction
	ClassOperatorFunction
	ClassOperator
)

var classKindNames = [...]string{
	ClassUnknown:             "?",
	ClassClass:               "class",
	ClassModel:               "model",
	ClassRecord:              "record",
	ClassOperatorRecord:      "operator record",
	ClassBlock:               "block",
	ClassConnector:           "connector",
	ClassExpandableConnector: "expandable connector",
	ClassType:                "type",
	ClassPackage:             "package",
	ClassFunction:            "function",
	ClassOperatorFunction:    "operator function",
	ClassOperator:            "operator",
}

func (k ClassKind) String() string {
	if int(k) < len(classKindNames) {
		return classKindNames[k]
	}
	return "?"
}

// Prefix is a bit set of class and element prefixes.
type Prefix uint16

const (
	PrefixEncapsulated Prefix = 1 << iota
	PrefixPartial
	PrefixFinal
	PrefixReplaceable
	PrefixRedeclare
	PrefixInner
	PrefixOuter
	PrefixPure
	PrefixImpure
)

var prefixNames = []struct {
	flag Prefix
	name string
}{
	{PrefixRedeclare, "redeclare"},
	{PrefixFinal, "final"},
	{PrefixInner, "inner"},
	{PrefixOuter, "outer"},
	{PrefixReplaceable, "replaceable"},
	{PrefixEncapsulated, "encapsulated"},
	{PrefixPartial, "partial"},
	{PrefixPure, "pure"},
	{PrefixImpure, "impure"},
}

func (p Prefix) Has(flag Prefix) bool { return p&flag != 0 }

// String lists the set prefixes in source order, separated by spaces.
func (p Prefix) String() string {
	parts := make([]string, 0, 4)
	for _, pn := range prefixNames {
		if p.Has(pn.flag) {
			parts = append(parts, pn.name)
		}
	}
	return strings.Join(parts, " ")
}

// SpecKind tells which class_specifier form was used.
type SpecKind uint8

const (
	SpecLong        SpecKind = iota // IDENT ... end IDENT
	SpecExtends                     // extends IDENT ... end IDENT
	SpecShort                       // IDENT = type_specifier ...
	SpecEnumeration                 // IDENT = enumeration(...)
	SpecDer                         // IDENT = der(...)
)

func (k SpecKind) String() string {
	switch k {
	case SpecLong:
		return "long"
	case SpecExtends:
		return "extends"
	case SpecShort:
		return "short"
	case SpecEnumeration:
		return "enumeration"
	case SpecDer:
		return "der"
	}
	return "?"
}

// Class is the outline of one class_definition. Bodies of equations and
// algorithms are not kept; only their counts are.
type Class struct {
	Name     string
	Kind     ClassKind
	Spec     SpecKind
	Prefixes Prefix
	Span     source.Span
	NameSpan source.Span
	// Base is the type_specifier of a short class or the der() operand.
	Base       string
	Literals   []string // enumeration literals; nil for enumeration(:)
	Components []Component
	Extends    []string
	Imports    []string
	Children   []ClassID
	Equations  int
	Statements int
	External   bool
}

// Component is one component_declaration together with its clause type.
type Component struct {
	Name        string
	TypeName    string
	Prefixes    Prefix
	Variability string // "", "discrete", "parameter" or "constant"
	Causality   string // "", "input" or "output"
	Span        source.Span
}

type Classes struct {
	Arena *Arena[Class]
}

func NewClasses(capHint uint) *Classes {
	return &Classes{Arena: NewArena[Class](capHint)}
}

func (c *Classes) New(cls Class) ClassID {
	return ClassID(c.Arena.Allocate(cls))
}

func (c *Classes) Get(id ClassID) *Class {
	return c.Arena.Get(uint32(id))
}
