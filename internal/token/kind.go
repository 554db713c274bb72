package token

import "strconv"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident is a plain or quoted identifier.
	Ident

	// Keywords, kept contiguous so IsKeywordKind can range-check.
	KwAlgorithm     // algorithm
	KwAnd           // and
	KwAnnotation    // annotation
	KwBlock         // block
	KwBreak         // break
	KwClass         // class
	KwConnect       // connect
	KwConnector     // connector
	KwConstant      // constant
	KwConstrainedby // constrainedby
	KwDer           // der
	KwDiscrete      // discrete
	KwEach          // each
	KwElse          // else
	KwElseif        // elseif
	KwElsewhen      // elsewhen
	KwEncapsulated  // encapsulated
	KwEnd           // end
	KwEnumeration   // enumeration
	KwEquation      // equation
	KwExpandable    // expandable
	KwExtends       // extends
	KwExternal      // external
	KwFalse         // false
	KwFinal         // final
	KwFlow          // flow
	KwFor           // for
	KwFunction      // function
	KwIf            // if
	KwImport        // import
	KwImpure        // impure
	KwIn            // in
	KwInitial       // initial
	KwInner         // inner
	KwInput         // input
	KwLoop          // loop
	KwModel         // model
	KwNot           // not
	KwOperator      // operator
	KwOr            // or
	KwOuter         // outer
	KwOutput        // output
	KwPackage       // package
	KwParameter     // parameter
	KwPartial       // partial
	KwProtected     // protected
	KwPublic        // public
	KwPure          // pure
	KwRecord        // record
	KwRedeclare     // redeclare
	KwReplaceable   // replaceable
	KwReturn        // return
	KwStream        // stream
	KwThen          // then
	KwTrue          // true
	KwType          // type
	KwWhen          // when
	KwWhile         // while
	KwWithin        // within

	// NumberLit is an UNSIGNED_NUMBER; sign is a separate operator.
	NumberLit
	// StringLit is a double quoted string with escapes kept verbatim.
	StringLit

	// Operators and punctuation.
	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Caret       // ^
	DotPlus     // .+
	DotMinus    // .-
	DotStar     // .*
	DotSlash    // ./
	DotCaret    // .^
	Assign      // =
	ColonAssign // :=
	EqEq        // ==
	LtGt        // <>
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	LParen      // (
	RParen      // )
	LBracket    // [
	RBracket    // ]
	LBrace      // {
	RBrace      // }
	Comma       // ,
	Semicolon   // ;
	Colon       // :
	Dot         // .
)

var kindNames = [...]string{
	Invalid:         "Invalid",
	EOF:             "EOF",
	Ident:           "Ident",
	KwAlgorithm:     "KwAlgorithm",
	KwAnd:           "KwAnd",
	KwAnnotation:    "KwAnnotation",
	KwBlock:         "KwBlock",
	KwBreak:         "KwBreak",
	KwClass:         "KwClass",
	KwConnect:       "KwConnect",
	KwConnector:     "KwConnector",
	KwConstant:      "KwConstant",
	KwConstrainedby: "KwConstrainedby",
	KwDer:           "KwDer",
	KwDiscrete:      "KwDiscrete",
	KwEach:          "KwEach",
	KwElse:          "KwElse",
	KwElseif:        "KwElseif",
	KwElsewhen:      "KwElsewhen",
	KwEncapsulated:  "KwEncapsulated",
	KwEnd:           "KwEnd",
	KwEnumeration:   "KwEnumeration",
	KwEquation:      "KwEquation",
	KwExpandable:    "KwExpandable",
	KwExtends:       "KwExtends",
	KwExternal:      "KwExternal",
	KwFalse:         "KwFalse",
	KwFinal:         "KwFinal",
	KwFlow:          "KwFlow",
	KwFor:           "KwFor",
	KwFunction:      "KwFunction",
	KwIf:            "KwIf",
	KwImport:        "KwImport",
	KwImpure:        "KwImpure",
	KwIn:            "KwIn",
	KwInitial:       "KwInitial",
	KwInner:         "KwInner",
	KwInput:         "KwInput",
	KwLoop:          "KwLoop",
	KwModel:         "KwModel",
	KwNot:           "KwNot",
	KwOperator:      "KwOperator",
	KwOr:            "KwOr",
	KwOuter:         "KwOuter",
	KwOutput:        "KwOutput",
	KwPackage:       "KwPackage",
	KwParameter:     "KwParameter",
	KwPartial:       "KwPartial",
	KwProtected:     "KwProtected",
	KwPublic:        "KwPublic",
	KwPure:          "KwPure",
	KwRecord:        "KwRecord",
	KwRedeclare:     "KwRedeclare",
	KwReplaceable:   "KwReplaceable",
	KwReturn:        "KwReturn",
	KwStream:        "KwStream",
	KwThen:          "KwThen",
	KwTrue:          "KwTrue",
	KwType:          "KwType",
	KwWhen:          "KwWhen",
	KwWhile:         "KwWhile",
	KwWithin:        "KwWithin",
	NumberLit:       "NumberLit",
	StringLit:       "StringLit",
	Plus:            "Plus",
	Minus:           "Minus",
	Star:            "Star",
	Slash:           "Slash",
	Caret:           "Caret",
	DotPlus:         "DotPlus",
	DotMinus:        "DotMinus",
	DotStar:         "DotStar",
	DotSlash:        "DotSlash",
	DotCaret:        "DotCaret",
	Assign:          "Assign",
	ColonAssign:     "ColonAssign",
	EqEq:            "EqEq",
	LtGt:            "LtGt",
	Lt:              "Lt",
	LtEq:            "LtEq",
	Gt:              "Gt",
	GtEq:            "GtEq",
	LParen:          "LParen",
	RParen:          "RParen",
	LBracket:        "LBracket",
	RBracket:        "RBracket",
	LBrace:          "LBrace",
	RBrace:          "RBrace",
	Comma:           "Comma",
	Semicolon:       "Semicolon",
	Colon:           "Colon",
	Dot:             "Dot",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

var kindTexts = map[Kind]string{
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Caret:       "^",
	DotPlus:     ".+",
	DotMinus:    ".-",
	DotStar:     ".*",
	DotSlash:    "./",
	DotCaret:    ".^",
	Assign:      "=",
	ColonAssign: ":=",
	EqEq:        "==",
	LtGt:        "<>",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
	LBrace:      "{",
	RBrace:      "}",
	Comma:       ",",
	Semicolon:   ";",
	Colon:       ":",
	Dot:         ".",
}

// Text returns the fixed spelling of an operator or keyword kind, or "" for kinds with variable text.
func (k Kind) Text() string {
	if s, ok := kindTexts[k]; ok {
		return s
	}
	if IsKeywordKind(k) {
		return keywordList[k-KwAlgorithm]
	}
	return ""
}
