package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedQIdent       Code = 1006
	LexBadEscape                Code = 1007

	// Parser
	SynInfo                 Code = 2000
	SynUnexpectedToken      Code = 2001
	SynExpectSemicolon      Code = 2002
	SynExpectIdentifier     Code = 2003
	SynExpectExpression     Code = 2004
	SynUnclosedParen        Code = 2005
	SynUnclosedBracket      Code = 2006
	SynUnclosedBrace        Code = 2007
	SynEndNameMismatch      Code = 2008
	SynExpectEnd            Code = 2009
	SynExpectClassSpecifier Code = 2010
	SynUnexpectedTopLevel   Code = 2011
	SynExpectEquals         Code = 2012
	SynExpectThen           Code = 2013
	SynExpectLoop           Code = 2014
	SynBadModification      Code = 2015
	SynExpectComponent      Code = 2016
	SynMisplacedWithin      Code = 2017
	SynExpectAssign         Code = 2018
	SynExpectString         Code = 2019
	SynTooManyErrors        Code = 2020

	// I/O errors
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexTokenTooLong:             "Token too long",
		LexUnterminatedQIdent:       "Unterminated quoted identifier",
		LexBadEscape:                "Invalid escape sequence",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Expect semicolon",
		SynExpectIdentifier:         "Expect identifier",
		SynExpectExpression:         "Expect expression",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBracket:          "Unclosed bracket",
		SynUnclosedBrace:            "Unclosed brace",
		SynEndNameMismatch:          "End name does not match class name",
		SynExpectEnd:                "Expect 'end'",
		SynExpectClassSpecifier:     "Expect class specifier",
		SynUnexpectedTopLevel:       "Unexpected top level",
		SynExpectEquals:             "Expect '='",
		SynExpectThen:               "Expect 'then'",
		SynExpectLoop:               "Expect 'loop'",
		SynBadModification:          "Malformed modification",
		SynExpectComponent:          "Expect component declaration",
		SynMisplacedWithin:          "'within' must be the first clause",
		SynExpectAssign:             "Expect ':='",
		SynExpectString:             "Expect string",
		SynTooManyErrors:            "Too many errors",
		IOLoadFileError:             "I/O load file error",
		IODecodeError:               "I/O decode error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
