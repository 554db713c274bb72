package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mocheck/internal/diag"
	"mocheck/internal/parser"
)

const threeErrors = `model M
  Real x
  Real y;
equation
  x := 1;
  y = ;
end M;
`

func TestRecoveryReportsEveryError(t *testing.T) {
	p := parseSource(t, threeErrors)
	assert.Equal(t, []diag.Code{
		diag.SynExpectSemicolon,
		diag.SynExpectEquals,
		diag.SynExpectExpression,
	}, p.codes(), p.summary())
	assert.Equal(t, uint(3), p.res.Errors)
	assert.Equal(t, 3, p.bag.ErrorCount())

	cls := p.top()[0]
	assert.Len(t, cls.Components, 2)
}

func TestMaxErrorsSuppressesReportsButKeepsCounting(t *testing.T) {
	p := parseSourceWith(t, context.Background(), threeErrors, parser.Options{MaxErrors: 1})
	assert.Equal(t, 1, p.bag.Len())
	assert.Equal(t, uint(3), p.res.Errors)
}

func TestParseErrorCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"end name mismatch", "model M end N;", diag.SynEndNameMismatch},
		{"missing end", "model M Real x;", diag.SynExpectEnd},
		{"missing class name", "model end M;", diag.SynExpectIdentifier},
		{"bad expandable", "expandable model M end M;", diag.SynExpectClassSpecifier},
		{"bad pure", "pure model M end M;", diag.SynExpectClassSpecifier},
		{"top-level junk", "x = 1; model M end M;", diag.SynUnexpectedTopLevel},
		{"misplaced within", "model M end M; within P;", diag.SynMisplacedWithin},
		{"missing class semicolon", "model M end M model N end N;", diag.SynExpectSemicolon},
		{"bad modification", "model M Real x(1); end M;", diag.SynBadModification},
		{"missing component", "model M parameter 3; end M;", diag.SynExpectComponent},
		{"bad description", "model M Real x \"a\" + ; end M;", diag.SynExpectString},
		{"unclosed subscript", "model M Real x[3; end M;", diag.SynUnclosedBracket},
		{"unclosed modification", "model M Real x(start = 1; end M;", diag.SynUnclosedParen},
		{"unclosed import list", "package P import A.{b, c; end P;", diag.SynUnclosedBrace},
		{"stray token in body", "model M Real x; ) end M;", diag.SynExpectComponent},
		{"stray end block", "model M equation end for; end M;", diag.SynUnexpectedToken},
		{"annotation without parens", "model M annotation; end M;", diag.SynUnexpectedToken},
		{"enumeration without parens", "type E = enumeration;", diag.SynUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCode(t, tt.input, tt.code)
		})
	}
}

func TestEndNameMismatchNotesOpening(t *testing.T) {
	p := parseSource(t, "model Motor\nend Motr;\n")
	require.Equal(t, []diag.Code{diag.SynEndNameMismatch}, p.codes(), p.summary())

	d := p.bag.Items()[0]
	assert.Contains(t, d.Message, "'Motr'")
	assert.Contains(t, d.Message, "'Motor'")
	require.Len(t, d.Notes, 1)
	start, _ := p.fs.Resolve(d.Notes[0].Span)
	assert.Equal(t, uint32(1), start.Line)
}

func TestTopLevelRecoveryKeepsLaterClasses(t *testing.T) {
	p := parseSource(t, "x = 1;\nmodel A end A;\n42 model B end B;\n")
	assert.Equal(t, []diag.Code{diag.SynUnexpectedTopLevel, diag.SynUnexpectedTopLevel}, p.codes(), p.summary())
	top := p.top()
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Name)
	assert.Equal(t, "B", top[1].Name)
}

func TestLexicalErrorsAreNotCountedByParser(t *testing.T) {
	p := parseSource(t, "model M\n  Real x = 1 $;\nend M;\n")
	assert.Equal(t, []diag.Code{diag.LexUnknownChar}, p.codes(), p.summary())
	assert.Zero(t, p.res.Errors)
	assert.Equal(t, 1, p.bag.ErrorCount())
}

func TestEOFDiagnosticPointsPastLastToken(t *testing.T) {
	p := parseSource(t, "model M\n  Real x")
	require.NotEmpty(t, p.bag.Items())
	d := p.bag.Items()[0]
	assert.Equal(t, diag.SynExpectSemicolon, d.Code)
	assert.True(t, d.Primary.Empty())

	start, _ := p.fs.Resolve(d.Primary)
	assert.Equal(t, uint32(2), start.Line)
	assert.Equal(t, uint32(9), start.Col)
}

func TestParseCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := parseSourceWith(t, ctx, "model A end A;\nmodel B end B;\n", parser.Options{})
	assert.ErrorIs(t, p.res.Err, context.Canceled)
	assert.Empty(t, p.top())
}

func TestParserTerminatesOnGarbage(t *testing.T) {
	inputs := []string{
		")))",
		"model",
		"model M",
		"model M (",
		"model M equation if if if",
		"model M algorithm while while loop end end end",
		"model M Real x = {{{{[[[(((;",
		"end end end ;;;",
		"model M equation end if end for end when end M;",
		"package P model Q end P;",
		"model M = ;",
		"within within within",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			p := parseSource(t, input)
			assert.True(t, p.bag.HasErrors(), "expected errors for %q", input)
			assert.NotZero(t, p.res.Errors)
		})
	}
}
