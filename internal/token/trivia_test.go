package token_test

import (
	"testing"

	"mocheck/internal/source"
	"mocheck/internal/token"
)

func TestCommentTriviaShape(t *testing.T) {
	tv := token.Trivia{
		Kind: token.TriviaLineComment,
		Span: source.Span{Start: 0, End: 10},
		Text: "// comment",
	}
	tk := token.Token{
		Kind:    token.KwModel,
		Span:    source.Span{Start: 11, End: 16},
		Text:    "model",
		Leading: []token.Trivia{tv},
	}
	if len(tk.Leading) != 1 || tk.Leading[0].Kind != token.TriviaLineComment {
		t.Fatalf("comment trivia must be attached to the next token")
	}
	if tv.Kind.String() != "LineComment" {
		t.Fatalf("TriviaKind.String() = %q", tv.Kind.String())
	}
}
