// Package token defines lexical token kinds and trivia for Modelica sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Keywords are case sensitive; "Model" is an identifier.
//   - Quoted identifiers ('a b') are Ident tokens whose Text keeps the quotes.
//   - Comments and whitespace never appear in the main token stream; they are
//     attached to the following token as leading Trivia.
//   - Built-in names (Real, Integer, Boolean, String, time) are identifiers.
package token
