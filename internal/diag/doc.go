// Package diag defines the diagnostic model shared by the lexer, the parser
// and the batch driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with stable string form.
//     LEX codes come from the lexer, SYN codes from the parser. Both count as
//     syntax errors of a file.
//   - Message: human oriented text; keep it short and actionable.
//   - Primary span: the source.Span pointing to the issue.
//   - Notes: optional secondary spans/messages, e.g. "class opened here".
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage. The parser
// constructs a ReportBuilder via ReportError and chains WithNote before
// calling Emit. BagReporter aggregates diagnostics into a Bag, which keeps an
// exact error count even after its capacity is exhausted.
//
// Package diag does no terminal rendering; that lives in internal/diagfmt.
// The one exception is the short line format in golden.go, which tests and the
// CLI share.
package diag
