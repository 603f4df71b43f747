// Package diag defines the diagnostic model shared by the lexer, the parser
// and the lowering pass.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings about a
//     notation file (unknown characters, malformed layers, missing completion
//     markers, structural violations of the AST).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt; turning an error diagnostic into a Go error value is done
// by the parser (SyntaxError) and the lowering pass (StructuralError).
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – numeric identifier with a stable string form (LEX1001, SYN2002,
//     STR3001, IO4001, PRJ5001).
//   - Message – short, actionable text.
//   - Primary span – the source.Span of the offending characters.
//   - Notes – optional secondary spans, e.g. where an unclosed '[' opened.
//
// # Emitting diagnostics
//
// Phases call Reporter.Report directly or build a diagnostic with
// ReportError(...).WithNote(...).Emit(). BagReporter aggregates diagnostics
// into a Bag, which supports sorting and deduplication.
package diag
