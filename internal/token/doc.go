// Package token defines lexical token kinds for the marble notation.
// Invariants:
//   - Token.Text is a copy of the source bytes covered by Token.Span.
//   - Token.Span matches Text exactly (Start..End).
//   - A run of spaces is one Space token; its length is significant because
//     every character of a notation line advances the diagram position.
//   - Description tokens only appear directly after LBracket.
//   - Newline is a real token: it terminates a layer.
package token
