// Package fuzztests houses Go fuzz harnesses that exercise the notation
// pipeline (source -> lexer -> parser -> lower). Its goal is to smoke test
// robustness and guard against panics, hangs and invariant violations on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и построитель модели.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/lower,
// internal/diag, internal/ast, internal/testkit.

package fuzztests
