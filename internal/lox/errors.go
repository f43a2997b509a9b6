package lox

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ErrorReporter is the diagnostic sink threaded through the scanner,
// parser, resolver, and interpreter. It replaces the pair of
// process-global booleans the reference implementation uses (spec
// redesign note: globals don't survive embedding two interpreters in one
// process, e.g. the REPL and the conformance harness side by side).
type ErrorReporter struct {
	out           io.Writer
	static        bool
	runtime       bool
	staticColor   *color.Color
	runtimeColor  *color.Color
}

// NewErrorReporter creates a reporter that writes colorized diagnostics
// to out. Color is automatically suppressed by fatih/color when out is
// not a terminal, so piping a script's stderr to a golden file stays
// stable.
func NewErrorReporter(out io.Writer) *ErrorReporter {
	return &ErrorReporter{
		out:          out,
		staticColor:  color.New(color.FgRed),
		runtimeColor: color.New(color.FgRed, color.Bold),
	}
}

// HadStaticError reports whether a scan, parse or resolve error has been recorded
// since construction or the last Reset.
func (r *ErrorReporter) HadStaticError() bool { return r.static }

// HadRuntimeError reports whether a runtime error has been recorded
// since construction or the last Reset.
func (r *ErrorReporter) HadRuntimeError() bool { return r.runtime }

// Reset clears both flags; the REPL calls this between lines so that one
// bad line doesn't poison the ones that follow it (spec.md §6).
func (r *ErrorReporter) Reset() {
	r.static = false
	r.runtime = false
}

// ScanError reports a lexical error at the given line.
func (r *ErrorReporter) ScanError(line int, message string) {
	r.reportStatic(line, "", message)
}

// TokenError reports a static (parser or resolver) error located at tok.
func (r *ErrorReporter) TokenError(tok Token, message string) {
	if tok.Type == EOF {
		r.reportStatic(tok.Line, " at end", message)
	} else {
		r.reportStatic(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), message)
	}
}

func (r *ErrorReporter) reportStatic(line int, where, message string) {
	r.static = true
	r.staticColor.Fprintf(r.out, "[line %d] Error%s: %s\n", line, where, message)
}

// RuntimeError reports a fatal runtime error, attaching the line of the
// token that triggered it.
func (r *ErrorReporter) RuntimeError(tok Token, message string) {
	r.runtime = true
	r.runtimeColor.Fprintf(r.out, "%s\n[line %d]\n", message, tok.Line)
}

// runtimeError is an internal Go error carrying the Lox token responsible,
// so the evaluator can unwind the call stack before it is reported.
type runtimeError struct {
	Token   Token
	Message string
}

func (e *runtimeError) Error() string { return e.Message }

func newRuntimeError(tok Token, format string, args ...any) *runtimeError {
	return &runtimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
