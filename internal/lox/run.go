package lox

import "io"

// Run drives the scan → parse → resolve → interpret pipeline against
// source, reusing interp and its ErrorReporter across calls so a REPL
// can keep global state (and so reporter.Reset() between lines behaves
// exactly as spec.md §6 describes).
//
// An empty (zero-statement) program resolves and interprets as a no-op
// rather than being special-cased — spec.md §9's Open Question, resolved
// in SPEC_FULL.md §5 against statement[0]-inspecting behavior in the
// original implementation.
func Run(source string, interp *Interpreter, reporter *ErrorReporter) {
	scanner := NewScanner(source, reporter)
	tokens := scanner.ScanTokens()

	parser := NewParser(tokens, reporter)
	stmts := parser.Parse()

	if reporter.HadStaticError() {
		return
	}

	resolver := NewResolver(reporter)
	resolver.Resolve(stmts)

	if reporter.HadStaticError() {
		return
	}

	interp.SetLocals(resolver.Locals())
	interp.Interpret(stmts)
}

// RunFile runs the script text in source to completion against a fresh
// Interpreter (reading the file is left to the caller), and reports the exit status spec.md §6 specifies for
// file mode: 65 on a static (scan/parse/resolve) error, 70 on a runtime
// error, 0 otherwise. Diagnostics go to stderr; `print` output and
// `read` prompts go to stdout/stdin.
func RunFile(source string, stdout io.Writer, stderr io.Writer, stdin io.Reader) int {
	reporter := NewErrorReporter(stderr)
	interp := NewInterpreter(stdout, stdin, reporter)

	Run(source, interp, reporter)

	switch {
	case reporter.HadStaticError():
		return 65
	case reporter.HadRuntimeError():
		return 70
	default:
		return 0
	}
}
