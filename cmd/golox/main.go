// Command golox runs Lox scripts, or starts an interactive REPL when
// invoked with no arguments.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sdecook/golox/internal/lox"
)

func main() {
	switch len(os.Args) {
	case 1:
		runPrompt()
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintln(os.Stderr, "Usage: golox [script]")
		os.Exit(64)
	}
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read file %q: %v\n", path, err)
		return 74
	}
	return lox.RunFile(string(source), os.Stdout, os.Stderr, os.Stdin)
}

// runPrompt implements spec.md §6's REPL mode: read a line, run it
// against a persistent Interpreter, reset the ErrorReporter, repeat.
// A static or runtime error is reported but never ends the session.
func runPrompt() {
	prompt := color.New(color.FgCyan, color.Bold)
	reporter := lox.NewErrorReporter(os.Stderr)
	interp := lox.NewInterpreter(os.Stdout, os.Stdin, reporter)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		prompt.Fprint(os.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return
		}
		lox.Run(scanner.Text(), interp, reporter)
		reporter.Reset()
	}
}
