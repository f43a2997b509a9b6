package conformance

import (
	"bytes"
	"os"

	"github.com/sdecook/golox/internal/lox"
)

// Result is what actually happened running a Case's script.
type Result struct {
	Stdout   string
	ExitCode int
}

// Run executes c's script in-process through internal/lox.RunFile,
// capturing stdout and discarding the stderr diagnostic stream (the
// golden files here assert on program output and exit status, not
// diagnostic text — error-case scripts only assert the exit code).
func Run(c Case) (Result, error) {
	source, err := os.ReadFile(c.ScriptPath)
	if err != nil {
		return Result{}, err
	}

	var stdout bytes.Buffer
	exitCode := lox.RunFile(string(source), &stdout, &bytes.Buffer{}, bytes.NewReader(nil))

	return Result{Stdout: stdout.String(), ExitCode: exitCode}, nil
}
