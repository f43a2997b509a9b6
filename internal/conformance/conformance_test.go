package conformance

import "testing"

// TestScripts runs every *.lox fixture under testdata/scripts against
// the interpreter and checks its captured stdout and exit code against
// the sibling *.out (and optional *.exit) golden files.
func TestScripts(t *testing.T) {
	suites, err := Discover("../../testdata/scripts")
	if err != nil {
		t.Fatalf("discovering suites: %v", err)
	}
	if len(suites) == 0 {
		t.Fatal("no conformance suites found under testdata/scripts")
	}

	for _, suite := range suites {
		suite := suite
		t.Run(suite.Name, func(t *testing.T) {
			for _, c := range suite.Cases {
				c := c
				t.Run(c.Name, func(t *testing.T) {
					actual, err := Run(c)
					if err != nil {
						t.Fatalf("running %s: %v", c.ScriptPath, err)
					}

					expected := Result{Stdout: c.ExpectStdout, ExitCode: c.ExpectExit}
					if actual.Stdout != expected.Stdout || actual.ExitCode != expected.ExitCode {
						t.Error(Diff(c.Name, expected, actual))
					}
				})
			}
		})
	}
}
