package conformance

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const width = 100

var divider = strings.Repeat("-", width)

// Diff renders expected vs. actual stdout side by side, the way the
// teacher's standalone test runner printed stdout mismatches, for use
// from a failing *testing.T.
func Diff(name string, expected, actual Result) string {
	var b strings.Builder

	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "  [%s] %s\n", color.RedString("failed"), name)

	if expected.ExitCode != actual.ExitCode {
		fmt.Fprintf(&b, "expected exit code %d, got %d\n", expected.ExitCode, actual.ExitCode)
	}

	if expected.Stdout != actual.Stdout {
		spacing := strings.Repeat(" ", (width/2)-len("expected stdout"))
		fmt.Fprintf(&b, "expected stdout%sactual stdout\n", spacing)
		printDiff(&b, expected.Stdout, actual.Stdout)
	}

	fmt.Fprintln(&b, divider)
	return b.String()
}

func printDiff(b *strings.Builder, expected, actual string) {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	max := len(expectedLines)
	if len(actualLines) > max {
		max = len(actualLines)
	}

	for i := 0; i < max; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		pad := (width / 2) - len(e)
		if pad < 1 {
			pad = 1
		}
		fmt.Fprintf(b, "%s%s%s\n", e, strings.Repeat(" ", pad), a)
	}
}
