package lox

import (
	"bytes"
	"strings"
	"testing"
)

func runSource(t *testing.T, src string) (stdout string, reporter *ErrorReporter) {
	t.Helper()
	var out bytes.Buffer
	rep := NewErrorReporter(&out)
	interp := NewInterpreter(&out, strings.NewReader(""), rep)
	Run(src, interp, rep)
	return out.String(), rep
}

func TestInterpretClosureCapturesByReference(t *testing.T) {
	out, reporter := runSource(t, `
var a = "global";
{ fun show() { print a; } show(); var a = "block"; show(); }
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	if out != "global\nglobal\n" {
		t.Errorf("got %q, want %q", out, "global\nglobal\n")
	}
}

func TestInterpretMethodBindingAndThis(t *testing.T) {
	out, reporter := runSource(t, `
class Egotist { speak() { print this; } }
var e = Egotist(); e.speak();
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	if out != "Egotist <instance>\n" {
		t.Errorf("got %q", out)
	}
}

func TestInterpretSuperDispatch(t *testing.T) {
	out, reporter := runSource(t, `
class A { greet() { print "A"; } }
class B < A { greet() { super.greet(); print "B"; } }
B().greet();
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	if out != "A\nB\n" {
		t.Errorf("got %q", out)
	}
}

func TestInterpretInitializerAlwaysReturnsThis(t *testing.T) {
	out, reporter := runSource(t, `
class C { init() { return; } }
print C();
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	if out != "C <instance>\n" {
		t.Errorf("got %q", out)
	}
}

func TestInterpretForLoopWithIncrement(t *testing.T) {
	out, reporter := runSource(t, `
for (var i = 0; i < 3; i = i + 1) { print i; }
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	if out != "0\n1\n2\n" {
		t.Errorf("got %q", out)
	}
}

func TestInterpretBadOperandIsRuntimeError(t *testing.T) {
	_, reporter := runSource(t, `print "a" - 1;`)
	if !reporter.HadRuntimeError() {
		t.Fatal("expected a runtime error subtracting from a string")
	}
}

func TestInterpretEmptyProgramIsNoop(t *testing.T) {
	out, reporter := runSource(t, ``)
	if reporter.HadStaticError() || reporter.HadRuntimeError() {
		t.Fatal("an empty program should not report any error")
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestInterpretAndOrReturnOperandValueNotBool(t *testing.T) {
	out, reporter := runSource(t, `
print nil and "unreached";
print "left" or "unreached";
print false or "fallback";
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	want := "Nil\nleft\nfallback\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInterpretForLoopGivesEachIterationItsOwnBinding(t *testing.T) {
	out, reporter := runSource(t, `
fun makeAdder(n) { fun add(x) { return x + n; } return add; }
var adders = makeAdder(1);
for (var i = 10; i < 12; i = i + 1) {
  var a = makeAdder(i);
  print a(0);
}
print adders(0);
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	if out != "10\n11\n1\n" {
		t.Errorf("got %q", out)
	}
}

func TestInterpretRuntimeErrorUndefinedVariable(t *testing.T) {
	_, reporter := runSource(t, `print undeclared;`)
	if !reporter.HadRuntimeError() {
		t.Fatal("expected reading an undefined global to be a runtime error")
	}
}

func TestInterpretFieldShadowsMethod(t *testing.T) {
	out, reporter := runSource(t, `
class Box {
  init(v) { this.v = v; }
  v() { return "method"; }
}
var b = Box(10);
print b.v;
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	if out != "10\n" {
		t.Errorf("a field should shadow a same-named method, got %q", out)
	}
}

func TestInterpretModuloSignMatchesDivisor(t *testing.T) {
	out, reporter := runSource(t, `
print 7 % 3;
print -7 % 3;
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	if out != "1\n2\n" {
		t.Errorf("got %q", out)
	}
}

func TestInterpretPermissiveStringNumberConcatenation(t *testing.T) {
	out, reporter := runSource(t, `
print "count: " + 3;
print 3 + " items";
`)
	if reporter.HadRuntimeError() || reporter.HadStaticError() {
		t.Fatal("unexpected error")
	}
	want := "count: 3\n3 items\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
