package lox

import (
	"bytes"
	"testing"
)

func parseSource(t *testing.T, src string) ([]Stmt, *ErrorReporter) {
	t.Helper()
	var buf bytes.Buffer
	reporter := NewErrorReporter(&buf)
	scanner := NewScanner(src, reporter)
	parser := NewParser(scanner.ScanTokens(), reporter)
	return parser.Parse(), reporter
}

func TestParseVarDeclaration(t *testing.T) {
	stmts, reporter := parseSource(t, `var a = 1 + 2;`)
	if reporter.HadStaticError() {
		t.Fatal("unexpected static error")
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	v, ok := stmts[0].(*VarStmt)
	if !ok {
		t.Fatalf("expected *VarStmt, got %T", stmts[0])
	}
	if v.Name.Lexeme != "a" {
		t.Errorf("expected name 'a', got %q", v.Name.Lexeme)
	}
	if _, ok := v.Initializer.(*BinaryExpr); !ok {
		t.Errorf("expected initializer to be a *BinaryExpr, got %T", v.Initializer)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, reporter := parseSource(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	if reporter.HadStaticError() {
		t.Fatal("unexpected static error")
	}
	if len(stmts) != 1 {
		t.Fatalf("expected the for-loop to desugar to 1 wrapping block, got %d statements", len(stmts))
	}
	block, ok := stmts[0].(*BlockStmt)
	if !ok {
		t.Fatalf("expected *BlockStmt wrapping the initializer and loop, got %T", stmts[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected [initializer, while], got %d statements", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*VarStmt); !ok {
		t.Errorf("expected first statement to be the initializer VarStmt, got %T", block.Statements[0])
	}
	whileStmt, ok := block.Statements[1].(*WhileStmt)
	if !ok {
		t.Fatalf("expected second statement to be *WhileStmt, got %T", block.Statements[1])
	}
	body, ok := whileStmt.Body.(*BlockStmt)
	if !ok {
		t.Fatalf("expected while body to be a block (original body + increment), got %T", whileStmt.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("expected [print i, increment], got %d statements", len(body.Statements))
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	stmts, reporter := parseSource(t, `class B < A { greet() { return nil; } }`)
	if reporter.HadStaticError() {
		t.Fatal("unexpected static error")
	}
	class, ok := stmts[0].(*ClassStmt)
	if !ok {
		t.Fatalf("expected *ClassStmt, got %T", stmts[0])
	}
	if class.Superclass == nil || class.Superclass.Name.Lexeme != "A" {
		t.Fatalf("expected superclass A, got %v", class.Superclass)
	}
	if len(class.Methods) != 1 || class.Methods[0].Name.Lexeme != "greet" {
		t.Fatalf("expected one method named greet, got %v", class.Methods)
	}
}

func TestParseInvalidAssignmentTargetReportsErrorWithoutAborting(t *testing.T) {
	stmts, reporter := parseSource(t, `1 + 2 = 3; print "still parsed";`)
	if !reporter.HadStaticError() {
		t.Fatal("expected an invalid assignment target to report a static error")
	}
	if len(stmts) != 2 {
		t.Fatalf("parsing should continue after reporting, got %d statements", len(stmts))
	}
	if _, ok := stmts[1].(*PrintStmt); !ok {
		t.Errorf("expected the following statement to still parse, got %T", stmts[1])
	}
}

func TestParseMissingClosingParenSynchronizes(t *testing.T) {
	stmts, reporter := parseSource(t, "fun broken( { print 1; } var ok = 2;")
	if !reporter.HadStaticError() {
		t.Fatal("expected a static error from the malformed function declaration")
	}
	found := false
	for _, s := range stmts {
		if v, ok := s.(*VarStmt); ok && v.Name.Lexeme == "ok" {
			found = true
		}
	}
	if !found {
		t.Error("expected synchronize() to recover and still parse the trailing var declaration")
	}
}
