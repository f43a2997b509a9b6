package lox

// Parser is a single-token-lookahead recursive-descent parser. Grammar
// precedence runs low to high through the expression methods below, from
// assignment down to primary, and matches spec.md §4.2.
type Parser struct {
	tokens  []Token
	current int
	errs    *ErrorReporter
	ids     idGen
}

// NewParser creates a Parser over tokens, reporting static errors into
// reporter.
func NewParser(tokens []Token, reporter *ErrorReporter) *Parser {
	return &Parser{tokens: tokens, errs: reporter}
}

// parseError unwinds a single declaration() call via panic/recover; it is
// never allowed to escape Parse. This plays the role the reference
// implementation gives a ParseError exception, scoped to this package.
type parseError struct{}

// Parse parses a full program: declaration* EOF. On a parse error within
// a declaration, it synchronizes and continues, collecting further
// diagnostics rather than aborting (spec.md §4.2 "Error recovery").
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.atEnd() {
		if d := p.declaration(); d != nil {
			stmts = append(stmts, d)
		}
	}
	return stmts
}

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(CLASS):
		return p.classDecl()
	case p.match(FUN):
		return p.function("function")
	case p.match(VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() Stmt {
	name := p.consume(IDENTIFIER, "Expect class name.")

	var superclass *VariableExpr
	if p.match(LESS) {
		p.consume(IDENTIFIER, "Expect superclass name.")
		superclass = &VariableExpr{NID: p.ids.next_(), Name: p.previous()}
	}

	p.consume(LEFT_BRACE, "Expect '{' before class body.")

	var methods []*FunctionStmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		methods = append(methods, p.function("method").(*FunctionStmt))
	}

	p.consume(RIGHT_BRACE, "Expect '}' after class body.")

	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) Stmt {
	name := p.consume(IDENTIFIER, "Expect "+kind+" name.")
	p.consume(LEFT_PAREN, "Expect '(' after "+kind+" name.")

	var params []Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(IDENTIFIER, "Expect parameter name."))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() Stmt {
	name := p.consume(IDENTIFIER, "Expect variable name.")

	var init Expr
	if p.match(EQUAL) {
		init = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Initializer: init}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(FOR):
		return p.forStmt()
	case p.match(IF):
		return p.ifStmt()
	case p.match(PRINT):
		return p.printStmt()
	case p.match(RETURN):
		return p.returnStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(LEFT_BRACE):
		return &BlockStmt{Statements: p.block()}
	default:
		return p.exprStmt()
	}
}

// forStmt desugars `for (init; cond; inc) body` into a Block containing
// init followed by a While whose body is Block{body, inc}, so the
// increment and body share the initializer's scope (spec.md §4.2).
func (p *Parser) forStmt() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(SEMICOLON):
		initializer = nil
	case p.match(VAR):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition Expr
	if !p.check(SEMICOLON) {
		condition = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expr: increment}}}
	}

	if condition == nil {
		condition = &LiteralExpr{NID: p.ids.next_(), Value: true}
	}
	body = &WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}}
	}

	return body
}

func (p *Parser) ifStmt() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch = p.statement()
	}
	return &IfStmt{Condition: cond, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) printStmt() Stmt {
	value := p.expression()
	p.consume(SEMICOLON, "Expect ';' after value.")
	return &PrintStmt{Expr: value}
}

func (p *Parser) returnStmt() Stmt {
	keyword := p.previous()
	var value Expr
	if !p.check(SEMICOLON) {
		value = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after return value.")
	return &ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) whileStmt() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return &WhileStmt{Condition: cond, Body: body}
}

func (p *Parser) exprStmt() Stmt {
	expr := p.expression()
	p.consume(SEMICOLON, "Expect ';' after expression.")
	return &ExpressionStmt{Expr: expr}
}

func (p *Parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		stmts = append(stmts, p.declaration())
	}
	p.consume(RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

// expression := assignment
func (p *Parser) expression() Expr {
	return p.assignment()
}

// assignment := ( call "." )? IDENT "=" assignment | logic_or
func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.match(EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{NID: p.ids.next_(), Name: target.Name, Value: value}
		case *GetExpr:
			return &SetExpr{NID: p.ids.next_(), Object: target.Object, Name: target.Name, Value: value}
		}

		p.errorAt(equals, "Invalid assignment target.")
	}

	return expr
}

func (p *Parser) or() Expr {
	expr := p.and()
	for p.match(OR) {
		op := p.previous()
		right := p.and()
		expr = &LogicExpr{NID: p.ids.next_(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) and() Expr {
	expr := p.equality()
	for p.match(AND) {
		op := p.previous()
		right := p.equality()
		expr = &LogicExpr{NID: p.ids.next_(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.match(BANG_EQUAL, EQUAL_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &BinaryExpr{NID: p.ids.next_(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.addition()
	for p.match(GREATER, GREATER_EQUAL, LESS, LESS_EQUAL) {
		op := p.previous()
		right := p.addition()
		expr = &BinaryExpr{NID: p.ids.next_(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) addition() Expr {
	expr := p.multiplication()
	for p.match(MINUS, PLUS) {
		op := p.previous()
		right := p.multiplication()
		expr = &BinaryExpr{NID: p.ids.next_(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) multiplication() Expr {
	expr := p.modulo()
	for p.match(STAR, SLASH) {
		op := p.previous()
		right := p.modulo()
		expr = &BinaryExpr{NID: p.ids.next_(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) modulo() Expr {
	expr := p.unary()
	for p.match(PERCENT) {
		op := p.previous()
		right := p.unary()
		expr = &BinaryExpr{NID: p.ids.next_(), Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(BANG, MINUS) {
		op := p.previous()
		right := p.unary()
		return &UnaryExpr{NID: p.ids.next_(), Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(DOT):
			name := p.consume(IDENTIFIER, "Expect property name after '.'.")
			expr = &GetExpr{NID: p.ids.next_(), Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(RIGHT_PAREN) {
		for {
			if len(args) >= 255 {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren := p.consume(RIGHT_PAREN, "Expect ')' after arguments.")
	return &CallExpr{NID: p.ids.next_(), Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(FALSE):
		return &LiteralExpr{NID: p.ids.next_(), Value: false}
	case p.match(TRUE):
		return &LiteralExpr{NID: p.ids.next_(), Value: true}
	case p.match(NIL):
		return &LiteralExpr{NID: p.ids.next_(), Value: nil}
	case p.match(NUMBER, STRING):
		return &LiteralExpr{NID: p.ids.next_(), Value: p.previous().Literal}
	case p.match(SUPER):
		keyword := p.previous()
		p.consume(DOT, "Expect '.' after 'super'.")
		method := p.consume(IDENTIFIER, "Expect superclass method name.")
		return &SuperExpr{NID: p.ids.next_(), Keyword: keyword, Method: method}
	case p.match(THIS):
		return &ThisExpr{NID: p.ids.next_(), Keyword: p.previous()}
	case p.match(IDENTIFIER):
		return &VariableExpr{NID: p.ids.next_(), Name: p.previous()}
	case p.match(LEFT_PAREN):
		inner := p.expression()
		p.consume(RIGHT_PAREN, "Expect ')' after expression.")
		return &GroupingExpr{NID: p.ids.next_(), Inner: inner}
	}

	p.errorAt(p.peek(), "Expect expression.")
	panic(parseError{})
}

// --- token-stream helpers ---

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(typ TokenType, message string) Token {
	if p.check(typ) {
		return p.advance()
	}
	p.errorAt(p.peek(), message)
	panic(parseError{})
}

func (p *Parser) check(typ TokenType) bool {
	return !p.atEnd() && p.peek().Type == typ
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) errorAt(tok Token, message string) {
	p.errs.TokenError(tok, message)
}

// synchronize discards tokens until it reaches a likely statement
// boundary, so one bad declaration doesn't cascade into spurious errors
// for everything after it (spec.md §4.2 "Error recovery").
func (p *Parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}

		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}

		p.advance()
	}
}
