package lox

// FunctionType tracks what kind of function body the resolver is
// currently inside, so a misplaced `return` can be caught statically
// (spec.md §4.3). `this`/`super` misuse is tracked by ClassType.
type FunctionType int

const (
	FunctionTypeNone FunctionType = iota
	FunctionTypeFunction
	FunctionTypeInitializer
	FunctionTypeMethod
)

// ClassType tracks whether the resolver is inside a class body, and
// whether that class has a superclass.
type ClassType int

const (
	ClassTypeNone ClassType = iota
	ClassTypeClass
	ClassTypeSubclass
)

// Resolver is the static pre-pass that computes, for every variable
// reference, how many environment frames up the interpreter must walk to
// find its binding. It never evaluates anything; it only tracks which
// names are declared in which lexical scope.
type Resolver struct {
	locals      map[NodeID]int
	scopes      []map[string]bool
	funcType    FunctionType
	classType   ClassType
	errs        *ErrorReporter
}

// NewResolver creates a Resolver reporting static errors into reporter.
func NewResolver(reporter *ErrorReporter) *Resolver {
	return &Resolver{
		locals: make(map[NodeID]int),
		errs:   reporter,
	}
}

// Locals returns the distance side-table computed by Resolve. The
// interpreter consults it by NodeID at every Variable/This/Super/Assign
// evaluation.
func (r *Resolver) Locals() map[NodeID]int { return r.locals }

// Resolve walks every top-level statement.
func (r *Resolver) Resolve(stmts []Stmt) {
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		r.resolveExpr(s.Expr)
	case *PrintStmt:
		r.resolveExpr(s.Expr)
	case *VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, FunctionTypeFunction)
	case *ReturnStmt:
		if r.funcType == FunctionTypeNone {
			r.errs.TokenError(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.funcType == FunctionTypeInitializer {
				r.errs.TokenError(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ClassStmt:
		r.resolveClass(s)
	default:
		panic("lox: resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(s *ClassStmt) {
	enclosingClass := r.classType
	r.classType = ClassTypeClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Name.Lexeme == s.Superclass.Name.Lexeme {
			r.errs.TokenError(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.classType = ClassTypeSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		fnType := FunctionTypeMethod
		if method.Name.Lexeme == "init" {
			fnType = FunctionTypeInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.classType = enclosingClass
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, typ FunctionType) {
	enclosingFunc := r.funcType
	r.funcType = typ

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.funcType = enclosingFunc
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.errs.TokenError(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.ID(), e.Name.Lexeme)
	case *AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.ID(), e.Name.Lexeme)
	case *BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *LogicExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *UnaryExpr:
		r.resolveExpr(e.Right)
	case *GroupingExpr:
		r.resolveExpr(e.Inner)
	case *LiteralExpr:
		// nothing to resolve
	case *CallExpr:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *GetExpr:
		r.resolveExpr(e.Object)
	case *SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ThisExpr:
		if r.classType == ClassTypeNone {
			r.errs.TokenError(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.ID(), e.Keyword.Lexeme)
	case *SuperExpr:
		switch {
		case r.classType == ClassTypeNone:
			r.errs.TokenError(e.Keyword, "Can't use 'super' outside of a class.")
		case r.classType != ClassTypeSubclass:
			r.errs.TokenError(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e.ID(), e.Keyword.Lexeme)
	default:
		panic("lox: resolver: unhandled expression type")
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.errs.TokenError(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(id NodeID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any local scope: it's global, left absent from the table
}
