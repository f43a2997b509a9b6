package lox

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// completion is the disjoint result of executing a statement: either it
// ran to normal completion, or it carries a `return` value that should
// propagate up to the nearest enclosing function call. spec.md §9 asks
// for exactly this instead of conflating non-local return with error
// propagation (the reference implementation throws an exception for
// both).
type completion struct {
	isReturn bool
	value    Value
}

var normalCompletion = completion{}

func returnCompletion(v Value) completion {
	return completion{isReturn: true, value: v}
}

// Interpreter walks a resolved AST, evaluating statements for effect and
// expressions for value. It owns the global environment and the
// currently active environment chain; both outlive any single
// Interpret call so the REPL can keep state across lines.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	locals  map[NodeID]int
	errs    *ErrorReporter
	stdout  io.Writer
}

// NewInterpreter creates an Interpreter writing `print` output to stdout
// and reporting runtime errors into reporter. stdin feeds the `read`
// built-in.
func NewInterpreter(stdout io.Writer, stdin io.Reader, reporter *ErrorReporter) *Interpreter {
	globals := NewEnvironment(nil)
	bufOut := bufio.NewWriter(stdout)
	defineBuiltins(globals, bufOut, bufio.NewReader(stdin))

	return &Interpreter{
		Globals: globals,
		env:     globals,
		locals:  make(map[NodeID]int),
		errs:    reporter,
		stdout:  stdout,
	}
}

// SetLocals installs the resolver's side-table. Must be called after
// resolution and before Interpret.
func (in *Interpreter) SetLocals(locals map[NodeID]int) {
	in.locals = locals
}

// Interpret runs statements in order. A runtime error aborts the current
// program (or REPL line) and is reported through the ErrorReporter; it
// is not returned to the caller beyond that, matching spec.md §7's
// "fatal to the current program/REPL line" rule.
func (in *Interpreter) Interpret(stmts []Stmt) {
	for _, s := range stmts {
		comp, err := in.execute(s, in.env)
		if err != nil {
			in.reportRuntimeError(err)
			return
		}
		if comp.isReturn {
			// A top-level `return` is caught as a static error by the
			// resolver; reaching here would mean resolution was skipped.
			return
		}
	}
}

func (in *Interpreter) reportRuntimeError(err error) {
	re := err.(*runtimeError)
	in.errs.RuntimeError(re.Token, re.Message)
}

// execute runs one statement in env, the currently active frame.
func (in *Interpreter) execute(stmt Stmt, env *Environment) (completion, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := in.evaluate(s.Expr)
		return normalCompletion, err

	case *PrintStmt:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return normalCompletion, err
		}
		fmt.Fprintln(in.stdout, stringify(v))
		return normalCompletion, nil

	case *VarStmt:
		var value Value
		if s.Initializer != nil {
			v, err := in.evaluate(s.Initializer)
			if err != nil {
				return normalCompletion, err
			}
			value = v
		}
		env.Define(s.Name.Lexeme, value)
		return normalCompletion, nil

	case *BlockStmt:
		return in.executeBlock(s.Statements, NewEnvironment(env))

	case *IfStmt:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return normalCompletion, err
		}
		if IsTruthy(cond) {
			return in.execute(s.Then, env)
		}
		if s.Else != nil {
			return in.execute(s.Else, env)
		}
		return normalCompletion, nil

	case *WhileStmt:
		for {
			cond, err := in.evaluate(s.Condition)
			if err != nil {
				return normalCompletion, err
			}
			if !IsTruthy(cond) {
				return normalCompletion, nil
			}
			comp, err := in.execute(s.Body, env)
			if err != nil || comp.isReturn {
				return comp, err
			}
		}

	case *FunctionStmt:
		fn := &UserFunction{declaration: s, closure: env}
		env.Define(s.Name.Lexeme, fn)
		return normalCompletion, nil

	case *ReturnStmt:
		var value Value
		if s.Value != nil {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return normalCompletion, err
			}
			value = v
		}
		return returnCompletion(value), nil

	case *ClassStmt:
		return in.executeClass(s, env)

	default:
		panic("lox: interpreter: unhandled statement type")
	}
}

// executeBlock temporarily makes env the active frame, runs stmts in
// order, and restores the previous frame on every exit path — normal
// completion, a propagating return, or a runtime error (spec.md §4.5,
// §5 "Scoped acquisition").
func (in *Interpreter) executeBlock(stmts []Stmt, env *Environment) (completion, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range stmts {
		comp, err := in.execute(s, env)
		if err != nil || comp.isReturn {
			return comp, err
		}
	}
	return normalCompletion, nil
}

func (in *Interpreter) executeClass(s *ClassStmt, env *Environment) (completion, error) {
	var superclass *Class
	if s.Superclass != nil {
		v, err := in.evaluate(s.Superclass)
		if err != nil {
			return normalCompletion, err
		}
		sc, ok := v.(*Class)
		if !ok {
			return normalCompletion, newRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	env.Define(s.Name.Lexeme, nil)

	classEnv := env
	if s.Superclass != nil {
		classEnv = NewEnvironment(env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*UserFunction, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &UserFunction{
			declaration:   m,
			closure:       classEnv,
			isInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}

	if err := env.Assign(s.Name, class); err != nil {
		return normalCompletion, err
	}
	return normalCompletion, nil
}

// evaluate computes the value of an expression. Binary operands, logic
// operands, and call arguments are always evaluated left before right
// (spec.md §5 "Ordering") since user callables may have side effects.
func (in *Interpreter) evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil

	case *GroupingExpr:
		return in.evaluate(e.Inner)

	case *UnaryExpr:
		return in.evalUnary(e)

	case *BinaryExpr:
		return in.evalBinary(e)

	case *LogicExpr:
		return in.evalLogic(e)

	case *VariableExpr:
		return in.lookupVariable(e.Name, e.ID())

	case *AssignExpr:
		return in.evalAssign(e)

	case *CallExpr:
		return in.evalCall(e)

	case *GetExpr:
		return in.evalGet(e)

	case *SetExpr:
		return in.evalSet(e)

	case *ThisExpr:
		return in.lookupVariable(e.Keyword, e.ID())

	case *SuperExpr:
		return in.evalSuper(e)

	default:
		panic("lox: interpreter: unhandled expression type")
	}
}

func (in *Interpreter) lookupVariable(name Token, id NodeID) (Value, error) {
	if distance, ok := in.locals[id]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}
	return in.Globals.Get(name)
}

func (in *Interpreter) evalUnary(e *UnaryExpr) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case BANG:
		return !IsTruthy(right), nil
	case MINUS:
		n, ok := right.(float64)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operand must be a number.")
		}
		return -n, nil
	}
	panic("lox: interpreter: unhandled unary operator")
}

func (in *Interpreter) evalBinary(e *BinaryExpr) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case PLUS:
		return evalPlus(e.Op, left, right)
	case MINUS:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case STAR:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case SLASH:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l / r, nil
	case PERCENT:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return mathMod(l, r), nil
	case GREATER:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l > r, nil
	case GREATER_EQUAL:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l >= r, nil
	case LESS:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l < r, nil
	case LESS_EQUAL:
		l, r, err := numberOperands(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l <= r, nil
	case EQUAL_EQUAL:
		return valuesEqual(left, right), nil
	case BANG_EQUAL:
		return !valuesEqual(left, right), nil
	}
	panic("lox: interpreter: unhandled binary operator")
}

// evalPlus implements spec.md §4.5's permissive `+`: two numbers add,
// and any mix of string/number (but not two bare numbers, handled above)
// concatenates via stringification — the Open Question in spec.md §9
// that this implementation resolves in favor of the permissive
// behavior, matching the reference implementation.
func evalPlus(op Token, left, right Value) (Value, error) {
	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if lok && rok {
		return ln + rn, nil
	}

	_, lIsStr := left.(string)
	_, rIsStr := right.(string)
	if (lIsStr && (rIsStr || rok)) || (rIsStr && lok) {
		return stringify(left) + stringify(right), nil
	}

	return nil, newRuntimeError(op, "Operators must be two numbers or strings.")
}

func numberOperands(op Token, left, right Value) (float64, float64, error) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, newRuntimeError(op, "Operands must be numbers.")
	}
	return l, r, nil
}

// mathMod is floating-point modulo with the sign of the divisor,
// matching Python's `%` (what original_source/Lox/Interpreter.py's
// MODULO case evaluates to on two floats).
func mathMod(a, b float64) float64 {
	return a - b*math.Floor(a/b)
}

func (in *Interpreter) evalLogic(e *LogicExpr) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Op.Type == OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else {
		if !IsTruthy(left) {
			return left, nil
		}
	}

	return in.evaluate(e.Right)
}

func (in *Interpreter) evalAssign(e *AssignExpr) (Value, error) {
	value, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := in.locals[e.ID()]; ok {
		in.env.AssignAt(distance, e.Name.Lexeme, value)
	} else if err := in.Globals.Assign(e.Name, value); err != nil {
		return nil, err
	}

	return value, nil
}

func (in *Interpreter) evalCall(e *CallExpr) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(e.Paren, "Can only call functions and classes.")
	}

	if len(args) != fn.Arity() {
		return nil, newRuntimeError(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	return fn.Call(in, args)
}

func (in *Interpreter) evalGet(e *GetExpr) (Value, error) {
	obj, err := in.evaluate(e.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(e.Name, "Only instances have properties.")
	}

	return instance.Get(e.Name)
}

func (in *Interpreter) evalSet(e *SetExpr) (Value, error) {
	obj, err := in.evaluate(e.Object)
	if err != nil {
		return nil, err
	}

	instance, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(e.Name, "Only instances have fields.")
	}

	value, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	instance.Set(e.Name, value)
	return value, nil
}

// evalSuper looks up `super` at its resolved distance, finds `this` one
// frame closer (the environment bind wraps `this` in always sits
// directly inside the `super` environment), and binds the
// found method to that instance (spec.md §4.5 "Super").
func (in *Interpreter) evalSuper(e *SuperExpr) (Value, error) {
	distance := in.locals[e.ID()]
	superclass := in.env.GetAt(distance, "super").(*Class)
	instance := in.env.GetAt(distance-1, "this").(*Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}

	return method.bind(instance), nil
}
