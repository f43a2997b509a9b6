package lox

// Callable is the uniform protocol every invocable Lox value implements:
// UserFunction, *Class, and bound methods (themselves *UserFunction with
// a wrapping closure) and native functions (spec.md §9 "Duck-typed
// callables" redesign note — a tagged set behind one interface rather
// than a base class).
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
	String() string
}

// NativeFunction wraps a Go function as a Lox built-in (clock, read,
// float — spec.md §4.7).
type NativeFunction struct {
	name  string
	arity int
	fn    func(interp *Interpreter, args []Value) (Value, error)
}

func (f *NativeFunction) Arity() int { return f.arity }

func (f *NativeFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	return f.fn(interp, args)
}

func (f *NativeFunction) String() string { return "<native fn>" }

// UserFunction is a `fun` declaration or class method paired with the
// environment captured at its point of definition (spec.md §3
// "UserFunction").
type UserFunction struct {
	declaration *FunctionStmt
	closure     *Environment
	isInitializer bool
}

func (f *UserFunction) Arity() int { return len(f.declaration.Params) }

func (f *UserFunction) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}

// Call implements spec.md §4.5's function call protocol: a fresh
// environment parented at the closure, parameters bound positionally,
// the body executed as a block, and the initializer-return rewrite
// (return value discarded, `this` returned instead) applied uniformly
// whether the body fell off the end or hit an explicit `return`.
func (f *UserFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	comp, err := interp.executeBlock(f.declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	if comp.isReturn {
		return comp.value, nil
	}
	return nil, nil
}

// bind returns a copy of f whose closure wraps the original one with
// `this` bound to instance (spec.md §4.5 "Method binding"). The
// resolver's `this` distance is computed against this wrapping
// environment, one level inside the method's original closure.
func (f *UserFunction) bind(instance *Instance) *UserFunction {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return &UserFunction{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}
