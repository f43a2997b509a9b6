package lox

// Environment is one frame of lexical scope: a binding map plus an
// optional parent frame. Frames are shared by reference — a frame
// captured by a closure stays alive as long as any UserFunction value
// holds it, independent of whether the block that created it is still
// executing (spec.md §3 "Environment").
type Environment struct {
	parent *Environment
	values map[string]Value
}

// NewEnvironment creates a frame chained to parent (nil for the globals
// frame).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]Value)}
}

// Define binds name unconditionally in this frame. A redefinition
// shadows the previous value without error — handy for the REPL, where a
// user redeclaring `var x` shouldn't have to restart.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks up name starting at this frame and walking parents, for
// globals (which permit late binding — a function body may reference a
// global defined after the function itself was declared).
func (e *Environment) Get(name Token) (Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign walks the same chain as Get and overwrites the first frame that
// already binds name.
func (e *Environment) Assign(name Token, value Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// ancestor walks exactly distance parent hops up the chain. The resolver
// guarantees distance never overshoots the chain for a resolved node, so
// no miss path is needed here.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name exactly distance frames up, bypassing the parent
// walk in Get. Used for every resolved (non-global) variable reference.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.ancestor(distance).values[name]
}

// AssignAt is the write-side counterpart of GetAt.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.ancestor(distance).values[name] = value
}
