package lox

// Class is a runtime class value: a name, an optional superclass for
// single inheritance, and its own (non-inherited) method table.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*UserFunction
}

// FindMethod walks the class's own methods first, then its superclass
// chain (spec.md §4.5 "Method lookup").
func (c *Class) FindMethod(name string) *UserFunction {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *Class) String() string { return c.Name }

// Arity is the arity of `init`, or 0 if the class defines none
// (spec.md §4.5 "Class construction").
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance, running `init` (if any) and discarding
// its return value — the constructed instance is always what's returned
// (spec.md §4.5).
func (c *Class) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}

	if init := c.FindMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

// Instance is a runtime object: a mutable field map plus a class
// reference used for method lookup.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// Get implements property access (spec.md §4.5 "Get"): fields shadow
// methods, and a found method is bound to this instance before it's
// handed back.
func (i *Instance) Get(name Token) (Value, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}

	if method := i.Class.FindMethod(name.Lexeme); method != nil {
		return method.bind(i), nil
	}

	return nil, newRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

// Set stores value in the instance's field map, creating the field if
// it doesn't already exist.
func (i *Instance) Set(name Token, value Value) {
	i.Fields[name.Lexeme] = value
}
