package lang

import (
	"errors"
	"fmt"
)

// ErrUnboundVariable is returned when a name has no binding in any frame.
var ErrUnboundVariable = errors.New("unbound variable")

// Env implements a lexical environment chain.
type Env struct {
	parent *Env
	values map[string]Value
}

// NewEnv creates an environment with optional parent.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Define binds name to value in current frame, shadowing outer bindings.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Set updates an existing binding in the nearest frame that holds it.
func (e *Env) Set(name string, val Value) error {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.values[name]; ok {
			cur.values[name] = val
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnboundVariable, name)
}

// Lookup retrieves a binding, searching parents if necessary.
func (e *Env) Lookup(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if val, ok := cur.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Get is Lookup reporting a missing binding as an error.
func (e *Env) Get(name string) (Value, error) {
	if val, ok := e.Lookup(name); ok {
		return val, nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnboundVariable, name)
}

// Parent returns the parent environment.
func (e *Env) Parent() *Env {
	return e.parent
}
