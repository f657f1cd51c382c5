package runtime

import "sort"

// Environment provides lexical scoping for Lumen runtime values. It is not
// safe for concurrent use; an interpreter owns its environments.
type Environment struct {
	values    map[string]Value
	constants map[string]struct{}
	parent    *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values:    make(map[string]Value),
		constants: make(map[string]struct{}),
		parent:    parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Declare adds a binding to the current scope and returns the stored value.
func (e *Environment) Declare(name string, value Value, constant bool) (Value, error) {
	if _, ok := e.values[name]; ok {
		return nil, duplicateBinding(name)
	}
	e.values[name] = value
	if constant {
		e.constants[name] = struct{}{}
	}
	return value, nil
}

// Assign updates an existing binding in the first scope where it appears.
// Constants are left untouched.
func (e *Environment) Assign(name string, value Value) (Value, error) {
	scope, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}
	if scope.IsConstant(name) {
		return nil, constantViolation(name)
	}
	scope.values[name] = value
	return value, nil
}

// Lookup retrieves a binding, searching outward through the scope chain.
func (e *Environment) Lookup(name string) (Value, error) {
	scope, err := e.Resolve(name)
	if err != nil {
		return nil, err
	}
	return scope.values[name], nil
}

// Resolve returns the nearest scope that binds name.
func (e *Environment) Resolve(name string) (*Environment, error) {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.values[name]; ok {
			return scope, nil
		}
	}
	return nil, unboundName(name)
}

// HasInCurrentScope reports whether the binding exists in the current scope.
func (e *Environment) HasInCurrentScope(name string) bool {
	_, ok := e.values[name]
	return ok
}

// IsConstant reports whether this scope binds name as a constant.
func (e *Environment) IsConstant(name string) bool {
	_, ok := e.constants[name]
	return ok
}

// Keys returns the bindings of this scope in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the current scope's bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}
