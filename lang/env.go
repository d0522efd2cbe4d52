package lang

import (
	"fmt"
	"sort"
)

// Env implements a lexical environment chain.
type Env struct {
	outer  *Env
	values map[string]Value
}

// NewEnv creates an environment with optional outer scope.
func NewEnv(outer *Env) *Env {
	return &Env{
		outer:  outer,
		values: make(map[string]Value),
	}
}

// Bind creates a child of outer and binds params positionally to args.
// A parameter named & binds the following name to a list of the remaining
// arguments.
func Bind(outer *Env, params Value, args []Value) (*Env, error) {
	env := NewEnv(outer)
	if params.Type == TypeNil {
		return env, nil
	}
	if !params.IsSequential() {
		return nil, fmt.Errorf("parameter list must be a list or vector, got %s", params.TypeName())
	}
	names := params.Items()
	for i, p := range names {
		if p.Type != TypeSymbol {
			return nil, fmt.Errorf("parameter must be a symbol, got %s", p.TypeName())
		}
		if p.Sym() == "&" {
			if i+1 >= len(names) || names[i+1].Type != TypeSymbol {
				return nil, fmt.Errorf("& must be followed by a parameter name")
			}
			var rest []Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			env.Set(names[i+1].Sym(), ListValue(rest))
			return env, nil
		}
		if i >= len(args) {
			return nil, fmt.Errorf("expected %d arguments, got %d", len(names), len(args))
		}
		env.Set(p.Sym(), args[i])
	}
	if len(args) > len(names) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(names), len(args))
	}
	return env, nil
}

// Set binds name to val in the current frame.
func (e *Env) Set(name string, val Value) {
	e.values[name] = val
}

// Find returns the innermost environment that binds name, or nil.
func (e *Env) Find(name string) *Env {
	for cur := e; cur != nil; cur = cur.outer {
		if _, ok := cur.values[name]; ok {
			return cur
		}
	}
	return nil
}

// Get retrieves a binding, searching outer scopes if necessary.
func (e *Env) Get(name string) (Value, error) {
	if found := e.Find(name); found != nil {
		return found.values[name], nil
	}
	return Value{}, &NotFoundError{Name: name}
}

// Lookup is Get without an error for unbound names.
func (e *Env) Lookup(name string) (Value, bool) {
	if found := e.Find(name); found != nil {
		return found.values[name], true
	}
	return Nil, false
}

// Outer returns the enclosing environment.
func (e *Env) Outer() *Env {
	return e.outer
}

// Names lists every name visible from e, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for cur := e; cur != nil; cur = cur.outer {
		for name := range cur.values {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
