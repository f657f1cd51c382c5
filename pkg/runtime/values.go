package runtime

import (
	"fmt"
	"sort"

	"lumen/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindObject
	KindNativeFunction
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	case KindNativeFunction:
		return "native-fn"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// Null is the single null value handed out by the evaluator.
var Null Value = NullValue{}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

//-----------------------------------------------------------------------------
// Objects
//-----------------------------------------------------------------------------

// ObjectValue is a string-keyed property bag. Only object literal
// construction writes to it.
type ObjectValue struct {
	Properties map[string]Value
}

func NewObject() *ObjectValue {
	return &ObjectValue{Properties: make(map[string]Value)}
}

func (v *ObjectValue) Kind() Kind { return KindObject }

// Get returns the property, or Null when the key is absent.
func (v *ObjectValue) Get(key string) Value {
	if val, ok := v.Properties[key]; ok {
		return val
	}
	return Null
}

func (v *ObjectValue) Set(key string, val Value) {
	v.Properties[key] = val
}

// Keys returns the property names in sorted order.
func (v *ObjectValue) Keys() []string {
	keys := make([]string, 0, len(v.Properties))
	for k := range v.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined function together with the environment it
// was declared in.
type FunctionValue struct {
	Name    string
	Params  []string
	Body    []ast.Statement
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext carries the calling environment into host functions.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue wraps a host callable. An Arity below zero accepts any
// number of arguments.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// IsCallable reports whether the value can appear as a call target.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *FunctionValue, NativeFunctionValue, *NativeFunctionValue:
		return true
	default:
		return false
	}
}
