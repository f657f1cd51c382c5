package checker

import "lumen/interpreter-go/pkg/runtime"

type staticKind int

const (
	kindUnknown staticKind = iota
	kindNull
	kindBool
	kindNumber
	kindObject
	kindFunction
)

func (k staticKind) String() string {
	switch k {
	case kindNull:
		return runtime.KindNull.String()
	case kindBool:
		return runtime.KindBool.String()
	case kindNumber:
		return runtime.KindNumber.String()
	case kindObject:
		return runtime.KindObject.String()
	case kindFunction:
		return runtime.KindFunction.String()
	default:
		return "unknown"
	}
}

// binding is what the checker knows about a name. kind and arity are only
// trusted for constants.
type binding struct {
	constant bool
	kind     staticKind
	arity    int
	name     string
}

type scope struct {
	names  map[string]*binding
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{names: make(map[string]*binding), parent: parent}
}

func (s *scope) has(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s *scope) declare(name string, b *binding) {
	s.names[name] = b
}

func (s *scope) lookup(name string) (*binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.names[name]; ok {
			return b, true
		}
	}
	return nil, false
}
