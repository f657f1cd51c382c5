package checker

import (
	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/runtime"
)

// valueInfo is the statically known shape of an expression's value.
type valueInfo struct {
	kind  staticKind
	arity int
	name  string
}

var unknownValue = valueInfo{kind: kindUnknown}

// checkExpression visits children in evaluation order: call arguments
// before the callee, assignment values before the target.
func (c *Checker) checkExpression(s *scope, expr ast.Expression) valueInfo {
	switch n := expr.(type) {
	case *ast.NumericLiteral:
		return valueInfo{kind: kindNumber}
	case *ast.Identifier:
		return c.checkIdentifier(s, n)
	case *ast.BinaryExpr:
		left := c.checkExpression(s, n.Left)
		right := c.checkExpression(s, n.Right)
		if left.kind == kindNumber && right.kind == kindNumber {
			return valueInfo{kind: kindNumber}
		}
		return unknownValue
	case *ast.AssignmentExpr:
		return c.checkAssignment(s, n)
	case *ast.ObjectLiteral:
		for _, prop := range n.Properties {
			if prop.Value == nil {
				if _, ok := s.lookup(prop.Key); !ok {
					c.report(runtime.UnboundName, prop, "Undefined variable '%s'", prop.Key)
				}
				continue
			}
			c.checkExpression(s, prop.Value)
		}
		return valueInfo{kind: kindObject}
	case *ast.MemberExpr:
		return c.checkMember(s, n)
	case *ast.CallExpr:
		return c.checkCall(s, n)
	default:
		return unknownValue
	}
}

func (c *Checker) checkIdentifier(s *scope, id *ast.Identifier) valueInfo {
	b, ok := s.lookup(id.Symbol)
	if !ok {
		c.report(runtime.UnboundName, id, "Undefined variable '%s'", id.Symbol)
		return unknownValue
	}
	if !b.constant {
		return unknownValue
	}
	return valueInfo{kind: b.kind, arity: b.arity, name: b.name}
}

func (c *Checker) checkAssignment(s *scope, assign *ast.AssignmentExpr) valueInfo {
	target, ok := assign.Assignee.(*ast.Identifier)
	if !ok {
		kind := "nothing"
		if assign.Assignee != nil {
			kind = string(assign.Assignee.NodeType())
		}
		c.report(runtime.InvalidAssignmentTarget, assign, "Invalid left-hand side in assignment: %s", kind)
		return unknownValue
	}
	value := c.checkExpression(s, assign.Value)
	b, ok := s.lookup(target.Symbol)
	switch {
	case !ok:
		c.report(runtime.UnboundName, target, "Undefined variable '%s'", target.Symbol)
	case b.constant:
		c.report(runtime.ConstantViolation, assign, "Cannot assign to constant '%s'", target.Symbol)
	}
	return value
}

func (c *Checker) checkMember(s *scope, member *ast.MemberExpr) valueInfo {
	object := c.checkExpression(s, member.Object)
	if object.kind != kindUnknown && object.kind != kindObject {
		c.report(runtime.InvalidMemberAccess, member, "Cannot read property %s of %s", describeMember(member), object.kind)
		return unknownValue
	}
	if member.Computed {
		c.checkExpression(s, member.Property)
	}
	return unknownValue
}

func (c *Checker) checkCall(s *scope, call *ast.CallExpr) valueInfo {
	for _, arg := range call.Arguments {
		c.checkExpression(s, arg)
	}
	callee := c.checkExpression(s, call.Caller)
	switch {
	case callee.kind == kindUnknown:
	case callee.kind != kindFunction:
		if name := calleeName(call.Caller); name != "" {
			c.report(runtime.NotCallable, call, "'%s' is not callable (%s)", name, callee.kind)
		} else {
			c.report(runtime.NotCallable, call, "Cannot call value of type %s", callee.kind)
		}
	case callee.arity >= 0 && callee.arity != len(call.Arguments):
		c.report(runtime.ArityMismatch, call, "Function '%s' expects %d arguments, got %d", callee.name, callee.arity, len(call.Arguments))
	}
	return unknownValue
}

func calleeName(expr ast.Expression) string {
	switch n := expr.(type) {
	case *ast.Identifier:
		return n.Symbol
	case *ast.MemberExpr:
		if id, ok := n.Property.(*ast.Identifier); ok && !n.Computed {
			return id.Symbol
		}
	}
	return ""
}

func describeMember(member *ast.MemberExpr) string {
	if id, ok := member.Property.(*ast.Identifier); ok && !member.Computed {
		return "'" + id.Symbol + "'"
	}
	return "[computed]"
}
