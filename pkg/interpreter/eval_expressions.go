package interpreter

import (
	"fmt"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.NumericLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.Identifier:
		return env.Lookup(n.Symbol)
	case *ast.BinaryExpr:
		return i.evaluateBinaryExpr(n, env)
	case *ast.AssignmentExpr:
		return i.evaluateAssignmentExpr(n, env)
	case *ast.ObjectLiteral:
		return i.evaluateObjectLiteral(n, env)
	case *ast.MemberExpr:
		return i.evaluateMemberExpr(n, env)
	case *ast.CallExpr:
		return i.evaluateCallExpr(n, env)
	default:
		return nil, fmt.Errorf("interpreter: unsupported expression %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateBinaryExpr(expr *ast.BinaryExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.Evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.Evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return i.applyBinaryOperator(expr.Operator, left, right)
}

func (i *Interpreter) evaluateAssignmentExpr(assign *ast.AssignmentExpr, env *runtime.Environment) (runtime.Value, error) {
	target, ok := assign.Assignee.(*ast.Identifier)
	if !ok {
		kind := "nothing"
		if assign.Assignee != nil {
			kind = string(assign.Assignee.NodeType())
		}
		return nil, runtime.NewError(runtime.InvalidAssignmentTarget, "",
			"Invalid left-hand side in assignment: %s", kind)
	}
	value, err := i.Evaluate(assign.Value, env)
	if err != nil {
		return nil, err
	}
	return env.Assign(target.Symbol, value)
}

// Properties are evaluated left to right; a repeated key overwrites the
// earlier value.
func (i *Interpreter) evaluateObjectLiteral(lit *ast.ObjectLiteral, env *runtime.Environment) (runtime.Value, error) {
	obj := runtime.NewObject()
	for _, prop := range lit.Properties {
		var (
			val runtime.Value
			err error
		)
		if prop.Value == nil {
			val, err = env.Lookup(prop.Key)
		} else {
			val, err = i.Evaluate(prop.Value, env)
		}
		if err != nil {
			return nil, err
		}
		obj.Set(prop.Key, val)
	}
	return obj, nil
}

func (i *Interpreter) evaluateMemberExpr(member *ast.MemberExpr, env *runtime.Environment) (runtime.Value, error) {
	target, err := i.Evaluate(member.Object, env)
	if err != nil {
		return nil, err
	}
	obj, ok := target.(*runtime.ObjectValue)
	if !ok {
		return nil, runtime.NewError(runtime.InvalidMemberAccess, "",
			"Cannot read property %s of %s", describeMember(member), target.Kind())
	}
	if !member.Computed {
		id, ok := member.Property.(*ast.Identifier)
		if !ok {
			return nil, runtime.NewError(runtime.InvalidMemberAccess, "", "Member access requires an identifier")
		}
		return obj.Get(id.Symbol), nil
	}
	key, err := i.Evaluate(member.Property, env)
	if err != nil {
		return nil, err
	}
	return obj.Get(runtime.FormatValue(key)), nil
}

func describeMember(member *ast.MemberExpr) string {
	if id, ok := member.Property.(*ast.Identifier); ok && !member.Computed {
		return "'" + id.Symbol + "'"
	}
	return "[computed]"
}
