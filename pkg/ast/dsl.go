package ast

// Construction helpers used by tests and host code that builds programs
// without going through the parser.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value float64) *NumericLiteral {
	return NewNumericLiteral(value)
}

func Bin(op string, left, right Expression) *BinaryExpr {
	return NewBinaryExpr(op, left, right)
}

func Assign(target, value Expression) *AssignmentExpr {
	return NewAssignmentExpr(target, value)
}

// Member builds `object.name`.
func Member(object Expression, name string) *MemberExpr {
	return NewMemberExpr(object, ID(name), false)
}

// Index builds `object[index]`.
func Index(object, index Expression) *MemberExpr {
	return NewMemberExpr(object, index, true)
}

func Call(callee Expression, args ...Expression) *CallExpr {
	return NewCallExpr(callee, args)
}

func Prop(key string, value Expression) *Property {
	return NewProperty(key, value)
}

func Shorthand(key string) *Property {
	return NewProperty(key, nil)
}

func Obj(props ...*Property) *ObjectLiteral {
	return NewObjectLiteral(props)
}

func Let(name string, value Expression) *VarDeclaration {
	return NewVarDeclaration(false, name, value)
}

func Const(name string, value Expression) *VarDeclaration {
	return NewVarDeclaration(true, name, value)
}

func Fn(name string, params []string, body ...Statement) *FunctionDeclaration {
	return NewFunctionDeclaration(name, params, body)
}

func Prog(body ...Statement) *Program {
	return NewProgram(body)
}
