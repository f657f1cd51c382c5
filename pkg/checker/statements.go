package checker

import (
	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/runtime"
)

func (c *Checker) checkBody(s *scope, body []ast.Statement) {
	for _, stmt := range body {
		c.checkStatement(s, stmt)
	}
}

func (c *Checker) checkStatement(s *scope, stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.VarDeclaration:
		value := valueInfo{kind: kindNull}
		if n.Value != nil {
			value = c.checkExpression(s, n.Value)
		}
		if s.has(n.Identifier) {
			c.report(runtime.DuplicateBinding, n, "'%s' is already declared in this scope", n.Identifier)
			return
		}
		s.declare(n.Identifier, &binding{
			constant: n.Constant,
			kind:     value.kind,
			arity:    value.arity,
			name:     value.name,
		})
	case *ast.FunctionDeclaration:
		if s.has(n.Name) {
			c.report(runtime.DuplicateBinding, n, "'%s' is already declared in this scope", n.Name)
			return
		}
		s.declare(n.Name, &binding{
			constant: true,
			kind:     kindFunction,
			arity:    len(n.Parameters),
			name:     n.Name,
		})
		c.pending = append(c.pending, pendingBody{decl: n, outer: s, depth: c.functionDepth + 1})
	case ast.Expression:
		c.checkExpression(s, n)
	}
}
