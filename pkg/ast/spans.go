package ast

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// Walk visits node and then its children in source order. Returning false
// from visit skips the children of that node.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Body {
			Walk(stmt, visit)
		}
	case *VarDeclaration:
		if n.Value != nil {
			Walk(n.Value, visit)
		}
	case *FunctionDeclaration:
		for _, stmt := range n.Body {
			Walk(stmt, visit)
		}
	case *AssignmentExpr:
		Walk(n.Assignee, visit)
		Walk(n.Value, visit)
	case *MemberExpr:
		Walk(n.Object, visit)
		Walk(n.Property, visit)
	case *CallExpr:
		Walk(n.Caller, visit)
		for _, arg := range n.Arguments {
			Walk(arg, visit)
		}
	case *ObjectLiteral:
		for _, prop := range n.Properties {
			Walk(prop, visit)
		}
	case *Property:
		if n.Value != nil {
			Walk(n.Value, visit)
		}
	case *BinaryExpr:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	}
}
