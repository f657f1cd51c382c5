package parser

import (
	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/lexer"
)

func (p *parser) parseStatement() (ast.Statement, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.at().Kind {
	case lexer.KindLet, lexer.KindConst:
		return p.parseVarDeclaration()
	case lexer.KindFn:
		return p.parseFunctionDeclaration()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return expr, nil
	}
}

// let name [= expr] | const name = expr
func (p *parser) parseVarDeclaration() (ast.Statement, error) {
	start := p.eat()
	constant := start.Kind == lexer.KindConst
	name, err := p.expect(lexer.KindIdentifier, "Expected identifier name following let | const keywords")
	if err != nil {
		return nil, err
	}

	if !p.atKind(lexer.KindEquals) {
		if constant {
			return nil, errorAt(p.at(), "Must assign value to constant '%s'; no value provided", name.Value)
		}
		decl := ast.NewVarDeclaration(false, name.Value, nil)
		p.finish(decl, start)
		return decl, nil
	}
	p.eat()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	decl := ast.NewVarDeclaration(constant, name.Value, value)
	p.finish(decl, start)
	return decl, nil
}

// fn name(params) { body }
func (p *parser) parseFunctionDeclaration() (ast.Statement, error) {
	start := p.eat()
	name, err := p.expect(lexer.KindIdentifier, "Expected function name following fn keyword")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindOpenParen, "Expected '(' after function name"); err != nil {
		return nil, err
	}

	params := make([]string, 0)
	seen := make(map[string]struct{})
	for !p.atKind(lexer.KindCloseParen) {
		param, err := p.expect(lexer.KindIdentifier, "Expected parameter name")
		if err != nil {
			return nil, err
		}
		if _, dup := seen[param.Value]; dup {
			return nil, errorAt(param, "Duplicate parameter name '%s'", param.Value)
		}
		seen[param.Value] = struct{}{}
		params = append(params, param.Value)
		if !p.atKind(lexer.KindComma) {
			break
		}
		p.eat()
	}
	if _, err := p.expect(lexer.KindCloseParen, "Expected ')' after parameters"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindOpenBrace, "Expected '{' before function body"); err != nil {
		return nil, err
	}

	body := make([]ast.Statement, 0)
	p.skipSemicolons()
	for !p.atKind(lexer.KindCloseBrace) && !p.atKind(lexer.KindEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		p.skipSemicolons()
	}
	if _, err := p.expect(lexer.KindCloseBrace, "Expected '}' after function body"); err != nil {
		return nil, err
	}

	decl := ast.NewFunctionDeclaration(name.Value, params, body)
	p.finish(decl, start)
	return decl, nil
}
