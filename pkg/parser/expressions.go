package parser

import (
	"errors"
	"strconv"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/lexer"
)

// Precedence, lowest first:
//   assignment (right associative)
//   + -
//   * / %
//   member access, computed member access, call
//   primary

func (p *parser) parseExpression() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseAssignmentExpr()
}

func (p *parser) parseAssignmentExpr() (ast.Expression, error) {
	start := p.at()
	left, err := p.parseAdditiveExpr()
	if err != nil {
		return nil, err
	}
	if !p.atKind(lexer.KindEquals) {
		return left, nil
	}
	p.eat()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	assign := ast.NewAssignmentExpr(left, value)
	p.finish(assign, start)
	return assign, nil
}

func (p *parser) atOperator(ops ...string) bool {
	tok := p.at()
	if tok.Kind != lexer.KindBinaryOperator {
		return false
	}
	for _, op := range ops {
		if tok.Value == op {
			return true
		}
	}
	return false
}

func (p *parser) parseAdditiveExpr() (ast.Expression, error) {
	start := p.at()
	left, err := p.parseMultiplicativeExpr()
	if err != nil {
		return nil, err
	}
	for p.atOperator("+", "-") {
		op := p.eat().Value
		right, err := p.parseMultiplicativeExpr()
		if err != nil {
			return nil, err
		}
		bin := ast.NewBinaryExpr(op, left, right)
		p.finish(bin, start)
		left = bin
	}
	return left, nil
}

func (p *parser) parseMultiplicativeExpr() (ast.Expression, error) {
	start := p.at()
	left, err := p.parseCallMemberExpr()
	if err != nil {
		return nil, err
	}
	for p.atOperator("*", "/", "%") {
		op := p.eat().Value
		right, err := p.parseCallMemberExpr()
		if err != nil {
			return nil, err
		}
		bin := ast.NewBinaryExpr(op, left, right)
		p.finish(bin, start)
		left = bin
	}
	return left, nil
}

func (p *parser) parseCallMemberExpr() (ast.Expression, error) {
	start := p.at()
	expr, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch p.at().Kind {
		case lexer.KindDot:
			p.eat()
			name, err := p.expect(lexer.KindIdentifier, "Expected identifier after '.'")
			if err != nil {
				return nil, err
			}
			prop := ast.NewIdentifier(name.Value)
			p.finish(prop, name)
			expr = ast.NewMemberExpr(expr, prop, false)
		case lexer.KindOpenBracket:
			p.eat()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.KindCloseBracket, "Expected ']' after computed member"); err != nil {
				return nil, err
			}
			expr = ast.NewMemberExpr(expr, index, true)
		case lexer.KindOpenParen:
			p.eat()
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = ast.NewCallExpr(expr, args)
		default:
			return expr, nil
		}
		p.finish(expr, start)
	}
}

// parseArguments consumes `args )` after an opening parenthesis.
func (p *parser) parseArguments() ([]ast.Expression, error) {
	args := make([]ast.Expression, 0)
	for !p.atKind(lexer.KindCloseParen) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.atKind(lexer.KindComma) {
			break
		}
		p.eat()
	}
	if _, err := p.expect(lexer.KindCloseParen, "Expected ')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimaryExpr() (ast.Expression, error) {
	tok := p.at()
	switch tok.Kind {
	case lexer.KindIdentifier:
		p.eat()
		id := ast.NewIdentifier(tok.Value)
		p.finish(id, tok)
		return id, nil
	case lexer.KindNumber:
		p.eat()
		value, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, errorAt(tok, "Invalid numeric literal %q", tok.Value)
		}
		lit := ast.NewNumericLiteral(value)
		p.finish(lit, tok)
		return lit, nil
	case lexer.KindOpenParen:
		p.eat()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindCloseParen, "Expected ')' after parenthesised expression"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.KindOpenBrace:
		return p.parseObjectLiteral()
	default:
		return nil, errorAt(tok, "Unexpected token found during parsing: %s", tok)
	}
}

// { key: value, shorthand, }
func (p *parser) parseObjectLiteral() (ast.Expression, error) {
	start := p.eat()
	props := make([]*ast.Property, 0)
	for !p.atKind(lexer.KindCloseBrace) {
		key, err := p.expect(lexer.KindIdentifier, "Expected identifier as object literal key")
		if err != nil {
			return nil, err
		}
		var value ast.Expression
		if p.atKind(lexer.KindColon) {
			p.eat()
			value, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		prop := ast.NewProperty(key.Value, value)
		p.finish(prop, key)
		props = append(props, prop)
		if !p.atKind(lexer.KindComma) {
			break
		}
		p.eat()
	}
	if _, err := p.expect(lexer.KindCloseBrace, "Expected '}' after object literal"); err != nil {
		return nil, err
	}
	obj := ast.NewObjectLiteral(props)
	p.finish(obj, start)
	return obj, nil
}
