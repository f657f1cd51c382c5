package parser

import (
	"unicode/utf8"

	"lumen/interpreter-go/pkg/ast"
	"lumen/interpreter-go/pkg/lexer"
)

// DefaultMaxNestingDepth bounds expression and block nesting.
const DefaultMaxNestingDepth = 256

// Options tunes a parse. The zero value uses the defaults.
type Options struct {
	MaxNestingDepth int
}

// Parse tokenizes and parses source into a program.
func Parse(source string) (*ast.Program, error) {
	return ParseWithOptions(source, Options{})
}

// ParseWithOptions is Parse with explicit limits. Lexer failures are
// returned unchanged as *lexer.LexError.
func ParseWithOptions(source string, opts Options) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens, opts)
}

// ParseTokens parses an EOF-terminated token stream.
func ParseTokens(tokens []lexer.Token, opts Options) (*ast.Program, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.KindEOF {
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{Kind: lexer.KindEOF})
	}
	maxDepth := opts.MaxNestingDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestingDepth
	}
	p := &parser{tokens: tokens, maxDepth: maxDepth}
	return p.parseProgram()
}

type parser struct {
	tokens   []lexer.Token
	cursor   int
	depth    int
	maxDepth int
}

func (p *parser) at() lexer.Token {
	return p.tokens[p.cursor]
}

func (p *parser) atKind(kind lexer.Kind) bool {
	return p.tokens[p.cursor].Kind == kind
}

func (p *parser) eat() lexer.Token {
	tok := p.tokens[p.cursor]
	if tok.Kind != lexer.KindEOF {
		p.cursor++
	}
	return tok
}

func (p *parser) expect(kind lexer.Kind, message string) (lexer.Token, error) {
	tok := p.at()
	if tok.Kind != kind {
		return tok, errorAt(tok, "%s, found %s", message, tok)
	}
	return p.eat(), nil
}

// previousEnd is the position just past the last consumed token.
func (p *parser) previousEnd() ast.Position {
	if p.cursor == 0 {
		return ast.Position{Line: 1, Column: 1}
	}
	return tokenEnd(p.tokens[p.cursor-1])
}

func (p *parser) finish(node ast.Node, start lexer.Token) {
	ast.SetSpan(node, ast.Span{Start: startPosition(start), End: p.previousEnd()})
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		tok := p.at()
		return &ParseError{
			Message:  "Maximum nesting depth exceeded",
			Location: tokenLocation(tok),
			TooDeep:  true,
		}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseProgram() (*ast.Program, error) {
	start := p.at()
	body := make([]ast.Statement, 0)
	for !p.atKind(lexer.KindEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		p.skipSemicolons()
	}
	program := ast.NewProgram(body)
	p.finish(program, start)
	return program, nil
}

func (p *parser) skipSemicolons() {
	for p.atKind(lexer.KindSemicolon) {
		p.eat()
	}
}

func startPosition(tok lexer.Token) ast.Position {
	return ast.Position{Line: tok.Pos.Line, Column: tok.Pos.Column}
}

func tokenEnd(tok lexer.Token) ast.Position {
	return ast.Position{Line: tok.Pos.Line, Column: tok.Pos.Column + utf8.RuneCountInString(tok.Value)}
}
