package lexer

import "fmt"

// Kind identifies the lexical category of a token.
type Kind uint8

const (
	KindNumber Kind = iota
	KindIdentifier
	KindLet
	KindConst
	KindFn
	KindBinaryOperator
	KindEquals
	KindComma
	KindDot
	KindColon
	KindSemicolon
	KindOpenParen
	KindCloseParen
	KindOpenBrace
	KindCloseBrace
	KindOpenBracket
	KindCloseBracket
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindIdentifier:
		return "Identifier"
	case KindLet:
		return "Let"
	case KindConst:
		return "Const"
	case KindFn:
		return "Fn"
	case KindBinaryOperator:
		return "BinaryOperator"
	case KindEquals:
		return "Equals"
	case KindComma:
		return "Comma"
	case KindDot:
		return "Dot"
	case KindColon:
		return "Colon"
	case KindSemicolon:
		return "Semicolon"
	case KindOpenParen:
		return "OpenParen"
	case KindCloseParen:
		return "CloseParen"
	case KindOpenBrace:
		return "OpenBrace"
	case KindCloseBrace:
		return "CloseBrace"
	case KindOpenBracket:
		return "OpenBracket"
	case KindCloseBracket:
		return "CloseBracket"
	case KindEOF:
		return "EOF"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]Kind{
	"let":   KindLet,
	"const": KindConst,
	"fn":    KindFn,
}

var punctuation = map[rune]Kind{
	'(': KindOpenParen,
	')': KindCloseParen,
	'{': KindOpenBrace,
	'}': KindCloseBrace,
	'[': KindOpenBracket,
	']': KindCloseBracket,
	';': KindSemicolon,
	':': KindColon,
	',': KindComma,
	'.': KindDot,
	'=': KindEquals,
	'+': KindBinaryOperator,
	'-': KindBinaryOperator,
	'*': KindBinaryOperator,
	'/': KindBinaryOperator,
	'%': KindBinaryOperator,
}

// Position is a 1-based line and rune column.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical unit. Value holds the exact source text; it is empty for EOF.
type Token struct {
	Value string
	Kind  Kind
	Pos   Position
}

func (t Token) String() string {
	if t.Kind == KindEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Value)
}

// IsIdentifier reports whether name would lex as a single identifier token.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if _, reserved := Keywords[name]; reserved {
		return false
	}
	for _, r := range name {
		if !isLetter(r) {
			return false
		}
	}
	return true
}
