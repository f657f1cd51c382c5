package lexer

import (
	"fmt"
	"unicode"
)

// LexError reports a character that does not start any token.
type LexError struct {
	Char rune
	Pos  Position
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unrecognized character %q at line %d, column %d", e.Char, e.Pos.Line, e.Pos.Column)
}

// Tokenize scans source into tokens terminated by a single EOF token.
// The first unrecognized character aborts the scan.
func Tokenize(source string) ([]Token, error) {
	s := &scanner{src: []rune(source), line: 1, column: 1}
	tokens := make([]Token, 0, len(s.src)/2+1)
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens, nil
		}
	}
}

type scanner struct {
	src    []rune
	cursor int
	line   int
	column int
}

func (s *scanner) next() (Token, error) {
	s.skipWhitespace()
	pos := Position{Line: s.line, Column: s.column}
	if s.cursor >= len(s.src) {
		return Token{Kind: KindEOF, Pos: pos}, nil
	}

	ch := s.src[s.cursor]
	if kind, ok := punctuation[ch]; ok {
		s.advance()
		return Token{Value: string(ch), Kind: kind, Pos: pos}, nil
	}
	if isDigit(ch) {
		return Token{Value: s.scanWhile(isDigit), Kind: KindNumber, Pos: pos}, nil
	}
	if isLetter(ch) {
		word := s.scanWhile(isLetter)
		if kind, ok := Keywords[word]; ok {
			return Token{Value: word, Kind: kind, Pos: pos}, nil
		}
		return Token{Value: word, Kind: KindIdentifier, Pos: pos}, nil
	}
	return Token{}, &LexError{Char: ch, Pos: pos}
}

func (s *scanner) scanWhile(pred func(rune) bool) string {
	start := s.cursor
	for s.cursor < len(s.src) && pred(s.src[s.cursor]) {
		s.advance()
	}
	return string(s.src[start:s.cursor])
}

func (s *scanner) skipWhitespace() {
	for s.cursor < len(s.src) && isSkippable(s.src[s.cursor]) {
		s.advance()
	}
}

func (s *scanner) advance() {
	if s.src[s.cursor] == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.cursor++
}

func isSkippable(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}
