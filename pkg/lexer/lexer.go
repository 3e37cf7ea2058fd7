// Package lexer turns source text into a flat token stream with explicit
// Indent/Dedent tokens synthesized from leading whitespace. The same input
// always yields the same stream, and Indent/Dedent tokens balance even for
// truncated sources because every open level is flushed at EOF.
package lexer

import (
	"fmt"
	"strconv"
	"unicode"
)

// Tokenize scans source and returns its complete token stream, terminated by
// a TokenEOF. It fails on inconsistent indentation, on runes that belong to
// no token, and on numeric literals that do not fit their Go representation.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{src: []rune(source), line: 1, col: 1, indents: []int{0}}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

type lexer struct {
	src     []rune
	pos     int
	line    int
	col     int
	indents []int
	tokens  []Token
}

func (lx *lexer) run() error {
	for !lx.atEnd() {
		ch := lx.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.advance()
		case ch == '\n':
			line, col := lx.line, lx.col
			lx.advance()
			lx.add(TokenNewline, "\n", nil, line, col)
			if err := lx.handleIndentation(); err != nil {
				return err
			}
		case ch == '#':
			lx.skipLineComment()
		case ch == '/' && lx.peekNext() == '/':
			lx.skipLineComment()
		case ch == '"':
			lx.scanString()
		case isDigit(ch):
			if err := lx.scanNumber(); err != nil {
				return err
			}
		case isIdentStart(ch):
			lx.scanIdentifier()
		default:
			if err := lx.scanSymbol(); err != nil {
				return err
			}
		}
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.add(TokenDedent, "", nil, lx.line, lx.col)
	}
	lx.add(TokenEOF, "", nil, lx.line, lx.col)
	return nil
}

// handleIndentation runs immediately after a newline has been consumed. It
// measures the new line's leading spaces against the indent stack. Blank
// lines and comment-only lines never touch the stack, so they cannot close
// a block.
func (lx *lexer) handleIndentation() error {
	width := 0
	for !lx.atEnd() && lx.peek() == ' ' {
		lx.advance()
		width++
	}
	if lx.atEnd() {
		return nil
	}
	if ch := lx.peek(); ch == '\n' || ch == '\r' || ch == '#' || (ch == '/' && lx.peekNext() == '/') {
		return nil
	}
	top := lx.indents[len(lx.indents)-1]
	if width > top {
		lx.indents = append(lx.indents, width)
		lx.add(TokenIndent, "", nil, lx.line, lx.col)
		return nil
	}
	for width < lx.indents[len(lx.indents)-1] {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.add(TokenDedent, "", nil, lx.line, lx.col)
	}
	if width != lx.indents[len(lx.indents)-1] {
		return lx.errorf("inconsistent indentation: %d spaces does not match any open block", width)
	}
	return nil
}

func (lx *lexer) skipLineComment() {
	for !lx.atEnd() && lx.peek() != '\n' {
		lx.advance()
	}
}

// scanString consumes a double-quoted string. There is no escape syntax and
// newlines are allowed inside the literal. A missing closing quote ends the
// string at EOF.
func (lx *lexer) scanString() {
	line, col := lx.line, lx.col
	lx.advance()
	start := lx.pos
	for !lx.atEnd() && lx.peek() != '"' {
		lx.advance()
	}
	text := string(lx.src[start:lx.pos])
	lexeme := `"` + text
	if !lx.atEnd() {
		lx.advance()
		lexeme += `"`
	}
	lx.add(TokenString, lexeme, text, line, col)
}

// scanNumber consumes an int or float literal. A '.' continues the literal
// only when the rune after it is a digit, so member access on an int
// ("1.to_string()") lexes as Int, Dot, Identifier.
func (lx *lexer) scanNumber() error {
	line, col := lx.line, lx.col
	start := lx.pos
	for !lx.atEnd() && isDigit(lx.peek()) {
		lx.advance()
	}
	isFloat := false
	if !lx.atEnd() && lx.peek() == '.' && isDigit(lx.peekNext()) {
		isFloat = true
		lx.advance()
		for !lx.atEnd() && isDigit(lx.peek()) {
			lx.advance()
		}
	}
	text := string(lx.src[start:lx.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return lx.errorfAt(line, col, "invalid float literal %q", text)
		}
		lx.add(TokenFloat, text, f, line, col)
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return lx.errorfAt(line, col, "integer literal %q out of range", text)
	}
	lx.add(TokenInt, text, n, line, col)
	return nil
}

func (lx *lexer) scanIdentifier() {
	line, col := lx.line, lx.col
	start := lx.pos
	for !lx.atEnd() && isIdentPart(lx.peek()) {
		lx.advance()
	}
	text := string(lx.src[start:lx.pos])
	if kw, ok := keywords[text]; ok {
		lx.add(kw, text, nil, line, col)
		return
	}
	lx.add(TokenIdentifier, text, nil, line, col)
}

func (lx *lexer) scanSymbol() error {
	line, col := lx.line, lx.col
	ch := lx.advance()
	two := func(next rune, pair, single TokenType) {
		if !lx.atEnd() && lx.peek() == next {
			lx.advance()
			lx.add(pair, string(ch)+string(next), nil, line, col)
			return
		}
		lx.add(single, string(ch), nil, line, col)
	}
	switch ch {
	case '+':
		lx.add(TokenPlus, "+", nil, line, col)
	case '-':
		two('>', TokenArrow, TokenMinus)
	case '*':
		lx.add(TokenStar, "*", nil, line, col)
	case '/':
		lx.add(TokenSlash, "/", nil, line, col)
	case '=':
		two('=', TokenEqual, TokenAssign)
	case '<':
		two('=', TokenLessEqual, TokenLess)
	case '>':
		two('=', TokenGreaterEqual, TokenGreater)
	case '!':
		if !lx.atEnd() && lx.peek() == '=' {
			lx.advance()
			lx.add(TokenNotEqual, "!=", nil, line, col)
			return nil
		}
		return lx.errorfAt(line, col, "unexpected character '!' (did you mean '!='?)")
	case ':':
		lx.add(TokenColon, ":", nil, line, col)
	case '.':
		lx.add(TokenDot, ".", nil, line, col)
	case '|':
		lx.add(TokenPipe, "|", nil, line, col)
	case ',':
		lx.add(TokenComma, ",", nil, line, col)
	case '(':
		lx.add(TokenLParen, "(", nil, line, col)
	case ')':
		lx.add(TokenRParen, ")", nil, line, col)
	case '[':
		lx.add(TokenLBracket, "[", nil, line, col)
	case ']':
		lx.add(TokenRBracket, "]", nil, line, col)
	case '{':
		lx.add(TokenLBrace, "{", nil, line, col)
	case '}':
		lx.add(TokenRBrace, "}", nil, line, col)
	default:
		return lx.errorfAt(line, col, "unexpected character %q", string(ch))
	}
	return nil
}

func (lx *lexer) atEnd() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peek() rune { return lx.src[lx.pos] }

func (lx *lexer) peekNext() rune {
	if lx.pos+1 >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+1]
}

func (lx *lexer) advance() rune {
	ch := lx.src[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return ch
}

func (lx *lexer) add(typ TokenType, lexeme string, literal any, line, col int) {
	lx.tokens = append(lx.tokens, Token{Type: typ, Lexeme: lexeme, Literal: literal, Line: line, Col: col})
}

func (lx *lexer) errorf(format string, args ...any) error {
	return lx.errorfAt(lx.line, lx.col, format, args...)
}

func (lx *lexer) errorfAt(line, col int, format string, args ...any) error {
	return fmt.Errorf("line %d, col %d: %s", line, col, fmt.Sprintf(format, args...))
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) }

func isIdentPart(ch rune) bool { return isIdentStart(ch) || isDigit(ch) }
