// Package parser builds an ast.Program from a token stream by recursive
// descent. Parsing is all-or-nothing: the first error aborts with a
// positioned message and no partial tree is returned.
package parser

import (
	"errors"
	"fmt"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/lexer"
)

// Error is a parse failure anchored to the token that caused it.
type Error struct {
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

// ErrIncomplete wraps failures caused purely by the source ending inside an
// open construct. Interactive callers test for it with IsIncomplete and read
// continuation lines instead of reporting an error.
var ErrIncomplete = errors.New("incomplete input")

// IsIncomplete reports whether err means the source just stopped too early.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// Parse consumes the full token stream and returns the program.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	p := &parser{toks: tokens}
	var stmts []ast.Statement
	p.skipNewlines()
	for !p.check(lexer.TokenEOF) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	return ast.NewProgram(stmts), nil
}

// ParseSource tokenizes and parses in one step.
func ParseSource(source string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

type parser struct {
	toks []lexer.Token
	pos  int
}

func (p *parser) peek() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() lexer.Token {
	tok := p.peek()
	if tok.Type != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) check(typ lexer.TokenType) bool {
	return p.peek().Type == typ
}

func (p *parser) match(typ lexer.TokenType) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(typ lexer.TokenType, msg string) (lexer.Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorHere(msg)
}

func (p *parser) skipNewlines() {
	for p.check(lexer.TokenNewline) {
		p.advance()
	}
}

// maybeNewline consumes a single statement-terminating newline if present.
// Statements at the end of a block or file have none.
func (p *parser) maybeNewline() {
	if p.check(lexer.TokenNewline) {
		p.advance()
	}
}

// errorHere builds an error at the current token. When every remaining token
// is a flushed Dedent or EOF the source simply stopped early, which is an
// incomplete input rather than a malformed one.
func (p *parser) errorHere(msg string) error {
	tok := p.peek()
	if p.atTrailingFlush() {
		return fmt.Errorf("%w: %s", ErrIncomplete, msg)
	}
	return &Error{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf("%s, found %s", msg, describe(tok))}
}

func (p *parser) errorf(format string, args ...any) error {
	tok := p.peek()
	if p.atTrailingFlush() {
		return fmt.Errorf("%w: %s", ErrIncomplete, fmt.Sprintf(format, args...))
	}
	return &Error{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) atTrailingFlush() bool {
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case lexer.TokenDedent, lexer.TokenEOF:
		default:
			return false
		}
	}
	return true
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenInt, lexer.TokenFloat:
		return fmt.Sprintf("'%s'", tok.Lexeme)
	case lexer.TokenString:
		return fmt.Sprintf("string %q", tok.Literal)
	default:
		return tok.Type.String()
	}
}
