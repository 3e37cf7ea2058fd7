package parser

import (
	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/lexer"
)

// Type annotations are carried on the AST for documentation; nothing
// downstream checks them.

func (p *parser) typeExpression() (ast.TypeExpression, error) {
	first, err := p.singleType()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.TokenPipe) {
		return first, nil
	}
	variants := []ast.TypeExpression{first}
	for p.match(lexer.TokenPipe) {
		next, err := p.singleType()
		if err != nil {
			return nil, err
		}
		variants = append(variants, next)
	}
	return ast.NewUnionType(variants), nil
}

func (p *parser) singleType() (ast.TypeExpression, error) {
	name, err := p.expect(lexer.TokenIdentifier, "Expected type identifier")
	if err != nil {
		return nil, err
	}
	var args []ast.TypeExpression
	if p.match(lexer.TokenLess) {
		for {
			arg, err := p.typeExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.match(lexer.TokenComma) {
				continue
			}
			if p.match(lexer.TokenGreater) {
				break
			}
			return nil, p.errorHere("Expected ',' or '>' in generic type args")
		}
	}
	return ast.NewSimpleType(name.Lexeme, args), nil
}
