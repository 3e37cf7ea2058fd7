package parser

import (
	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/lexer"
)

// Precedence climbs equality -> comparison -> additive -> multiplicative ->
// unary -> postfix -> atom. All binary operators associate left.

func (p *parser) expression() (ast.Expression, error) {
	return p.equality()
}

func (p *parser) equality() (ast.Expression, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.peek().Type {
		case lexer.TokenEqual:
			op = "=="
		case lexer.TokenNotEqual:
			op = "!="
		default:
			return left, nil
		}
		p.advance()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
}

func (p *parser) comparison() (ast.Expression, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.peek().Type {
		case lexer.TokenLess:
			op = "<"
		case lexer.TokenLessEqual:
			op = "<="
		case lexer.TokenGreater:
			op = ">"
		case lexer.TokenGreaterEqual:
			op = ">="
		default:
			return left, nil
		}
		p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
}

func (p *parser) additive() (ast.Expression, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.peek().Type {
		case lexer.TokenPlus:
			op = "+"
		case lexer.TokenMinus:
			op = "-"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
}

func (p *parser) multiplicative() (ast.Expression, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.peek().Type {
		case lexer.TokenStar:
			op = "*"
		case lexer.TokenSlash:
			op = "/"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
}

func (p *parser) unary() (ast.Expression, error) {
	if p.match(lexer.TokenMinus) {
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression("-", operand), nil
	}
	return p.postfix()
}

// postfix chains calls, member accesses, and index accesses left to right,
// which is what makes curried application f(a)(b) parse naturally.
func (p *parser) postfix() (ast.Expression, error) {
	expr, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case lexer.TokenLParen:
			p.advance()
			args, err := p.argumentList()
			if err != nil {
				return nil, err
			}
			expr = ast.NewCallExpression(expr, args, nil)
		case lexer.TokenDot:
			p.advance()
			name, err := p.expect(lexer.TokenIdentifier, "Expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.NewMemberExpression(expr, name.Lexeme)
		case lexer.TokenLBracket:
			p.advance()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRBracket, "Expected ']' after index"); err != nil {
				return nil, err
			}
			expr = ast.NewIndexExpression(expr, index)
		default:
			return expr, nil
		}
	}
}

// argumentList parses expressions up to ')', the opening paren already
// consumed. A trailing comma is allowed.
func (p *parser) argumentList() ([]ast.Expression, error) {
	var args []ast.Expression
	if p.match(lexer.TokenRParen) {
		return args, nil
	}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.match(lexer.TokenComma) {
			if p.match(lexer.TokenRParen) {
				return args, nil
			}
			continue
		}
		if p.match(lexer.TokenRParen) {
			return args, nil
		}
		return nil, p.errorHere("Expected ',' or ')' in argument list")
	}
}

func (p *parser) atom() (ast.Expression, error) {
	switch p.peek().Type {
	case lexer.TokenInt:
		tok := p.advance()
		return ast.NewIntLiteral(tok.Literal.(int64)), nil
	case lexer.TokenFloat:
		tok := p.advance()
		return ast.NewFloatLiteral(tok.Literal.(float64)), nil
	case lexer.TokenString:
		tok := p.advance()
		return ast.NewStringLiteral(tok.Literal.(string)), nil
	case lexer.TokenTrue:
		p.advance()
		return ast.NewBoolLiteral(true), nil
	case lexer.TokenFalse:
		p.advance()
		return ast.NewBoolLiteral(false), nil
	case lexer.TokenIdentifier:
		tok := p.advance()
		return ast.NewIdentifier(tok.Lexeme), nil
	case lexer.TokenChan:
		return p.chanExpression()
	case lexer.TokenLParen:
		return p.parenExpression()
	case lexer.TokenLBracket:
		return p.listLiteral()
	case lexer.TokenLBrace:
		return p.braceLiteral()
	default:
		return nil, p.errorHere("Expected expression")
	}
}

// chanExpression treats the chan keyword as the channel constructor: an
// optional <T> argument list, then an ordinary call. Bare chan evaluates to
// the constructor itself.
func (p *parser) chanExpression() (ast.Expression, error) {
	p.advance()
	var generics []ast.TypeExpression
	if p.match(lexer.TokenLess) {
		for {
			arg, err := p.typeExpression()
			if err != nil {
				return nil, err
			}
			generics = append(generics, arg)
			if p.match(lexer.TokenComma) {
				continue
			}
			if p.match(lexer.TokenGreater) {
				break
			}
			return nil, p.errorHere("Expected ',' or '>' in generic type args")
		}
	}
	callee := ast.NewIdentifier("chan")
	if p.match(lexer.TokenLParen) {
		args, err := p.argumentList()
		if err != nil {
			return nil, err
		}
		return ast.NewCallExpression(callee, args, generics), nil
	}
	return callee, nil
}

// parenExpression disambiguates grouping from tuple literals: () is the
// empty tuple, (e) a group, (e,) and (e, f) tuples.
func (p *parser) parenExpression() (ast.Expression, error) {
	p.advance()
	if p.match(lexer.TokenRParen) {
		return ast.NewTupleLiteral(nil), nil
	}
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.TokenComma) {
		elements := []ast.Expression{first}
		if p.match(lexer.TokenRParen) {
			return ast.NewTupleLiteral(elements), nil
		}
		for {
			element, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
			if p.match(lexer.TokenComma) {
				if p.match(lexer.TokenRParen) {
					return ast.NewTupleLiteral(elements), nil
				}
				continue
			}
			if p.match(lexer.TokenRParen) {
				return ast.NewTupleLiteral(elements), nil
			}
			return nil, p.errorHere("Expected ',' or ')' in tuple")
		}
	}
	if p.match(lexer.TokenRParen) {
		return first, nil
	}
	return nil, p.errorHere("Expected ')' or ','")
}

func (p *parser) listLiteral() (ast.Expression, error) {
	p.advance()
	var elements []ast.Expression
	if p.match(lexer.TokenRBracket) {
		return ast.NewListLiteral(elements), nil
	}
	for {
		element, err := p.expression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		if p.match(lexer.TokenComma) {
			if p.match(lexer.TokenRBracket) {
				return ast.NewListLiteral(elements), nil
			}
			continue
		}
		if p.match(lexer.TokenRBracket) {
			return ast.NewListLiteral(elements), nil
		}
		return nil, p.errorHere("Expected ',' or ']' in list")
	}
}

// braceLiteral splits dict from set on the ':' after the first element.
// {} is the empty dict.
func (p *parser) braceLiteral() (ast.Expression, error) {
	p.advance()
	if p.match(lexer.TokenRBrace) {
		return ast.NewDictLiteral(nil), nil
	}
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.TokenColon) {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		entries := []*ast.DictEntry{ast.NewDictEntry(first, value)}
		for {
			if p.match(lexer.TokenRBrace) {
				return ast.NewDictLiteral(entries), nil
			}
			if !p.match(lexer.TokenComma) {
				return nil, p.errorHere("Expected ',' or '}' in dict")
			}
			if p.match(lexer.TokenRBrace) {
				return ast.NewDictLiteral(entries), nil
			}
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenColon, "Expected ':' in dict entry"); err != nil {
				return nil, err
			}
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.NewDictEntry(key, value))
		}
	}
	elements := []ast.Expression{first}
	for {
		if p.match(lexer.TokenRBrace) {
			return ast.NewSetLiteral(elements), nil
		}
		if !p.match(lexer.TokenComma) {
			return nil, p.errorHere("Expected ',' or '}' in set")
		}
		if p.match(lexer.TokenRBrace) {
			return ast.NewSetLiteral(elements), nil
		}
		element, err := p.expression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
}
