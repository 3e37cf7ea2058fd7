package parser

import (
	"strings"

	"ember/interpreter-go/pkg/ast"
	"ember/interpreter-go/pkg/lexer"
)

func (p *parser) statement() (ast.Statement, error) {
	switch p.peek().Type {
	case lexer.TokenLet:
		return p.varDecl(false)
	case lexer.TokenMut:
		return p.varDecl(true)
	case lexer.TokenDef:
		return p.funcDecl()
	case lexer.TokenReturn:
		return p.returnStatement()
	case lexer.TokenBreak:
		p.advance()
		p.maybeNewline()
		return ast.NewBreakStatement(), nil
	case lexer.TokenContinue:
		p.advance()
		p.maybeNewline()
		return ast.NewContinueStatement(), nil
	case lexer.TokenIf:
		return p.ifStatement()
	case lexer.TokenWhile:
		return p.whileStatement()
	case lexer.TokenFor:
		return p.forStatement()
	case lexer.TokenImport:
		return p.importStatement()
	case lexer.TokenRecord:
		return p.recordDecl()
	case lexer.TokenClass:
		return p.classDecl()
	case lexer.TokenInterface:
		return p.interfaceDecl()
	case lexer.TokenTypeAlias:
		return p.typeAlias()
	case lexer.TokenTry:
		return p.tryStatement()
	case lexer.TokenRaise:
		return p.raiseStatement()
	case lexer.TokenGo:
		return p.goStatement()
	case lexer.TokenExtern:
		return nil, p.errorf("extern declarations are not supported")
	default:
		return p.assignOrExpression()
	}
}

// assignOrExpression parses an expression and then decides: a following '='
// turns it into an assignment through an identifier, member, or index
// target; anything else is an expression statement.
func (p *parser) assignOrExpression() (ast.Statement, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(lexer.TokenAssign) {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		p.maybeNewline()
		switch target := expr.(type) {
		case *ast.Identifier:
			return ast.NewAssignStatement(target.Name, value), nil
		case *ast.MemberExpression:
			return ast.NewSetMemberStatement(target.Object, target.Name, value), nil
		case *ast.IndexExpression:
			return ast.NewSetIndexStatement(target.Object, target.Index, value), nil
		default:
			return nil, p.errorf("Invalid assignment target")
		}
	}
	p.maybeNewline()
	return ast.NewExpressionStatement(expr), nil
}

func (p *parser) varDecl(mutable bool) (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier, "Expected identifier")
	if err != nil {
		return nil, err
	}
	var declType ast.TypeExpression
	if p.match(lexer.TokenColon) {
		declType, err = p.typeExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenAssign, "Expected '=' in variable declaration"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.maybeNewline()
	return ast.NewVarDecl(name.Lexeme, value, mutable, declType), nil
}

func (p *parser) funcDecl() (*ast.FunctionDeclaration, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier, "Expected function name")
	if err != nil {
		return nil, err
	}
	generics, err := p.genericParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLParen, "Expected '(' after function name"); err != nil {
		return nil, err
	}
	params, err := p.paramList(false)
	if err != nil {
		return nil, err
	}
	var returnType ast.TypeExpression
	if p.match(lexer.TokenArrow) {
		returnType, err = p.typeExpression()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.colonBlock("Expected ':' before function body")
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDeclaration(name.Lexeme, params, body, returnType, generics), nil
}

// paramList parses a parenthesized parameter list, the opening paren already
// consumed. Type annotations are optional for function parameters and
// required inside interface signatures.
func (p *parser) paramList(requireTypes bool) ([]*ast.Parameter, error) {
	var params []*ast.Parameter
	if p.match(lexer.TokenRParen) {
		return params, nil
	}
	for {
		name, err := p.expect(lexer.TokenIdentifier, "Expected parameter name")
		if err != nil {
			return nil, err
		}
		var paramType ast.TypeExpression
		if requireTypes {
			if _, err := p.expect(lexer.TokenColon, "Expected ':' after parameter name"); err != nil {
				return nil, err
			}
			paramType, err = p.typeExpression()
			if err != nil {
				return nil, err
			}
		} else if p.match(lexer.TokenColon) {
			paramType, err = p.typeExpression()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, ast.NewParameter(name.Lexeme, paramType))
		if p.match(lexer.TokenComma) {
			if p.match(lexer.TokenRParen) {
				return params, nil
			}
			continue
		}
		if p.match(lexer.TokenRParen) {
			return params, nil
		}
		return nil, p.errorHere("Expected ',' or ')' in parameter list")
	}
}

func (p *parser) returnStatement() (ast.Statement, error) {
	p.advance()
	switch p.peek().Type {
	case lexer.TokenNewline, lexer.TokenEOF, lexer.TokenDedent:
		p.maybeNewline()
		return ast.NewReturnStatement(nil), nil
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.maybeNewline()
	return ast.NewReturnStatement(value), nil
}

func (p *parser) ifStatement() (ast.Statement, error) {
	p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.colonBlock("Expected ':' after if condition")
	if err != nil {
		return nil, err
	}
	var els []ast.Statement
	if p.match(lexer.TokenElse) {
		els, err = p.colonBlock("Expected ':' after else")
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(cond, then, els), nil
}

func (p *parser) whileStatement() (ast.Statement, error) {
	p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.colonBlock("Expected ':' after while condition")
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStatement(cond, body), nil
}

func (p *parser) forStatement() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier, "Expected identifier after 'for'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenIn, "Expected 'in' after loop variable"); err != nil {
		return nil, err
	}
	iterable, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.colonBlock("Expected ':' after for loop iterable")
	if err != nil {
		return nil, err
	}
	return ast.NewForStatement(name.Lexeme, iterable, body), nil
}

func (p *parser) importStatement() (ast.Statement, error) {
	p.advance()
	if p.check(lexer.TokenString) {
		tok := p.advance()
		p.maybeNewline()
		return ast.NewImportStatement(tok.Literal.(string), true), nil
	}
	var parts []string
	for {
		name, err := p.expect(lexer.TokenIdentifier, "Expected identifier in import path")
		if err != nil {
			return nil, err
		}
		parts = append(parts, name.Lexeme)
		if !p.match(lexer.TokenDot) {
			break
		}
	}
	p.maybeNewline()
	return ast.NewImportStatement(strings.Join(parts, "."), false), nil
}

func (p *parser) recordDecl() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier, "Expected record name")
	if err != nil {
		return nil, err
	}
	generics, err := p.genericParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLParen, "Expected '(' after record name"); err != nil {
		return nil, err
	}
	var fields []*ast.FieldDefinition
	if !p.match(lexer.TokenRParen) {
		for {
			fieldName, err := p.expect(lexer.TokenIdentifier, "Expected field name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenColon, "Expected ':' after field name"); err != nil {
				return nil, err
			}
			fieldType, err := p.typeExpression()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.NewFieldDefinition(fieldName.Lexeme, fieldType))
			if p.match(lexer.TokenComma) {
				if p.match(lexer.TokenRParen) {
					break
				}
				continue
			}
			if p.match(lexer.TokenRParen) {
				break
			}
			return nil, p.errorHere("Expected ',' or ')' in field list")
		}
	}
	var methods []*ast.FunctionDeclaration
	if p.check(lexer.TokenColon) {
		methods, err = p.methodBlock("Expected ':' before record body")
		if err != nil {
			return nil, err
		}
	} else {
		p.maybeNewline()
	}
	return ast.NewRecordDeclaration(name.Lexeme, fields, methods, generics), nil
}

func (p *parser) classDecl() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier, "Expected class name")
	if err != nil {
		return nil, err
	}
	parent := ""
	if p.match(lexer.TokenLParen) {
		parentTok, err := p.expect(lexer.TokenIdentifier, "Expected parent class name")
		if err != nil {
			return nil, err
		}
		parent = parentTok.Lexeme
		if _, err := p.expect(lexer.TokenRParen, "Expected ')' after parent class name"); err != nil {
			return nil, err
		}
	}
	methods, err := p.methodBlock("Expected ':' after class declaration")
	if err != nil {
		return nil, err
	}
	return ast.NewClassDeclaration(name.Lexeme, parent, methods), nil
}

// methodBlock parses an indented block that may contain only def statements.
// Record and class bodies share it.
func (p *parser) methodBlock(colonMsg string) ([]*ast.FunctionDeclaration, error) {
	if _, err := p.expect(lexer.TokenColon, colonMsg); err != nil {
		return nil, err
	}
	p.maybeNewline()
	if _, err := p.expect(lexer.TokenIndent, "Expected indented body"); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionDeclaration
	for {
		switch p.peek().Type {
		case lexer.TokenDedent:
			p.advance()
			return methods, nil
		case lexer.TokenEOF:
			return methods, nil
		case lexer.TokenNewline:
			p.advance()
		case lexer.TokenDef:
			method, err := p.funcDecl()
			if err != nil {
				return nil, err
			}
			methods = append(methods, method)
		default:
			return nil, p.errorHere("Expected 'def' in type body")
		}
	}
}

func (p *parser) interfaceDecl() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier, "Expected interface name")
	if err != nil {
		return nil, err
	}
	generics, err := p.genericParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, "Expected '{' after interface name"); err != nil {
		return nil, err
	}
	var signatures []*ast.MethodSignature
	for {
		switch p.peek().Type {
		case lexer.TokenRBrace:
			p.advance()
			p.maybeNewline()
			return ast.NewInterfaceDeclaration(name.Lexeme, signatures, generics), nil
		case lexer.TokenNewline, lexer.TokenIndent, lexer.TokenDedent:
			p.advance()
		case lexer.TokenDef:
			p.advance()
			methodName, err := p.expect(lexer.TokenIdentifier, "Expected method name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenLParen, "Expected '(' after method name"); err != nil {
				return nil, err
			}
			params, err := p.paramList(true)
			if err != nil {
				return nil, err
			}
			var returnType ast.TypeExpression
			if p.match(lexer.TokenArrow) {
				returnType, err = p.typeExpression()
				if err != nil {
					return nil, err
				}
			}
			signatures = append(signatures, ast.NewMethodSignature(methodName.Lexeme, params, returnType, nil))
		default:
			return nil, p.errorHere("Expected 'def' for interface method")
		}
	}
}

func (p *parser) typeAlias() (ast.Statement, error) {
	p.advance()
	name, err := p.expect(lexer.TokenIdentifier, "Expected alias name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenAssign, "Expected '=' in type alias"); err != nil {
		return nil, err
	}
	aliased, err := p.typeExpression()
	if err != nil {
		return nil, err
	}
	p.maybeNewline()
	return ast.NewTypeAliasDeclaration(name.Lexeme, aliased), nil
}

func (p *parser) tryStatement() (ast.Statement, error) {
	p.advance()
	body, err := p.colonBlock("Expected ':' after try")
	if err != nil {
		return nil, err
	}
	var catch *ast.CatchClause
	if p.match(lexer.TokenExcept) {
		catchVar := ""
		if p.check(lexer.TokenIdentifier) {
			catchVar = p.advance().Lexeme
		}
		catchBody, err := p.colonBlock("Expected ':' after except")
		if err != nil {
			return nil, err
		}
		catch = ast.NewCatchClause(catchVar, catchBody)
	}
	var finally []ast.Statement
	if p.match(lexer.TokenFinally) {
		finally, err = p.colonBlock("Expected ':' after finally")
		if err != nil {
			return nil, err
		}
	}
	if catch == nil && finally == nil {
		return nil, p.errorf("Try block must be followed by except or finally")
	}
	return ast.NewTryStatement(body, catch, finally), nil
}

func (p *parser) raiseStatement() (ast.Statement, error) {
	p.advance()
	errExpr, err := p.expression()
	if err != nil {
		return nil, err
	}
	var cause ast.Expression
	if p.match(lexer.TokenFrom) {
		cause, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	p.maybeNewline()
	return ast.NewRaiseStatement(errExpr, cause), nil
}

func (p *parser) goStatement() (ast.Statement, error) {
	p.advance()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		return nil, p.errorf("Expected function call after 'go'")
	}
	p.maybeNewline()
	return ast.NewGoStatement(call), nil
}

// colonBlock parses ':' newline Indent stmts Dedent, the block form shared
// by every compound statement.
func (p *parser) colonBlock(colonMsg string) ([]ast.Statement, error) {
	if _, err := p.expect(lexer.TokenColon, colonMsg); err != nil {
		return nil, err
	}
	p.maybeNewline()
	return p.block()
}

func (p *parser) block() ([]ast.Statement, error) {
	if _, err := p.expect(lexer.TokenIndent, "Expected indented block"); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for {
		switch p.peek().Type {
		case lexer.TokenDedent:
			p.advance()
			return stmts, nil
		case lexer.TokenEOF:
			return stmts, nil
		case lexer.TokenNewline:
			p.advance()
		default:
			stmt, err := p.statement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
	}
}

// genericParams parses an optional <T, U> parameter list after a name.
func (p *parser) genericParams() ([]string, error) {
	if !p.match(lexer.TokenLess) {
		return nil, nil
	}
	var params []string
	for {
		name, err := p.expect(lexer.TokenIdentifier, "Expected generic parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, name.Lexeme)
		if p.match(lexer.TokenComma) {
			continue
		}
		if p.match(lexer.TokenGreater) {
			return params, nil
		}
		return nil, p.errorHere("Expected ',' or '>' in generic parameters")
	}
}
