package lexer

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenIndent
	TokenDedent

	TokenIdentifier
	TokenInt
	TokenFloat
	TokenString

	TokenLet
	TokenMut
	TokenDef
	TokenReturn
	TokenIf
	TokenElse
	TokenWhile
	TokenFor
	TokenBreak
	TokenContinue
	TokenIn
	TokenRecord
	TokenEnum
	TokenMatch
	TokenCase
	TokenImport
	TokenInterface
	TokenClass
	TokenTypeAlias
	TokenTry
	TokenExcept
	TokenFinally
	TokenRaise
	TokenFrom
	TokenGo
	TokenChan
	TokenExtern
	TokenTrue
	TokenFalse

	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenAssign
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenLessEqual
	TokenGreater
	TokenGreaterEqual
	TokenColon
	TokenDot
	TokenArrow
	TokenPipe
	TokenComma
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "newline"
	case TokenIndent:
		return "indent"
	case TokenDedent:
		return "dedent"
	case TokenIdentifier:
		return "identifier"
	case TokenInt:
		return "int literal"
	case TokenFloat:
		return "float literal"
	case TokenString:
		return "string literal"
	case TokenLet:
		return "'let'"
	case TokenMut:
		return "'mut'"
	case TokenDef:
		return "'def'"
	case TokenReturn:
		return "'return'"
	case TokenIf:
		return "'if'"
	case TokenElse:
		return "'else'"
	case TokenWhile:
		return "'while'"
	case TokenFor:
		return "'for'"
	case TokenBreak:
		return "'break'"
	case TokenContinue:
		return "'continue'"
	case TokenIn:
		return "'in'"
	case TokenRecord:
		return "'record'"
	case TokenEnum:
		return "'enum'"
	case TokenMatch:
		return "'match'"
	case TokenCase:
		return "'case'"
	case TokenImport:
		return "'import'"
	case TokenInterface:
		return "'interface'"
	case TokenClass:
		return "'class'"
	case TokenTypeAlias:
		return "'type'"
	case TokenTry:
		return "'try'"
	case TokenExcept:
		return "'except'"
	case TokenFinally:
		return "'finally'"
	case TokenRaise:
		return "'raise'"
	case TokenFrom:
		return "'from'"
	case TokenGo:
		return "'go'"
	case TokenChan:
		return "'chan'"
	case TokenExtern:
		return "'extern'"
	case TokenTrue:
		return "'true'"
	case TokenFalse:
		return "'false'"
	case TokenPlus:
		return "'+'"
	case TokenMinus:
		return "'-'"
	case TokenStar:
		return "'*'"
	case TokenSlash:
		return "'/'"
	case TokenAssign:
		return "'='"
	case TokenEqual:
		return "'=='"
	case TokenNotEqual:
		return "'!='"
	case TokenLess:
		return "'<'"
	case TokenLessEqual:
		return "'<='"
	case TokenGreater:
		return "'>'"
	case TokenGreaterEqual:
		return "'>='"
	case TokenColon:
		return "':'"
	case TokenDot:
		return "'.'"
	case TokenArrow:
		return "'->'"
	case TokenPipe:
		return "'|'"
	case TokenComma:
		return "','"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is one lexical unit. Literal carries the decoded payload for
// int/float/string tokens and is nil otherwise. Line and Col are 1-based
// and point at the token's first rune.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
	Col     int
}

var keywords = map[string]TokenType{
	"let":       TokenLet,
	"mut":       TokenMut,
	"def":       TokenDef,
	"return":    TokenReturn,
	"if":        TokenIf,
	"else":      TokenElse,
	"while":     TokenWhile,
	"for":       TokenFor,
	"break":     TokenBreak,
	"continue":  TokenContinue,
	"in":        TokenIn,
	"record":    TokenRecord,
	"enum":      TokenEnum,
	"match":     TokenMatch,
	"case":      TokenCase,
	"import":    TokenImport,
	"interface": TokenInterface,
	"class":     TokenClass,
	"type":      TokenTypeAlias,
	"try":       TokenTry,
	"except":    TokenExcept,
	"finally":   TokenFinally,
	"raise":     TokenRaise,
	"from":      TokenFrom,
	"go":        TokenGo,
	"chan":      TokenChan,
	"extern":    TokenExtern,
	"true":      TokenTrue,
	"false":     TokenFalse,
}
