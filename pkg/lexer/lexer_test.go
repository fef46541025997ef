package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextTokenBasics(t *testing.T) {
	input := `(){};,.-+/* ! != = == > >= < <=`

	tests := []struct {
		typ    TokenType
		lexeme string
	}{
		{TokenLeftParen, "("},
		{TokenRightParen, ")"},
		{TokenLeftBrace, "{"},
		{TokenRightBrace, "}"},
		{TokenSemicolon, ";"},
		{TokenComma, ","},
		{TokenDot, "."},
		{TokenMinus, "-"},
		{TokenPlus, "+"},
		{TokenSlash, "/"},
		{TokenStar, "*"},
		{TokenBang, "!"},
		{TokenBangEqual, "!="},
		{TokenEqual, "="},
		{TokenEqualEqual, "=="},
		{TokenGreater, ">"},
		{TokenGreaterEqual, ">="},
		{TokenLess, "<"},
		{TokenLessEqual, "<="},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		require.Equalf(t, tt.typ, tok.Type, "token %d (%q)", i, tt.lexeme)
		require.Equalf(t, tt.lexeme, tok.Lexeme, "token %d", i)
	}
}

func TestNextTokenKeywordsAndIdentifiers(t *testing.T) {
	input := "and class else false for fun if nil or print return super this true var while foo _bar1"

	expected := []TokenType{
		TokenAnd, TokenClass, TokenElse, TokenFalse, TokenFor, TokenFun, TokenIf,
		TokenNil, TokenOr, TokenPrint, TokenReturn, TokenSuper, TokenThis, TokenTrue,
		TokenVar, TokenWhile, TokenIdentifier, TokenIdentifier, TokenEOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		require.Equalf(t, want, tok.Type, "token %d", i)
	}
}

func TestNextTokenNumbers(t *testing.T) {
	l := New("123 3.14 0")
	tok := l.NextToken()
	require.Equal(t, TokenNumber, tok.Type)
	require.Equal(t, "123", tok.Lexeme)

	tok = l.NextToken()
	require.Equal(t, TokenNumber, tok.Type)
	require.Equal(t, "3.14", tok.Lexeme)

	tok = l.NextToken()
	require.Equal(t, TokenNumber, tok.Type)
	require.Equal(t, "0", tok.Lexeme)
}

func TestNextTokenString(t *testing.T) {
	l := New(`"hello world"`)
	tok := l.NextToken()
	require.Equal(t, TokenString, tok.Type)
	require.Equal(t, `"hello world"`, tok.Lexeme)
}

func TestNextTokenUnterminatedString(t *testing.T) {
	l := New(`"hello`)
	tok := l.NextToken()
	require.Equal(t, TokenError, tok.Type)
	require.Equal(t, "Unterminated string.", tok.Lexeme)
}

func TestNextTokenSkipsLineComments(t *testing.T) {
	l := New("// a comment\nvar")
	tok := l.NextToken()
	require.Equal(t, TokenVar, tok.Type)
}

func TestNextTokenTracksLines(t *testing.T) {
	l := New("var\nvar\n\nvar")
	require.Equal(t, 1, l.NextToken().Line)
	require.Equal(t, 2, l.NextToken().Line)
	require.Equal(t, 4, l.NextToken().Line)
}

func TestNextTokenEOFIsSticky(t *testing.T) {
	l := New("")
	require.Equal(t, TokenEOF, l.NextToken().Type)
	require.Equal(t, TokenEOF, l.NextToken().Type)
}

func TestNextTokenUnexpectedCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	require.Equal(t, TokenError, tok.Type)
	require.Equal(t, "Unexpected character.", tok.Lexeme)
}

func TestTokenTypeString(t *testing.T) {
	require.Equal(t, "VAR", TokenVar.String())
	require.Equal(t, "UNKNOWN", TokenType(9999).String())
}
