package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nib-lang/nib/lexer"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			return toks
		}
	}
}

func types(toks []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, len(toks))
	for i, tk := range toks {
		out[i] = tk.Type
	}
	return out
}

func TestTokenizeDeclaration(t *testing.T) {
	toks := tokenize(t, "gimme a = 2 + 2 * 3;")
	assert.Equal(t, []lexer.TokenType{
		lexer.GIMME, lexer.IDENT, lexer.ASSIGN, lexer.INT_LIT, lexer.PLUS,
		lexer.INT_LIT, lexer.STAR, lexer.INT_LIT, lexer.SEMI, lexer.EOF,
	}, types(toks))
}

func TestTokenizeCompoundOperators(t *testing.T) {
	toks := tokenize(t, "i += 1; i <= 2 && j >= 3;")
	got := types(toks)
	assert.Contains(t, got, lexer.PLUS_ASSIGN)
	assert.Contains(t, got, lexer.LE)
	assert.Contains(t, got, lexer.GE)
}

func TestTokenizeLambdaArrowAndRef(t *testing.T) {
	toks := tokenize(t, "(x) => { return &x; }")
	got := types(toks)
	assert.Contains(t, got, lexer.FAT_ARROW)
	assert.Contains(t, got, lexer.AMP)
}

func TestTokenizeKeywords(t *testing.T) {
	toks := tokenize(t, "if elif else while break continue return print println true false and or")
	assert.Equal(t, []lexer.TokenType{
		lexer.IF, lexer.ELIF, lexer.ELSE, lexer.WHILE, lexer.BREAK, lexer.CONTINUE,
		lexer.RETURN, lexer.PRINT, lexer.PRINTLN, lexer.TRUE, lexer.FALSE,
		lexer.AND, lexer.OR, lexer.EOF,
	}, types(toks))
}

func TestLineComments(t *testing.T) {
	toks := tokenize(t, "gimme a = 1; // trailing comment\nprintln a;")
	got := types(toks)
	assert.NotContains(t, got, lexer.INVALID)
}

func TestTrackLineAndColumn(t *testing.T) {
	toks := tokenize(t, "gimme a = 1;\ngimme b = 2;")
	var secondGimme lexer.Token
	count := 0
	for _, tk := range toks {
		if tk.Type == lexer.GIMME {
			count++
			if count == 2 {
				secondGimme = tk
			}
		}
	}
	assert.Equal(t, 2, secondGimme.Line)
}
