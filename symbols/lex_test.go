package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []TokenKind {
	var ks []TokenKind
	for _, t := range toks {
		ks = append(ks, t.Kind)
	}
	return ks
}

func TestLexSimplePackage(t *testing.T) {
	toks, err := Lex("package P;")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{Identifier, Space, Identifier, Semicolon}, kinds(toks))
}

func TestLexLineComment(t *testing.T) {
	toks, err := Lex("// hello\npackage P;")
	require.NoError(t, err)
	assert.Equal(t, LineComment, toks[0].Kind)
	assert.Equal(t, "// hello", toks[0].Text)
}

func TestLexBlockComment(t *testing.T) {
	toks, err := Lex("/* a comment */ package P;")
	require.NoError(t, err)
	assert.Equal(t, BlockComment, toks[0].Kind)
	assert.Equal(t, "/* a comment */", toks[0].Text)
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	_, err := Lex("/* never closed")
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrUnterminated, lexErr.Kind)
}

func TestLexDoubleQuotedStringWithEscape(t *testing.T) {
	toks, err := Lex(`doc /* */ "a \"quoted\" string";`)
	require.NoError(t, err)
	var found bool
	for _, tok := range toks {
		if tok.Kind == String {
			found = true
			assert.Equal(t, `"a \"quoted\" string"`, tok.Text)
		}
	}
	assert.True(t, found)
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := Lex(`"never closed`)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, ErrUnterminated, lexErr.Kind)
}

func TestLexSingleQuotedNameWithEscape(t *testing.T) {
	toks, err := Lex(`part 'my \'odd\' name';`)
	require.NoError(t, err)
	var found bool
	for _, tok := range toks {
		if tok.Kind == Quoted {
			found = true
			assert.Equal(t, `'my \'odd\' name'`, tok.Text)
		}
	}
	assert.True(t, found)
}

func TestLexOperatorDelimiters(t *testing.T) {
	toks, err := Lex("a::b.c<d>e=f")
	require.NoError(t, err)
	var ks []TokenKind
	for _, tok := range toks {
		ks = append(ks, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		Identifier, DoubleColon, Identifier, Period, Identifier,
		LT, Identifier, GT, Identifier, Equals, Identifier,
	}, ks)
}

func TestLexUnicodeIdentifier(t *testing.T) {
	toks, err := Lex("package Gebäude;")
	require.NoError(t, err)
	assert.Equal(t, "Gebäude", toks[2].Text)
}
