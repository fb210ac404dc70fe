package canvassheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []token) []tokenType {
	out := make([]tokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.typ
	}
	return out
}

func TestTokenize(t *testing.T) {
	tokens, err := tokenize("A0 + SUM(B1:B3) * 2.5e2")
	require.NoError(t, err)
	assert.Equal(t, []tokenType{
		tokenCell, tokenPlus, tokenIdent, tokenLParen, tokenCell, tokenColon,
		tokenCell, tokenRParen, tokenAsterisk, tokenNumber, tokenEOF,
	}, tokenTypes(tokens))
	assert.Equal(t, "SUM", tokens[2].text)
	assert.Equal(t, "2.5e2", tokens[9].text)
}

func TestTokenizeDollarPins(t *testing.T) {
	tokens, err := tokenize("$A$1 + A$1 + $A1")
	require.NoError(t, err)
	assert.Equal(t, []tokenType{
		tokenCell, tokenPlus, tokenCell, tokenPlus, tokenCell, tokenEOF,
	}, tokenTypes(tokens))
	assert.Equal(t, "$A$1", tokens[0].text)
	assert.Equal(t, "A$1", tokens[2].text)
	assert.Equal(t, "$A1", tokens[4].text)
}

func TestTokenizeQualifiedReference(t *testing.T) {
	tokens, err := tokenize("table_1.B2")
	require.NoError(t, err)
	assert.Equal(t, []tokenType{tokenIdent, tokenDot, tokenCell, tokenEOF}, tokenTypes(tokens))

	// A cell-shaped table id lexes as a cell token; the parser
	// reinterprets it when a dot follows.
	tokens, err = tokenize("table1.B2")
	require.NoError(t, err)
	assert.Equal(t, []tokenType{tokenCell, tokenDot, tokenCell, tokenEOF}, tokenTypes(tokens))
	assert.Equal(t, "table1", tokens[0].text)
}

func TestTokenizeNumberForms(t *testing.T) {
	cases := []struct {
		input string
		text  string
	}{
		{"0", "0"},
		{"12.75", "12.75"},
		{"1e6", "1e6"},
		{"2.5E-3", "2.5E-3"},
		{"3e+2", "3e+2"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			tokens, err := tokenize(tc.input)
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, tokenNumber, tokens[0].typ)
			assert.Equal(t, tc.text, tokens[0].text)
		})
	}
}

// An exponent marker with no digits is not part of the number.
func TestTokenizeDanglingExponent(t *testing.T) {
	tokens, err := tokenize("1e")
	require.NoError(t, err)
	assert.Equal(t, []tokenType{tokenNumber, tokenIdent, tokenEOF}, tokenTypes(tokens))
	assert.Equal(t, "1", tokens[0].text)
	assert.Equal(t, "e", tokens[1].text)
}

func TestTokenizeDotAfterDigits(t *testing.T) {
	// With no digit after the dot, the dot is its own token.
	tokens, err := tokenize("1.A")
	require.NoError(t, err)
	assert.Equal(t, []tokenType{tokenNumber, tokenDot, tokenIdent, tokenEOF}, tokenTypes(tokens))
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		input string
		code  Code
	}{
		{"@", CodeUnexpectedCharacter},
		{"1 # 2", CodeUnexpectedCharacter},
		{"$SUM", CodeInvalidCellReference},
		{"$A", CodeInvalidCellReference},
		{"A$", CodeInvalidCellReference},
		{"A$B$1", CodeInvalidCellReference},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := tokenize(tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.code, CodeOf(err))
		})
	}
}

func TestCellShape(t *testing.T) {
	for _, text := range []string{"A0", "zz99", "$A1", "A$1", "$A$1", "AB123"} {
		assert.True(t, cellShape(text), text)
	}
	for _, text := range []string{"", "A", "1", "A1B", "_A1", "A_1", "$1", "A$"} {
		assert.False(t, cellShape(text), text)
	}
}
