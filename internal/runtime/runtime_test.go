package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsisnero/pegasus/internal/grammar"
	"github.com/dsisnero/pegasus/internal/lalr"
	"github.com/dsisnero/pegasus/internal/lalrtab"
	"github.com/dsisnero/pegasus/internal/langdata"
	"github.com/dsisnero/pegasus/internal/lexgen"
)

func arithLanguage(t *testing.T) *langdata.LanguageData {
	t.Helper()
	a := assert.New(t)

	lex, err := lexgen.Build([]lexgen.TokenDef{
		{ID: 1, Name: "num", Pattern: "[0-9]+"},
		{ID: 2, Name: "plus", Pattern: `\+`},
		{ID: 3, Name: "ws", Pattern: "[ \t]+", Skip: true},
	}, 0)
	if !a.NoError(err) {
		t.FailNow()
	}

	g := grammar.New()
	a.NoError(g.AddTerminal("num", false))
	a.NoError(g.AddTerminal("plus", false))
	a.NoError(g.AddRule("sum", [][]string{
		{"num", "plus", "num"},
		{"num"},
	}))

	aug, err := g.Augmented()
	if !a.NoError(err) {
		t.FailNow()
	}
	col, err := lalr.Build(aug, 0)
	if !a.NoError(err) {
		t.FailNow()
	}
	tab, err := lalrtab.Build(col)
	if !a.NoError(err) {
		t.FailNow()
	}

	ld, err := langdata.Build(lex, tab)
	if !a.NoError(err) {
		t.FailNow()
	}
	return ld
}

func Test_Lex_skipsWhitespaceAndEmitsEndOfInput(t *testing.T) {
	a := assert.New(t)

	ld := arithLanguage(t)
	tokens, err := Lex(ld, "12 + 34")
	if !a.NoError(err) {
		return
	}

	if !a.Len(tokens, 4) {
		return
	}
	a.Equal("num", tokens[0].Terminal)
	a.Equal("12", tokens[0].Lexeme)
	a.Equal("plus", tokens[1].Terminal)
	a.Equal("num", tokens[2].Terminal)
	a.Equal("34", tokens[2].Lexeme)
	a.Equal(grammar.EndOfInput, tokens[3].Terminal)
}

func Test_Lex_badCharacterReportsOffset(t *testing.T) {
	a := assert.New(t)

	ld := arithLanguage(t)
	_, err := Lex(ld, "12#34")
	if !a.Error(err) {
		return
	}
	a.Contains(err.Error(), "offset 2")
}

func Test_Parse_roundTripsLeafOrderWithTokenStream(t *testing.T) {
	a := assert.New(t)

	ld := arithLanguage(t)
	tokens, err := Lex(ld, "12+34")
	if !a.NoError(err) {
		return
	}

	tree, err := Parse(ld, tokens)
	if !a.NoError(err) {
		return
	}

	a.Equal("sum", tree.Symbol)

	var leaves []string
	var walk func(*Tree)
	walk = func(n *Tree) {
		if n.Terminal {
			leaves = append(leaves, n.Token.Lexeme)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree)

	a.Equal([]string{"12", "+", "34"}, leaves)
}

func Test_Parse_singleNumReducesDirectly(t *testing.T) {
	a := assert.New(t)

	ld := arithLanguage(t)
	tokens, err := Lex(ld, "7")
	if !a.NoError(err) {
		return
	}

	tree, err := Parse(ld, tokens)
	if !a.NoError(err) {
		return
	}

	a.Equal("sum", tree.Symbol)
	if !a.Len(tree.Children, 1) {
		return
	}
	a.True(tree.Children[0].Terminal)
	a.Equal("7", tree.Children[0].Token.Lexeme)
}

func Test_Parse_unexpectedTokenReportsBadToken(t *testing.T) {
	a := assert.New(t)

	ld := arithLanguage(t)
	tokens, err := Lex(ld, "+12")
	if !a.NoError(err) {
		return
	}

	_, err = Parse(ld, tokens)
	if !a.Error(err) {
		return
	}
	a.Contains(err.Error(), "unexpected token")
}
