package pegsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsisnero/pegasus/internal/pegerr"
)

const arithTOML = `
[[tokens]]
name = "num"
pattern = "[0-9]+"

[[tokens]]
name = "plus"
pattern = "\\+"

[[tokens]]
name = "ws"
pattern = "[ \\t]+"
skip = true

[[rules]]
name = "sum"
bodies = [["num", "plus", "num"], ["num"]]
`

func Test_Load_parsesTokensAndRulesInOrder(t *testing.T) {
	a := assert.New(t)

	src, err := Load([]byte(arithTOML))
	if !a.NoError(err) {
		return
	}

	if !a.Len(src.Tokens, 3) {
		return
	}
	a.Equal("num", src.Tokens[0].Name)
	a.Equal("plus", src.Tokens[1].Name)
	a.True(src.Tokens[2].Skip)

	if !a.Len(src.Rules, 1) {
		return
	}
	a.Equal("sum", src.Rules[0].Name)
	a.Len(src.Rules[0].Bodies, 2)
}

func Test_Load_malformedTOMLErrors(t *testing.T) {
	a := assert.New(t)

	_, err := Load([]byte("this is not [valid toml"))
	a.Error(err)
}

func Test_Grammar_buildsValidGrammarFromSource(t *testing.T) {
	a := assert.New(t)

	src, err := Load([]byte(arithTOML))
	if !a.NoError(err) {
		return
	}

	g, err := src.Grammar()
	if !a.NoError(err) {
		return
	}

	a.Equal("sum", g.StartSymbol())
	a.True(g.IsTerminal("num"))
	a.True(g.IsTerminal("ws"))
	a.True(g.IsNonterminal("sum"))
}

func Test_Grammar_unknownSymbolInBodyIsGrammarError(t *testing.T) {
	a := assert.New(t)

	src := &GrammarSource{
		Tokens: []TokenSource{{Name: "num", Pattern: "[0-9]+"}},
		Rules: []RuleSource{
			{Name: "sum", Bodies: [][]string{{"num", "nonexistent"}}},
		},
	}

	_, err := src.Grammar()
	if !a.Error(err) {
		return
	}
	a.True(pegerr.IsKind(err, pegerr.Grammar))
}

func Test_TokenDefs_assignsSequentialIDsStartingAt1(t *testing.T) {
	a := assert.New(t)

	src, err := Load([]byte(arithTOML))
	if !a.NoError(err) {
		return
	}

	defs, err := src.TokenDefs()
	if !a.NoError(err) {
		return
	}

	if !a.Len(defs, 3) {
		return
	}
	a.Equal(1, defs[0].ID)
	a.Equal(2, defs[1].ID)
	a.Equal(3, defs[2].ID)
	a.True(defs[2].Skip)
}
