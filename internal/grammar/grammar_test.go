package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func arithGrammar(t *testing.T) *Grammar {
	t.Helper()
	g := New()
	assert.NoError(t, g.AddTerminal("num", false))
	assert.NoError(t, g.AddTerminal("plus", false))
	assert.NoError(t, g.AddRule("sum", [][]string{
		{"num", "plus", "num"},
		{"num"},
	}))
	return g
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		build     func(t *testing.T) *Grammar
		expectErr bool
	}{
		{
			name:      "empty grammar has no rules",
			build:     func(t *testing.T) *Grammar { return New() },
			expectErr: true,
		},
		{
			name:      "valid arithmetic grammar",
			build:     arithGrammar,
			expectErr: false,
		},
		{
			name: "unknown symbol in body",
			build: func(t *testing.T) *Grammar {
				g := New()
				assert.NoError(t, g.AddTerminal("num", false))
				assert.NoError(t, g.AddRule("sum", [][]string{{"num", "mystery"}}))
				return g
			},
			expectErr: true,
		},
		{
			name: "EBNF star operator rejected",
			build: func(t *testing.T) *Grammar {
				g := New()
				assert.NoError(t, g.AddTerminal("item", false))
				assert.NoError(t, g.AddRule("list", [][]string{{"item", "*"}}))
				return g
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := tc.build(t)
			err := g.Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Grammar_AddTerminal_duplicate(t *testing.T) {
	assert := assert.New(t)

	g := New()
	assert.NoError(g.AddTerminal("num", false))
	assert.Error(g.AddTerminal("num", false))
}

func Test_Grammar_AddRule_nameClashesWithTerminal(t *testing.T) {
	assert := assert.New(t)

	g := New()
	assert.NoError(g.AddTerminal("sum", false))
	assert.Error(g.AddRule("sum", [][]string{{"sum"}}))
}

func Test_Grammar_StartSymbol_isFirstDeclaredRule(t *testing.T) {
	assert := assert.New(t)

	g := New()
	assert.NoError(g.AddTerminal("num", false))
	assert.NoError(g.AddRule("sum", [][]string{{"num"}}))
	assert.NoError(g.AddRule("term", [][]string{{"num"}}))

	assert.Equal("sum", g.StartSymbol())
}

func Test_Grammar_Augmented(t *testing.T) {
	assert := assert.New(t)

	g := arithGrammar(t)
	aug, err := g.Augmented()
	if !assert.NoError(err) {
		return
	}

	assert.Equal("sum-P", aug.StartSymbol())
	assert.Equal([]string{"sum-P", "sum"}, aug.Nonterminals())

	startProds := aug.Rule("sum-P")
	if assert.Len(startProds, 1) {
		assert.Equal([]string{"sum", "$"}, startProds[0].Body)
	}

	ids := aug.AssignIDs()
	assert.Equal(0, ids.NonterminalID["sum-P"])
	assert.Equal(1, ids.NonterminalID["sum"])
	assert.Equal(ids.MaxTerminal, ids.TerminalID[EndOfInput])
}

func Test_Grammar_AllProductions_stableOrder(t *testing.T) {
	assert := assert.New(t)

	g := arithGrammar(t)
	prods := g.AllProductions()

	if assert.Len(prods, 2) {
		assert.Equal([]string{"num", "plus", "num"}, prods[0].Body)
		assert.Equal([]string{"num"}, prods[1].Body)
	}
}

func Test_Grammar_Nullable(t *testing.T) {
	assert := assert.New(t)

	g := New()
	assert.NoError(g.AddTerminal("a", false))
	assert.NoError(g.AddRule("opt", [][]string{
		{"a"},
		{},
	}))
	assert.NoError(g.AddRule("wrap", [][]string{
		{"opt"},
	}))

	nullable := g.Nullable()
	assert.True(nullable["opt"])
	assert.True(nullable["wrap"])
}

func Test_Grammar_FirstSets_throughNullablePrefix(t *testing.T) {
	assert := assert.New(t)

	g := New()
	assert.NoError(g.AddTerminal("a", false))
	assert.NoError(g.AddTerminal("b", false))
	assert.NoError(g.AddRule("opt", [][]string{
		{"a"},
		{},
	}))
	assert.NoError(g.AddRule("s", [][]string{
		{"opt", "b"},
	}))

	first := g.FirstSets()
	assert.True(first["s"].Has("a"))
	assert.True(first["s"].Has("b"))
	assert.True(first["opt"].Has("a"))
}

func Test_LR0Item_Advanced_and_Next(t *testing.T) {
	assert := assert.New(t)

	item := LR0Item{NonTerminal: "sum", Right: []string{"num", "plus", "num"}}

	next, ok := item.Next()
	assert.True(ok)
	assert.Equal("num", next)

	item = item.Advanced()
	assert.Equal([]string{"num"}, item.Left)
	assert.Equal([]string{"plus", "num"}, item.Right)

	item = item.Advanced()
	item = item.Advanced()
	_, ok = item.Next()
	assert.False(ok)
}

func Test_LR0Item_String(t *testing.T) {
	assert := assert.New(t)

	item := LR0Item{NonTerminal: "sum", Left: []string{"num"}, Right: []string{"plus", "num"}}
	assert.Equal("sum -> num . plus num", item.String())
}
