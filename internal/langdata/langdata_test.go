package langdata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsisnero/pegasus/internal/grammar"
	"github.com/dsisnero/pegasus/internal/lalr"
	"github.com/dsisnero/pegasus/internal/lalrtab"
	"github.com/dsisnero/pegasus/internal/lexgen"
)

func buildArith(t *testing.T) (*lexgen.Tables, *lalrtab.Assembled) {
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

	return lex, tab
}

func Test_Build_populatesSymbolTables(t *testing.T) {
	a := assert.New(t)

	lex, tab := buildArith(t)
	ld, err := Build(lex, tab)
	if !a.NoError(err) {
		return
	}

	a.Contains(ld.Terminals, "num")
	a.Contains(ld.Terminals, "plus")
	a.Contains(ld.Terminals, grammar.EndOfInput)
	a.Contains(ld.Nonterminals, "sum")

	start := ld.Nonterminals["sum-P"]
	a.True(start.IsStart)
	a.Equal(0, start.ID)

	notStart := ld.Nonterminals["sum"]
	a.False(notStart.IsStart)

	a.NotEqual("", ld.BuildID.String())
	a.Len(ld.Items, len(tab.Productions))
}

func Test_Build_lexTablesCarryRejectSinkInvariant(t *testing.T) {
	a := assert.New(t)

	lex, tab := buildArith(t)
	ld, err := Build(lex, tab)
	if !a.NoError(err) {
		return
	}

	for _, next := range ld.LexStateTable[0] {
		a.Equal(0, next)
	}
	a.Equal(0, ld.LexFinalTable[0])
}

func Test_EncodeDecodeBinary_roundTrips(t *testing.T) {
	a := assert.New(t)

	lex, tab := buildArith(t)
	ld, err := Build(lex, tab)
	if !a.NoError(err) {
		return
	}

	data := ld.EncodeBinary()
	if !a.NotEmpty(data) {
		return
	}

	got, err := DecodeBinary(data)
	if !a.NoError(err) {
		return
	}

	a.Equal(ld.MaxTerminal, got.MaxTerminal)
	a.Equal(ld.Terminals, got.Terminals)
	a.Equal(ld.Nonterminals, got.Nonterminals)
	a.Equal(ld.Items, got.Items)
	a.Equal(ld.LexStateTable, got.LexStateTable)
	a.Equal(ld.ParseStateTable, got.ParseStateTable)
	a.Equal(ld.ParseActTable, got.ParseActTable)
	a.Equal(ld.BuildID, got.BuildID)
}

func Test_DecodeBinary_truncatedBufferErrors(t *testing.T) {
	a := assert.New(t)

	lex, tab := buildArith(t)
	ld, err := Build(lex, tab)
	if !a.NoError(err) {
		return
	}

	data := ld.EncodeBinary()
	_, err = DecodeBinary(data[:len(data)/2])
	a.Error(err)
}
