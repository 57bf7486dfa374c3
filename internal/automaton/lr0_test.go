package automaton

import (
	"testing"

	"github.com/dsisnero/pegasus/internal/grammar"
	"github.com/stretchr/testify/assert"
)

func arithAugmentedGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New()
	assert.NoError(t, g.AddTerminal("num", false))
	assert.NoError(t, g.AddTerminal("plus", false))
	assert.NoError(t, g.AddRule("sum", [][]string{
		{"num", "plus", "num"},
		{"num"},
	}))

	aug, err := g.Augmented()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return aug
}

func Test_NewLR0ViablePrefixNFA_startItem(t *testing.T) {
	assert := assert.New(t)

	g := arithAugmentedGrammar(t)
	nfa := NewLR0ViablePrefixNFA(g)

	startItem := grammar.LR0Item{NonTerminal: "sum-P", Right: []string{"sum", "$"}}
	assert.Equal(startItem.String(), nfa.Start)
}

func Test_NewLR0ViablePrefixNFA_canonicalCollection_hasExpectedStateCount(t *testing.T) {
	assert := assert.New(t)

	g := arithAugmentedGrammar(t)
	nfa := NewLR0ViablePrefixNFA(g)
	dfa := nfa.ToDFA()

	// every state must be reachable from the start and have a deterministic
	// transition function once subset-constructed
	assert.NotEmpty(dfa.States().Elements())
	assert.NotEmpty(dfa.Start)

	// start, after sum, after sum $, after num, after num plus, after
	// num plus num
	assert.Len(dfa.States().Elements(), 6)
}

func Test_NewLR0ViablePrefixNFA_closureAddsNonterminalProductions(t *testing.T) {
	assert := assert.New(t)

	g := arithAugmentedGrammar(t)
	nfa := NewLR0ViablePrefixNFA(g)

	startClosure := nfa.EpsilonClosure(nfa.Start)

	sumDotNumPlusNum := grammar.LR0Item{NonTerminal: "sum", Right: []string{"num", "plus", "num"}}
	sumDotNum := grammar.LR0Item{NonTerminal: "sum", Right: []string{"num"}}

	assert.True(startClosure.Has(sumDotNumPlusNum.String()))
	assert.True(startClosure.Has(sumDotNum.String()))
}
