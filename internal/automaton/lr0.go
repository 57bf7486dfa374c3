package automaton

import (
	"github.com/dsisnero/pegasus/internal/grammar"
)

// NewLR0ViablePrefixNFA builds an NFA whose states are every dotted LR(0)
// item of the (already-augmented) grammar g, with a shift transition on X
// from `A -> α.Xβ` to `A -> αX.β`, and an ε-transition from `A -> α.Bβ` to
// `B -> .γ` for every production of nonterminal B. Calling ToDFA on the
// result performs CLOSURE (ε-closure) and GOTO (MOVE + ε-closure) in one
// pass, yielding the canonical LR(0) collection. Adapted from
// internal/ictiobus/automaton/nfa.go's function of the same name: the
// original detects nonterminals by an uppercase-initial naming convention
// (`strings.ToUpper(X) == X`), which this generator's lowercase rule names
// (`sum`, `e`, `list`, ...) don't follow, so nonterminal-ness is looked up
// on the grammar instead.
func NewLR0ViablePrefixNFA(g *grammar.Grammar) NFA[grammar.LR0Item] {
	start := g.StartSymbol()

	nfa := NFA[grammar.LR0Item]{}

	items := allLR0Items(g)

	for i := range items {
		nfa.AddState(items[i].String(), true)
		nfa.SetValue(items[i].String(), items[i])
	}

	startItem := grammar.LR0Item{NonTerminal: start, Right: productionBodyOf(g, start)}
	nfa.Start = startItem.String()

	for _, item := range items {
		if len(item.Right) < 1 {
			continue
		}

		X := item.Right[0]
		toItem := item.Advanced()
		nfa.AddTransition(item.String(), X, toItem.String())

		if g.IsNonterminal(X) {
			for _, gamma := range g.Rule(X) {
				prodState := grammar.LR0Item{NonTerminal: X, Right: append([]string{}, gamma.Body...)}
				nfa.AddTransition(item.String(), "", prodState.String())
			}
		}
	}

	return nfa
}

// productionBodyOf returns the body of the (single) production for the
// augmented start symbol, which NewLR0ViablePrefixNFA uses to seed its
// start item `S' -> .S $`.
func productionBodyOf(g *grammar.Grammar, head string) []string {
	prods := g.Rule(head)
	if len(prods) != 1 {
		panic("augmented start symbol must have exactly one production")
	}
	return append([]string{}, prods[0].Body...)
}

// allLR0Items enumerates every dotted item (production, dot position) over
// every production in g.
func allLR0Items(g *grammar.Grammar) []grammar.LR0Item {
	var items []grammar.LR0Item

	for _, head := range g.Nonterminals() {
		for _, p := range g.Rule(head) {
			for dot := 0; dot <= len(p.Body); dot++ {
				items = append(items, grammar.LR0Item{
					NonTerminal: head,
					Left:        append([]string{}, p.Body[:dot]...),
					Right:       append([]string{}, p.Body[dot:]...),
				})
			}
		}
	}

	return items
}
