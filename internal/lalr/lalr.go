// Package lalr implements components E and F of the compiler: the
// canonical LR(0) collection over an augmented grammar (via
// automaton.NewLR0ViablePrefixNFA's ToDFA, which performs CLOSURE and GOTO
// in a single subset construction) and the LALR(1) lookahead propagation
// that upgrades it, per spec §4.F.
//
// This is new code written from the spec's own algorithm description
// rather than a port: the teacher's internal/ictiobus/parse/lalr.go
// attempts Algorithm 4.63 from the purple dragon book but never finishes
// it — computeLALR1Kernels's actual fixpoint loop (step 4) is commented out
// in its entirety, ending with `// TODO: actually convert the table
// results to this` above a `return lalrKernels` on an always-empty set,
// and determineLookaheads carries two `fmt.Printf("make debugger do
// thing\n")` breakpoints and a dead `fmt.Println` in its failure branch.
// What's kept from it is the shape: a (state, item) keyed lookahead table
// built by spontaneous generation plus propagation edges, resolved to a
// fixpoint — except the spec's own §4.F describes a simpler formulation
// (propagate directly within a state's closure, then forward unconditionally
// across shift edges) than the textbook's GOTO-of-closure reconstruction,
// so that's what's implemented, driven by a util.Queue worklist per the
// resource-bound requirement in spec §5 ("must use a worklist to avoid
// repeated full sweeps").
package lalr

import (
	"sort"

	"github.com/dsisnero/pegasus/internal/automaton"
	"github.com/dsisnero/pegasus/internal/grammar"
	"github.com/dsisnero/pegasus/internal/pegerr"
	"github.com/dsisnero/pegasus/internal/util"
)

// MaxLRStates is the default ceiling on LALR state count before Build
// refuses with a GrammarError, mirroring lexgen.MaxLexerStates for the
// parser side of the resource-bound requirement in spec §5.
const MaxLRStates = 1 << 16

// itemKey names one dotted item within one DFA state, the unit the
// lookahead worklist operates over.
type itemKey struct {
	state string
	item  string
}

// Collection is the canonical LR(0) collection for an augmented grammar,
// upgraded with LALR(1) lookahead sets attached to every dotted item in
// every state.
type Collection struct {
	// Grammar is the augmented grammar the collection was built from.
	Grammar *grammar.Grammar

	// DFA is the canonical LR(0) automaton: each state's value is the full
	// (kernel + closure) set of LR0Items reachable there.
	DFA automaton.DFA[util.SVSet[grammar.LR0Item]]

	// StateName gives the DFA state name for each 1-based state id;
	// StateName[0] is unused, StateName[1] is always the start state.
	StateName []string

	// StateID maps a DFA state name back to its 1-based id.
	StateID map[string]int

	// Lookahead maps a DFA state name to, for every dotted item in that
	// state, the set of terminal names that legitimize a reduction there.
	Lookahead map[string]map[string]util.StringSet
}

// Build computes the canonical LR(0) collection for g (which must already
// be augmented, e.g. via grammar.Grammar.Augmented) and upgrades it to
// LALR(1) by propagating lookaheads to a fixpoint. maxStates of 0 selects
// MaxLRStates.
func Build(g *grammar.Grammar, maxStates int) (*Collection, error) {
	if maxStates <= 0 {
		maxStates = MaxLRStates
	}

	nfa := automaton.NewLR0ViablePrefixNFA(g)
	dfa := nfa.ToDFA()

	names := orderedWithStartFirst(dfa)
	if len(names) > maxStates {
		return nil, pegerr.Grammarf("parser too large: %d LR(0) states exceeds the configured ceiling of %d", len(names), maxStates)
	}

	stateID := map[string]int{}
	for i, name := range names {
		stateID[name] = i + 1
	}

	col := &Collection{
		Grammar:   g,
		DFA:       dfa,
		StateName: append([]string{""}, names...),
		StateID:   stateID,
		Lookahead: map[string]map[string]util.StringSet{},
	}
	for _, name := range names {
		col.Lookahead[name] = map[string]util.StringSet{}
	}

	first := g.FirstSets()
	nullable := g.Nullable()

	startHead := g.StartSymbol()
	startProds := g.Rule(startHead)
	if len(startProds) != 1 {
		return nil, pegerr.Internalf("augmented start %q must have exactly one production", startHead)
	}
	startItem := grammar.LR0Item{NonTerminal: startHead, Right: append([]string{}, startProds[0].Body...)}

	ensureSet(col.Lookahead[dfa.Start], startItem.String()).Add(grammar.EndOfInput)

	type edge struct{ from, to itemKey }
	var edges []edge

	for _, stateName := range names {
		items := dfa.GetValue(stateName)
		for _, itemName := range items.Elements() {
			item := items.Get(itemName)

			sym, ok := item.Next()
			if !ok {
				continue
			}

			// Shift propagation: whatever lookaheads accrue to this item
			// travel unconditionally to its dot-advanced form across the
			// GOTO edge on sym.
			if target := dfa.Next(stateName, sym); target != "" {
				advanced := item.Advanced()
				edges = append(edges, edge{
					from: itemKey{state: stateName, item: itemName},
					to:   itemKey{state: target, item: advanced.String()},
				})
			}

			if !g.IsNonterminal(sym) {
				continue
			}

			// Closure generation: item is `A -> alpha . B beta`; for every
			// production `B -> gamma` introduced into the same state by
			// CLOSURE, FIRST(beta) is a spontaneous lookahead, and if beta
			// is nullable, item's own (accruing) lookaheads propagate too.
			beta := item.Right[1:]
			betaFirst, betaNullable := g.FirstOfString(beta, first, nullable)

			for _, prod := range g.Rule(sym) {
				closureItem := grammar.LR0Item{NonTerminal: sym, Right: append([]string{}, prod.Body...)}
				key := closureItem.String()
				if !items.Has(key) {
					continue
				}

				set := ensureSet(col.Lookahead[stateName], key)
				for _, t := range betaFirst.Elements() {
					set.Add(t)
				}

				if betaNullable {
					edges = append(edges, edge{
						from: itemKey{state: stateName, item: itemName},
						to:   itemKey{state: stateName, item: key},
					})
				}
			}
		}
	}

	adj := map[itemKey][]itemKey{}
	for _, e := range edges {
		adj[e.from] = append(adj[e.from], e.to)
	}

	worklist := util.NewQueue[itemKey]()
	seen := map[itemKey]bool{}
	for stateName, byItem := range col.Lookahead {
		for itemName, set := range byItem {
			if set.Len() > 0 {
				k := itemKey{state: stateName, item: itemName}
				if !seen[k] {
					seen[k] = true
					worklist.Enqueue(k)
				}
			}
		}
	}

	for !worklist.Empty() {
		cur := worklist.Dequeue()
		curSet := col.Lookahead[cur.state][cur.item]

		for _, to := range adj[cur] {
			dest := ensureSet(col.Lookahead[to.state], to.item)
			before := dest.Len()
			for _, t := range curSet.Elements() {
				dest.Add(t)
			}
			if dest.Len() != before {
				worklist.Enqueue(to)
			}
		}
	}

	return col, nil
}

func ensureSet(m map[string]util.StringSet, key string) util.StringSet {
	set, ok := m[key]
	if !ok {
		set = util.NewStringSet()
		m[key] = set
	}
	return set
}

// orderedWithStartFirst returns the DFA's state names in a stable order
// with the start state moved to the front, matching the convention the
// teacher's lalr1Table.String() uses to give state 1 a predictable meaning
// ("put the initial state first").
func orderedWithStartFirst(dfa automaton.DFA[util.SVSet[grammar.LR0Item]]) []string {
	names := dfa.States().Elements()
	sort.Strings(names)

	out := make([]string, 0, len(names))
	out = append(out, dfa.Start)
	for _, n := range names {
		if n != dfa.Start {
			out = append(out, n)
		}
	}
	return out
}

// ItemsOf returns the full (kernel + closure) item set of the given
// 1-based state id.
func (c *Collection) ItemsOf(stateID int) util.SVSet[grammar.LR0Item] {
	return c.DFA.GetValue(c.StateName[stateID])
}

// LookaheadOf returns the lookahead set attached to item in the given
// 1-based state id.
func (c *Collection) LookaheadOf(stateID int, item grammar.LR0Item) util.StringSet {
	return c.Lookahead[c.StateName[stateID]][item.String()]
}

// Goto returns the 1-based id of GOTO(stateID, sym), or 0 if no such
// transition exists.
func (c *Collection) Goto(stateID int, sym string) int {
	target := c.DFA.Next(c.StateName[stateID], sym)
	if target == "" {
		return 0
	}
	return c.StateID[target]
}

// NumStates returns the number of states in the collection (1..NumStates
// are the valid state ids).
func (c *Collection) NumStates() int {
	return len(c.StateName) - 1
}
