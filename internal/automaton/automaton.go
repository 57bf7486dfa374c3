// Package automaton implements generic finite automata over an arbitrary
// state-value type E: an NFA with ε-transitions and NFA→DFA subset
// construction (ported from internal/ictiobus/automaton/nfa.go and dfa.go),
// reused here for two unrelated purposes — the lexer's byte-level DFA
// (E = int, a token id) and the parser's LR(0) canonical collection
// (E = grammar.LR0Item) — since CLOSURE/GOTO over item sets and
// ε-closure/MOVE over NFA states are the same algorithm shape.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dsisnero/pegasus/internal/util"
)

// FATransition is one edge of a finite automaton: an input symbol (empty
// string means ε) and the destination state name.
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == "" {
		inp = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

// DFAState is one state of a DFA[E]: a name, a stored value, a deterministic
// transition function (at most one destination per input symbol), and
// whether it's accepting.
type DFAState[E any] struct {
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
	ordering    uint64
}

func (ns DFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		moves.WriteString(ns.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteRune(',')
			moves.WriteRune(' ')
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// NFAState is one state of an NFA[E]: a name, a stored value, a
// nondeterministic transition function (any number of destinations per
// input symbol, including ε, keyed by ""), and whether it's accepting.
type NFAState[E any] struct {
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
}

func (ns NFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		var tStrings []string

		for _, t := range ns.transitions[input] {
			tStrings = append(tStrings, t.String())
		}

		sort.Strings(tStrings)

		for tIdx, t := range tStrings {
			moves.WriteString(t)
			if tIdx+1 < len(tStrings) || i+1 < len(inputs) {
				moves.WriteRune(',')
				moves.WriteRune(' ')
			}
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// Copy returns a duplicate of the state.
func (ns NFAState[E]) Copy() NFAState[E] {
	cp := NFAState[E]{
		name:        ns.name,
		value:       ns.value,
		accepting:   ns.accepting,
		transitions: make(map[string][]FATransition, len(ns.transitions)),
	}
	for k, v := range ns.transitions {
		cp.transitions[k] = append([]FATransition{}, v...)
	}
	return cp
}

// Copy returns a duplicate of the state.
func (ns DFAState[E]) Copy() DFAState[E] {
	cp := DFAState[E]{
		name:        ns.name,
		value:       ns.value,
		accepting:   ns.accepting,
		ordering:    ns.ordering,
		transitions: make(map[string]FATransition, len(ns.transitions)),
	}
	for k, v := range ns.transitions {
		cp.transitions[k] = v
	}
	return cp
}
