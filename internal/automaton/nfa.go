package automaton

import (
	"fmt"
	"strings"

	"github.com/dsisnero/pegasus/internal/util"
)

// NFA is a nondeterministic finite automaton over states named by string,
// each carrying a value of type E. Ported from
// internal/ictiobus/automaton/nfa.go.
type NFA[E any] struct {
	states map[string]NFAState[E]
	Start  string
}

// NFATransitionTo is one transition edge, reversed: carries where it comes
// from and under what input, for rewriting edges that target a state being
// removed or merged.
type NFATransitionTo struct {
	from  string
	input string
	index int
}

// AllTransitionsTo returns every (from, input, index) triple whose
// transition targets toState.
func (nfa NFA[E]) AllTransitionsTo(toState string) []NFATransitionTo {
	if _, ok := nfa.states[toState]; !ok {
		return []NFATransitionTo{}
	}

	var transitions []NFATransitionTo

	for _, sName := range nfa.States().Elements() {
		state := nfa.states[sName]
		for k := range state.transitions {
			for i := range state.transitions[k] {
				if state.transitions[k][i].next == toState {
					transitions = append(transitions, NFATransitionTo{from: sName, input: k, index: i})
				}
			}
		}
	}

	return transitions
}

// Copy returns a duplicate of this NFA.
func (nfa NFA[E]) Copy() NFA[E] {
	copied := NFA[E]{
		Start:  nfa.Start,
		states: make(map[string]NFAState[E]),
	}
	for k := range nfa.states {
		copied.states[k] = nfa.states[k].Copy()
	}
	return copied
}

// States returns the names of every state in the NFA.
func (nfa NFA[E]) States() util.StringSet {
	states := util.NewStringSet()
	for k := range nfa.states {
		states.Add(k)
	}
	return states
}

// ToDFA converts the NFA into a deterministic finite automaton accepting
// the same language, via subset construction (purple dragon book algorithm
// 3.20). Each resulting DFA state's value is the set of NFA state values it
// subsumes, keyed by NFA state name.
func (nfa NFA[E]) ToDFA() DFA[util.SVSet[E]] {
	inputSymbols := nfa.InputSymbols()

	Dstart := nfa.EpsilonClosure(nfa.Start)

	markedStates := util.NewStringSet()
	Dstates := map[string]util.StringSet{}
	Dstates[Dstart.StringOrdered()] = Dstart

	dfa := DFA[util.SVSet[E]]{
		states: map[string]DFAState[util.SVSet[E]]{},
	}

	for {
		DstateNames := util.StringSetOf(util.OrderedKeys(Dstates))
		unmarkedStates := DstateNames.Difference(markedStates)

		if unmarkedStates.Len() < 1 {
			break
		}

		for _, Tname := range unmarkedStates.Elements() {
			T := Dstates[Tname]

			markedStates.Add(Tname)

			stateValues := util.NewSVSet[E]()
			for nfaStateName := range T {
				stateValues.Set(nfaStateName, nfa.GetValue(nfaStateName))
			}

			newDFAState := DFAState[util.SVSet[E]]{name: Tname, value: stateValues, transitions: map[string]FATransition{}}

			if T.Any(func(v string) bool { return nfa.states[v].accepting }) {
				newDFAState.accepting = true
			}

			for a := range inputSymbols {
				if a == "" {
					// the ε symbol itself never drives a DFA transition
					continue
				}

				U := nfa.EpsilonClosureOfSet(nfa.MOVE(T, a))
				if U.Empty() {
					continue
				}

				if !DstateNames.Has(U.StringOrdered()) {
					DstateNames.Add(U.StringOrdered())
					Dstates[U.StringOrdered()] = U
				}

				newDFAState.transitions[a] = FATransition{input: a, next: U.StringOrdered()}
			}

			dfa.states[Tname] = newDFAState

			if dfa.Start == "" {
				dfa.Start = Tname
			}
		}
	}

	return dfa
}

// InputSymbols returns every input symbol (excluding ε) driving some
// transition in the NFA.
func (nfa NFA[E]) InputSymbols() util.StringSet {
	symbols := util.NewStringSet()
	for sName := range nfa.states {
		for a := range nfa.states[sName].transitions {
			if a == "" {
				continue
			}
			symbols.Add(a)
		}
	}
	return symbols
}

// MOVE returns the set of states reachable with one transition from some
// state in X on input a (purple dragon book, algorithm 3.20, p.153).
func (nfa NFA[E]) MOVE(X util.ISet[string], a string) util.StringSet {
	moves := util.NewStringSet()

	for _, s := range X.Elements() {
		stateItem, ok := nfa.states[s]
		if !ok {
			continue
		}
		for _, t := range stateItem.transitions[a] {
			moves.Add(t.next)
		}
	}

	return moves
}

// EpsilonClosureOfSet gives the set of states reachable from some state in
// X using zero or more ε-moves.
func (nfa NFA[E]) EpsilonClosureOfSet(X util.ISet[string]) util.StringSet {
	allClosures := util.NewStringSet()
	for _, s := range X.Elements() {
		allClosures.AddAll(nfa.EpsilonClosure(s))
	}
	return allClosures
}

// EpsilonClosure gives the set of states reachable from s using zero or
// more ε-moves.
func (nfa NFA[E]) EpsilonClosure(s string) util.StringSet {
	stateItem, ok := nfa.states[s]
	if !ok {
		return nil
	}

	closure := util.NewStringSet()
	var checkingStates util.Stack[NFAState[E]]
	checkingStates.Push(stateItem)

	for checkingStates.Len() > 0 {
		checking := checkingStates.Pop()

		if closure.Has(checking.name) {
			continue
		}

		closure.Add(checking.name)

		epsilonMoves, hasEpsilons := checking.transitions[""]
		if !hasEpsilons {
			continue
		}

		for _, move := range epsilonMoves {
			state, ok := nfa.states[move.next]
			if !ok {
				panic(fmt.Sprintf("points to invalid state: %q", move.next))
			}
			checkingStates.Push(state)
		}
	}

	return closure
}

func (nfa NFA[E]) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", nfa.Start))

	orderedStates := util.OrderedKeys(nfa.states)

	for i := range orderedStates {
		sb.WriteString("\n\t")
		sb.WriteString(nfa.states[orderedStates[i]].String())

		if i+1 < len(nfa.states) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}

// AddState adds a new, transition-less state. If state already exists, this
// has no effect.
func (nfa *NFA[E]) AddState(state string, accepting bool) {
	if _, ok := nfa.states[state]; ok {
		return
	}

	if nfa.states == nil {
		nfa.states = map[string]NFAState[E]{}
	}

	nfa.states[state] = NFAState[E]{
		name:        state,
		transitions: make(map[string][]FATransition),
		accepting:   accepting,
	}
}

// SetValue assigns the stored value of an existing state. It panics if the
// state doesn't exist.
func (nfa *NFA[E]) SetValue(state string, v E) {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existing state: %q", state))
	}
	s.value = v
	nfa.states[state] = s
}

// GetValue returns the stored value of an existing state. It panics if the
// state doesn't exist.
func (nfa NFA[E]) GetValue(state string) E {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("getting value on non-existing state: %q", state))
	}
	return s.value
}

// MarkAccepting flips an existing state to accepting. Thompson construction
// builds fragments with plain (non-accepting) start/accept state pairs and
// only needs to mark the final fragment's accept state as a true NFA accept
// once it knows which token the whole pattern belongs to.
func (nfa *NFA[E]) MarkAccepting(state string) {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("marking non-existing state as accepting: %q", state))
	}
	s.accepting = true
	nfa.states[state] = s
}

// AddTransition adds a transition from fromState to toState on input. Both
// states must already exist (use "" for input to add an ε-transition).
func (nfa *NFA[E]) AddTransition(fromState string, input string, toState string) {
	curFromState, ok := nfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := nfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}

	curFromState.transitions[input] = append(curFromState.transitions[input], FATransition{input: input, next: toState})
	nfa.states[fromState] = curFromState
}
