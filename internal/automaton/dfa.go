package automaton

import (
	"fmt"
	"strings"

	"github.com/dsisnero/pegasus/internal/util"
)

// DFA is a deterministic finite automaton over states named by string, each
// carrying a value of type E. Ported from
// internal/ictiobus/automaton/dfa.go.
type DFA[E any] struct {
	order  uint64
	states map[string]DFAState[E]
	Start  string
}

// Copy returns a duplicate of this DFA.
func (dfa DFA[E]) Copy() DFA[E] {
	copied := DFA[E]{
		Start:  dfa.Start,
		states: make(map[string]DFAState[E]),
		order:  dfa.order,
	}
	for k := range dfa.states {
		copied.states[k] = dfa.states[k].Copy()
	}
	return copied
}

// TransformDFA returns a copy of dfa with every state's value passed through
// transform, e.g. to go from a DFA valued by NFA-state sets
// (util.SVSet[int]) to one valued by a single flattened tag. The lexer
// builder does not call it; it reads each state's value set directly.
func TransformDFA[E1, E2 any](dfa DFA[E1], transform func(old E1) E2) DFA[E2] {
	copied := DFA[E2]{
		states: make(map[string]DFAState[E2], len(dfa.states)),
		Start:  dfa.Start,
		order:  dfa.order,
	}

	for k := range dfa.states {
		oldState := dfa.states[k]
		copiedState := DFAState[E2]{
			name:        oldState.name,
			value:       transform(oldState.value),
			transitions: make(map[string]FATransition, len(oldState.transitions)),
			accepting:   oldState.accepting,
			ordering:    oldState.ordering,
		}
		for sym := range oldState.transitions {
			copiedState.transitions[sym] = oldState.transitions[sym]
		}
		copied.states[k] = copiedState
	}

	return copied
}

// DFAToNFA converts dfa into an equivalent NFA. The result has no ε
// transitions and remains deterministic in practice, but the NFA type
// allows adding nondeterministic edges afterward if needed.
func DFAToNFA[E any](dfa DFA[E]) NFA[E] {
	nfa := NFA[E]{
		Start:  dfa.Start,
		states: map[string]NFAState[E]{},
	}

	for sName := range dfa.states {
		dState := dfa.states[sName]

		nState := NFAState[E]{
			name:        dState.name,
			value:       dState.value,
			transitions: map[string][]FATransition{},
			accepting:   dState.accepting,
		}

		for sym := range dState.transitions {
			dTrans := dState.transitions[sym]
			nState.transitions[sym] = []FATransition{{input: dTrans.input, next: dTrans.next}}
		}

		nfa.states[sName] = nState
	}

	return nfa
}

// SetValue assigns the stored value of an existing state. It panics if the
// state doesn't exist.
func (dfa *DFA[E]) SetValue(state string, v E) {
	s, ok := dfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting value on non-existing state: %q", state))
	}
	s.value = v
	dfa.states[state] = s
}

// GetValue returns the stored value of an existing state. It panics if the
// state doesn't exist.
func (dfa DFA[E]) GetValue(state string) E {
	s, ok := dfa.states[state]
	if !ok {
		panic(fmt.Sprintf("getting value on non-existing state: %q", state))
	}
	return s.value
}

// IsAccepting returns whether the given state is accepting. Returns false
// if the state does not exist.
func (dfa DFA[E]) IsAccepting(state string) bool {
	s, ok := dfa.states[state]
	if !ok {
		return false
	}
	return s.accepting
}

// States returns the names of every state in the DFA.
func (dfa DFA[E]) States() util.StringSet {
	states := util.NewStringSet()
	for k := range dfa.states {
		states.Add(k)
	}
	return states
}

// OrderedStates returns state names ordered by insertion (states added via
// AddState carry a monotonic ordering counter), falling back to
// alphabetical order among states that share an ordering value — notably
// every state ToDFA produces, since subset construction builds DFAState
// values directly rather than through AddState. Callers that need fully
// deterministic numbering (the lexer table flattener) get it either way.
func (dfa DFA[E]) OrderedStates() []string {
	names := util.OrderedKeys(dfa.states)

	// stable sort by insertion order; names is already alphabetical so ties
	// (ordering 0 == ordering 0, the ToDFA case) resolve alphabetically.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && dfa.states[names[j-1]].ordering > dfa.states[names[j]].ordering; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

// Next returns the next state on input from fromState, or "" if no such
// state or transition exists.
func (dfa DFA[E]) Next(fromState string, input string) string {
	state, ok := dfa.states[fromState]
	if !ok {
		return ""
	}
	transition, ok := state.transitions[input]
	if !ok {
		return ""
	}
	return transition.next
}

// AllTransitionsTo returns every (fromState, input) pair whose transition
// targets toState.
func (dfa DFA[E]) AllTransitionsTo(toState string) [][2]string {
	if _, ok := dfa.states[toState]; !ok {
		return [][2]string{}
	}

	var transitions [][2]string
	for _, sName := range dfa.States().Elements() {
		state := dfa.states[sName]
		for k := range state.transitions {
			if state.transitions[k].next == toState {
				transitions = append(transitions, [2]string{sName, k})
			}
		}
	}
	return transitions
}

// AddState adds a new, transition-less state. If state already exists, this
// has no effect.
func (dfa *DFA[E]) AddState(state string, accepting bool) {
	if _, ok := dfa.states[state]; ok {
		return
	}

	newState := DFAState[E]{
		ordering:    dfa.order,
		name:        state,
		transitions: make(map[string]FATransition),
		accepting:   accepting,
	}
	dfa.order++

	if dfa.states == nil {
		dfa.states = map[string]DFAState[E]{}
	}

	dfa.states[state] = newState
}

// AddTransition adds (or overwrites) the transition from fromState to
// toState on input. Both states must already exist.
func (dfa *DFA[E]) AddTransition(fromState string, input string, toState string) {
	curFromState, ok := dfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := dfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}

	curFromState.transitions[input] = FATransition{input: input, next: toState}
	dfa.states[fromState] = curFromState
}

func (dfa DFA[E]) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", dfa.Start))

	orderedStates := util.OrderedKeys(dfa.states)

	for i := range orderedStates {
		sb.WriteString("\n\t")
		sb.WriteString(dfa.states[orderedStates[i]].String())

		if i+1 < len(dfa.states) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}
