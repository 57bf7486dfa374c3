package lexgen

import (
	"github.com/dsisnero/pegasus/internal/pegerr"
	"github.com/dsisnero/pegasus/internal/util"
)

// MaxLexerStates is the default ceiling on DFA state count before the
// builder refuses with a GrammarError, per the resource-bound requirement:
// "DFA state count can in principle be exponential in NFA size;
// implementations should intern set identities and refuse ... beyond a
// configurable ceiling (default: 2^16 states)."
const MaxLexerStates = 1 << 16

// Tables is the compiled lexer output (component C's contract): a dense
// byte-transition table, a final-tag table, and a skip table, following the
// state-0-reject/state-1-start numbering convention.
type Tables struct {
	StateTable [][256]int
	FinalTable []int
	SkipTable  []bool
	MaxState   int
}

// Build compiles tokens into lexer tables: Thompson construction (component
// B) followed by subset construction with lowest-token-id-wins tie-
// breaking (component C). maxStates of 0 selects MaxLexerStates.
func Build(tokens []TokenDef, maxStates int) (*Tables, error) {
	if maxStates <= 0 {
		maxStates = MaxLexerStates
	}

	nfa, err := BuildNFA(tokens)
	if err != nil {
		return nil, err
	}

	dfa := nfa.ToDFA()
	names := dfa.OrderedStates()

	if len(names)+1 > maxStates {
		return nil, pegerr.Grammarf("lexer too large: %d states (including the reject state) exceeds the configured ceiling of %d", len(names)+1, maxStates)
	}

	// state 0 is the synthetic reject sink; state 1 is the DFA's own start
	// state; the rest follow in OrderedStates order, which is alphabetical
	// by state name since subset construction gives every state the same
	// ordering value.
	stateID := map[string]int{}
	stateID[dfa.Start] = 1
	next := 2
	for _, name := range names {
		if name == dfa.Start {
			continue
		}
		stateID[name] = next
		next++
	}

	total := next // states 0..next-1

	stateTable := make([][256]int, total)
	finalTable := make([]int, total)

	// state 0: reject sink, self-loops on every byte, never final
	for b := 0; b < 256; b++ {
		stateTable[0][b] = 0
	}
	finalTable[0] = 0

	for _, name := range names {
		id := stateID[name]
		finalTable[id] = finalTag(dfa.GetValue(name))

		for b := 0; b < 256; b++ {
			nextName := dfa.Next(name, string(byte(b)))
			if nextName == "" {
				stateTable[id][b] = 0
				continue
			}
			stateTable[id][b] = stateID[nextName]
		}
	}

	maxTerminal := 0
	skip := make([]bool, 1)
	for _, tok := range tokens {
		if tok.ID > maxTerminal {
			maxTerminal = tok.ID
		}
	}
	skip = make([]bool, maxTerminal+1)
	for _, tok := range tokens {
		skip[tok.ID] = tok.Skip
	}

	return &Tables{
		StateTable: stateTable,
		FinalTable: finalTable,
		SkipTable:  skip,
		MaxState:   total - 1,
	}, nil
}

// finalTag picks the smallest non-zero NFA-state value among a DFA state's
// constituent NFA states — "earliest-declared token wins" when multiple
// regexes match the same input.
func finalTag(members util.SVSet[int]) int {
	tag := 0
	for _, name := range members.Elements() {
		v := members.Get(name)
		if v == 0 {
			continue
		}
		if tag == 0 || v < tag {
			tag = v
		}
	}
	return tag
}
