package lexgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func runLex(t *testing.T, tables *Tables, input string) []int {
	t.Helper()
	var tokens []int
	idx := 0
	for idx < len(input) {
		state := 1
		lastFinal := 0
		lastIdx := -1
		cur := idx
		for state != 0 && cur < len(input) {
			state = tables.StateTable[state][input[cur]]
			cur++
			if state != 0 && tables.FinalTable[state] != 0 {
				lastFinal = tables.FinalTable[state]
				lastIdx = cur
			}
		}
		if lastIdx == -1 {
			t.Fatalf("no match at index %d (%q)", idx, input[idx:])
		}
		if !tables.SkipTable[lastFinal] {
			tokens = append(tokens, lastFinal)
		}
		idx = lastIdx
	}
	return tokens
}

func Test_Build_simpleTwoTokenLexer(t *testing.T) {
	assert := assert.New(t)

	tables, err := Build([]TokenDef{
		{ID: 1, Name: "num", Pattern: "[0-9]+"},
		{ID: 2, Name: "plus", Pattern: "\\+"},
	}, 0)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(0, tables.StateTable[0][0])
	assert.Equal(0, tables.FinalTable[0])

	tokens := runLex(t, tables, "1+2")
	assert.Equal([]int{1, 2, 1}, tokens)
}

func Test_Build_longestMatchTieBreak(t *testing.T) {
	assert := assert.New(t)

	// "if" declared before "ident": on "if" the literal keyword must win
	// even though the identifier class also matches "if".
	tables, err := Build([]TokenDef{
		{ID: 1, Name: "if", Pattern: "if"},
		{ID: 2, Name: "ident", Pattern: "[a-z]+"},
	}, 0)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]int{1}, runLex(t, tables, "if"))
	assert.Equal([]int{2}, runLex(t, tables, "iff"))
}

func Test_Build_skipTable(t *testing.T) {
	assert := assert.New(t)

	tables, err := Build([]TokenDef{
		{ID: 1, Name: "num", Pattern: "[0-9]+"},
		{ID: 2, Name: "plus", Pattern: "\\+"},
		{ID: 3, Name: "ws", Pattern: "[ \\t]+", Skip: true},
	}, 0)
	if !assert.NoError(err) {
		return
	}

	assert.True(tables.SkipTable[3])
	assert.Equal([]int{1, 2, 1}, runLex(t, tables, "1 + 2"))
}

func Test_Build_rejectsTooManyStates(t *testing.T) {
	assert := assert.New(t)

	_, err := Build([]TokenDef{
		{ID: 1, Name: "num", Pattern: "[0-9]+"},
	}, 1)

	assert.Error(err)
}

func Test_Build_malformedPatternNamesToken(t *testing.T) {
	assert := assert.New(t)

	_, err := Build([]TokenDef{
		{ID: 1, Name: "broken", Pattern: "[a-"},
	}, 0)

	if assert.Error(err) {
		assert.Contains(err.Error(), "broken")
	}
}
