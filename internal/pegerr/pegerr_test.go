package pegerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_Error_withContext(t *testing.T) {
	assert := assert.New(t)

	err := New(Grammar, "unknown symbol", Symbol{Name: "FOO"})

	assert.Equal(`unknown symbol (FOO)`, err.Error())
}

func Test_Error_WithContext_replaces_same_type(t *testing.T) {
	assert := assert.New(t)

	err := New(Conflict, "ambiguous reduction", Production{ID: 4})
	assert.Equal("ambiguous reduction (production 4)", err.Error())

	err.WithContext(ProducedBy{Nonterminal: "expr"})
	assert.Equal("ambiguous reduction (production 4, expr)", err.Error())

	// replacing Production again should overwrite in place, not append
	err.WithContext(Production{ID: 9})
	assert.Equal("ambiguous reduction (production 9, expr)", err.Error())
	assert.Len(err.Context(), 2)
}

func Test_Error_Error_collisions(t *testing.T) {
	assert := assert.New(t)

	err := New(Conflict, "shift/reduce conflict", State{Num: 3}, Collisions{Nonterminals: []string{"e"}})
	assert.Equal(`shift/reduce conflict (state 3, e)`, err.Error())
}

func Test_Error_Error_tokenIndex(t *testing.T) {
	assert := assert.New(t)

	err := New(Runtime, "unexpected token", TokenIndex{Index: 7})
	assert.Equal(`unexpected token (token 7)`, err.Error())
	assert.True(IsKind(err, Runtime))
}

func Test_Error_Is_matches_same_kind_and_message(t *testing.T) {
	assert := assert.New(t)

	a := New(Internal, "invariant violated")
	b := New(Internal, "invariant violated")
	c := New(Grammar, "invariant violated")

	assert.True(errors.Is(a, b))
	assert.False(errors.Is(a, c))
}

func Test_IsKind(t *testing.T) {
	assert := assert.New(t)

	err := Grammarf("bad regex at %d", 3)

	assert.True(IsKind(err, Grammar))
	assert.False(IsKind(err, Conflict))
}

func Test_Error_Wrap_unwraps_cause(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("underlying")
	err := Internalf("stage failed").Wrap(cause)

	assert.ErrorIs(err, cause)
	assert.Contains(err.Error(), "underlying")
}
