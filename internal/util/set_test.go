package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StringSet_Union(t *testing.T) {
	assert := assert.New(t)

	a := StringSetOf([]string{"x", "y"})
	b := StringSetOf([]string{"y", "z"})

	union := a.Union(b)

	assert.True(union.Has("x"))
	assert.True(union.Has("y"))
	assert.True(union.Has("z"))
	assert.Equal(3, union.Len())
}

func Test_StringSet_Intersection(t *testing.T) {
	assert := assert.New(t)

	a := StringSetOf([]string{"x", "y"})
	b := StringSetOf([]string{"y", "z"})

	inter := a.Intersection(b)

	assert.False(inter.Has("x"))
	assert.True(inter.Has("y"))
	assert.Equal(1, inter.Len())
}

func Test_StringSet_Difference(t *testing.T) {
	assert := assert.New(t)

	a := StringSetOf([]string{"x", "y", "z"})
	b := StringSetOf([]string{"y"})

	diff := a.Difference(b)

	assert.True(diff.Has("x"))
	assert.False(diff.Has("y"))
	assert.True(diff.Has("z"))
}

func Test_StringSet_DisjointWith(t *testing.T) {
	assert := assert.New(t)

	a := StringSetOf([]string{"x", "y"})
	b := StringSetOf([]string{"z"})
	c := StringSetOf([]string{"y", "q"})

	assert.True(a.DisjointWith(b))
	assert.False(a.DisjointWith(c))
}

func Test_SVSet_Get_Set(t *testing.T) {
	assert := assert.New(t)

	s := NewSVSet[int]()
	s.Set("a", 1)
	s.Set("b", 2)

	assert.Equal(1, s.Get("a"))
	assert.Equal(2, s.Get("b"))
	assert.Equal(0, s.Get("missing"))
	assert.Equal(2, s.Len())
}

func Test_SVSet_Intersection_keeps_values(t *testing.T) {
	assert := assert.New(t)

	a := NewSVSet[int]()
	a.Set("x", 10)
	a.Set("y", 20)

	b := NewSVSet[int]()
	b.Set("y", -1)
	b.Set("z", 30)

	inter := a.Intersection(b)

	assert.True(inter.Has("y"))
	assert.False(inter.Has("x"))
	assert.False(inter.Has("z"))
	assert.Equal(20, inter.(SVSet[int]).Get("y"))
}

func Test_StringSet_Equal(t *testing.T) {
	assert := assert.New(t)

	a := StringSetOf([]string{"x", "y"})
	b := StringSetOf([]string{"y", "x"})
	c := StringSetOf([]string{"y", "x", "z"})

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}
