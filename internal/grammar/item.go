package grammar

import (
	"fmt"
	"strings"

	"github.com/dsisnero/pegasus/internal/util"
)

// LR0Item is a dotted item: a production split into the symbols already
// matched (Left, before the dot) and the symbols still to come (Right,
// after the dot). Ported near-verbatim from the predecessor generator's
// grammar/item.go.
type LR0Item struct {
	NonTerminal string
	Left        []string
	Right       []string
}

// Equal reports whether o is an LR0Item (or *LR0Item) with identical
// NonTerminal, Left, and Right.
func (lr0 LR0Item) Equal(o any) bool {
	other, ok := o.(LR0Item)
	if !ok {
		otherPtr, ok := o.(*LR0Item)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if lr0.NonTerminal != other.NonTerminal {
		return false
	} else if len(lr0.Left) != len(other.Left) {
		return false
	} else if len(lr0.Right) != len(other.Right) {
		return false
	}

	for i := range lr0.Left {
		if lr0.Left[i] != other.Left[i] {
			return false
		}
	}
	for i := range lr0.Right {
		if lr0.Right[i] != other.Right[i] {
			return false
		}
	}

	return true
}

// Copy returns a deep copy of the item.
func (lr0 LR0Item) Copy() LR0Item {
	cp := LR0Item{NonTerminal: lr0.NonTerminal}
	cp.Left = make([]string, len(lr0.Left))
	copy(cp.Left, lr0.Left)
	cp.Right = make([]string, len(lr0.Right))
	copy(cp.Right, lr0.Right)
	return cp
}

// Next returns the symbol immediately after the dot, and whether one
// exists (false means the dot is at the end of the production).
func (lr0 LR0Item) Next() (sym string, ok bool) {
	if len(lr0.Right) == 0 {
		return "", false
	}
	return lr0.Right[0], true
}

// Advanced returns a copy of the item with the dot moved one symbol to the
// right. It panics if the dot is already at the end; callers check Next
// first.
func (lr0 LR0Item) Advanced() LR0Item {
	if len(lr0.Right) == 0 {
		panic("cannot advance an item with the dot at the end")
	}
	cp := lr0.Copy()
	cp.Left = append(cp.Left, cp.Right[0])
	cp.Right = cp.Right[1:]
	return cp
}

func (item LR0Item) String() string {
	nonTermPhrase := ""
	if item.NonTerminal != "" {
		nonTermPhrase = fmt.Sprintf("%s -> ", item.NonTerminal)
	}

	left := strings.Join(item.Left, " ")
	right := strings.Join(item.Right, " ")

	if len(left) > 0 {
		left = left + " "
	}
	if len(right) > 0 {
		right = " " + right
	}

	return fmt.Sprintf("%s%s.%s", nonTermPhrase, left, right)
}

// LR1Item is an LR0Item plus a single lookahead terminal. A state's items
// carry a whole set of lookaheads by appearing once per lookahead terminal
// (the representation the predecessor generator's lalr.go closure code
// uses, and that this compiler's lalr package keeps).
type LR1Item struct {
	LR0Item
	Lookahead string
}

// Equal reports whether o is an LR1Item (or *LR1Item) with an equal
// LR0Item and the same Lookahead.
func (lr1 LR1Item) Equal(o any) bool {
	other, ok := o.(LR1Item)
	if !ok {
		otherPtr, ok := o.(*LR1Item)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !lr1.LR0Item.Equal(other.LR0Item) {
		return false
	} else if lr1.Lookahead != other.Lookahead {
		return false
	}

	return true
}

// Copy returns a deep copy of the item.
func (lr1 LR1Item) Copy() LR1Item {
	return LR1Item{LR0Item: lr1.LR0Item.Copy(), Lookahead: lr1.Lookahead}
}

func (lr1 LR1Item) String() string {
	return fmt.Sprintf("%s, %s", lr1.LR0Item.String(), lr1.Lookahead)
}

// CoreSet reduces a value-mapped set of LR1Items to the set of their
// distinct LR0 cores, keyed by each core's String form. Two LALR states
// merge when their CoreSets are equal (EqualCoreSets).
func CoreSet(s util.VSet[string, LR1Item]) util.SVSet[LR0Item] {
	cores := util.NewSVSet[LR0Item]()
	for _, elem := range s.Elements() {
		lr1 := s.Get(elem)
		cores.Set(lr1.LR0Item.String(), lr1.LR0Item)
	}
	return cores
}

// EqualCoreSets reports whether two LR1Item sets have identical LR0 cores,
// ignoring lookaheads.
func EqualCoreSets(s1, s2 util.VSet[string, LR1Item]) bool {
	return CoreSet(s1).Equal(CoreSet(s2))
}
