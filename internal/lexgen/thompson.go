// Package lexgen implements components B and C of the compiler: the
// Thompson construction from a regex AST to an NFA, and subset
// construction from that NFA to a dense lexer DFA with lowest-token-id-wins
// tie-breaking. This replaces internal/ictiobus/lex/regex.go, whose
// createKleeneStarFA and createAlternationFA declare a nil
// `var nfa *automaton.NFA[string]` and call AddState on it — a
// compiling-but-crashing stub the predecessor generator never finished
// ("TODO: fill this all in when we want to return to DFA-based impl").
// This builds directly against internal/automaton's NFA[int]/DFA
// machinery instead of that abandoned fragment-Join approach.
package lexgen

import (
	"fmt"

	"github.com/dsisnero/pegasus/internal/automaton"
	"github.com/dsisnero/pegasus/internal/pegerr"
	"github.com/dsisnero/pegasus/internal/regexast"
)

// TokenDef is one token declaration: its assigned id, its display name (for
// error messages), its regex source, and whether the lexer discards its
// matches once recognized.
type TokenDef struct {
	ID      int
	Name    string
	Pattern string
	Skip    bool
}

type thompsonBuilder struct {
	nfa    automaton.NFA[int]
	nextID int
}

func (b *thompsonBuilder) newState(accepting bool) string {
	name := fmt.Sprintf("n%d", b.nextID)
	b.nextID++
	b.nfa.AddState(name, accepting)
	return name
}

// BuildNFA compiles every token's regex pattern into a single NFA with
// ε-transitions, each token's accepting state tagged with its token id
// (component B). A fresh global start state is ε-connected to each
// pattern's compiled start, per "each regex tree is compiled in isolation
// against a shared NFA, starting from a fresh state that is ε-connected
// from the global start."
func BuildNFA(tokens []TokenDef) (automaton.NFA[int], error) {
	b := &thompsonBuilder{}
	start := b.newState(false)
	b.nfa.Start = start

	for _, tok := range tokens {
		ast, err := regexast.Parse(tok.Pattern)
		if err != nil {
			return automaton.NFA[int]{}, pegerr.Grammarf("token %q: %s", tok.Name, err.Error()).WithContext(pegerr.Symbol{Name: tok.Name})
		}

		fragStart, fragAccept := b.compile(ast)
		b.nfa.AddTransition(start, "", fragStart)
		b.nfa.MarkAccepting(fragAccept)
		b.nfa.SetValue(fragAccept, tok.ID)
	}

	return b.nfa, nil
}

// compile recursively applies the Thompson translation rules to node,
// returning the (start, accept) state pair of the compiled fragment. The
// accept state is never itself marked accepting; callers wire it onward
// (concatenation, more alternation branches, or — at the top level — mark
// it as the token's final accept).
func (b *thompsonBuilder) compile(node *regexast.Node) (start, accept string) {
	switch node.Kind {
	case regexast.Literal:
		return b.compileByteTransition(func(nfa *automaton.NFA[int], from, to string) {
			nfa.AddTransition(from, string(node.Byte), to)
		})
	case regexast.Class:
		return b.compileClass(node)
	case regexast.Concat:
		s1, a1 := b.compile(node.Left)
		s2, a2 := b.compile(node.Right)
		b.nfa.AddTransition(a1, "", s2)
		return s1, a2
	case regexast.Alt:
		newStart := b.newState(false)
		newAccept := b.newState(false)
		s1, a1 := b.compile(node.Left)
		s2, a2 := b.compile(node.Right)
		b.nfa.AddTransition(newStart, "", s1)
		b.nfa.AddTransition(newStart, "", s2)
		b.nfa.AddTransition(a1, "", newAccept)
		b.nfa.AddTransition(a2, "", newAccept)
		return newStart, newAccept
	case regexast.Star:
		newStart := b.newState(false)
		newAccept := b.newState(false)
		s, a := b.compile(node.Left)
		b.nfa.AddTransition(newStart, "", s)
		b.nfa.AddTransition(newStart, "", newAccept)
		b.nfa.AddTransition(a, "", s)
		b.nfa.AddTransition(a, "", newAccept)
		return newStart, newAccept
	case regexast.Plus:
		s, a := b.compile(node.Left)
		b.nfa.AddTransition(a, "", s)
		return s, a
	case regexast.Opt:
		newStart := b.newState(false)
		newAccept := b.newState(false)
		s, a := b.compile(node.Left)
		b.nfa.AddTransition(newStart, "", s)
		b.nfa.AddTransition(newStart, "", newAccept)
		b.nfa.AddTransition(a, "", newAccept)
		return newStart, newAccept
	default:
		panic("unknown regex AST node kind")
	}
}

// compileByteTransition creates the two fresh states a literal/class
// fragment needs and lets the caller wire the byte-class transition
// between them.
func (b *thompsonBuilder) compileByteTransition(wire func(nfa *automaton.NFA[int], from, to string)) (start, accept string) {
	start = b.newState(false)
	accept = b.newState(false)
	wire(&b.nfa, start, accept)
	return start, accept
}

// compileClass adds one transition per matching byte value in 0..255 — the
// NFA's transition function is keyed by single-byte input strings, so a
// class fragment fans out into however many literal byte transitions its
// ranges (or negation) cover.
func (b *thompsonBuilder) compileClass(node *regexast.Node) (start, accept string) {
	start = b.newState(false)
	accept = b.newState(false)
	for v := 0; v < 256; v++ {
		if node.Matches(byte(v)) {
			b.nfa.AddTransition(start, string(byte(v)), accept)
		}
	}
	return start, accept
}
