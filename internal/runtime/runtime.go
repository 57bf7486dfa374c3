// Package runtime is the minimal language-agnostic consumer spec §6
// sketches: a table-driven lexer implementing the longest-match protocol,
// and an LR shift/reduce parser implementing Algorithm 4.44 from the purple
// dragon book, both driven entirely by a compiled langdata.LanguageData —
// no reference back into the grammar/automaton/lalr packages that produced
// it.
//
// Grounded on internal/ictiobus/parse/lr.go's lrParser.Parse: the same
// state-stack/shift/reduce/accept shape, re-expressed over flat int tables
// instead of the teacher's string-keyed LRParseTable interface, and
// building tree nodes from langdata.Item's already-tagged body symbols
// instead of the teacher's strings.ToLower(sym) == sym terminal heuristic.
package runtime

import (
	"fmt"

	"github.com/dsisnero/pegasus/internal/langdata"
	"github.com/dsisnero/pegasus/internal/pegerr"
)

// Token is one lexed terminal: its class name and id, the source text it
// matched, and the byte offset it started at.
type Token struct {
	Terminal string
	ID       int
	Lexeme   string
	Offset   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Terminal, t.Lexeme, t.Offset)
}

// Tree is a parse tree node: either a terminal leaf carrying the Token it
// was shifted from, or an interior node named by the nonterminal it
// reduces to.
type Tree struct {
	Terminal bool
	Symbol   string
	Token    Token
	Children []*Tree
}

// Lex tokenizes source against ld's lexer tables, implementing spec §4.C's
// longest-match protocol: run the DFA from state 1, remember the last
// (token, index) pair seen at a final state, and resume right after it.
// Tokens belonging to a skip terminal are recognized (to advance the
// cursor) but not emitted. The returned slice always ends with a
// synthetic end-of-input token.
func Lex(ld *langdata.LanguageData, source string) ([]Token, error) {
	var tokens []Token

	endName := ""
	for name, info := range ld.Terminals {
		if info.ID == ld.MaxTerminal {
			endName = name
		}
	}

	i := 0
	for i < len(source) {
		state := 1
		lastFinal := 0
		lastFinalIndex := -1

		pos := i
		for pos < len(source) {
			next := ld.LexStateTable[state][source[pos]]
			if next == 0 {
				break
			}
			state = next
			if ld.LexFinalTable[state] != 0 {
				lastFinal = ld.LexFinalTable[state]
				lastFinalIndex = pos
			}
			pos++
		}

		if lastFinalIndex == -1 {
			return nil, pegerr.New(pegerr.Runtime, "no token matches", pegerr.Offset{Pos: i})
		}

		lexeme := source[i : lastFinalIndex+1]
		if !ld.LexSkipTable[lastFinal] {
			tokens = append(tokens, Token{
				Terminal: terminalName(ld, lastFinal),
				ID:       lastFinal,
				Lexeme:   lexeme,
				Offset:   i,
			})
		}
		i = lastFinalIndex + 1
	}

	tokens = append(tokens, Token{Terminal: endName, ID: ld.MaxTerminal, Offset: len(source)})
	return tokens, nil
}

func terminalName(ld *langdata.LanguageData, id int) string {
	for name, info := range ld.Terminals {
		if info.ID == id {
			return name
		}
	}
	return ""
}

func nonterminalName(ld *langdata.LanguageData, id int) string {
	for name, info := range ld.Nonterminals {
		if info.ID == id {
			return name
		}
	}
	return ""
}

// Parse runs the shift/reduce automaton described by ld's parser tables
// over tokens (as produced by Lex), returning the root of the parse tree
// for the user's declared start symbol — the synthetic augmented start and
// its trailing end-of-input leaf are unwrapped before returning.
func Parse(ld *langdata.LanguageData, tokens []Token) (*Tree, error) {
	if len(tokens) == 0 {
		return nil, pegerr.New(pegerr.Runtime, "empty token stream")
	}

	stateStack := []int{1}
	treeStack := []*Tree{}
	pos := 0
	cur := tokens[pos]

	for {
		s := stateStack[len(stateStack)-1]
		if cur.ID < 0 || cur.ID >= len(ld.ParseActTable[s]) {
			return nil, pegerr.New(pegerr.Runtime, "token id out of range for action table",
				pegerr.Symbol{Name: cur.Terminal}, pegerr.TokenIndex{Index: pos})
		}

		switch act := ld.ParseActTable[s][cur.ID]; {
		case act == -1:
			return nil, pegerr.New(pegerr.Runtime, "unexpected token",
				pegerr.Symbol{Name: cur.Terminal}, pegerr.TokenIndex{Index: pos})

		case act == 0:
			target := ld.ParseStateTable[s][cur.ID]
			if target == 0 {
				return nil, pegerr.Internalf("shift action with no GOTO target in state %d on %q", s, cur.Terminal)
			}

			treeStack = append(treeStack, &Tree{Terminal: true, Symbol: cur.Terminal, Token: cur})
			stateStack = append(stateStack, target)

			pos++
			if pos >= len(tokens) {
				return nil, pegerr.New(pegerr.Runtime, "shift past end of token stream", pegerr.TokenIndex{Index: pos - 1})
			}
			cur = tokens[pos]

		default:
			prodIdx := act - 1
			if prodIdx < 0 || prodIdx >= len(ld.Items) {
				return nil, pegerr.Internalf("reduce action names unknown production %d", prodIdx)
			}

			if prodIdx == 0 {
				// Accept: S' -> S . $ is recognized directly off the
				// lookahead without ever shifting $ (lalrtab never emits a
				// shift action for this item), so only the single S child
				// is on the stack, not both body symbols.
				if len(treeStack) == 0 {
					return nil, pegerr.Internalf("accept reached with empty tree stack")
				}
				return treeStack[len(treeStack)-1], nil
			}

			prod := ld.Items[prodIdx]

			children := make([]*Tree, len(prod.Body))
			for i := len(prod.Body) - 1; i >= 0; i-- {
				stateStack = stateStack[:len(stateStack)-1]
				children[i] = treeStack[len(treeStack)-1]
				treeStack = treeStack[:len(treeStack)-1]
			}

			node := &Tree{Symbol: nonterminalName(ld, prod.Head), Children: children}

			top := stateStack[len(stateStack)-1]
			gotoCol := ld.MaxTerminal + 1 + prod.Head
			target := ld.ParseStateTable[top][gotoCol]
			if target == 0 {
				return nil, pegerr.Internalf("no GOTO from state %d on %q", top, node.Symbol)
			}

			treeStack = append(treeStack, node)
			stateStack = append(stateStack, target)
		}
	}
}
