// Package lalrtab implements component G: flattening a lalr.Collection
// into the dense action/goto tables the runtime consumes, detecting
// shift/reduce and reduce/reduce conflicts along the way and naming the
// colliding nonterminals before the error leaves the package.
//
// Grounded on internal/ictiobus/parse/lalr.go's lalr1Table.Action/Goto
// (same three-way shift/reduce/accept resolution, reordered here into a
// single conflict-or-commit switch since this compiler's action table has
// no separate "accept" code: reducing the augmented start production is
// itself the accept signal, per spec §4.G's pushdown description) and
// parse/lraction.go's makeLRConflictError/isShiftReduceConlict for the
// conflict-message phrasing, adapted to report nonterminal names (spec
// §4.G, §7) instead of full production strings.
package lalrtab

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/dsisnero/pegasus/internal/grammar"
	"github.com/dsisnero/pegasus/internal/lalr"
	"github.com/dsisnero/pegasus/internal/pegerr"
	"github.com/dsisnero/pegasus/internal/util"
)

// Assembled is the flattened LALR(1) parser table: a dense GOTO table
// (terminals then nonterminals) and a dense ACTION table (terminals only),
// per the shapes in spec §3's data model. Row 0 of both tables is a
// sentinel "error state" that is never reached by GOTO or the runtime;
// real states occupy rows 1..NumStates.
type Assembled struct {
	Grammar *grammar.Grammar // augmented

	// MaxTerminal and MaxNonterm are T and N from spec §3.
	MaxTerminal int
	MaxNonterm  int

	// NumStates is S; valid row indices into both tables are 0..NumStates.
	NumStates int

	// StateTable[s][col] is the GOTO table: columns 0..T index terminals by
	// id, columns T+1..T+N+1 index nonterminals by id. 0 means no
	// transition.
	StateTable [][]int

	// ActionTable[s][t] is the ACTION table, indexed by terminal id 0..T.
	// -1 is error, 0 is shift (consult StateTable), k>0 is reduce by
	// production k-1.
	ActionTable [][]int

	// Productions is the stable reduction-id order (spec §3: "Productions
	// are indexed 0..M-1 in a stable order; this index is the reduction id
	// used in the action table").
	Productions []grammar.Production

	ids grammar.AssignedIDs
}

// Build assembles the tables for col's grammar (which must be the same
// augmented grammar col was built from).
func Build(col *lalr.Collection) (*Assembled, error) {
	g := col.Grammar
	ids := g.AssignIDs()

	T := ids.MaxTerminal
	N := ids.MaxNonterm
	S := col.NumStates()

	a := &Assembled{
		Grammar:     g,
		MaxTerminal: T,
		MaxNonterm:  N,
		NumStates:   S,
		Productions: g.AllProductions(),
		ids:         ids,
	}

	a.StateTable = make([][]int, S+1)
	a.ActionTable = make([][]int, S+1)
	for s := 0; s <= S; s++ {
		a.StateTable[s] = make([]int, T+N+2)
		a.ActionTable[s] = make([]int, T+1)
		for t := range a.ActionTable[s] {
			a.ActionTable[s][t] = -1
		}
	}

	prodIndex := map[string]int{}
	for i, p := range a.Productions {
		prodIndex[p.String()] = i
	}

	terms := g.Terminals()
	nonterms := g.Nonterminals()

	for s := 1; s <= S; s++ {
		for _, term := range terms {
			if target := col.Goto(s, term.Name); target != 0 {
				a.StateTable[s][ids.TerminalID[term.Name]] = target
			}
		}
		for _, nt := range nonterms {
			if target := col.Goto(s, nt); target != 0 {
				a.StateTable[s][T+1+ids.NonterminalID[nt]] = target
			}
		}

		shifts := map[string]int{}
		reduces := map[string][]int{}

		items := col.ItemsOf(s)
		for _, itemName := range items.Elements() {
			item := items.Get(itemName)

			if sym, ok := item.Next(); ok {
				if sym == grammar.EndOfInput && item.NonTerminal == g.AugmentedStartName() {
					// S' -> S . $: the runtime never has a token past $ to
					// shift-then-reduce with, so accept here directly
					// instead of shifting $, consistent with String()
					// already rendering this cell as "acc" rather than a
					// shift.
					reduces[grammar.EndOfInput] = append(reduces[grammar.EndOfInput], 0)
					continue
				}
				if g.IsTerminal(sym) {
					if target := col.Goto(s, sym); target != 0 {
						shifts[sym] = target
					}
				}
				continue
			}

			prod := grammar.Production{Head: item.NonTerminal, Body: append([]string{}, item.Left...)}
			idx, ok := prodIndex[prod.String()]
			if !ok {
				return nil, pegerr.Internalf("complete item %q does not match any known production", itemName)
			}

			la := col.LookaheadOf(s, item)
			for _, t := range la.Elements() {
				reduces[t] = append(reduces[t], idx)
			}
		}

		for _, term := range terms {
			t := term.Name
			_, hasShift := shifts[t]
			redList := reduces[t]

			switch {
			case !hasShift && len(redList) == 0:
				// already -1
			case hasShift && len(redList) == 0:
				a.ActionTable[s][ids.TerminalID[t]] = 0
			case !hasShift && len(redList) == 1:
				a.ActionTable[s][ids.TerminalID[t]] = redList[0] + 1
			case !hasShift && len(redList) >= 2:
				return nil, conflictError("reduce/reduce", s, t, g, a.Productions, redList)
			default: // hasShift && len(redList) >= 1
				return nil, conflictError("shift/reduce", s, t, g, a.Productions, redList)
			}
		}
	}

	return a, nil
}

// conflictError builds the GrammarConflict reported to the user: the
// numeric production ids are resolved to their head nonterminal names
// (deduplicated in declaration order) before the error is returned, per
// spec §7's "the raw ids are an implementation detail."
func conflictError(kind string, state int, terminal string, g *grammar.Grammar, prods []grammar.Production, prodIdxs []int) error {
	// production indices follow rule declaration order, so walking them
	// ascending yields the heads in declaration order
	sorted := append([]int{}, prodIdxs...)
	sort.Ints(sorted)

	seen := map[string]bool{}
	var names []string
	for _, idx := range sorted {
		head := prods[idx].Head
		if !seen[head] {
			seen[head] = true
			names = append(names, head)
		}
	}

	// MakeTextList prepends "and " onto its last argument in place, so it
	// gets its own copy of names; the Collisions context below keeps the
	// untouched list.
	listed := util.MakeTextList(append([]string{}, names...))
	msg := fmt.Sprintf("%s conflict detected on %s %q terminal in state %d between rules for %s",
		kind, util.ArticleFor(terminal, false), terminal, state, listed)

	return pegerr.New(pegerr.Conflict, msg,
		pegerr.State{Num: state},
	).WithContext(pegerr.Collisions{Nonterminals: names})
}

// String renders the action/goto table for debugging and for the seed
// suite's shift/reduce-conflict test, via rosed — the same library and the
// same "state row, action columns, goto columns" layout as the teacher's
// lalr1Table.String().
func (a *Assembled) String() string {
	terms := a.Grammar.Terminals()
	nonterms := a.Grammar.Nonterminals()

	headers := []string{"S", "|"}
	for _, term := range terms {
		headers = append(headers, fmt.Sprintf("A:%s", term.Name))
	}
	headers = append(headers, "|")
	for _, nt := range nonterms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}

	data := [][]string{headers}

	for s := 1; s <= a.NumStates; s++ {
		row := []string{fmt.Sprintf("%d", s), "|"}

		for _, term := range terms {
			tid := a.ids.TerminalID[term.Name]
			cell := ""
			switch act := a.ActionTable[s][tid]; {
			case act == -1:
				// blank
			case act == 0:
				cell = fmt.Sprintf("s%d", a.StateTable[s][tid])
			case act-1 == 0 && term.Name == grammar.EndOfInput:
				cell = "acc"
			default:
				p := a.Productions[act-1]
				cell = fmt.Sprintf("r%s -> %s", p.Head, p.String())
			}
			row = append(row, cell)
		}

		row = append(row, "|")

		for _, nt := range nonterms {
			cell := ""
			if target := a.StateTable[s][a.MaxTerminal+1+a.ids.NonterminalID[nt]]; target != 0 {
				cell = fmt.Sprintf("%d", target)
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
