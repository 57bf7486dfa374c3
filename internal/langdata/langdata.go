// Package langdata assembles the consolidated output record described in
// spec §6: the lexer tables (component C), the parser tables (component G),
// and the symbol/production tables needed to interpret both, plus a build
// stamp. It is the one value a front-end hands the runtime.
//
// Grounded on server/dao/sqlite/sqlite.go's convertToDB_GameStatePtr /
// convertFromDB_GameStatePtr, which round-trip *game.State through
// rezi.EncBinary/rezi.DecBinary the same way EncodeBinary/DecodeBinary round-
// trip a LanguageData here, and on server/server.go's use of uuid.UUID as an
// opaque identity value (adapted here into a per-compile BuildID instead of
// a session id).
package langdata

import (
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"

	"github.com/dsisnero/pegasus/internal/grammar"
	"github.com/dsisnero/pegasus/internal/lalrtab"
	"github.com/dsisnero/pegasus/internal/lexgen"
	"github.com/dsisnero/pegasus/internal/pegerr"
)

// TerminalInfo is the {id} record spec §6 keys the terminals map by name
// under.
type TerminalInfo struct {
	ID int `json:"id"`
}

// NonterminalInfo is the {id, is_start} record spec §6 keys the
// nonterminals map by name under.
type NonterminalInfo struct {
	ID      int  `json:"id"`
	IsStart bool `json:"is_start"`
}

// SymbolKind tags a production-body entry as referring to a terminal or a
// nonterminal, since the two are disjoint id namespaces sharing one column
// space.
type SymbolKind int

const (
	// TerminalSymbol tags a body entry that names a terminal.
	TerminalSymbol SymbolKind = iota
	// NonterminalSymbol tags a body entry that names a nonterminal.
	NonterminalSymbol
)

// BodySymbol is one tagged symbol in an Item's body.
type BodySymbol struct {
	Kind SymbolKind `json:"kind"`
	ID   int        `json:"id"`
}

// Item is one production, indexed by its reduction id: the head
// nonterminal's id and the body's tagged symbol sequence, per spec §6's
// "items" field.
type Item struct {
	Head int          `json:"head"`
	Body []BodySymbol `json:"body"`
}

// LanguageData is the value aggregate spec §6 names: immutable once built,
// carrying no references into the grammar, automaton, or table-builder
// packages' interior state.
type LanguageData struct {
	LexSkipTable    []bool                     `json:"lex_skip_table"`
	LexStateTable   [][]int                    `json:"lex_state_table"`
	LexFinalTable   []int                      `json:"lex_final_table"`
	ParseStateTable [][]int                    `json:"parse_state_table"`
	ParseActTable   [][]int                    `json:"parse_action_table"`
	Terminals       map[string]TerminalInfo    `json:"terminals"`
	Nonterminals    map[string]NonterminalInfo `json:"nonterminals"`
	Items           []Item                     `json:"items"`
	MaxTerminal     int                        `json:"max_terminal"`

	// BuildID stamps this LanguageData with the identity of the compile
	// pass that produced it; two compiles of byte-identical grammar source
	// still get distinct ids, so callers can tell a stale cached table set
	// from a fresh one without hashing the tables themselves.
	BuildID uuid.UUID `json:"build_id"`
}

// Build assembles a LanguageData from a compiled lexer and a compiled
// parser table set sharing the same augmented grammar, stamping the result
// with a fresh BuildID.
func Build(lex *lexgen.Tables, tab *lalrtab.Assembled) (*LanguageData, error) {
	if lex == nil {
		return nil, pegerr.Internalf("langdata.Build: nil lexer tables")
	}
	if tab == nil {
		return nil, pegerr.Internalf("langdata.Build: nil parser tables")
	}

	g := tab.Grammar
	ids := g.AssignIDs()

	ld := &LanguageData{
		LexSkipTable:  append([]bool{}, lex.SkipTable...),
		LexFinalTable: append([]int{}, lex.FinalTable...),
		MaxTerminal:   tab.MaxTerminal,
		Terminals:     map[string]TerminalInfo{},
		Nonterminals:  map[string]NonterminalInfo{},
		BuildID:       uuid.New(),
	}

	ld.LexStateTable = make([][]int, len(lex.StateTable))
	for i, row := range lex.StateTable {
		ld.LexStateTable[i] = append([]int{}, row[:]...)
	}

	ld.ParseStateTable = make([][]int, len(tab.StateTable))
	for i, row := range tab.StateTable {
		ld.ParseStateTable[i] = append([]int{}, row...)
	}
	ld.ParseActTable = make([][]int, len(tab.ActionTable))
	for i, row := range tab.ActionTable {
		ld.ParseActTable[i] = append([]int{}, row...)
	}

	for _, term := range g.Terminals() {
		ld.Terminals[term.Name] = TerminalInfo{ID: ids.TerminalID[term.Name]}
	}
	startName := g.AugmentedStartName()
	for _, nt := range g.Nonterminals() {
		ld.Nonterminals[nt] = NonterminalInfo{
			ID:      ids.NonterminalID[nt],
			IsStart: nt == startName,
		}
	}

	for _, p := range tab.Productions {
		item := Item{Head: ids.NonterminalID[p.Head]}
		for _, sym := range p.Body {
			if g.IsTerminal(sym) {
				item.Body = append(item.Body, BodySymbol{Kind: TerminalSymbol, ID: ids.TerminalID[sym]})
			} else {
				item.Body = append(item.Body, BodySymbol{Kind: NonterminalSymbol, ID: ids.NonterminalID[sym]})
			}
		}
		ld.Items = append(ld.Items, item)
	}

	return ld, nil
}

// EncodeBinary serializes ld to its binary form via rezi, the same
// EncBinary-on-the-whole-value call the teacher's DAO layer uses to store a
// *game.State.
func (ld *LanguageData) EncodeBinary() []byte {
	return rezi.EncBinary(ld)
}

// DecodeBinary parses a LanguageData previously produced by EncodeBinary.
// It mirrors convertFromDB_GameStatePtr's consumed-byte-count check so a
// truncated buffer is reported instead of silently accepted.
func DecodeBinary(data []byte) (*LanguageData, error) {
	ld := &LanguageData{}
	n, err := rezi.DecBinary(data, ld)
	if err != nil {
		return nil, pegerr.Internalf("langdata: REZI decode: %v", err)
	}
	if n != len(data) {
		return nil, pegerr.Internalf("langdata: REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	return ld, nil
}

// String gives a one-line human summary, useful in logs and trace output.
func (ld *LanguageData) String() string {
	return fmt.Sprintf("LanguageData{build=%s, states(lex)=%d, states(parse)=%d, terminals=%d, nonterminals=%d, items=%d}",
		ld.BuildID, len(ld.LexStateTable), len(ld.ParseStateTable), len(ld.Terminals), len(ld.Nonterminals), len(ld.Items))
}
