// Package grammar holds the compiler's grammar model: terminals,
// nonterminals, productions, start-symbol augmentation, and the FIRST-set /
// nullability computation the LALR builder needs. It is grounded on the
// pre-split `Grammar` type in internal/tunascript/grammar.go, trimmed of the
// tunascript-specific token-class registry (this generator's terminals are
// just an id plus a skip flag, not a language's lexical-class hierarchy).
package grammar

import (
	"fmt"
	"sort"

	"github.com/dsisnero/pegasus/internal/pegerr"
	"github.com/dsisnero/pegasus/internal/util"
)

// SymbolKind distinguishes a Symbol's two possible referents.
type SymbolKind int

const (
	// Term marks a Symbol that refers to a terminal (token).
	Term SymbolKind = iota
	// NonTerm marks a Symbol that refers to a nonterminal (rule).
	NonTerm
)

// Symbol is the tagged union named in the data model: a reference to either
// a terminal or a nonterminal, carried by name until ids are assigned.
type Symbol struct {
	Kind SymbolKind
	Name string
}

func (s Symbol) String() string {
	return s.Name
}

// Terminal is a lexical class: an id, a display name, and whether the
// lexer discards its matches once recognized.
type Terminal struct {
	ID   int
	Name string
	Skip bool
}

// Nonterminal is a grammar rule name and its assigned id.
type Nonterminal struct {
	ID      int
	Name    string
	IsStart bool
}

// Production is one alternative of a rule: a head nonterminal name and an
// ordered body of symbol names. An empty Body is a legal epsilon
// production.
type Production struct {
	Head string
	Body []string
}

// Copy returns a deep copy of p.
func (p Production) Copy() Production {
	body := make([]string, len(p.Body))
	copy(body, p.Body)
	return Production{Head: p.Head, Body: body}
}

func (p Production) String() string {
	body := ""
	for i, s := range p.Body {
		if i > 0 {
			body += " "
		}
		body += s
	}
	if body == "" {
		body = "ε"
	}
	return fmt.Sprintf("%s -> %s", p.Head, body)
}

// Grammar is the full, pre-augmentation grammar model: the set of declared
// terminals (in declaration order), the set of declared nonterminals (in
// declaration order — the first declared is the start symbol, per §9 of the
// generator's design), and every production keyed by head.
type Grammar struct {
	termOrder []string
	terms     map[string]*Terminal

	ntOrder []string
	nts     map[string]bool

	prodsByHead map[string][]Production
}

// New creates an empty Grammar ready for AddTerminal/AddRule calls.
func New() *Grammar {
	return &Grammar{
		terms:       map[string]*Terminal{},
		nts:         map[string]bool{},
		prodsByHead: map[string][]Production{},
	}
}

// AddTerminal declares a token by name. skip marks it as discarded by the
// lexer once matched. Declaration order determines tie-break priority in
// the DFA (earlier-declared tokens win ties) and is preserved verbatim.
func (g *Grammar) AddTerminal(name string, skip bool) error {
	if name == "" {
		return pegerr.Grammarf("terminal name cannot be empty")
	}
	if _, exists := g.terms[name]; exists {
		return pegerr.Grammarf("terminal %q already declared", name).WithContext(pegerr.Symbol{Name: name})
	}
	if g.nts[name] {
		return pegerr.Grammarf("%q is declared as both a rule and a token", name).WithContext(pegerr.Symbol{Name: name})
	}
	g.terms[name] = &Terminal{Name: name, Skip: skip}
	g.termOrder = append(g.termOrder, name)
	return nil
}

// AddRule declares a nonterminal and its alternative productions (bodies).
// The first rule ever added to a Grammar becomes the start symbol.
func (g *Grammar) AddRule(head string, bodies [][]string) error {
	if head == "" {
		return pegerr.Grammarf("rule name cannot be empty")
	}
	if _, exists := g.terms[head]; exists {
		return pegerr.Grammarf("%q is declared as both a rule and a token", head).WithContext(pegerr.Symbol{Name: head})
	}
	if g.nts[head] {
		return pegerr.Grammarf("rule %q already declared", head).WithContext(pegerr.Symbol{Name: head})
	}

	g.nts[head] = true
	g.ntOrder = append(g.ntOrder, head)

	for _, body := range bodies {
		b := make([]string, len(body))
		copy(b, body)
		g.prodsByHead[head] = append(g.prodsByHead[head], Production{Head: head, Body: b})
	}
	return nil
}

// StartSymbol returns the name of the first rule declared, or "" if no
// rules have been declared.
func (g *Grammar) StartSymbol() string {
	if len(g.ntOrder) == 0 {
		return ""
	}
	return g.ntOrder[0]
}

// IsTerminal reports whether name was declared with AddTerminal.
func (g *Grammar) IsTerminal(name string) bool {
	_, ok := g.terms[name]
	return ok
}

// IsNonterminal reports whether name was declared with AddRule.
func (g *Grammar) IsNonterminal(name string) bool {
	return g.nts[name]
}

// Terminals returns the declared terminals, in declaration order.
func (g *Grammar) Terminals() []Terminal {
	out := make([]Terminal, 0, len(g.termOrder))
	for _, name := range g.termOrder {
		out = append(out, *g.terms[name])
	}
	return out
}

// Nonterminals returns the declared nonterminal names, in declaration
// order. The start symbol is always first.
func (g *Grammar) Nonterminals() []string {
	out := make([]string, len(g.ntOrder))
	copy(out, g.ntOrder)
	return out
}

// Rule returns the productions declared for the given nonterminal, in
// declaration order.
func (g *Grammar) Rule(head string) []Production {
	return g.prodsByHead[head]
}

// AllProductions returns every production across every rule, in a stable
// order: rules in declaration order, and within a rule, alternatives in
// declaration order. This order is the reduction-id order used by the
// action table.
func (g *Grammar) AllProductions() []Production {
	var all []Production
	for _, head := range g.ntOrder {
		all = append(all, g.prodsByHead[head]...)
	}
	return all
}

// SymbolsOf returns every symbol (terminal or nonterminal) appearing in p's
// body, resolved against the grammar.
func (g *Grammar) SymbolsOf(p Production) []Symbol {
	out := make([]Symbol, 0, len(p.Body))
	for _, name := range p.Body {
		if g.IsTerminal(name) {
			out = append(out, Symbol{Kind: Term, Name: name})
		} else {
			out = append(out, Symbol{Kind: NonTerm, Name: name})
		}
	}
	return out
}

// Validate checks the invariants named in the data model: every body symbol
// resolves to a declared terminal or nonterminal, no EBNF operator symbols
// appear, and at least one rule is declared.
func (g *Grammar) Validate() error {
	if len(g.ntOrder) == 0 {
		return pegerr.Grammarf("grammar has no rules")
	}

	for _, head := range g.ntOrder {
		for _, p := range g.prodsByHead[head] {
			for _, sym := range p.Body {
				switch sym {
				case "*", "+", "?":
					return pegerr.Grammarf("EBNF operator %q is not supported at the grammar level; rewrite using left recursion", sym).
						WithContext(pegerr.Symbol{Name: sym})
				}
				if !g.IsTerminal(sym) && !g.IsNonterminal(sym) {
					return pegerr.Grammarf("rule %q references %s %q, which is declared as neither a terminal nor a nonterminal",
						head, util.ArticleFor(sym, false), sym).
						WithContext(pegerr.Symbol{Name: sym})
				}
			}
		}
	}

	return nil
}

// AugmentedStartName is the name given to the synthetic start nonterminal
// created by Augmented, formed by suffixing the grammar's declared start
// symbol with "-P" (matching the convention used by this generator's
// predecessor for its own augmented-start items).
func (g *Grammar) AugmentedStartName() string {
	return g.StartSymbol() + "-P"
}

// EndOfInput is the name of the synthetic end-of-input terminal added by
// Augmented.
const EndOfInput = "$"

// Augmented returns a copy of g with a synthetic start nonterminal
// S' -> S $ prepended (S being g's declared start symbol) and a synthetic
// "$" end-of-input terminal appended. The returned grammar's first
// nonterminal in declaration order is the augmented start, satisfying "the
// nonterminal with id 0 is the start nonterminal, augmented by the
// generator; not user-supplied under that id" once ids are assigned by
// AssignIDs.
func (g *Grammar) Augmented() (*Grammar, error) {
	start := g.StartSymbol()
	if start == "" {
		return nil, pegerr.Grammarf("cannot augment a grammar with no rules")
	}

	aug := New()
	aug.ntOrder = append(aug.ntOrder, g.AugmentedStartName())
	aug.nts[g.AugmentedStartName()] = true
	aug.prodsByHead[g.AugmentedStartName()] = []Production{{
		Head: g.AugmentedStartName(),
		Body: []string{start, EndOfInput},
	}}

	for _, name := range g.ntOrder {
		aug.ntOrder = append(aug.ntOrder, name)
		aug.nts[name] = true
		aug.prodsByHead[name] = append([]Production{}, g.prodsByHead[name]...)
	}

	for _, name := range g.termOrder {
		aug.termOrder = append(aug.termOrder, name)
		t := *g.terms[name]
		aug.terms[name] = &t
	}
	aug.termOrder = append(aug.termOrder, EndOfInput)
	aug.terms[EndOfInput] = &Terminal{Name: EndOfInput, Skip: false}

	return aug, nil
}

// AssignedIDs is the result of assigning stable integer ids to an augmented
// grammar's terminals and nonterminals, per the data model: nonterminal ids
// start at 0 (the augmented start gets 0), terminal ids start at 1, and
// both ranges are contiguous in declaration order.
type AssignedIDs struct {
	TerminalID    map[string]int
	NonterminalID map[string]int
	MaxTerminal   int
	MaxNonterm    int
}

// AssignIDs walks g (expected to already be Augmented) in declaration order
// and assigns ids. EndOfInput always receives the highest terminal id.
func (g *Grammar) AssignIDs() AssignedIDs {
	ids := AssignedIDs{
		TerminalID:    map[string]int{},
		NonterminalID: map[string]int{},
	}

	for i, name := range g.ntOrder {
		ids.NonterminalID[name] = i
	}
	if len(g.ntOrder) > 0 {
		ids.MaxNonterm = len(g.ntOrder) - 1
	}

	nextID := 1
	for _, name := range g.termOrder {
		if name == EndOfInput {
			continue
		}
		ids.TerminalID[name] = nextID
		nextID++
	}
	ids.TerminalID[EndOfInput] = nextID
	ids.MaxTerminal = nextID

	return ids
}

// Nullable computes, for every declared nonterminal, whether it can derive
// the empty string: the least fixpoint of "A is nullable if some production
// of A has an empty body, or a body entirely made of nullable
// nonterminals."
func (g *Grammar) Nullable() map[string]bool {
	nullable := map[string]bool{}

	changed := true
	for changed {
		changed = false
		for _, head := range g.ntOrder {
			if nullable[head] {
				continue
			}
			for _, p := range g.prodsByHead[head] {
				if g.bodyNullable(p.Body, nullable) {
					nullable[head] = true
					changed = true
					break
				}
			}
		}
	}

	return nullable
}

func (g *Grammar) bodyNullable(body []string, nullable map[string]bool) bool {
	for _, sym := range body {
		if g.IsTerminal(sym) {
			return false
		}
		if !nullable[sym] {
			return false
		}
	}
	return true
}

// FirstSets computes FIRST(A) for every declared nonterminal A: the least
// fixpoint of FIRST(A) ⊇ {first terminal of any production of A,
// transitively through nullable prefixes}.
func (g *Grammar) FirstSets() map[string]util.StringSet {
	nullable := g.Nullable()
	first := map[string]util.StringSet{}
	for _, head := range g.ntOrder {
		first[head] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, head := range g.ntOrder {
			for _, p := range g.prodsByHead[head] {
				before := first[head].Len()
				g.addFirstOfBody(p.Body, nullable, first, head)
				if first[head].Len() != before {
					changed = true
				}
			}
		}
	}

	return first
}

// addFirstOfBody unions the FIRST set of body into first[head], stopping at
// the first non-nullable symbol.
func (g *Grammar) addFirstOfBody(body []string, nullable map[string]bool, first map[string]util.StringSet, head string) {
	for _, sym := range body {
		if g.IsTerminal(sym) {
			first[head].Add(sym)
			return
		}
		first[head].AddAll(first[sym])
		if !nullable[sym] {
			return
		}
	}
}

// FirstOfString computes FIRST(β) for an arbitrary symbol string β: the
// union of FIRSTs through a nullable prefix, including ε (represented by
// the boolean return) only if the entire string is nullable.
func (g *Grammar) FirstOfString(body []string, first map[string]util.StringSet, nullable map[string]bool) (set util.StringSet, hasEpsilon bool) {
	set = util.NewStringSet()
	for _, sym := range body {
		if g.IsTerminal(sym) {
			set.Add(sym)
			return set, false
		}
		set.AddAll(first[sym])
		if !nullable[sym] {
			return set, false
		}
	}
	return set, true
}

// OrderedNonterminals returns the declared nonterminal names sorted
// alphabetically, useful for deterministic diagnostic output where
// declaration order isn't the point.
func (g *Grammar) OrderedNonterminals() []string {
	out := append([]string{}, g.ntOrder...)
	sort.Strings(out)
	return out
}
