// Package pegsrc loads the structured grammar-source description named in
// spec §2's data flow ("a structured description containing
// {tokens: name→(regex, options), rules: name→[alternatives]}") from TOML,
// and converts it into the internal/grammar.Grammar and
// internal/lexgen.TokenDef values the rest of the compiler consumes.
//
// Grounded on server/config.go's Load (parse into a typed struct, then
// validate) and internal/game/marshaling.go's array-of-tables mirror
// structs (jsonRoom, jsonNPC) for preserving declaration order through
// TOML, which BurntSushi/toml keeps for `[[array.of.tables]]` but not for
// plain maps.
package pegsrc

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dsisnero/pegasus/internal/grammar"
	"github.com/dsisnero/pegasus/internal/lexgen"
	"github.com/dsisnero/pegasus/internal/pegerr"
)

// TokenSource is one `[[tokens]]` entry: a name, its regex pattern, and
// whether the lexer should discard its matches.
type TokenSource struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
	Skip    bool   `toml:"skip"`
}

// RuleSource is one `[[rules]]` entry: a nonterminal name and its ordered
// alternative bodies. The first RuleSource in the file is the grammar's
// start symbol.
type RuleSource struct {
	Name   string     `toml:"name"`
	Bodies [][]string `toml:"bodies"`
}

// GrammarSource is the TOML-shaped grammar description: tokens in
// declaration order (earlier tokens win DFA ties) followed by rules in
// declaration order (the first rule is the start symbol).
type GrammarSource struct {
	Tokens []TokenSource `toml:"tokens"`
	Rules  []RuleSource  `toml:"rules"`
}

// Load parses raw TOML bytes into a GrammarSource. It does not validate
// cross-references between tokens and rules; call Grammar for that.
func Load(tomlData []byte) (*GrammarSource, error) {
	var src GrammarSource
	if err := toml.Unmarshal(tomlData, &src); err != nil {
		return nil, fmt.Errorf("decoding grammar source: %w", err)
	}
	return &src, nil
}

// LoadFile reads path off disk and parses it as a GrammarSource.
func LoadFile(path string) (*GrammarSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grammar source: %w", err)
	}
	return Load(data)
}

// Grammar converts src into a validated internal/grammar.Grammar.
func (src *GrammarSource) Grammar() (*grammar.Grammar, error) {
	g := grammar.New()

	for _, tok := range src.Tokens {
		if err := g.AddTerminal(tok.Name, tok.Skip); err != nil {
			return nil, err
		}
	}

	for _, rule := range src.Rules {
		if err := g.AddRule(rule.Name, rule.Bodies); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// TokenDefs converts src's token declarations into the lexgen.TokenDef
// slice the Thompson builder consumes, assigning ids in declaration order
// starting at 1 (id 0 is reserved for "no token", per spec §3).
func (src *GrammarSource) TokenDefs() ([]lexgen.TokenDef, error) {
	defs := make([]lexgen.TokenDef, 0, len(src.Tokens))
	for i, tok := range src.Tokens {
		if tok.Name == "" {
			return nil, pegerr.Grammarf("token at index %d has no name", i)
		}
		defs = append(defs, lexgen.TokenDef{
			ID:      i + 1,
			Name:    tok.Name,
			Pattern: tok.Pattern,
			Skip:    tok.Skip,
		})
	}
	return defs, nil
}
