// Package pegasus ties the compiler stages together: a grammar source is
// loaded, compiled into lexer and parser tables, and assembled into the
// LanguageData a caller can lex and parse against.
//
// Grounded on the teacher's root-level engine.go: New() there loads a
// world file via tqw.LoadResourceBundle and wires the result into an
// Engine ready to run; Compile here loads a grammar source via pegsrc and
// wires the result into a Language ready to Lex/Parse.
package pegasus

import (
	"fmt"

	"github.com/dsisnero/pegasus/internal/lalr"
	"github.com/dsisnero/pegasus/internal/lalrtab"
	"github.com/dsisnero/pegasus/internal/langdata"
	"github.com/dsisnero/pegasus/internal/lexgen"
	"github.com/dsisnero/pegasus/internal/runtime"
	"github.com/dsisnero/pegasus/pegsrc"
)

// Options bounds the resource ceilings enforced during compilation, per
// spec §5's "Resource bounds." A zero value selects each stage's default
// ceiling.
type Options struct {
	MaxLexerStates int
	MaxLRStates    int
}

// Language is a fully compiled grammar: its LanguageData plus convenience
// methods over internal/runtime.
type Language struct {
	Data *langdata.LanguageData
}

// Compile builds a Language from an already-loaded grammar source.
func Compile(src *pegsrc.GrammarSource, opts Options) (*Language, error) {
	g, err := src.Grammar()
	if err != nil {
		return nil, fmt.Errorf("loading grammar: %w", err)
	}

	tokenDefs, err := src.TokenDefs()
	if err != nil {
		return nil, fmt.Errorf("loading tokens: %w", err)
	}

	lex, err := lexgen.Build(tokenDefs, opts.MaxLexerStates)
	if err != nil {
		return nil, fmt.Errorf("compiling lexer tables: %w", err)
	}

	aug, err := g.Augmented()
	if err != nil {
		return nil, fmt.Errorf("augmenting grammar: %w", err)
	}

	col, err := lalr.Build(aug, opts.MaxLRStates)
	if err != nil {
		return nil, fmt.Errorf("building LALR(1) collection: %w", err)
	}

	tab, err := lalrtab.Build(col)
	if err != nil {
		return nil, fmt.Errorf("assembling parser tables: %w", err)
	}

	data, err := langdata.Build(lex, tab)
	if err != nil {
		return nil, fmt.Errorf("assembling language data: %w", err)
	}

	return &Language{Data: data}, nil
}

// CompileTOML parses tomlData as a grammar source, per §2's data flow, and
// compiles it.
func CompileTOML(tomlData []byte, opts Options) (*Language, error) {
	src, err := pegsrc.Load(tomlData)
	if err != nil {
		return nil, err
	}
	return Compile(src, opts)
}

// Lex tokenizes source against the compiled lexer tables.
func (l *Language) Lex(source string) ([]runtime.Token, error) {
	return runtime.Lex(l.Data, source)
}

// Parse runs the shift/reduce automaton over tokens.
func (l *Language) Parse(tokens []runtime.Token) (*runtime.Tree, error) {
	return runtime.Parse(l.Data, tokens)
}

// Run lexes and then parses source in one call.
func (l *Language) Run(source string) (*runtime.Tree, error) {
	tokens, err := l.Lex(source)
	if err != nil {
		return nil, err
	}
	return l.Parse(tokens)
}
