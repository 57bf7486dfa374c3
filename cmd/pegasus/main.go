/*
Pegasus compiles a TOML grammar source into a LanguageData table set.

Usage:

	pegasus [flags] GRAMMAR_FILE

The flags are:

	-max-lexer-states N
		Refuse to compile if the lexer DFA would exceed N states. Defaults to
		the compiler's built-in ceiling.

	-max-lr-states N
		Refuse to compile if the LALR(1) collection would exceed N states.
		Defaults to the compiler's built-in ceiling.

On success, a one-line summary of the compiled tables is printed to stdout.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dsisnero/pegasus"
)

const (
	// ExitSuccess indicates a successful compile.
	ExitSuccess = iota

	// ExitUsageError indicates a missing or malformed command line.
	ExitUsageError

	// ExitCompileError indicates the grammar source failed to compile.
	ExitCompileError
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pegasus", flag.ContinueOnError)
	maxLexerStates := fs.Int("max-lexer-states", 0, "lexer DFA state ceiling (0 = default)")
	maxLRStates := fs.Int("max-lr-states", 0, "LALR(1) state ceiling (0 = default)")

	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pegasus [flags] GRAMMAR_FILE")
		return ExitUsageError
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pegasus: %v\n", err)
		return ExitUsageError
	}

	lang, err := pegasus.CompileTOML(data, pegasus.Options{
		MaxLexerStates: *maxLexerStates,
		MaxLRStates:    *maxLRStates,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pegasus: %v\n", err)
		return ExitCompileError
	}

	fmt.Println(lang.Data.String())
	return ExitSuccess
}
