// Package pegerr defines the error taxonomy shared by every compiler stage:
// malformed grammars, LALR conflicts, and internal invariant violations, all
// modeled as a single Error type carrying a Kind and an ordered list of
// Context records. This mirrors server/serr's "message plus causes" Error
// from the teacher, generalized so that a later stage can rewrite an
// earlier stage's context record of a given type in place (e.g. swapping
// one Symbol record for another) instead of constructing a new error type
// per rewrite.
package pegerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind distinguishes the three ways the compiler can fail.
type Kind int

const (
	// Grammar is a malformed grammar: unknown symbols, a disallowed EBNF
	// operator, a duplicate declaration, a malformed regex, or a lexer or
	// parser over its configured state ceiling.
	Grammar Kind = iota
	// Conflict is a shift/reduce or reduce/reduce conflict the LALR table
	// builder could not resolve.
	Conflict
	// Internal signals a violated invariant in the compiler itself, not a
	// problem with the input grammar.
	Internal
	// Runtime signals a failure in the generated lexer/parser runtime
	// (internal/runtime) against a specific input string, as opposed to a
	// problem with the compiled grammar itself: a byte the lexer DFA
	// rejects, a token the parse tables have no action for, or a shift
	// attempted past the end of the token stream.
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Grammar:
		return "grammar error"
	case Conflict:
		return "grammar conflict"
	case Internal:
		return "internal error"
	case Runtime:
		return "runtime error"
	default:
		return "error"
	}
}

// Context is one fact attached to an Error: a symbol name, a byte offset, a
// production id, a pair of conflicting nonterminals. Each concrete Context
// type is also its own "record type" key for WithContext's find-and-replace.
type Context interface {
	fmt.Stringer
}

// Symbol names a grammar symbol (terminal or nonterminal) involved in the
// error, e.g. the unknown identifier in an undefined-symbol GrammarError.
type Symbol struct {
	Name string
}

func (s Symbol) String() string { return s.Name }

// Offset gives a byte offset into a regex or grammar-source text, used by
// the regex parser's "invalid regex at offset k" GrammarErrors.
type Offset struct {
	Pos int
}

func (o Offset) String() string { return fmt.Sprintf("offset %d", o.Pos) }

// Production names a numbered production (as stored in the parse tables)
// purely by its integer id. WithContext replaces it only with another
// Production record; a ProducedBy added alongside it is appended.
type Production struct {
	ID int
}

func (p Production) String() string { return fmt.Sprintf("production %d", p.ID) }

// ProducedBy names the single nonterminal a conflicting production reduces
// to, the name-bearing counterpart of a Production record.
type ProducedBy struct {
	Nonterminal string
}

func (p ProducedBy) String() string { return p.Nonterminal }

// TokenIndex names the position in the token stream a runtime parse error
// was detected at, distinct from Offset's byte position into source text.
type TokenIndex struct {
	Index int
}

func (t TokenIndex) String() string { return fmt.Sprintf("token %d", t.Index) }

// State names the LALR automaton state a conflict was detected in.
type State struct {
	Num int
}

func (s State) String() string { return fmt.Sprintf("state %d", s.Num) }

// Collisions names every nonterminal a shift/reduce or reduce/reduce
// conflict's colliding productions reduce to, already mapped from the
// numeric production ids and deduplicated in declaration order. The table
// assembler resolves the ids to names before it builds the GrammarConflict
// and attaches only this record, so no numeric production id leaves the
// compiler boundary.
type Collisions struct {
	Nonterminals []string
}

func (c Collisions) String() string {
	return strings.Join(c.Nonterminals, ", ")
}

// Error is the one error type every compiler stage returns. Besides a
// message and a Kind it carries zero or more Context records that narrate
// what the error is about; later stages can call WithContext to replace a
// record of a given type without needing to reconstruct the whole Error.
type Error struct {
	kind  Kind
	msg   string
	ctx   []Context
	cause error
}

// New creates an Error of the given kind with the given message and initial
// context records, in order.
func New(kind Kind, msg string, ctx ...Context) *Error {
	return &Error{kind: kind, msg: msg, ctx: append([]Context{}, ctx...)}
}

// Grammarf creates a Grammar-kind Error with a formatted message.
func Grammarf(format string, args ...any) *Error {
	return New(Grammar, fmt.Sprintf(format, args...))
}

// Internalf creates an Internal-kind Error with a formatted message.
func Internalf(format string, args ...any) *Error {
	return New(Internal, fmt.Sprintf(format, args...))
}

// Wrap attaches an underlying cause to e, returning e for chaining.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// Kind returns the error's Kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Context returns the error's context records, in the order they were added
// or last replaced.
func (e *Error) Context() []Context {
	return append([]Context{}, e.ctx...)
}

// WithContext appends ctx to the error, unless an existing record has the
// same concrete type, in which case that record is replaced in place
// (preserving its position). It returns e for chaining.
func (e *Error) WithContext(ctx Context) *Error {
	target := fmt.Sprintf("%T", ctx)
	for i, existing := range e.ctx {
		if fmt.Sprintf("%T", existing) == target {
			e.ctx[i] = ctx
			return e
		}
	}
	e.ctx = append(e.ctx, ctx)
	return e
}

// Error implements the error interface. The message is followed by any
// context records rendered in parens, then the cause if one is set.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)

	if len(e.ctx) > 0 {
		parts := make([]string, len(e.ctx))
		for i, c := range e.ctx {
			parts[i] = c.String()
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(")")
	}

	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}

	return sb.String()
}

// Unwrap returns the error's cause, if any, for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a *Error with the same Kind and message.
// The cause chain is walked by errors.Is through Unwrap, not here.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.kind == other.kind && e.msg == other.msg
	}
	return false
}

// IsKind reports whether err is a *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.kind == kind
	}
	return false
}
