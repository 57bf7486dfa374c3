// Package regexast parses the byte-string regex dialect the lexer builder
// accepts: literals, concatenation, alternation (|), the Kleene star/plus/
// optional postfix operators, parenthesized groups, and [...] character
// classes with ranges and leading-^ negation. There is no Unicode support —
// the alphabet is exactly the 256 byte values, and classes/escapes operate
// byte-by-byte.
//
// This package has no teacher file to port: the predecessor generator's
// lex/regex.go never implements a real AST or parser (RegexToNFA is a bare
// stub returning an empty NFA, and createKleeneStarFA/createAlternationFA
// construct a nil *automaton.NFA[string] and immediately call AddState on
// it, which is the one unguarded nil-pointer bug anywhere in that package).
// The precedence and construction rules below follow that file's doc
// comments, which describe the intended behavior precisely even though the
// code never reaches it.
package regexast

import (
	"fmt"

	"github.com/dsisnero/pegasus/internal/pegerr"
)

// NodeKind tags the sum-typed AST node.
type NodeKind int

const (
	// Literal matches exactly one byte.
	Literal NodeKind = iota
	// Class matches one byte against a set of byte ranges, optionally
	// negated.
	Class
	// Concat matches its two children in sequence.
	Concat
	// Alt matches either child.
	Alt
	// Star matches its child zero or more times.
	Star
	// Plus matches its child one or more times.
	Plus
	// Opt matches its child zero or one times.
	Opt
)

// ByteRange is an inclusive [Lo, Hi] range of byte values, used by Class
// nodes.
type ByteRange struct {
	Lo, Hi byte
}

// Node is one node of the regex AST. The meaning of its fields depends on
// Kind: Literal uses Byte; Class uses Ranges and Negate; Concat and Alt use
// Left and Right; Star, Plus, and Opt use Left only.
type Node struct {
	Kind   NodeKind
	Byte   byte
	Ranges []ByteRange
	Negate bool
	Left   *Node
	Right  *Node
}

// Parse parses a regex string into an AST. On any malformed input it
// returns a *pegerr.Error of kind Grammar carrying a pegerr.Offset context
// naming the byte offset of the failure, per the "invalid regex at offset
// k" contract.
func Parse(pattern string) (*Node, error) {
	p := &parser{src: pattern}
	node, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return node, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return pegerr.New(pegerr.Grammar, fmt.Sprintf("invalid regex: "+format, args...), pegerr.Offset{Pos: p.pos})
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

// parseAlt handles the lowest-precedence operator: a | b | c.
func (p *parser) parseAlt() (*Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}

	for !p.eof() && p.peek() == '|' {
		p.pos++
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: Alt, Left: left, Right: right}
	}

	return left, nil
}

// parseConcat handles juxtaposition: ab is "a" followed by "b". Stops at
// `|`, `)`, or end of input.
func (p *parser) parseConcat() (*Node, error) {
	var left *Node

	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		if left == nil {
			left = right
		} else {
			left = &Node{Kind: Concat, Left: left, Right: right}
		}
	}

	if left == nil {
		return nil, p.errorf("empty alternative")
	}

	return left, nil
}

// parsePostfix handles *, +, and ? applied to the tightest-binding atom.
func (p *parser) parsePostfix() (*Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for !p.eof() {
		switch p.peek() {
		case '*':
			p.pos++
			atom = &Node{Kind: Star, Left: atom}
		case '+':
			p.pos++
			atom = &Node{Kind: Plus, Left: atom}
		case '?':
			p.pos++
			atom = &Node{Kind: Opt, Left: atom}
		default:
			return atom, nil
		}
	}

	return atom, nil
}

// parseAtom handles the tightest-binding forms: a literal byte, an escape,
// a character class, or a parenthesized group.
func (p *parser) parseAtom() (*Node, error) {
	if p.eof() {
		return nil, p.errorf("unexpected end of pattern")
	}

	switch c := p.peek(); c {
	case '(':
		p.pos++
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if p.eof() || p.peek() != ')' {
			return nil, p.errorf("unclosed group")
		}
		p.pos++
		return inner, nil
	case '[':
		return p.parseClass()
	case '\\':
		p.pos++
		if p.eof() {
			return nil, p.errorf("dangling escape")
		}
		b := p.peek()
		p.pos++
		return &Node{Kind: Literal, Byte: b}, nil
	case ')', '|', '*', '+', '?':
		return nil, p.errorf("unexpected %q", c)
	default:
		p.pos++
		return &Node{Kind: Literal, Byte: c}, nil
	}
}

// parseClass handles [...] with an optional leading ^ for negation and a-z
// style ranges, including escaped characters within the class.
func (p *parser) parseClass() (*Node, error) {
	p.pos++ // consume '['

	var ranges []ByteRange
	negate := false

	if !p.eof() && p.peek() == '^' {
		negate = true
		p.pos++
	}

	first := true
	for {
		if p.eof() {
			return nil, p.errorf("unclosed character class")
		}
		if p.peek() == ']' && !first {
			p.pos++
			break
		}
		first = false

		lo, err := p.classByte()
		if err != nil {
			return nil, err
		}

		hi := lo
		if !p.eof() && p.peek() == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.pos++ // consume '-'
			hi, err = p.classByte()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, p.errorf("invalid range %q-%q", lo, hi)
			}
		}

		ranges = append(ranges, ByteRange{Lo: lo, Hi: hi})
	}

	if len(ranges) == 0 {
		return nil, p.errorf("empty character class")
	}

	return &Node{Kind: Class, Ranges: ranges, Negate: negate}, nil
}

func (p *parser) classByte() (byte, error) {
	if p.eof() {
		return 0, p.errorf("unclosed character class")
	}
	c := p.peek()
	if c == '\\' {
		p.pos++
		if p.eof() {
			return 0, p.errorf("dangling escape in character class")
		}
		c = p.peek()
	}
	p.pos++
	return c, nil
}

// Matches reports whether b is matched by a Class node's ranges, accounting
// for negation.
func (n *Node) Matches(b byte) bool {
	if n.Kind != Class {
		panic("Matches called on non-Class node")
	}
	inRange := false
	for _, r := range n.Ranges {
		if b >= r.Lo && b <= r.Hi {
			inRange = true
			break
		}
	}
	if n.Negate {
		return !inRange
	}
	return inRange
}
