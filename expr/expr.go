// Package expr implements the boolean domain-expression language.
//
// An expression combines domain-identifier atoms with NOT, AND and OR
// (tightest to loosest binding) and parenthesized grouping:
//
//	PF00069 AND (GO:0008150 OR NOT SSF56112)
//
// The symbol aliases `!`, `&&` and `||` are accepted. An expression is built
// once per query and evaluated once per gene against the gene's set of
// matched domain names.
package expr

import (
	"fmt"
	"slices"

	"github.com/hupe1980/genostore/term"
)

// Expr is an immutable boolean expression tree.
type Expr interface {
	// Matches evaluates the tree against one gene's domain names. An atom is
	// true iff its literal occurs in names; evaluation is side-effect-free
	// and short-circuits left to right.
	Matches(names []string) bool

	fmt.Stringer
}

type atom struct {
	literal string
}

func (a atom) Matches(names []string) bool { return slices.Contains(names, a.literal) }
func (a atom) String() string              { return a.literal }

type not struct {
	inner Expr
}

func (n not) Matches(names []string) bool { return !n.inner.Matches(names) }
func (n not) String() string              { return "NOT " + n.inner.String() }

type and struct {
	left, right Expr
}

func (a and) Matches(names []string) bool {
	return a.left.Matches(names) && a.right.Matches(names)
}
func (a and) String() string {
	return fmt.Sprintf("(%s AND %s)", a.left, a.right)
}

type or struct {
	left, right Expr
}

func (o or) Matches(names []string) bool {
	return o.left.Matches(names) || o.right.Matches(names)
}
func (o or) String() string {
	return fmt.Sprintf("(%s OR %s)", o.left, o.right)
}

// Parse builds the expression tree for input. Malformed input fails with
// *ParseError carrying the offending position.
func Parse(input string) (Expr, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected token %q", tok.text)}
	}
	return e, nil
}

// InferTerms classifies every atom of input to derive partition-pruning
// hints. complete is false when input does not lex or some atom has no known
// Term; the caller then scans all sources instead of a pruned subset.
func InferTerms(input string) (terms []term.Term, complete bool) {
	tokens, err := lex(input)
	if err != nil {
		return nil, false
	}
	complete = true
	seen := make(map[term.Term]bool)
	for _, tok := range tokens {
		if tok.kind != tokenName {
			continue
		}
		t, err := term.Classify(tok.text)
		if err != nil {
			complete = false
			continue
		}
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	return terms, complete
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

// Grammar, loosest first:
//
//	or   := and (OR and)*
//	and  := unary (AND unary)*
//	unary:= NOT unary | primary
//	primary := NAME | '(' or ')'
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = or{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = and{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokenNot {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return not{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokenName:
		return atom{literal: tok.text}, nil
	case tokenLParen:
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, &ParseError{Pos: closing.pos, Msg: "expected ')'"}
		}
		return e, nil
	case tokenEOF:
		return nil, &ParseError{Pos: tok.pos, Msg: "unexpected end of expression"}
	default:
		return nil, &ParseError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected token %q", tok.text)}
	}
}
