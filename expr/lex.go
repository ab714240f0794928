package expr

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed expression, tagged with the byte offset of
// the offending token.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expr: parse error at offset %d: %s", e.Pos, e.Msg)
}

type tokenKind uint8

const (
	tokenName tokenKind = iota
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// isNameRune covers domain-identifier charsets: GO:0008150, G3DSA:1.10.510.10,
// R-HSA-109582, mobidb-lite.
func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ':' || r == '-' || r == '_' || r == '.':
		return true
	}
	return false
}

func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case r == '!':
			tokens = append(tokens, token{kind: tokenNot, text: "!", pos: i})
			i++
		case r == '&':
			if i+1 >= len(runes) || runes[i+1] != '&' {
				return nil, &ParseError{Pos: i, Msg: "expected '&&'"}
			}
			tokens = append(tokens, token{kind: tokenAnd, text: "&&", pos: i})
			i += 2
		case r == '|':
			if i+1 >= len(runes) || runes[i+1] != '|' {
				return nil, &ParseError{Pos: i, Msg: "expected '||'"}
			}
			tokens = append(tokens, token{kind: tokenOr, text: "||", pos: i})
			i += 2
		case isNameRune(r):
			start := i
			for i < len(runes) && isNameRune(runes[i]) {
				i++
			}
			word := string(runes[start:i])
			tokens = append(tokens, token{kind: keywordKind(word), text: word, pos: start})
		default:
			return nil, &ParseError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, text: "", pos: len(runes)})
	return tokens, nil
}

// Operator keywords are case-insensitive so `and`, `AND` and `And` all work.
func keywordKind(word string) tokenKind {
	switch {
	case strings.EqualFold(word, "AND"):
		return tokenAnd
	case strings.EqualFold(word, "OR"):
		return tokenOr
	case strings.EqualFold(word, "NOT"):
		return tokenNot
	}
	return tokenName
}
