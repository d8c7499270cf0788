package formula

import (
	"regexp"
	"unicode"
)

var (
	identRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	numberRe = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
)

// precedence of the binary operators. All of them associate to the left.
var precedence = map[string]int{
	"+": 1,
	"-": 1,
	"*": 2,
	"/": 2,
	"^": 3,
}

type kind int

const (
	kindInvalid kind = iota
	kindNumber
	kindIdent
	kindOperator
	kindLParen
	kindRParen
)

type token struct {
	text string
	pos  int
	kind kind
}

func classify(text string) kind {
	switch {
	case text == "(":
		return kindLParen
	case text == ")":
		return kindRParen
	case precedence[text] > 0:
		return kindOperator
	case numberRe.MatchString(text):
		return kindNumber
	case identRe.MatchString(text):
		return kindIdent
	default:
		return kindInvalid
	}
}

func isSingleCharToken(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '^', '(', ')':
		return true
	}
	return false
}

// scan splits a formula into positioned tokens. Positions are byte offsets.
func scan(formula string) []token {
	var tokens []token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		text := formula[start:end]
		tokens = append(tokens, token{text: text, pos: start, kind: classify(text)})
		start = -1
	}

	for i, r := range formula {
		switch {
		case unicode.IsSpace(r):
			flush(i)
		case isSingleCharToken(r):
			flush(i)
			text := string(r)
			tokens = append(tokens, token{text: text, pos: i, kind: classify(text)})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(formula))
	return tokens
}

// Tokenize splits a formula into its tokens. Whitespace separates tokens,
// each of + - * / ^ ( ) is always a token of its own, and any other run of
// characters forms a single token.
func Tokenize(formula string) []string {
	toks := scan(formula)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.text
	}
	return out
}

// IsIdentifier reports whether name can be used as a variable name.
func IsIdentifier(name string) bool {
	return identRe.MatchString(name)
}
