// Package formula parses and evaluates the arithmetic formulas that drive
// process duration estimates.
//
// A formula is an infix expression over decimal literals, identifiers and
// the binary operators + - * / ^ with parentheses. Identifiers are bound to
// values from an environment at evaluation time.
package formula

import (
	"fmt"
	"math"
	"strconv"
)

// SyntaxError describes the first grammar violation found in a formula.
type SyntaxError struct {
	Pos   int
	Token string
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("formula: %s at position %d", e.Msg, e.Pos)
	}
	return fmt.Sprintf("formula: %s at position %d (%q)", e.Msg, e.Pos, e.Token)
}

// Validate reports whether the parentheses in formula are balanced.
// It does not check anything else; use Check for a full grammar check.
func Validate(formula string) bool {
	depth := 0
	for _, t := range scan(formula) {
		switch t.kind {
		case kindLParen:
			depth++
		case kindRParen:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// Check performs a full grammar check of formula and returns a *SyntaxError
// describing the first problem, or nil.
func Check(formula string) error {
	toks := scan(formula)
	if len(toks) == 0 {
		return &SyntaxError{Pos: 0, Msg: "empty formula"}
	}

	expectOperand := true
	var open []token
	for _, t := range toks {
		switch t.kind {
		case kindNumber, kindIdent:
			if !expectOperand {
				return &SyntaxError{Pos: t.pos, Token: t.text, Msg: "missing operator before operand"}
			}
			expectOperand = false
		case kindOperator:
			if expectOperand {
				return &SyntaxError{Pos: t.pos, Token: t.text, Msg: "operator is missing its left operand"}
			}
			expectOperand = true
		case kindLParen:
			if !expectOperand {
				return &SyntaxError{Pos: t.pos, Token: t.text, Msg: "missing operator before parenthesis"}
			}
			open = append(open, t)
		case kindRParen:
			if len(open) == 0 {
				return &SyntaxError{Pos: t.pos, Token: t.text, Msg: "unmatched closing parenthesis"}
			}
			if expectOperand {
				return &SyntaxError{Pos: t.pos, Token: t.text, Msg: "expected operand before closing parenthesis"}
			}
			open = open[:len(open)-1]
		default:
			return &SyntaxError{Pos: t.pos, Token: t.text, Msg: "unknown token"}
		}
	}

	if len(open) > 0 {
		t := open[len(open)-1]
		return &SyntaxError{Pos: t.pos, Token: t.text, Msg: "unclosed parenthesis"}
	}
	if expectOperand {
		last := toks[len(toks)-1]
		return &SyntaxError{Pos: last.pos, Token: last.text, Msg: "formula ends with an operator"}
	}
	return nil
}

// Variables returns the identifiers referenced by formula in order of first
// occurrence, without duplicates.
func Variables(formula string) []string {
	return identifiers(scan(formula))
}

func identifiers(toks []token) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range toks {
		if t.kind != kindIdent || seen[t.text] {
			continue
		}
		seen[t.text] = true
		names = append(names, t.text)
	}
	return names
}

// Expression is a compiled formula in postfix order.
type Expression struct {
	source  string
	postfix []token
}

// Compile converts formula to postfix form. It fails on unbalanced
// parentheses and on tokens that are neither literals, identifiers,
// operators nor parentheses. Operand/operator arity is checked by Eval.
func Compile(formula string) (*Expression, error) {
	if !Validate(formula) {
		return nil, &SyntaxError{Pos: 0, Msg: "unbalanced parentheses"}
	}

	toks := scan(formula)
	out := make([]token, 0, len(toks))
	var ops []token
	for _, t := range toks {
		switch t.kind {
		case kindNumber, kindIdent:
			out = append(out, t)
		case kindLParen:
			ops = append(ops, t)
		case kindRParen:
			for len(ops) > 0 && ops[len(ops)-1].kind != kindLParen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			ops = ops[:len(ops)-1] // drop "("
		case kindOperator:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.kind != kindOperator || precedence[top.text] < precedence[t.text] {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, t)
		default:
			return nil, &SyntaxError{Pos: t.pos, Token: t.text, Msg: "unknown token"}
		}
	}
	for i := len(ops) - 1; i >= 0; i-- {
		out = append(out, ops[i])
	}

	return &Expression{source: formula, postfix: out}, nil
}

// String returns the source text the expression was compiled from.
func (e *Expression) String() string { return e.source }

// Variables returns the identifiers the expression needs bound.
func (e *Expression) Variables() []string { return identifiers(e.postfix) }

// Result is the outcome of evaluating a formula. When OK is false, Value is
// always 0 and Diagnostic says why.
type Result struct {
	Value      float64
	OK         bool
	Diagnostic string
}

func failure(format string, args ...any) Result {
	return Result{Diagnostic: fmt.Sprintf(format, args...)}
}

// Eval evaluates the expression with identifiers bound from env.
// Division by zero yields 0 and is not a failure.
func (e *Expression) Eval(env map[string]float64) Result {
	stack := make([]float64, 0, len(e.postfix))
	for _, t := range e.postfix {
		switch t.kind {
		case kindNumber:
			v, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return failure("bad number %q at position %d", t.text, t.pos)
			}
			stack = append(stack, v)
		case kindIdent:
			v, ok := env[t.text]
			if !ok {
				return failure("unbound identifier %q at position %d", t.text, t.pos)
			}
			stack = append(stack, v)
		case kindOperator:
			if len(stack) < 2 {
				return failure("operator %q at position %d is missing an operand", t.text, t.pos)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, apply(t.text, a, b))
		default:
			return failure("unknown token %q at position %d", t.text, t.pos)
		}
	}

	switch len(stack) {
	case 0:
		return failure("empty formula")
	case 1:
	default:
		return failure("%d operands are not joined by an operator", len(stack))
	}

	v := stack[0]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return failure("result %v is not a finite number", v)
	}
	return Result{Value: v, OK: true}
}

func apply(op string, a, b float64) float64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		if b == 0 {
			return 0
		}
		return a / b
	case "^":
		return math.Pow(a, b)
	}
	return 0
}
