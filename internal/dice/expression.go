// Package dice parses and rolls chat dice commands such as "/r 2d6 + 1".
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandPrefix starts every roll command posted to the chat
const CommandPrefix = "/r"

// Expression limits
const (
	MaxTerms        = 20
	MaxDicePerTerm  = 100
	MinSides        = 2
	MaxSides        = 1000
	maxModifierSize = 1_000_000
)

var (
	// ErrEmptyExpression indicates a roll command with nothing to roll.
	ErrEmptyExpression = errors.New("roll expression is empty")

	// ErrInvalidExpression indicates a roll expression that cannot be parsed.
	ErrInvalidExpression = errors.New("invalid roll expression")

	// ErrLimitExceeded indicates an expression outside the supported bounds.
	ErrLimitExceeded = errors.New("roll expression exceeds limits")
)

// Term is one signed component of an expression: either Count dice with
// Sides faces, or a flat Modifier when Sides is zero.
type Term struct {
	Sign     int `json:"sign"`
	Count    int `json:"count,omitempty"`
	Sides    int `json:"sides,omitempty"`
	Modifier int `json:"modifier,omitempty"`
}

// IsDice reports whether the term rolls dice
func (t Term) IsDice() bool {
	return t.Sides > 0
}

func (t Term) body() string {
	if t.IsDice() {
		return fmt.Sprintf("%dd%d", t.Count, t.Sides)
	}
	return strconv.Itoa(t.Modifier)
}

// Expression is a parsed roll expression
type Expression struct {
	Terms []Term `json:"terms"`
}

// String renders the canonical form, e.g. "1d20 + 5" or "2d6 - 1".
func (e Expression) String() string {
	var b strings.Builder
	for i, t := range e.Terms {
		switch {
		case i == 0 && t.Sign < 0:
			b.WriteString("-")
		case i > 0 && t.Sign < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(t.body())
	}
	return b.String()
}

// Command renders the expression as a chat command
func (e Expression) Command() string {
	return CommandPrefix + " " + e.String()
}

// IsCommand reports whether a chat message is a roll command
func IsCommand(content string) bool {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, CommandPrefix) {
		return false
	}
	rest := s[len(CommandPrefix):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// ParseCommand parses "/r <expr>".
func ParseCommand(content string) (Expression, error) {
	if !IsCommand(content) {
		return Expression{}, fmt.Errorf("%w: missing %s prefix", ErrInvalidExpression, CommandPrefix)
	}
	return Parse(strings.TrimSpace(content)[len(CommandPrefix):])
}

// Parse parses an expression of dice terms (NdM, N defaults to 1) and
// integer modifiers joined by + and -. Spaces around operators are ignored;
// runs of signs combine, so "1d20 + -2" equals "1d20 - 2".
func Parse(input string) (Expression, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Expression{}, ErrEmptyExpression
	}

	var expr Expression
	pos := 0
	for pos < len(s) {
		sign := 1
		sawOp := false
		for pos < len(s) && strings.ContainsRune("+- \t", rune(s[pos])) {
			switch s[pos] {
			case '-':
				sign = -sign
				sawOp = true
			case '+':
				sawOp = true
			}
			pos++
		}
		if len(expr.Terms) > 0 && !sawOp {
			return Expression{}, fmt.Errorf("%w: expected + or - at %q", ErrInvalidExpression, s[pos:])
		}

		end := pos
		for end < len(s) && s[end] != '+' && s[end] != '-' {
			end++
		}
		tok := strings.TrimSpace(s[pos:end])
		if tok == "" {
			return Expression{}, fmt.Errorf("%w: dangling operator", ErrInvalidExpression)
		}
		if strings.ContainsAny(tok, " \t") {
			return Expression{}, fmt.Errorf("%w: missing operator in %q", ErrInvalidExpression, tok)
		}

		term, err := parseTerm(tok)
		if err != nil {
			return Expression{}, err
		}
		term.Sign = sign
		expr.Terms = append(expr.Terms, term)
		if len(expr.Terms) > MaxTerms {
			return Expression{}, fmt.Errorf("%w: more than %d terms", ErrLimitExceeded, MaxTerms)
		}
		pos = end
	}

	return expr, nil
}

func parseTerm(tok string) (Term, error) {
	idx := strings.IndexAny(tok, "dD")
	if idx < 0 {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return Term{}, fmt.Errorf("%w: %q is not a number", ErrInvalidExpression, tok)
		}
		if n > maxModifierSize {
			return Term{}, fmt.Errorf("%w: modifier %d too large", ErrLimitExceeded, n)
		}
		return Term{Modifier: n}, nil
	}

	count := 1
	if idx > 0 {
		n, err := strconv.Atoi(tok[:idx])
		if err != nil {
			return Term{}, fmt.Errorf("%w: bad dice count in %q", ErrInvalidExpression, tok)
		}
		count = n
	}
	sides, err := strconv.Atoi(tok[idx+1:])
	if err != nil {
		return Term{}, fmt.Errorf("%w: bad die size in %q", ErrInvalidExpression, tok)
	}

	switch {
	case count < 1:
		return Term{}, fmt.Errorf("%w: dice count must be positive in %q", ErrInvalidExpression, tok)
	case count > MaxDicePerTerm:
		return Term{}, fmt.Errorf("%w: at most %d dice per term", ErrLimitExceeded, MaxDicePerTerm)
	case sides < MinSides || sides > MaxSides:
		return Term{}, fmt.Errorf("%w: die sides must be between %d and %d", ErrLimitExceeded, MinSides, MaxSides)
	}
	return Term{Count: count, Sides: sides}, nil
}
