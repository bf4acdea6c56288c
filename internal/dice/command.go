package dice

import (
	"fmt"
	"strings"
)

// D20 is the die used for trait and attack checks
var D20 = Term{Sign: 1, Count: 1, Sides: 20}

// Check builds a d20 check with a flat bonus, e.g. "1d20 + 3".
func Check(bonus int) Expression {
	return Expression{Terms: []Term{D20, modifier(bonus)}}
}

// PlainCheck builds a bare "1d20" check
func PlainCheck() Expression {
	return Expression{Terms: []Term{D20}}
}

// WithBonus parses base (a weapon damage expression such as "1d8" or
// "2d4+1") and appends a flat bonus when one is given.
func WithBonus(base string, bonus *int) (Expression, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return Expression{}, fmt.Errorf("%w: no damage expression", ErrEmptyExpression)
	}
	expr, err := Parse(base)
	if err != nil {
		return Expression{}, err
	}
	if bonus != nil {
		if len(expr.Terms) >= MaxTerms {
			return Expression{}, fmt.Errorf("%w: more than %d terms", ErrLimitExceeded, MaxTerms)
		}
		expr.Terms = append(expr.Terms, modifier(*bonus))
	}
	return expr, nil
}

// modifier builds a flat term, clamped to what Parse accepts back
func modifier(v int) Term {
	v = max(-maxModifierSize, min(v, maxModifierSize))
	if v < 0 {
		return Term{Sign: -1, Modifier: -v}
	}
	return Term{Sign: 1, Modifier: v}
}
