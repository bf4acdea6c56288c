package dice

import (
	"math/rand"
	"strconv"
	"strings"
)

// TermResult captures the outcome of one term.
type TermResult struct {
	Term
	Results  []int `json:"results,omitempty"`
	Subtotal int   `json:"subtotal"` // signed contribution to the total
}

// Result captures the outcome of rolling an expression.
type Result struct {
	Expression string       `json:"expression"`
	Terms      []TermResult `json:"terms"`
	Total      int          `json:"total"`
	Seed       int64        `json:"seed"`
}

// Detail renders the individual dice, e.g. "[4, 2] + 1".
func (r Result) Detail() string {
	var b strings.Builder
	for i, t := range r.Terms {
		switch {
		case i == 0 && t.Sign < 0:
			b.WriteString("-")
		case i > 0 && t.Sign < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		if !t.IsDice() {
			b.WriteString(strconv.Itoa(t.Modifier))
			continue
		}
		b.WriteString("[")
		for j, v := range t.Results {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteString("]")
	}
	return b.String()
}

// Roll evaluates the expression. Roll is deterministic for a given seed:
// terms are processed in order and each die draws from one seeded source.
func Roll(expr Expression, seed int64) (Result, error) {
	if len(expr.Terms) == 0 {
		return Result{}, ErrEmptyExpression
	}

	rng := rand.New(rand.NewSource(seed))
	out := Result{
		Expression: expr.String(),
		Terms:      make([]TermResult, 0, len(expr.Terms)),
		Seed:       seed,
	}

	for _, term := range expr.Terms {
		sign := term.Sign
		if sign == 0 {
			sign = 1
		}
		tr := TermResult{Term: term}
		tr.Sign = sign

		if term.IsDice() {
			if term.Count < 1 || term.Count > MaxDicePerTerm || term.Sides < MinSides || term.Sides > MaxSides {
				return Result{}, ErrLimitExceeded
			}
			tr.Results = make([]int, term.Count)
			sum := 0
			for i := range tr.Results {
				v := rollDie(rng, term.Sides)
				tr.Results[i] = v
				sum += v
			}
			tr.Subtotal = sign * sum
		} else {
			tr.Subtotal = sign * term.Modifier
		}

		out.Terms = append(out.Terms, tr)
		out.Total += tr.Subtotal
	}

	return out, nil
}

// RollCommand parses and rolls a "/r" chat command
func RollCommand(content string, seed int64) (Result, error) {
	expr, err := ParseCommand(content)
	if err != nil {
		return Result{}, err
	}
	return Roll(expr, seed)
}

// rollDie rolls a die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	return rng.Intn(sides) + 1
}
