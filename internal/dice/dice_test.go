package dice

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Term
	}{
		{
			name:  "die plus modifier",
			input: "1d20 + 5",
			want:  []Term{{Sign: 1, Count: 1, Sides: 20}, {Sign: 1, Modifier: 5}},
		},
		{
			name:  "implicit count",
			input: "d6",
			want:  []Term{{Sign: 1, Count: 1, Sides: 6}},
		},
		{
			name:  "several dice and a negative modifier",
			input: "2d6+1D4-1",
			want: []Term{
				{Sign: 1, Count: 2, Sides: 6},
				{Sign: 1, Count: 1, Sides: 4},
				{Sign: -1, Modifier: 1},
			},
		},
		{
			name:  "plus minus folds into minus",
			input: "1d20 + -2",
			want:  []Term{{Sign: 1, Count: 1, Sides: 20}, {Sign: -1, Modifier: 2}},
		},
		{
			name:  "leading sign",
			input: "-3 + 1d8",
			want:  []Term{{Sign: -1, Modifier: 3}, {Sign: 1, Count: 1, Sides: 8}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got.Terms, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got.Terms, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{"", ErrEmptyExpression},
		{"   ", ErrEmptyExpression},
		{"1d20 +", ErrInvalidExpression},
		{"abc", ErrInvalidExpression},
		{"1d", ErrInvalidExpression},
		{"0d6", ErrInvalidExpression},
		{"1d20 5", ErrInvalidExpression},
		{"101d6", ErrLimitExceeded},
		{"1d1", ErrLimitExceeded},
		{"1d1001", ErrLimitExceeded},
		{"1+1+1+1+1+1+1+1+1+1+1+1+1+1+1+1+1+1+1+1+1", ErrLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestExpressionString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1d20+5", "1d20 + 5"},
		{"1d20 + -2", "1d20 - 2"},
		{"d8", "1d8"},
		{"-1 + 2d4", "-1 + 2d4"},
	}
	for _, tt := range tests {
		expr, err := Parse(tt.input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.input, err)
		}
		if got := expr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"/r 1d20", true},
		{"  /r 1d20 + 3", true},
		{"/r", true},
		{"/roll 1d20", false},
		{"hello", false},
		{"r 1d20", false},
	}
	for _, tt := range tests {
		if got := IsCommand(tt.content); got != tt.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestRollDeterministic(t *testing.T) {
	expr, err := Parse("3d6 + 2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	first, err := Roll(expr, 42)
	if err != nil {
		t.Fatalf("Roll() error = %v", err)
	}
	second, err := Roll(expr, 42)
	if err != nil {
		t.Fatalf("Roll() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Roll() with same seed differs: %+v vs %+v", first, second)
	}

	if len(first.Terms) != 2 || len(first.Terms[0].Results) != 3 {
		t.Fatalf("unexpected term layout: %+v", first.Terms)
	}
	sum := 0
	for _, v := range first.Terms[0].Results {
		if v < 1 || v > 6 {
			t.Errorf("die value %d out of range", v)
		}
		sum += v
	}
	if first.Total != sum+2 {
		t.Errorf("Total = %d, want %d", first.Total, sum+2)
	}
	if first.Expression != "3d6 + 2" {
		t.Errorf("Expression = %q, want %q", first.Expression, "3d6 + 2")
	}
	if first.Seed != 42 {
		t.Errorf("Seed = %d, want 42", first.Seed)
	}
}

func TestRollNegativeTerms(t *testing.T) {
	result, err := RollCommand("/r 1d4 - 10", 7)
	if err != nil {
		t.Fatalf("RollCommand() error = %v", err)
	}
	die := result.Terms[0].Results[0]
	if result.Total != die-10 {
		t.Errorf("Total = %d, want %d", result.Total, die-10)
	}
	if result.Terms[1].Subtotal != -10 {
		t.Errorf("modifier Subtotal = %d, want -10", result.Terms[1].Subtotal)
	}
}

func TestRollEmpty(t *testing.T) {
	if _, err := Roll(Expression{}, 1); !errors.Is(err, ErrEmptyExpression) {
		t.Errorf("Roll(empty) error = %v, want ErrEmptyExpression", err)
	}
}

func TestCheckAndWithBonus(t *testing.T) {
	if got := Check(3).Command(); got != "/r 1d20 + 3" {
		t.Errorf("Check(3) = %q", got)
	}
	if got := Check(-2).Command(); got != "/r 1d20 - 2" {
		t.Errorf("Check(-2) = %q", got)
	}
	if got := PlainCheck().Command(); got != "/r 1d20" {
		t.Errorf("PlainCheck() = %q", got)
	}
	for _, bonus := range []int{5_000_000, -5_000_000} {
		expr := Check(bonus)
		if _, err := Parse(expr.String()); err != nil {
			t.Errorf("Parse(Check(%d)) error = %v", bonus, err)
		}
	}

	bonus := 4
	expr, err := WithBonus("1d8", &bonus)
	if err != nil {
		t.Fatalf("WithBonus() error = %v", err)
	}
	if got := expr.Command(); got != "/r 1d8 + 4" {
		t.Errorf("WithBonus(1d8, 4) = %q", got)
	}

	expr, err = WithBonus("2d4+1", nil)
	if err != nil {
		t.Fatalf("WithBonus() error = %v", err)
	}
	if got := expr.String(); got != "2d4 + 1" {
		t.Errorf("WithBonus(2d4+1, nil) = %q", got)
	}

	if _, err := WithBonus("  ", nil); !errors.Is(err, ErrEmptyExpression) {
		t.Errorf("WithBonus(empty) error = %v, want ErrEmptyExpression", err)
	}
}

func TestResultDetail(t *testing.T) {
	r := Result{Terms: []TermResult{
		{Term: Term{Sign: 1, Count: 2, Sides: 6}, Results: []int{4, 2}, Subtotal: 6},
		{Term: Term{Sign: -1, Modifier: 1}, Subtotal: -1},
	}}
	if got := r.Detail(); got != "[4, 2] - 1" {
		t.Errorf("Detail() = %q, want %q", got, "[4, 2] - 1")
	}
}
