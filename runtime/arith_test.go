package runtime

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/sergev/anaphora/lang"
)

func ints(vals ...int64) []lang.Value {
	out := make([]lang.Value, len(vals))
	for i, v := range vals {
		out[i] = lang.IntValue(v)
	}
	return out
}

func TestArithmetic(t *testing.T) {
	ev := NewEvaluator()
	tests := []struct {
		name string
		fn   lang.Primitive
		args []lang.Value
		want lang.Value
	}{
		{"empty sum", primAdd, nil, lang.IntValue(0)},
		{"sum", primAdd, ints(1, 2, 3), lang.IntValue(6)},
		{"sum reaching max int", primAdd, ints(math.MaxInt64-1, 1), lang.IntValue(math.MaxInt64)},
		{"difference reaching min int", primSub, ints(math.MinInt64+1, 1), lang.IntValue(math.MinInt64)},
		{"wide intermediate sum", primAdd, ints(math.MaxInt64, 1, -1), lang.IntValue(math.MaxInt64)},
		{"wide intermediate product", primMul, ints(math.MaxInt64, 2, 0), lang.IntValue(0)},
		{"mixed sum", primAdd, []lang.Value{lang.IntValue(1), lang.RealValue(0.5)}, lang.RealValue(1.5)},
		{"empty product", primMul, nil, lang.IntValue(1)},
		{"product", primMul, ints(2, 3, 4), lang.IntValue(24)},
		{"negation", primSub, ints(5), lang.IntValue(-5)},
		{"difference", primSub, ints(10, 1, 2), lang.IntValue(7)},
		{"real difference", primSub, []lang.Value{lang.RealValue(10), lang.IntValue(2)}, lang.RealValue(8)},
		{"exact quotient", primDiv, ints(10, 2), lang.IntValue(5)},
		{"chained quotient", primDiv, ints(100, 5, 2), lang.IntValue(10)},
		{"inexact quotient", primDiv, ints(7, 2), lang.RealValue(3.5)},
		{"reciprocal", primDiv, ints(4), lang.RealValue(0.25)},
		{"min int over minus one", primDiv, ints(math.MinInt64, -1), lang.RealValue(-float64(math.MinInt64))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(ev, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Type != tt.want.Type || !lang.Equal(got, tt.want) {
				t.Fatalf("expected %v (%s), got %v (%s)", tt.want, typeName(tt.want), got, typeName(got))
			}
		})
	}
}

func TestArithmeticErrors(t *testing.T) {
	ev := NewEvaluator()

	if _, err := primDiv(ev, ints(10, 0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if _, err := primDiv(ev, []lang.Value{lang.RealValue(1), lang.RealValue(0)}); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero for reals, got %v", err)
	}
	if _, err := primAdd(ev, ints(math.MaxInt64, 1)); !errors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("expected overflow from +, got %v", err)
	}
	if _, err := primMul(ev, ints(math.MaxInt64, 2)); !errors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("expected overflow from *, got %v", err)
	}
	if _, err := primSub(ev, ints(math.MinInt64, 1)); !errors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("expected overflow from -, got %v", err)
	}
	if _, err := primSub(ev, nil); err == nil {
		t.Fatalf("expected arity error from -")
	}
	if _, err := primAdd(ev, []lang.Value{lang.StringValue("1")}); err == nil || !strings.Contains(err.Error(), "+ expects number, got string") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestComparisons(t *testing.T) {
	ev := NewEvaluator()
	tests := []struct {
		name string
		fn   lang.Primitive
		args []lang.Value
		want bool
	}{
		{"equal ints", primNumEq, ints(2, 2, 2), true},
		{"int equals real", primNumEq, []lang.Value{lang.IntValue(2), lang.RealValue(2)}, true},
		{"unequal", primNumEq, ints(2, 3), false},
		{"ascending", primLess, ints(1, 2, 3), true},
		{"not ascending", primLess, ints(1, 3, 2), false},
		{"non-decreasing", primLessEq, ints(1, 1, 2), true},
		{"descending", primGreater, ints(3, 2, 1), true},
		{"non-increasing", primGreaterEq, ints(3, 3, 4), false},
		{"single operand", primLess, ints(1), true},
	}
	for _, tt := range tests {
		got, err := tt.fn(ev, tt.args)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got.Bool() != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
	if _, err := primLess(ev, []lang.Value{lang.IntValue(1), lang.SymbolValue("x")}); err == nil {
		t.Fatalf("expected type error comparing a symbol")
	}
}
