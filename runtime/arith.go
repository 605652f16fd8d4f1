package runtime

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/nukata/goarith"

	"github.com/sergev/anaphora/lang"
)

var (
	// ErrDivisionByZero is returned by / when a divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrIntegerOverflow is returned when an integer result does not fit in 64 bits.
	ErrIntegerOverflow = errors.New("integer overflow")
)

// accumulator folds numbers, staying exact while every operand is an
// integer and switching to floating point at the first real.
type accumulator struct {
	name    string
	integer goarith.Number
	real    float64
	isReal  bool
}

func newAccumulator(name string, start lang.Value) (*accumulator, error) {
	acc := &accumulator{name: name}
	switch start.Type {
	case lang.TypeInt:
		acc.integer = goarith.AsNumber(start.Int())
	case lang.TypeReal:
		acc.isReal = true
		acc.real = start.Real()
	default:
		return nil, typeError(name, "number", start)
	}
	return acc, nil
}

func (acc *accumulator) combine(arg lang.Value, exact func(a, b goarith.Number) goarith.Number, inexact func(a, b float64) float64) error {
	switch arg.Type {
	case lang.TypeInt:
		if !acc.isReal {
			acc.integer = exact(acc.integer, goarith.AsNumber(arg.Int()))
			return nil
		}
		acc.real = inexact(acc.real, float64(arg.Int()))
	case lang.TypeReal:
		if !acc.isReal {
			i, err := acc.int64()
			if err != nil {
				return err
			}
			acc.isReal = true
			acc.real = float64(i)
		}
		acc.real = inexact(acc.real, arg.Real())
	default:
		return typeError(acc.name, "number", arg)
	}
	return nil
}

// int64 narrows the exact result. goarith keeps results that fit in Int32
// or Int64 and only leaves a *BigInt behind on overflow.
func (acc *accumulator) int64() (int64, error) {
	switch n := acc.integer.(type) {
	case goarith.Int32:
		return int64(n), nil
	case goarith.Int64:
		return int64(n), nil
	case *goarith.BigInt:
		if b := (*big.Int)(n); b.IsInt64() {
			return b.Int64(), nil
		}
	}
	return 0, fmt.Errorf("%s: %w", acc.name, ErrIntegerOverflow)
}

func (acc *accumulator) value() (lang.Value, error) {
	if acc.isReal {
		return lang.RealValue(acc.real), nil
	}
	i, err := acc.int64()
	if err != nil {
		return lang.Value{}, err
	}
	return lang.IntValue(i), nil
}

func fold(name string, identity int64, args []lang.Value, exact func(a, b goarith.Number) goarith.Number, inexact func(a, b float64) float64) (lang.Value, error) {
	acc, err := newAccumulator(name, lang.IntValue(identity))
	if err != nil {
		return lang.Value{}, err
	}
	for _, arg := range args {
		if err := acc.combine(arg, exact, inexact); err != nil {
			return lang.Value{}, err
		}
	}
	return acc.value()
}

func primAdd(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return fold("+", 0, args,
		func(a, b goarith.Number) goarith.Number { return a.Add(b) },
		func(a, b float64) float64 { return a + b })
}

func primMul(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return fold("*", 1, args,
		func(a, b goarith.Number) goarith.Number { return a.Mul(b) },
		func(a, b float64) float64 { return a * b })
}

func primSub(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) == 0 {
		return lang.Value{}, errors.New("- expects at least one argument")
	}
	if len(args) == 1 {
		args = []lang.Value{lang.IntValue(0), args[0]}
	}
	acc, err := newAccumulator("-", args[0])
	if err != nil {
		return lang.Value{}, err
	}
	for _, arg := range args[1:] {
		err := acc.combine(arg,
			func(a, b goarith.Number) goarith.Number { return a.Sub(b) },
			func(a, b float64) float64 { return a - b })
		if err != nil {
			return lang.Value{}, err
		}
	}
	return acc.value()
}

// primDiv divides left to right. Integer operands give an integer while
// every step divides exactly.
func primDiv(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) == 0 {
		return lang.Value{}, errors.New("/ expects at least one argument")
	}
	if len(args) == 1 {
		args = []lang.Value{lang.IntValue(1), args[0]}
	}
	if _, err := toFloat(args[0]); err != nil {
		return lang.Value{}, typeError("/", "number", args[0])
	}
	result := args[0]
	for _, arg := range args[1:] {
		d, err := toFloat(arg)
		if err != nil {
			return lang.Value{}, typeError("/", "number", arg)
		}
		if d == 0 {
			return lang.Value{}, ErrDivisionByZero
		}
		if result.Type == lang.TypeInt && arg.Type == lang.TypeInt {
			n, m := result.Int(), arg.Int()
			if n%m == 0 && !(m == -1 && n == math.MinInt64) {
				result = lang.IntValue(n / m)
				continue
			}
		}
		n, _ := toFloat(result)
		result = lang.RealValue(n / d)
	}
	return result, nil
}

func primNumEq(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain("=", func(a, b float64) bool { return a == b }, args)
}

func primLess(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain("<", func(a, b float64) bool { return a < b }, args)
}

func primLessEq(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain("<=", func(a, b float64) bool { return a <= b }, args)
}

func primGreater(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain(">", func(a, b float64) bool { return a > b }, args)
}

func primGreaterEq(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain(">=", func(a, b float64) bool { return a >= b }, args)
}

func compareChain(name string, cmp func(float64, float64) bool, args []lang.Value) (lang.Value, error) {
	result := true
	for i, arg := range args {
		cur, err := toFloat(arg)
		if err != nil {
			return lang.Value{}, typeError(name, "number", arg)
		}
		if i > 0 {
			prev, _ := toFloat(args[i-1])
			result = result && cmp(prev, cur)
		}
	}
	return lang.BoolValue(result), nil
}

func toFloat(v lang.Value) (float64, error) {
	switch v.Type {
	case lang.TypeInt:
		return float64(v.Int()), nil
	case lang.TypeReal:
		return v.Real(), nil
	default:
		return 0, fmt.Errorf("expected number")
	}
}
