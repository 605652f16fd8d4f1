package anaphora

import "github.com/sergev/anaphora/lang"

var (
	symAdd = lang.SymbolValue("+")
	symSub = lang.SymbolValue("-")
	symMul = lang.SymbolValue("*")
	symDiv = lang.SymbolValue("/")
)

// reduce folds operands left to right, binding it to each operand before
// combining it with the reduction of the remaining ones.
func reduce(name string, op, identity lang.Value, args []lang.Value) lang.Value {
	switch len(args) {
	case 0:
		return identity
	case 1:
		return args[0]
	}
	return bindIt(args[0], call(op, symIt, operator(name, args[1:])))
}

// (a+ x...)
func expandSum(x *Expander, args []lang.Value) (lang.Value, error) {
	return reduce("a+", symAdd, lang.IntValue(0), args), nil
}

// (a* x...)
func expandProduct(x *Expander, args []lang.Value) (lang.Value, error) {
	return reduce("a*", symMul, lang.IntValue(1), args), nil
}

// (a- x y...) subtracts the anaphoric sum of the rest from x; a single
// operand is negated.
func expandDifference(x *Expander, args []lang.Value) (lang.Value, error) {
	switch len(args) {
	case 0:
		return lang.IntValue(0), nil
	case 1:
		return call(symSub, args[0]), nil
	}
	return bindIt(args[0], call(symSub, symIt, operator("a+", args[1:]))), nil
}

// (a/ x y...) divides x by the anaphoric product of the rest.
func expandQuotient(x *Expander, args []lang.Value) (lang.Value, error) {
	if len(args) < 2 {
		return lang.Value{}, malformed("a/", "(a/ dividend divisor...)", "got %d operands", len(args))
	}
	return bindIt(args[0], call(symDiv, symIt, operator("a*", args[1:]))), nil
}
