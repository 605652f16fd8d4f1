package runtime

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/sergev/anaphora/lang"
)

var primitives = map[string]lang.Primitive{
	"+":  primAdd,
	"-":  primSub,
	"*":  primMul,
	"/":  primDiv,
	"=":  primNumEq,
	"<":  primLess,
	"<=": primLessEq,
	">":  primGreater,
	">=": primGreaterEq,

	"not":        primNot,
	"numberp":    typePredicate("numberp", isNumber),
	"integerp":   typePredicate("integerp", isType(lang.TypeInt)),
	"realp":      typePredicate("realp", isNumber),
	"floatp":     typePredicate("floatp", isType(lang.TypeReal)),
	"booleanp":   typePredicate("booleanp", isType(lang.TypeBool)),
	"stringp":    typePredicate("stringp", isType(lang.TypeString)),
	"symbolp":    typePredicate("symbolp", isType(lang.TypeSymbol)),
	"pairp":      typePredicate("pairp", isType(lang.TypePair)),
	"nullp":      typePredicate("nullp", isType(lang.TypeEmpty)),
	"listp":      typePredicate("listp", isList),
	"procedurep": typePredicate("procedurep", isProcedure),

	"cons":     primCons,
	"first":    primFirst,
	"rest":     primRest,
	"list":     primList,
	"setFirst": primSetFirst,
	"setRest":  primSetRest,
	"append":   primAppend,
	"length":   primLength,
	"eq":       primEq,
	"equal":    primEqual,

	"display": primDisplay,
	"newline": primNewline,
	"read":    primRead,
	"exit":    primExit,
	"error":   primError,
	"apply":   primApply,
	"gensym":  primGensym,

	"stringLength":   primStringLength,
	"stringAppend":   primStringAppend,
	"stringSlice":    primStringSlice,
	"makeString":     primMakeString,
	"symbolToString": primSymbolToString,
	"stringToSymbol": primStringToSymbol,
	"numberToString": primNumberToString,
	"stringToNumber": primStringToNumber,
}

func installPrimitives(env *lang.Env) {
	for name, fn := range primitives {
		env.Define(name, lang.PrimitiveValue(fn))
	}
}

func expectArgs(name string, args []lang.Value, n int) error {
	if len(args) != n {
		plural := "s"
		if n == 1 {
			plural = ""
		}
		return fmt.Errorf("%s expects %d argument%s, got %d", name, n, plural, len(args))
	}
	return nil
}

func primNot(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("not", args, 1); err != nil {
		return lang.Value{}, err
	}
	return lang.BoolValue(!lang.IsTruthy(args[0])), nil
}

func primCons(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("cons", args, 2); err != nil {
		return lang.Value{}, err
	}
	return lang.PairValue(args[0], args[1]), nil
}

func primFirst(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("first", args, 1); err != nil {
		return lang.Value{}, err
	}
	p := args[0].Pair()
	if args[0].Type != lang.TypePair || p == nil {
		return lang.Value{}, typeError("first", "pair", args[0])
	}
	return p.First, nil
}

func primRest(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("rest", args, 1); err != nil {
		return lang.Value{}, err
	}
	p := args[0].Pair()
	if args[0].Type != lang.TypePair || p == nil {
		return lang.Value{}, typeError("rest", "pair", args[0])
	}
	return p.Rest, nil
}

// mutatePair backs setFirst and setRest, which return the modified pair.
func mutatePair(name string, args []lang.Value, set func(p *lang.Pair, v lang.Value)) (lang.Value, error) {
	if err := expectArgs(name, args, 2); err != nil {
		return lang.Value{}, err
	}
	p := args[0].Pair()
	if args[0].Type != lang.TypePair || p == nil {
		return lang.Value{}, typeError(name, "pair", args[0])
	}
	set(p, args[1])
	return args[0], nil
}

func primSetFirst(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return mutatePair("setFirst", args, func(p *lang.Pair, v lang.Value) { p.First = v })
}

func primSetRest(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return mutatePair("setRest", args, func(p *lang.Pair, v lang.Value) { p.Rest = v })
}

func primList(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return lang.List(args...), nil
}

// primAppend copies every list but the last, which becomes the shared tail.
func primAppend(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) == 0 {
		return lang.EmptyList, nil
	}
	result := args[len(args)-1]
	for i := len(args) - 2; i >= 0; i-- {
		items, err := lang.ToSlice(args[i])
		if err != nil {
			return lang.Value{}, typeError("append", "list", args[i])
		}
		for j := len(items) - 1; j >= 0; j-- {
			result = lang.PairValue(items[j], result)
		}
	}
	return result, nil
}

func primLength(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("length", args, 1); err != nil {
		return lang.Value{}, err
	}
	items, err := lang.ToSlice(args[0])
	if err != nil {
		return lang.Value{}, typeError("length", "list", args[0])
	}
	return lang.IntValue(int64(len(items))), nil
}

// primEq compares atoms by value and pairs by identity.
func primEq(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("eq", args, 2); err != nil {
		return lang.Value{}, err
	}
	a, b := args[0], args[1]
	if a.Type == lang.TypePair || b.Type == lang.TypePair {
		return lang.BoolValue(a.Type == b.Type && a.Pair() == b.Pair()), nil
	}
	return lang.BoolValue(a.Type == b.Type && lang.Equal(a, b)), nil
}

func primEqual(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("equal", args, 2); err != nil {
		return lang.Value{}, err
	}
	return lang.BoolValue(lang.Equal(args[0], args[1])), nil
}

func primExit(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	code := 0
	switch {
	case len(args) > 1:
		return lang.Value{}, fmt.Errorf("exit expects at most 1 argument")
	case len(args) == 0:
	case args[0].Type == lang.TypeInt:
		code = int(args[0].Int())
	case args[0].Type == lang.TypeBool:
		if !args[0].Bool() {
			code = 1
		}
	default:
		return lang.Value{}, typeError("exit", "integer or boolean", args[0])
	}
	log.Debugf("exit %d", code)
	os.Exit(code)
	return lang.EmptyList, nil
}

func primError(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) == 0 {
		return lang.Value{}, fmt.Errorf("error")
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = displayString(arg)
	}
	return lang.Value{}, fmt.Errorf("%s", strings.Join(parts, " "))
}

func primApply(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) < 2 {
		return lang.Value{}, fmt.Errorf("apply expects at least 2 arguments")
	}
	spread, err := lang.ToSlice(args[len(args)-1])
	if err != nil {
		return lang.Value{}, fmt.Errorf("apply expects final argument to be a list")
	}
	callArgs := append(append([]lang.Value{}, args[1:len(args)-1]...), spread...)
	return ev.Apply(args[0], callArgs)
}

var gensymCounter int64

// primGensym returns a fresh symbol the reader cannot produce.
func primGensym(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("gensym", args, 0); err != nil {
		return lang.Value{}, err
	}
	n := atomic.AddInt64(&gensymCounter, 1)
	return lang.SymbolValue(fmt.Sprintf("#:g%d", n)), nil
}

func typeError(name, expected string, got lang.Value) error {
	return fmt.Errorf("%s expects %s, got %s", name, expected, typeName(got))
}

func typeName(v lang.Value) string {
	switch v.Type {
	case lang.TypeEmpty:
		return "empty-list"
	case lang.TypeBool:
		return "boolean"
	case lang.TypeInt:
		return "integer"
	case lang.TypeReal:
		return "real"
	case lang.TypeString:
		return "string"
	case lang.TypeSymbol:
		return "symbol"
	case lang.TypePair:
		return "pair"
	case lang.TypePrimitive:
		return "primitive"
	case lang.TypeClosure:
		return "closure"
	case lang.TypeContinuation:
		return "continuation"
	case lang.TypeMacro:
		return "macro"
	case lang.TypeEOF:
		return "eof-object"
	default:
		return "unknown"
	}
}
