package anaphora

import "github.com/sergev/anaphora/lang"

var (
	symIt      = lang.SymbolValue("it")
	symSelf    = lang.SymbolValue("self")
	symIf      = lang.SymbolValue("if")
	symBegin   = lang.SymbolValue("begin")
	symLet     = lang.SymbolValue("let")
	symLetStar = lang.SymbolValue("let*")
	symLetrec  = lang.SymbolValue("letrec")
	symLambda  = lang.SymbolValue("lambda")
	symWhile   = lang.SymbolValue("while")
	symSet     = lang.SymbolValue("set!")
	symQuote   = lang.SymbolValue("quote")
	symCallCC  = lang.SymbolValue("call/cc")
)

var (
	trueValue = lang.BoolValue(true)
	nothing   = quoted(lang.EmptyList)
)

func call(head lang.Value, args ...lang.Value) lang.Value {
	return lang.List(append([]lang.Value{head}, args...)...)
}

func quoted(v lang.Value) lang.Value {
	return lang.List(symQuote, v)
}

// sequence wraps forms in begin, leaving a single form alone.
func sequence(forms []lang.Value) lang.Value {
	if len(forms) == 1 {
		return forms[0]
	}
	return call(symBegin, forms...)
}

// bind produces (let ((name value)) body...).
func bind(name, value lang.Value, body ...lang.Value) lang.Value {
	return call(symLet, append([]lang.Value{lang.List(lang.List(name, value))}, body...)...)
}

// bindIt produces (let ((it value)) body...).
func bindIt(value lang.Value, body ...lang.Value) lang.Value {
	return bind(symIt, value, body...)
}

// branch produces (if test then) or (if test then else).
func branch(test, then lang.Value, alt *lang.Value) lang.Value {
	if alt == nil {
		return call(symIf, test, then)
	}
	return call(symIf, test, then, *alt)
}

// anyOf folds tests into nested ifs that yield #t on the first truthy test.
func anyOf(tests []lang.Value) lang.Value {
	result := tests[len(tests)-1]
	for i := len(tests) - 2; i >= 0; i-- {
		result = call(symIf, tests[i], trueValue, result)
	}
	return result
}

func operator(name string, args []lang.Value) lang.Value {
	return call(lang.SymbolValue(name), args...)
}

// validParams accepts the parameter shapes lambda accepts: (), a rest
// symbol, or a possibly dotted list of symbols.
func validParams(params lang.Value) bool {
	cur := params
	for cur.Type == lang.TypePair {
		p := cur.Pair()
		if p.First.Type != lang.TypeSymbol {
			return false
		}
		cur = p.Rest
	}
	return cur.Type == lang.TypeEmpty || cur.Type == lang.TypeSymbol
}
