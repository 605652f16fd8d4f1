package lang

import "fmt"

var (
	symCons   = SymbolValue("cons")
	symAppend = SymbolValue("append")
	symQuote  = SymbolValue("quote")
)

// quasi rewrites a quasiquoted template into cons/append calls. depth counts
// the enclosing quasiquotes; only unquotes at depth 1 are evaluated.
func quasi(tmpl Value, depth int) (Value, error) {
	switch tmpl.Type {
	case TypeSymbol, TypeEmpty:
		return List(symQuote, tmpl), nil
	case TypePair:
	default:
		return tmpl, nil
	}

	if inner, ok, err := unwrap(tmpl, "unquote"); err != nil || ok {
		if err != nil || depth == 1 {
			return inner, err
		}
		return requote("unquote", inner, depth-1)
	}
	if inner, ok, err := unwrap(tmpl, "quasiquote"); err != nil || ok {
		if err != nil {
			return Value{}, err
		}
		return requote("quasiquote", inner, depth+1)
	}

	p := tmpl.Pair()
	tail, err := quasi(p.Rest, depth)
	if err != nil {
		return Value{}, err
	}
	if depth == 1 {
		spliced, ok, err := unwrap(p.First, "unquote-splicing")
		if err != nil {
			return Value{}, err
		}
		if ok {
			return List(symAppend, spliced, tail), nil
		}
	}
	head, err := quasi(p.First, depth)
	if err != nil {
		return Value{}, err
	}
	return List(symCons, head, tail), nil
}

// requote rebuilds (tag inner) with inner processed at the given depth.
func requote(tag string, inner Value, depth int) (Value, error) {
	sub, err := quasi(inner, depth)
	if err != nil {
		return Value{}, err
	}
	return List(symCons, List(symQuote, SymbolValue(tag)), List(symCons, sub, List(symQuote, EmptyList))), nil
}

// unwrap recognizes the form (tag x) and returns x.
func unwrap(v Value, tag string) (Value, bool, error) {
	p := v.Pair()
	if v.Type != TypePair || p == nil || !p.First.IsSymbol(tag) {
		return Value{}, false, nil
	}
	args, err := ToSlice(p.Rest)
	if err != nil {
		return Value{}, false, err
	}
	if len(args) != 1 {
		return Value{}, false, fmt.Errorf("%s expects 1 argument", tag)
	}
	return args[0], true, nil
}
