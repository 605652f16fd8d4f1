package anaphora

import (
	"fmt"

	"github.com/sergev/anaphora/lang"
)

// clauseTest turns the key part of a dispatch clause into a test on it.
type clauseTest func(op string, keys lang.Value) (lang.Value, error)

// typePredicates maps type names accepted by the typecase operators to the
// host predicate that recognizes them.
var typePredicates = map[string]string{
	"number":    "numberp",
	"integer":   "integerp",
	"real":      "realp",
	"float":     "floatp",
	"string":    "stringp",
	"symbol":    "symbolp",
	"boolean":   "booleanp",
	"pair":      "pairp",
	"cons":      "pairp",
	"null":      "nullp",
	"list":      "listp",
	"procedure": "procedurep",
	"function":  "procedurep",
}

func isDefaultKey(keys lang.Value) bool {
	return keys.IsSymbol("t") || keys.IsSymbol("otherwise") || keys.IsSymbol("else")
}

// dispatchRule builds the rule for one of the case operators. Every clause is
// (keys body...). An exhaustive operator has no default clause and reports a
// value that matches nothing through no-matching-clause.
func dispatchRule(op string, test clauseTest, exhaustive bool) Rule {
	shape := fmt.Sprintf("(%s expr (keys body...)...)", op)
	return func(x *Expander, args []lang.Value) (lang.Value, error) {
		if len(args) < 1 {
			return lang.Value{}, malformed(op, shape, "missing dispatch expression")
		}
		clauses := args[1:]
		tests := make([]lang.Value, len(clauses))
		bodies := make([][]lang.Value, len(clauses))
		hasDefault := false
		for i, clause := range clauses {
			items, err := lang.ToSlice(clause)
			if err != nil || len(items) == 0 {
				return lang.Value{}, malformed(op, shape, "bad clause %s", clause)
			}
			bodies[i] = items[1:]
			if isDefaultKey(items[0]) {
				if exhaustive {
					return lang.Value{}, malformed(op, shape, "default clause %s not allowed", clause)
				}
				if i != len(clauses)-1 {
					return lang.Value{}, malformed(op, shape, "default clause %s must be last", clause)
				}
				hasDefault = true
				continue
			}
			if tests[i], err = test(op, items[0]); err != nil {
				return lang.Value{}, err
			}
		}

		var result lang.Value
		switch {
		case hasDefault:
			result = clauseBody(bodies[len(clauses)-1])
			clauses = clauses[:len(clauses)-1]
		case exhaustive:
			result = call(lang.SymbolValue("no-matching-clause"), quoted(lang.SymbolValue(op)), symIt)
		default:
			result = nothing
		}
		for i := len(clauses) - 1; i >= 0; i-- {
			result = call(symIf, tests[i], clauseBody(bodies[i]), result)
		}
		return bindIt(args[0], result), nil
	}
}

func clauseBody(forms []lang.Value) lang.Value {
	if len(forms) == 0 {
		return nothing
	}
	return sequence(forms)
}

// caseTest compares it with eq against a single key or a list of keys.
func caseTest(op string, keys lang.Value) (lang.Value, error) {
	if keys.Type != lang.TypePair && keys.Type != lang.TypeEmpty {
		return call(lang.SymbolValue("eq"), symIt, quoted(keys)), nil
	}
	list, err := lang.ToSlice(keys)
	if err != nil {
		return lang.Value{}, malformed(op, "a key or a list of keys", "bad key list %s", keys)
	}
	if len(list) == 0 {
		return lang.BoolValue(false), nil
	}
	tests := make([]lang.Value, len(list))
	for i, key := range list {
		tests[i] = call(lang.SymbolValue("eq"), symIt, quoted(key))
	}
	return anyOf(tests), nil
}

// typeTest checks the type of it against a type name or a list of them.
func typeTest(op string, names lang.Value) (lang.Value, error) {
	if names.Type == lang.TypeSymbol {
		return typeCheck(op, names)
	}
	list, err := lang.ToSlice(names)
	if err != nil || len(list) == 0 {
		return lang.Value{}, malformed(op, "a type name or a list of type names", "bad type %s", names)
	}
	tests := make([]lang.Value, len(list))
	for i, name := range list {
		if tests[i], err = typeCheck(op, name); err != nil {
			return lang.Value{}, err
		}
	}
	return anyOf(tests), nil
}

func typeCheck(op string, name lang.Value) (lang.Value, error) {
	if name.Type == lang.TypeSymbol {
		if pred, ok := typePredicates[name.Sym()]; ok {
			return call(lang.SymbolValue(pred), symIt), nil
		}
	}
	return lang.Value{}, malformed(op, "a known type name", "unknown type %s", name)
}
