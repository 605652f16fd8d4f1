package anaphora

import "github.com/sergev/anaphora/lang"

// (anaphoric-if cond then else...)
func expandIf(x *Expander, args []lang.Value) (lang.Value, error) {
	if len(args) < 2 {
		return lang.Value{}, malformed("anaphoric-if", "(anaphoric-if cond then else...)", "got %d operands", len(args))
	}
	var alt *lang.Value
	if elses := args[2:]; len(elses) > 0 {
		seq := sequence(elses)
		alt = &seq
	}
	return bindIt(args[0], branch(symIt, args[1], alt)), nil
}

// (anaphoric-when cond body...) is (anaphoric-if cond (begin body...)).
func expandWhen(x *Expander, args []lang.Value) (lang.Value, error) {
	if len(args) < 1 {
		return lang.Value{}, malformed("anaphoric-when", "(anaphoric-when cond body...)", "missing condition")
	}
	return expandIf(x, []lang.Value{args[0], call(symBegin, args[1:]...)})
}

// (anaphoric-and c1 c2 ...) binds it to each condition for the one after it.
// A single condition is returned as is, without binding it.
func expandAnd(x *Expander, args []lang.Value) (lang.Value, error) {
	switch len(args) {
	case 0:
		return trueValue, nil
	case 1:
		return args[0], nil
	}
	return bindIt(args[0], call(symIf, symIt, operator("anaphoric-and", args[1:]), symIt)), nil
}

// (anaphoric-cond (test body...) ...). The test value is held in a hidden
// binding so it is not visible while the test itself, or a later test, runs.
func expandCond(x *Expander, args []lang.Value) (lang.Value, error) {
	if len(args) == 0 {
		return nothing, nil
	}
	clause, err := lang.ToSlice(args[0])
	if err != nil || len(clause) == 0 {
		return lang.Value{}, malformed("anaphoric-cond", "clauses of the form (test body...)", "bad clause %s", args[0])
	}
	for _, later := range args[1:] {
		if items, err := lang.ToSlice(later); err != nil || len(items) == 0 {
			return lang.Value{}, malformed("anaphoric-cond", "clauses of the form (test body...)", "bad clause %s", later)
		}
	}

	test := x.hiddenSymbol("cond")
	result := test
	if body := clause[1:]; len(body) > 0 {
		result = bindIt(test, body...)
	}
	var rest *lang.Value
	if len(args) > 1 {
		next := operator("anaphoric-cond", args[1:])
		rest = &next
	}
	return bind(test, clause[0], branch(test, result, rest)), nil
}
