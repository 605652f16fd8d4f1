// Package anaphora implements anaphoric macros: control-flow, binding and
// arithmetic operators that bind the implicit variable it (or self, for
// anaphoric-lambda) to an intermediate result. Every operator is a pure
// rewrite from a call form into the host primitives if, begin, let, let*,
// letrec, while, set!, call/cc and ordinary procedure calls.
package anaphora

import (
	"sort"

	"github.com/sergev/anaphora/lang"
)

// Rule rewrites the operands of an operator call into an equivalent form.
type Rule func(x *Expander, args []lang.Value) (lang.Value, error)

// registry maps operator names to their rules. It is filled once in init and
// only read afterwards.
var registry map[string]Rule

func init() {
	registry = map[string]Rule{
		"anaphoric-if":        expandIf,
		"anaphoric-when":      expandWhen,
		"anaphoric-and":       expandAnd,
		"anaphoric-cond":      expandCond,
		"anaphoric-prog1":     expandProg1,
		"anaphoric-prog2":     expandProg2,
		"anaphoric-while":     expandWhile,
		"anaphoric-lambda":    expandLambda,
		"anaphoric-block":     expandBlock,
		"anaphoric-let":       expandLet,
		"anaphoric-setq":      expandSetq,
		"anaphoric-case":      dispatchRule("anaphoric-case", caseTest, false),
		"anaphoric-ecase":     dispatchRule("anaphoric-ecase", caseTest, true),
		"anaphoric-typecase":  dispatchRule("anaphoric-typecase", typeTest, false),
		"anaphoric-etypecase": dispatchRule("anaphoric-etypecase", typeTest, true),
		"a+":                  expandSum,
		"a-":                  expandDifference,
		"a*":                  expandProduct,
		"a/":                  expandQuotient,
	}
}

// Lookup returns the rule registered for name.
func Lookup(name string) (Rule, bool) {
	rule, ok := registry[name]
	return rule, ok
}

// Names lists the registered operators in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsOperator reports whether form is a call to a registered operator.
func IsOperator(form lang.Value) bool {
	p := form.Pair()
	if form.Type != lang.TypePair || p == nil || p.First.Type != lang.TypeSymbol {
		return false
	}
	_, ok := registry[p.First.Sym()]
	return ok
}
