package anaphora

import (
	"fmt"

	"github.com/sergev/anaphora/lang"
)

// Install defines every registered operator in env as a native macro, along
// with the support procedures expansions and programs rely on:
//
//	(no-matching-clause 'op value)  fails with a *NoMatchingClauseError
//	(macroexpand-1 form)            expands form one step
//	(macroexpand form)              expands form until its head is no macro
func Install(env *lang.Env) {
	for _, name := range Names() {
		rule := registry[name]
		name := name
		env.Define(name, lang.NativeMacroValue(name, func(args []lang.Value) (lang.Value, error) {
			return NewExpander().apply(name, rule, args)
		}))
	}
	env.Define("no-matching-clause", lang.PrimitiveValue(noMatchingClause))
	env.Define("macroexpand-1", lang.PrimitiveValue(func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if len(args) != 1 {
			return lang.Value{}, fmt.Errorf("macroexpand-1 expects 1 argument, got %d", len(args))
		}
		form, _, err := ev.ExpandOnce(args[0], env)
		return form, err
	}))
	env.Define("macroexpand", lang.PrimitiveValue(func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if len(args) != 1 {
			return lang.Value{}, fmt.Errorf("macroexpand expects 1 argument, got %d", len(args))
		}
		form := args[0]
		for {
			out, expanded, err := ev.ExpandOnce(form, env)
			if err != nil {
				return lang.Value{}, err
			}
			if !expanded {
				return form, nil
			}
			form = out
		}
	}))
}

func noMatchingClause(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if len(args) != 2 {
		return lang.Value{}, fmt.Errorf("no-matching-clause expects 2 arguments, got %d", len(args))
	}
	op := args[0].String()
	if args[0].Type == lang.TypeSymbol {
		op = args[0].Sym()
	}
	return lang.Value{}, &NoMatchingClauseError{Operator: op, Value: args[1]}
}
