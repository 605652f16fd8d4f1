package anaphora

import "github.com/sergev/anaphora/lang"

// (anaphoric-prog1 first body...) yields first after running body with it
// bound to it.
func expandProg1(x *Expander, args []lang.Value) (lang.Value, error) {
	if len(args) < 1 {
		return lang.Value{}, malformed("anaphoric-prog1", "(anaphoric-prog1 first body...)", "missing first form")
	}
	body := append(append([]lang.Value{}, args[1:]...), symIt)
	return bindIt(args[0], body...), nil
}

// (anaphoric-prog2 first second body...)
func expandProg2(x *Expander, args []lang.Value) (lang.Value, error) {
	if len(args) < 2 {
		return lang.Value{}, malformed("anaphoric-prog2", "(anaphoric-prog2 first second body...)", "got %d operands", len(args))
	}
	rest, err := expandProg1(x, args[1:])
	if err != nil {
		return lang.Value{}, err
	}
	return call(symBegin, args[0], rest), nil
}

// (anaphoric-while test body...). The test result is stored into it before
// every iteration, so the body sees the value of the test that admitted it.
func expandWhile(x *Expander, args []lang.Value) (lang.Value, error) {
	if len(args) < 1 {
		return lang.Value{}, malformed("anaphoric-while", "(anaphoric-while test body...)", "missing test")
	}
	test := call(symBegin, call(symSet, symIt, args[0]), symIt)
	return bindIt(nothing, call(symWhile, append([]lang.Value{test}, args[1:]...)...)), nil
}

// (anaphoric-lambda params body...) is a lambda that can call itself as self.
func expandLambda(x *Expander, args []lang.Value) (lang.Value, error) {
	const shape = "(anaphoric-lambda params body...)"
	if len(args) < 2 {
		return lang.Value{}, malformed("anaphoric-lambda", shape, "got %d operands", len(args))
	}
	if !validParams(args[0]) {
		return lang.Value{}, malformed("anaphoric-lambda", shape, "bad parameter list %s", args[0])
	}
	fn := call(symLambda, args...)
	return call(symLetrec, lang.List(lang.List(symSelf, fn)), symSelf), nil
}

// (anaphoric-block name body...) threads each form's value into the next as
// it. A symbol name is bound to an escape procedure for the block; () means
// the block has no escape.
func expandBlock(x *Expander, args []lang.Value) (lang.Value, error) {
	const shape = "(anaphoric-block name body...)"
	if len(args) < 1 {
		return lang.Value{}, malformed("anaphoric-block", shape, "missing block name")
	}
	name := args[0]
	if name.Type != lang.TypeSymbol && name.Type != lang.TypeEmpty {
		return lang.Value{}, malformed("anaphoric-block", shape, "block name %s is not a symbol", name)
	}
	body := thread(args[1:])
	if name.Type == lang.TypeEmpty {
		return body, nil
	}
	return call(symCallCC, call(symLambda, lang.List(name), body)), nil
}

func thread(forms []lang.Value) lang.Value {
	switch len(forms) {
	case 0:
		return nothing
	case 1:
		return forms[0]
	}
	return bindIt(forms[0], thread(forms[1:]))
}

// (anaphoric-let bindings body...) establishes the bindings sequentially and
// binds it to the quoted binding list around the body only, so init forms
// see the enclosing it.
func expandLet(x *Expander, args []lang.Value) (lang.Value, error) {
	const shape = "(anaphoric-let ((name init)...) body...)"
	if len(args) < 1 {
		return lang.Value{}, malformed("anaphoric-let", shape, "missing binding list")
	}
	bindings, err := lang.ToSlice(args[0])
	if err != nil {
		return lang.Value{}, malformed("anaphoric-let", shape, "binding list %s is not a list", args[0])
	}
	for _, b := range bindings {
		if !validBinding(b) {
			return lang.Value{}, malformed("anaphoric-let", shape, "bad binding %s", b)
		}
	}
	body := args[1:]
	if len(body) == 0 {
		body = []lang.Value{nothing}
	}
	return call(symLetStar, args[0], bindIt(quoted(args[0]), body...)), nil
}

func validBinding(b lang.Value) bool {
	if b.Type == lang.TypeSymbol {
		return true
	}
	items, err := lang.ToSlice(b)
	if err != nil || len(items) == 0 || len(items) > 2 {
		return false
	}
	return items[0].Type == lang.TypeSymbol
}

// (anaphoric-setq var expr ...) assigns each expr to its var with it bound
// to the var's old value. The result is the last value assigned.
func expandSetq(x *Expander, args []lang.Value) (lang.Value, error) {
	const shape = "(anaphoric-setq var expr ...)"
	if len(args)%2 != 0 {
		return lang.Value{}, malformed("anaphoric-setq", shape, "odd number of operands")
	}
	if len(args) == 0 {
		return nothing, nil
	}
	assignments := make([]lang.Value, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		name := args[i]
		if name.Type != lang.TypeSymbol {
			return lang.Value{}, malformed("anaphoric-setq", shape, "%s is not a variable", name)
		}
		assignments = append(assignments, bindIt(name, call(symSet, name, args[i+1])))
	}
	return sequence(assignments), nil
}
