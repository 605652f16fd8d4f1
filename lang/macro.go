package lang

// ExpandOnce expands form a single step when its head names a macro visible
// in env (the global environment if env is nil). The boolean reports whether
// an expansion took place.
func (ev *Evaluator) ExpandOnce(form Value, env *Env) (Value, bool, error) {
	if env == nil {
		env = ev.Global
	}
	p := form.Pair()
	if form.Type != TypePair || p == nil || p.First.Type != TypeSymbol {
		return form, false, nil
	}
	if _, special := specialForms[p.First.Sym()]; special {
		return form, false, nil
	}
	val, ok := env.Lookup(p.First.Sym())
	if !ok || val.Type != TypeMacro {
		return form, false, nil
	}
	expanded, err := ev.expandMacro(val.Macro(), p.Rest, env)
	if err != nil {
		return Value{}, false, err
	}
	return expanded, true, nil
}

// expandMacro runs a transformer on unevaluated operands. Lisp macros run in
// a fresh scope under the environment they were defined in.
func (ev *Evaluator) expandMacro(mac *Macro, args Value, env *Env) (Value, error) {
	forms, err := ToSlice(args)
	if err != nil {
		return Value{}, err
	}
	if mac.Native() {
		return mac.Transform(forms)
	}
	scope := NewEnv(mac.Env)
	if err := bindParameters(scope, mac.Params, mac.Rest, forms); err != nil {
		return Value{}, err
	}
	return ev.EvalAll(mac.Body, scope)
}
