package lang

import "fmt"

var unset = List(SymbolValue("quote"), EmptyList)

// splitBinding accepts (name init), (name) and a bare name. A missing init
// is '().
func splitBinding(form string, b Value) (Value, Value, error) {
	if b.Type == TypeSymbol {
		return b, unset, nil
	}
	items, err := ToSlice(b)
	if err != nil || len(items) == 0 || len(items) > 2 {
		return Value{}, Value{}, fmt.Errorf("%s binding must be (name value)", form)
	}
	if items[0].Type != TypeSymbol {
		return Value{}, Value{}, fmt.Errorf("%s binding name must be a symbol", form)
	}
	if len(items) == 1 {
		return items[0], unset, nil
	}
	return items[0], items[1], nil
}

// bindingList splits a binding list into names and init forms.
func bindingList(form string, list Value) ([]Value, []Value, error) {
	bindings, err := ToSlice(list)
	if err != nil {
		return nil, nil, fmt.Errorf("%s bindings must be a list: %w", form, err)
	}
	names := make([]Value, len(bindings))
	inits := make([]Value, len(bindings))
	for i, b := range bindings {
		if names[i], inits[i], err = splitBinding(form, b); err != nil {
			return nil, nil, err
		}
	}
	return names, inits, nil
}

// evalLet turns (let ((n v) ...) body...) into a call of a closure over the
// current scope. The named form (let loop (...) body...) also binds loop to
// that closure, visible to the body only.
func (ev *Evaluator) evalLet(args Value, m *machine) error {
	items, err := operands("let", args, 2, -1)
	if err != nil {
		return err
	}
	var loop string
	if items[0].Type == TypeSymbol {
		if len(items) < 3 {
			return fmt.Errorf("named let expects bindings and body")
		}
		loop, items = items[0].Sym(), items[1:]
	}
	names, inits, err := bindingList("let", items[0])
	if err != nil {
		return err
	}
	params := make([]string, len(names))
	for i, n := range names {
		params[i] = n.Sym()
	}
	scope := m.env
	if loop != "" {
		scope = NewEnv(m.env)
	}
	proc := ClosureValue(params, "", items[1:], scope)
	if loop != "" {
		scope.Define(loop, proc)
	}
	m.eval(PairValue(proc, List(inits...)), nil)
	return nil
}

// evalLetStar rewrites (let* (b1 b2 ...) body...) into nested lets so every
// init form sees the bindings established before it.
func (ev *Evaluator) evalLetStar(args Value, m *machine) error {
	items, err := operands("let*", args, 2, -1)
	if err != nil {
		return err
	}
	names, inits, err := bindingList("let*", items[0])
	if err != nil {
		return err
	}
	expr := List(append([]Value{SymbolValue("let"), EmptyList}, items[1:]...)...)
	for i := len(names) - 1; i >= 0; i-- {
		expr = List(SymbolValue("let"), List(List(names[i], inits[i])), expr)
	}
	m.eval(expr, nil)
	return nil
}

// evalLetrec binds every name to () first, then assigns the init forms in
// order inside the new scope, so the inits may refer to each other.
func (ev *Evaluator) evalLetrec(args Value, m *machine) error {
	items, err := operands("letrec", args, 2, -1)
	if err != nil {
		return err
	}
	names, inits, err := bindingList("letrec", items[0])
	if err != nil {
		return err
	}
	scope := NewEnv(m.env)
	body := make([]Value, 0, len(names)+len(items)-1)
	for i, name := range names {
		scope.Define(name.Sym(), EmptyList)
		body = append(body, List(SymbolValue("set!"), name, inits[i]))
	}
	m.body(append(body, items[1:]...), scope)
	return nil
}

func (ev *Evaluator) evalWhile(args Value, m *machine) error {
	items, err := operands("while", args, 1, -1)
	if err != nil {
		return err
	}
	m.push(&whileFrame{test: items[0], body: items[1:], env: m.env})
	m.eval(items[0], nil)
	return nil
}

// whileFrame receives either the value of the test (inBody false) or the
// value of the last body form (inBody true). The loop yields ().
type whileFrame struct {
	test   Value
	body   []Value
	env    *Env
	inBody bool
}

func (f *whileFrame) resume(ev *Evaluator, val Value, m *machine) error {
	if !f.inBody && !IsTruthy(val) {
		m.yield(EmptyList)
		return nil
	}
	next := &whileFrame{test: f.test, body: f.body, env: f.env}
	if f.inBody || len(f.body) == 0 {
		m.push(next)
		m.eval(f.test, f.env)
		return nil
	}
	next.inBody = true
	m.push(next)
	m.body(f.body, f.env)
	return nil
}

func (f *whileFrame) clone() frame {
	cp := *f
	return &cp
}

// parseParams reads a lambda list: (a b), (a b . rest) or a bare rest symbol.
func parseParams(list Value) ([]string, string, error) {
	var params []string
	for cur := list; ; {
		switch cur.Type {
		case TypeEmpty:
			return params, "", nil
		case TypeSymbol:
			return params, cur.Sym(), nil
		case TypePair:
			p := cur.Pair()
			if p.First.Type != TypeSymbol {
				return nil, "", fmt.Errorf("parameter must be a symbol")
			}
			params = append(params, p.First.Sym())
			cur = p.Rest
		default:
			return nil, "", fmt.Errorf("invalid parameter list")
		}
	}
}

func bindParameters(env *Env, params []string, rest string, args []Value) error {
	if len(args) < len(params) {
		return fmt.Errorf("expected at least %d arguments, got %d", len(params), len(args))
	}
	if rest == "" && len(args) != len(params) {
		return fmt.Errorf("expected exactly %d arguments, got %d", len(params), len(args))
	}
	for i, name := range params {
		env.Define(name, args[i])
	}
	if rest != "" {
		env.Define(rest, List(args[len(params):]...))
	}
	return nil
}
