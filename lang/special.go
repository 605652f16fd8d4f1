package lang

import "fmt"

// operands splits the operand list of form into a slice, checking that there
// are between lo and hi of them. A negative hi means no upper bound.
func operands(form string, args Value, lo, hi int) ([]Value, error) {
	items, err := ToSlice(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", form, err)
	}
	if len(items) < lo || (hi >= 0 && len(items) > hi) {
		switch {
		case lo == hi:
			return nil, fmt.Errorf("%s expects %d argument(s), got %d", form, lo, len(items))
		case hi < 0:
			return nil, fmt.Errorf("%s expects at least %d argument(s), got %d", form, lo, len(items))
		default:
			return nil, fmt.Errorf("%s expects %d to %d arguments, got %d", form, lo, hi, len(items))
		}
	}
	return items, nil
}

func (ev *Evaluator) evalQuote(args Value, m *machine) error {
	items, err := operands("quote", args, 1, 1)
	if err != nil {
		return err
	}
	m.yield(items[0])
	return nil
}

func (ev *Evaluator) evalQuasiQuote(args Value, m *machine) error {
	items, err := operands("quasiquote", args, 1, 1)
	if err != nil {
		return err
	}
	expanded, err := quasi(items[0], 1)
	if err != nil {
		return err
	}
	m.eval(expanded, nil)
	return nil
}

func (ev *Evaluator) evalIf(args Value, m *machine) error {
	items, err := operands("if", args, 2, 3)
	if err != nil {
		return err
	}
	f := &ifFrame{then: items[1], alt: EmptyList, env: m.env}
	if len(items) == 3 {
		f.alt = items[2]
	}
	m.push(f)
	m.eval(items[0], nil)
	return nil
}

type ifFrame struct {
	then, alt Value
	env       *Env
}

func (f *ifFrame) resume(ev *Evaluator, val Value, m *machine) error {
	if IsTruthy(val) {
		m.eval(f.then, f.env)
	} else {
		m.eval(f.alt, f.env)
	}
	return nil
}

func (f *ifFrame) clone() frame {
	cp := *f
	return &cp
}

// evalCond accepts clauses of the form (test body...). A clause without a
// body yields the value of its test. An else clause must come last.
func (ev *Evaluator) evalCond(args Value, m *machine) error {
	clauses, err := ToSlice(args)
	if err != nil {
		return fmt.Errorf("cond expects a list of clauses: %w", err)
	}
	return nextClause(clauses, m.env, m)
}

func nextClause(clauses []Value, env *Env, m *machine) error {
	if len(clauses) == 0 {
		m.yield(EmptyList)
		return nil
	}
	items, err := ToSlice(clauses[0])
	if err != nil || len(items) == 0 {
		return fmt.Errorf("cond clause must be a non-empty list")
	}
	if items[0].IsSymbol("else") {
		if len(clauses) != 1 {
			return fmt.Errorf("cond else clause must be last")
		}
		m.body(items[1:], env)
		return nil
	}
	m.push(&condFrame{body: items[1:], rest: clauses[1:], env: env})
	m.eval(items[0], env)
	return nil
}

type condFrame struct {
	body []Value
	rest []Value
	env  *Env
}

func (f *condFrame) resume(ev *Evaluator, val Value, m *machine) error {
	switch {
	case !IsTruthy(val):
		return nextClause(f.rest, f.env, m)
	case len(f.body) == 0:
		m.yield(val)
	default:
		m.body(f.body, f.env)
	}
	return nil
}

func (f *condFrame) clone() frame {
	cp := *f
	return &cp
}

func (ev *Evaluator) evalBegin(args Value, m *machine) error {
	forms, err := ToSlice(args)
	if err != nil {
		return err
	}
	m.body(forms, m.env)
	return nil
}

func (ev *Evaluator) evalLambda(args Value, m *machine) error {
	items, err := operands("lambda", args, 2, -1)
	if err != nil {
		return err
	}
	params, rest, err := parseParams(items[0])
	if err != nil {
		return err
	}
	m.yield(ClosureValue(params, rest, items[1:], m.env))
	return nil
}

// evalDefine handles (define name expr) and (define (name . params) body...).
func (ev *Evaluator) evalDefine(args Value, m *machine) error {
	items, err := operands("define", args, 2, -1)
	if err != nil {
		return err
	}
	switch target := items[0]; target.Type {
	case TypeSymbol:
		if len(items) != 2 {
			return fmt.Errorf("define expects a single value expression")
		}
		m.push(&assignFrame{name: target.Sym(), env: m.env, define: true})
		m.eval(items[1], nil)
		return nil
	case TypePair:
		head := target.Pair()
		if head.First.Type != TypeSymbol {
			return fmt.Errorf("function name in define must be a symbol")
		}
		params, rest, err := parseParams(head.Rest)
		if err != nil {
			return err
		}
		proc := ClosureValue(params, rest, items[1:], m.env)
		m.env.Define(head.First.Sym(), proc)
		m.yield(proc)
		return nil
	default:
		return fmt.Errorf("invalid define target")
	}
}

func (ev *Evaluator) evalDefineMacro(args Value, m *machine) error {
	items, err := operands("define-macro", args, 2, -1)
	if err != nil {
		return err
	}
	head := items[0].Pair()
	if items[0].Type != TypePair || head.First.Type != TypeSymbol {
		return fmt.Errorf("define-macro expects (name params) head")
	}
	params, rest, err := parseParams(head.Rest)
	if err != nil {
		return err
	}
	macro := MacroValue(params, rest, items[1:], m.env)
	m.env.Define(head.First.Sym(), macro)
	m.yield(macro)
	return nil
}

func (ev *Evaluator) evalSet(args Value, m *machine) error {
	items, err := operands("set!", args, 2, 2)
	if err != nil {
		return err
	}
	if items[0].Type != TypeSymbol {
		return fmt.Errorf("set! target must be a symbol")
	}
	m.push(&assignFrame{name: items[0].Sym(), env: m.env})
	m.eval(items[1], nil)
	return nil
}

// assignFrame stores the value it receives, either as a new binding (define)
// or into an existing one (set!).
type assignFrame struct {
	name   string
	env    *Env
	define bool
}

func (f *assignFrame) resume(ev *Evaluator, val Value, m *machine) error {
	if f.define {
		f.env.Define(f.name, val)
	} else if err := f.env.Set(f.name, val); err != nil {
		return err
	}
	m.yield(val)
	return nil
}

func (f *assignFrame) clone() frame {
	cp := *f
	return &cp
}

func (ev *Evaluator) evalCallCC(args Value, m *machine) error {
	items, err := operands("call/cc", args, 1, 1)
	if err != nil {
		return err
	}
	m.push(&callCCFrame{env: m.env, stack: cloneFrames(m.stack)})
	m.eval(items[0], nil)
	return nil
}

// callCCFrame receives the procedure given to call/cc and calls it with the
// continuation captured when call/cc was entered.
type callCCFrame struct {
	env   *Env
	stack []frame
}

func (f *callCCFrame) resume(ev *Evaluator, val Value, m *machine) error {
	k := ContinuationValue(cloneFrames(f.stack), f.env, ev)
	return ev.call(m, val, []Value{k})
}

func (f *callCCFrame) clone() frame {
	return &callCCFrame{env: f.env, stack: cloneFrames(f.stack)}
}
