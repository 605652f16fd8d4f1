package lang

import "fmt"

// Evaluator executes Scheme-like programs.
type Evaluator struct {
	Global *Env
}

// NewEvaluator constructs an evaluator rooted at a new global environment.
func NewEvaluator() *Evaluator {
	return &Evaluator{Global: NewEnv(nil)}
}

// Eval evaluates a single expression within the provided environment.
// A nil env means the global environment.
func (ev *Evaluator) Eval(expr Value, env *Env) (Value, error) {
	if env == nil {
		env = ev.Global
	}
	m := &machine{}
	m.eval(expr, env)
	return ev.run(m)
}

// EvalAll evaluates a sequence of expressions and returns the last value.
func (ev *Evaluator) EvalAll(exprs []Value, env *Env) (Value, error) {
	result := EmptyList
	for _, expr := range exprs {
		val, err := ev.Eval(expr, env)
		if err != nil {
			return Value{}, err
		}
		result = val
	}
	return result, nil
}

// Apply invokes a procedure with already evaluated arguments.
func (ev *Evaluator) Apply(proc Value, args []Value) (Value, error) {
	m := &machine{}
	if err := ev.call(m, proc, args); err != nil {
		return Value{}, err
	}
	return ev.run(m)
}

// machine is the state of one trampolined evaluation. Either expr is pending
// evaluation in env, or (when ready is set) value is being returned to the
// frame on top of the stack.
type machine struct {
	expr  Value
	env   *Env
	stack []frame
	value Value
	ready bool
}

// frame is a pending continuation step. Frames are cloned when a
// continuation is captured, so a frame that mutates itself stays private to
// one control path.
type frame interface {
	resume(ev *Evaluator, val Value, m *machine) error
	clone() frame
}

func (m *machine) push(f frame) {
	m.stack = append(m.stack, f)
}

func (m *machine) pop() frame {
	n := len(m.stack)
	f := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return f
}

// eval schedules expr. A nil env keeps the current environment.
func (m *machine) eval(expr Value, env *Env) {
	m.expr = expr
	if env != nil {
		m.env = env
	}
	m.ready = false
}

// yield returns v to the next frame.
func (m *machine) yield(v Value) {
	m.value = v
	m.ready = true
}

// body schedules a sequence of forms in env; an empty sequence yields ().
func (m *machine) body(forms []Value, env *Env) {
	if len(forms) == 0 {
		m.yield(EmptyList)
		return
	}
	if len(forms) > 1 {
		m.push(&beginFrame{exprs: forms[1:], env: env})
	}
	m.eval(forms[0], env)
}

func (ev *Evaluator) run(m *machine) (Value, error) {
	for {
		if !m.ready {
			if err := ev.step(m); err != nil {
				return Value{}, err
			}
			continue
		}
		if len(m.stack) == 0 {
			return m.value, nil
		}
		if err := m.pop().resume(ev, m.value, m); err != nil {
			return Value{}, err
		}
	}
}

func (ev *Evaluator) step(m *machine) error {
	switch m.expr.Type {
	case TypeSymbol:
		val, err := m.env.Get(m.expr.Sym())
		if err != nil {
			return err
		}
		m.yield(val)
		return nil
	case TypePair:
		return ev.combination(m)
	default:
		m.yield(m.expr)
		return nil
	}
}

// specialForm handles a special form given its unevaluated operands.
type specialForm func(ev *Evaluator, args Value, m *machine) error

var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"quote":        (*Evaluator).evalQuote,
		"quasiquote":   (*Evaluator).evalQuasiQuote,
		"if":           (*Evaluator).evalIf,
		"cond":         (*Evaluator).evalCond,
		"begin":        (*Evaluator).evalBegin,
		"lambda":       (*Evaluator).evalLambda,
		"define":       (*Evaluator).evalDefine,
		"define-macro": (*Evaluator).evalDefineMacro,
		"set!":         (*Evaluator).evalSet,
		"let":          (*Evaluator).evalLet,
		"let*":         (*Evaluator).evalLetStar,
		"letrec":       (*Evaluator).evalLetrec,
		"while":        (*Evaluator).evalWhile,
		"call/cc":      (*Evaluator).evalCallCC,
	}
}

// combination evaluates a pair: a special form, a macro use or a call.
// Special form names cannot be shadowed by macros.
func (ev *Evaluator) combination(m *machine) error {
	pair := m.expr.Pair()
	if pair == nil {
		return fmt.Errorf("expected pair value")
	}
	if pair.First.Type == TypeSymbol {
		name := pair.First.Sym()
		if special, ok := specialForms[name]; ok {
			return special(ev, pair.Rest, m)
		}
		if val, ok := m.env.Lookup(name); ok && val.Type == TypeMacro {
			expanded, err := ev.expandMacro(val.Macro(), pair.Rest, m.env)
			if err != nil {
				return err
			}
			m.eval(expanded, nil)
			return nil
		}
	}
	m.push(&callFrame{env: m.env, remaining: pair.Rest})
	m.eval(pair.First, nil)
	return nil
}

// call applies proc to args. Closures and continuations do not grow the Go
// stack: they only rearrange the machine.
func (ev *Evaluator) call(m *machine, proc Value, args []Value) error {
	switch proc.Type {
	case TypePrimitive:
		fn := proc.Primitive()
		if fn == nil {
			return fmt.Errorf("invalid primitive")
		}
		val, err := fn(ev, args)
		if err != nil {
			return err
		}
		m.yield(val)
	case TypeClosure:
		c := proc.Closure()
		if c == nil {
			return fmt.Errorf("invalid closure")
		}
		env := NewEnv(c.Env)
		if err := bindParameters(env, c.Params, c.Rest, args); err != nil {
			return err
		}
		m.body(c.Body, env)
	case TypeContinuation:
		k := proc.Continuation()
		if k == nil || k.Eval == nil {
			return fmt.Errorf("invalid continuation")
		}
		m.stack = cloneFrames(k.Frames)
		m.env = k.Env
		if len(args) > 0 {
			m.yield(args[0])
		} else {
			m.yield(EmptyList)
		}
	default:
		return fmt.Errorf("attempt to call non-function: %s", proc.String())
	}
	return nil
}

// callFrame collects the operator and then each argument, left to right.
type callFrame struct {
	env       *Env
	remaining Value
	proc      Value
	args      []Value
	haveProc  bool
}

func (f *callFrame) resume(ev *Evaluator, val Value, m *machine) error {
	if f.haveProc {
		f.args = append(f.args, val)
	} else {
		f.proc, f.haveProc = val, true
	}
	switch f.remaining.Type {
	case TypeEmpty:
		return ev.call(m, f.proc, f.args)
	case TypePair:
		next := f.remaining.Pair()
		f.remaining = next.Rest
		m.push(f)
		m.eval(next.First, f.env)
		return nil
	default:
		return fmt.Errorf("malformed argument list")
	}
}

func (f *callFrame) clone() frame {
	cp := *f
	cp.args = append([]Value(nil), f.args...)
	return &cp
}

// beginFrame evaluates the remaining forms of a sequence.
type beginFrame struct {
	exprs []Value
	env   *Env
}

func (f *beginFrame) resume(ev *Evaluator, val Value, m *machine) error {
	m.body(f.exprs, f.env)
	return nil
}

func (f *beginFrame) clone() frame {
	return &beginFrame{exprs: f.exprs, env: f.env}
}

func cloneFrames(frames []frame) []frame {
	if len(frames) == 0 {
		return nil
	}
	out := make([]frame, len(frames))
	for i, f := range frames {
		out[i] = f.clone()
	}
	return out
}

// IsTruthy reports whether a value counts as true. Only #f is false.
func IsTruthy(v Value) bool {
	return v.Type != TypeBool || v.Bool()
}
