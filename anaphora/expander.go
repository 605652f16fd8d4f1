package anaphora

import (
	"fmt"

	"github.com/op/go-logging"

	"github.com/sergev/anaphora/lang"
)

var log = logging.MustGetLogger("anaphora")

// Expansion traces stay quiet until a caller raises the level.
func init() {
	logging.SetLevel(logging.WARNING, "anaphora")
}

// Expander performs expansions. Its only state is the counter used to name
// hidden bindings, so a fresh Expander maps equal input to equal output.
type Expander struct {
	hidden int
}

// NewExpander returns an Expander with its hidden-name counter at zero.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand rewrites form one step when it is a call to a registered operator.
// Any other form, including output made only of host primitives, is returned
// as is and the boolean is false.
func (x *Expander) Expand(form lang.Value) (lang.Value, bool, error) {
	p := form.Pair()
	if form.Type != lang.TypePair || p == nil || p.First.Type != lang.TypeSymbol {
		return form, false, nil
	}
	name := p.First.Sym()
	rule, ok := registry[name]
	if !ok {
		return form, false, nil
	}
	args, err := lang.ToSlice(p.Rest)
	if err != nil {
		return lang.Value{}, false, malformed(name, "a proper operand list", "%v", err)
	}
	out, err := x.apply(name, rule, args)
	if err != nil {
		return lang.Value{}, false, err
	}
	return out, true, nil
}

func (x *Expander) apply(name string, rule Rule, args []lang.Value) (lang.Value, error) {
	out, err := rule(x, args)
	if err != nil {
		log.Debugf("%s: %v", name, err)
		return lang.Value{}, err
	}
	log.Debugf("%s => %s", lang.PairValue(lang.SymbolValue(name), lang.List(args...)), out)
	return out, nil
}

// ExpandAll expands form and all of its sub-forms until no registered
// operator call remains outside quoted data. A call whose head names a local
// binding (a lambda parameter or a let, let* or letrec name) is an ordinary
// call and is left as is; a global define of an operator name is not tracked.
func (x *Expander) ExpandAll(form lang.Value) (lang.Value, error) {
	return x.walk(form, nil)
}

// shadowed holds the operator names rebound by the enclosing local scopes.
type shadowed map[string]bool

// with returns s extended by the operator names among names. s itself is
// shared by sibling scopes and never modified.
func (s shadowed) with(names ...lang.Value) shadowed {
	var out shadowed
	for _, n := range names {
		if n.Type != lang.TypeSymbol || registry[n.Sym()] == nil || s[n.Sym()] {
			continue
		}
		if out == nil {
			out = make(shadowed, len(s)+1)
			for k := range s {
				out[k] = true
			}
		}
		out[n.Sym()] = true
	}
	if out == nil {
		return s
	}
	return out
}

// symbols lists the symbols of a parameter list, including a rest name.
func symbols(params lang.Value) []lang.Value {
	var out []lang.Value
	cur := params
	for cur.Type == lang.TypePair {
		out = append(out, cur.Pair().First)
		cur = cur.Pair().Rest
	}
	if cur.Type == lang.TypeSymbol {
		out = append(out, cur)
	}
	return out
}

func (x *Expander) walk(form lang.Value, scope shadowed) (lang.Value, error) {
	for {
		if p := form.Pair(); p != nil && scope[p.First.Sym()] {
			break
		}
		out, expanded, err := x.Expand(form)
		if err != nil {
			return lang.Value{}, err
		}
		if !expanded {
			break
		}
		form = out
	}
	p := form.Pair()
	if form.Type != lang.TypePair || p == nil {
		return form, nil
	}
	if p.First.Type == lang.TypeSymbol {
		switch p.First.Sym() {
		case "quote", "quasiquote":
			return form, nil
		case "lambda":
			if p.Rest.Type == lang.TypePair {
				return x.walkElements(form, 2, scope.with(symbols(p.Rest.Pair().First)...))
			}
		case "define", "define-macro":
			if rest := p.Rest.Pair(); rest != nil && rest.First.Type == lang.TypePair {
				return x.walkElements(form, 2, scope.with(symbols(rest.First)...))
			}
			return x.walkElements(form, 2, scope)
		case "set!":
			return x.walkElements(form, 2, scope)
		case "let", "let*", "letrec":
			return x.walkBindingForm(form, scope)
		case "cond":
			return x.walkClauses(form, scope)
		}
	}
	return x.walkElements(form, 0, scope)
}

// walkElements walks the elements of list after the first keep ones. An
// improper tail is kept unchanged.
func (x *Expander) walkElements(list lang.Value, keep int, scope shadowed) (lang.Value, error) {
	var elems []lang.Value
	cur := list
	for i := 0; cur.Type == lang.TypePair; i++ {
		p := cur.Pair()
		elem := p.First
		if i >= keep {
			var err error
			if elem, err = x.walk(elem, scope); err != nil {
				return lang.Value{}, err
			}
		}
		elems = append(elems, elem)
		cur = p.Rest
	}
	result := cur
	for i := len(elems) - 1; i >= 0; i-- {
		result = lang.PairValue(elems[i], result)
	}
	return result, nil
}

// walkBindingForm handles let (plain and named), let* and letrec. Init forms
// of let see the outer scope, those of let* the names bound before them, and
// those of letrec every name.
func (x *Expander) walkBindingForm(form lang.Value, scope shadowed) (lang.Value, error) {
	items, err := lang.ToSlice(form)
	if err != nil || len(items) < 2 {
		return x.walkElements(form, 1, scope)
	}
	kind := items[0].Sym()
	at := 1
	inner := scope
	if kind == "let" && items[1].Type == lang.TypeSymbol {
		at = 2
		inner = inner.with(items[1])
	}
	if at >= len(items) {
		return form, nil
	}
	bindings, err := lang.ToSlice(items[at])
	if err != nil {
		return x.walkElements(form, at+1, scope)
	}
	names := make([]lang.Value, len(bindings))
	for i, b := range bindings {
		if b.Type == lang.TypePair {
			names[i] = b.Pair().First
		} else {
			names[i] = b
		}
	}
	body := inner.with(names...)
	initScope := scope
	if kind == "letrec" {
		initScope = body
	}
	walked := make([]lang.Value, len(bindings))
	for i, b := range bindings {
		if kind == "let*" {
			initScope = scope.with(names[:i]...)
		}
		if b.Type != lang.TypePair {
			walked[i] = b
			continue
		}
		if walked[i], err = x.walkElements(b, 1, initScope); err != nil {
			return lang.Value{}, err
		}
	}
	out := make([]lang.Value, 0, len(items))
	out = append(out, items[:at]...)
	out = append(out, lang.List(walked...))
	for _, f := range items[at+1:] {
		expanded, err := x.walk(f, body)
		if err != nil {
			return lang.Value{}, err
		}
		out = append(out, expanded)
	}
	return lang.List(out...), nil
}

func (x *Expander) walkClauses(form lang.Value, scope shadowed) (lang.Value, error) {
	items, err := lang.ToSlice(form)
	if err != nil {
		return x.walkElements(form, 1, scope)
	}
	out := []lang.Value{items[0]}
	for _, clause := range items[1:] {
		expanded, err := x.walkElements(clause, 0, scope)
		if err != nil {
			return lang.Value{}, err
		}
		out = append(out, expanded)
	}
	return lang.List(out...), nil
}

// hiddenSymbol returns a symbol the reader can never produce, since source
// text starting with # is always read as a dispatch sequence.
func (x *Expander) hiddenSymbol(prefix string) lang.Value {
	x.hidden++
	return lang.SymbolValue(fmt.Sprintf("#:%s%d", prefix, x.hidden))
}

// Expand is NewExpander().Expand.
func Expand(form lang.Value) (lang.Value, bool, error) {
	return NewExpander().Expand(form)
}

// ExpandAll is NewExpander().ExpandAll.
func ExpandAll(form lang.Value) (lang.Value, error) {
	return NewExpander().ExpandAll(form)
}
