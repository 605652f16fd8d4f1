package lang

import (
	"fmt"
	"reflect"
	"strings"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeEmpty ValueType = iota
	TypeBool
	TypeInt
	TypeReal
	TypeString
	TypeSymbol
	TypePair
	TypePrimitive
	TypeClosure
	TypeContinuation
	TypeMacro
	TypeEOF
)

// Value represents any runtime object in the interpreter.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Pair represents a cons cell.
type Pair struct {
	First Value
	Rest  Value
}

// Primitive represents a built-in Go function exposed to the interpreter.
type Primitive func(*Evaluator, []Value) (Value, error)

// Transformer rewrites the unevaluated operands of a macro call into a new form.
type Transformer func(args []Value) (Value, error)

// Closure represents a user-defined function with lexical scope.
type Closure struct {
	Params []string
	Rest   string
	Body   []Value
	Env    *Env
}

// Macro represents a macro transformer. A macro is either written in Lisp
// (Params, Rest, Body, Env) or implemented natively by Transform.
type Macro struct {
	Name      string
	Params    []string
	Rest      string
	Body      []Value
	Env       *Env
	Transform Transformer
}

// Native reports whether the macro is implemented in Go.
func (m *Macro) Native() bool {
	return m != nil && m.Transform != nil
}

// Continuation represents a captured continuation.
type Continuation struct {
	Frames []frame
	Env    *Env
	Eval   *Evaluator
}

// EmptyList is the singleton empty list value.
var EmptyList = Value{Type: TypeEmpty}

// EOFObject represents the end-of-file marker returned by read operations.
var EOFObject = Value{Type: TypeEOF}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// IntValue constructs an integer Value.
func IntValue(i int64) Value {
	return Value{Type: TypeInt, payload: i}
}

// RealValue constructs a floating-point Value.
func RealValue(f float64) Value {
	return Value{Type: TypeReal, payload: f}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// SymbolValue constructs a symbol Value.
func SymbolValue(s string) Value {
	return Value{Type: TypeSymbol, payload: s}
}

// PairValue constructs a pair Value.
func PairValue(first, rest Value) Value {
	return Value{
		Type:    TypePair,
		payload: &Pair{First: first, Rest: rest},
	}
}

// List constructs a proper list from provided values.
func List(vals ...Value) Value {
	result := EmptyList
	for i := len(vals) - 1; i >= 0; i-- {
		result = PairValue(vals[i], result)
	}
	return result
}

// ToSlice converts a proper list into a Go slice.
func ToSlice(list Value) ([]Value, error) {
	var out []Value
	cur := list
	for cur.Type != TypeEmpty {
		p := cur.Pair()
		if cur.Type != TypePair || p == nil {
			return nil, fmt.Errorf("expected proper list")
		}
		out = append(out, p.First)
		cur = p.Rest
	}
	return out, nil
}

// PrimitiveValue wraps the primitive function.
func PrimitiveValue(fn Primitive) Value {
	return Value{
		Type:    TypePrimitive,
		payload: fn,
	}
}

// ClosureValue wraps a closure.
func ClosureValue(params []string, rest string, body []Value, env *Env) Value {
	return Value{
		Type:    TypeClosure,
		payload: &Closure{Params: params, Rest: rest, Body: body, Env: env},
	}
}

// MacroValue wraps a macro transformer written in Lisp.
func MacroValue(params []string, rest string, body []Value, env *Env) Value {
	return Value{
		Type:    TypeMacro,
		payload: &Macro{Params: params, Rest: rest, Body: body, Env: env},
	}
}

// NativeMacroValue wraps a macro implemented by a Go transformer.
func NativeMacroValue(name string, fn Transformer) Value {
	return Value{
		Type:    TypeMacro,
		payload: &Macro{Name: name, Transform: fn},
	}
}

// ContinuationValue wraps a continuation.
func ContinuationValue(frames []frame, env *Env, ev *Evaluator) Value {
	return Value{
		Type: TypeContinuation,
		payload: &Continuation{
			Frames: frames,
			Env:    env,
			Eval:   ev,
		},
	}
}

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Int() int64 {
	if i, ok := v.payload.(int64); ok {
		return i
	}
	return 0
}

func (v Value) Real() float64 {
	if f, ok := v.payload.(float64); ok {
		return f
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.payload.(string); ok && v.Type == TypeString {
		return s
	}
	return ""
}

func (v Value) Sym() string {
	if s, ok := v.payload.(string); ok && v.Type == TypeSymbol {
		return s
	}
	return ""
}

func (v Value) Pair() *Pair {
	if p, ok := v.payload.(*Pair); ok {
		return p
	}
	return nil
}

func (v Value) Primitive() Primitive {
	if p, ok := v.payload.(Primitive); ok {
		return p
	}
	return nil
}

func (v Value) Closure() *Closure {
	if c, ok := v.payload.(*Closure); ok {
		return c
	}
	return nil
}

func (v Value) Continuation() *Continuation {
	if c, ok := v.payload.(*Continuation); ok {
		return c
	}
	return nil
}

func (v Value) Macro() *Macro {
	if m, ok := v.payload.(*Macro); ok {
		return m
	}
	return nil
}

// IsSymbol reports whether v is the symbol called name.
func (v Value) IsSymbol(name string) bool {
	return v.Type == TypeSymbol && v.Sym() == name
}

func (v Value) String() string {
	switch v.Type {
	case TypeEmpty:
		return "()"
	case TypeBool:
		if v.Bool() {
			return "#t"
		}
		return "#f"
	case TypeInt:
		return fmt.Sprintf("%d", v.Int())
	case TypeReal:
		return fmt.Sprintf("%g", v.Real())
	case TypeString:
		return fmt.Sprintf("%q", v.Str())
	case TypeSymbol:
		return v.Sym()
	case TypePair:
		return pairToString(v)
	case TypePrimitive:
		return "<primitive>"
	case TypeClosure:
		return "<closure>"
	case TypeContinuation:
		return "<continuation>"
	case TypeMacro:
		if m := v.Macro(); m.Native() {
			return fmt.Sprintf("<macro %s>", m.Name)
		}
		return "<macro>"
	case TypeEOF:
		return "#<eof>"
	default:
		return "<unknown>"
	}
}

func pairToString(v Value) string {
	if tag, ok := quoteShorthand(v); ok {
		return tag
	}
	var sb strings.Builder
	sb.WriteByte('(')
	cur := v
	first := true
	for {
		p := cur.Pair()
		if cur.Type != TypePair || p == nil {
			sb.WriteString(" . ")
			sb.WriteString(cur.String())
			sb.WriteByte(')')
			break
		}
		if !first {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.First.String())
		if p.Rest.Type == TypeEmpty {
			sb.WriteByte(')')
			break
		}
		cur = p.Rest
		first = false
	}
	return sb.String()
}

// quoteShorthand prints (quote x) as 'x so expansions read back naturally.
func quoteShorthand(v Value) (string, bool) {
	p := v.Pair()
	if p == nil || !p.First.IsSymbol("quote") {
		return "", false
	}
	rest := p.Rest.Pair()
	if p.Rest.Type != TypePair || rest == nil || rest.Rest.Type != TypeEmpty {
		return "", false
	}
	return "'" + rest.First.String(), true
}

// Equal reports structural equality. Integers and reals compare numerically;
// procedures, continuations and macros compare by identity.
func Equal(a, b Value) bool {
	if a.Type == TypeInt && b.Type == TypeReal {
		return float64(a.Int()) == b.Real()
	}
	if a.Type == TypeReal && b.Type == TypeInt {
		return a.Real() == float64(b.Int())
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeEmpty, TypeEOF:
		return true
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeInt:
		return a.Int() == b.Int()
	case TypeReal:
		return a.Real() == b.Real()
	case TypeString:
		return a.Str() == b.Str()
	case TypeSymbol:
		return a.Sym() == b.Sym()
	case TypePair:
		ap, bp := a.Pair(), b.Pair()
		if ap == nil || bp == nil {
			return ap == bp
		}
		return Equal(ap.First, bp.First) && Equal(ap.Rest, bp.Rest)
	case TypePrimitive:
		return primitivePointer(a.Primitive()) == primitivePointer(b.Primitive())
	case TypeClosure:
		return a.Closure() == b.Closure()
	case TypeContinuation:
		return a.Continuation() == b.Continuation()
	case TypeMacro:
		return a.Macro() == b.Macro()
	default:
		return false
	}
}

func primitivePointer(p Primitive) uintptr {
	if p == nil {
		return 0
	}
	return reflect.ValueOf(p).Pointer()
}
