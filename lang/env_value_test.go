package lang

import (
	"errors"
	"testing"
)

func TestEnvParentLookupAndErrors(t *testing.T) {
	parent := NewEnv(nil)
	parent.Define("x", IntValue(1))
	child := NewEnv(parent)

	if err := child.Set("x", IntValue(2)); err != nil {
		t.Fatalf("Set should update parent binding: %v", err)
	}
	val, err := parent.Get("x")
	if err != nil || val.Int() != 2 {
		t.Fatalf("expected parent value updated to 2, got %v err=%v", val, err)
	}

	child.Define("x", IntValue(3))
	if v, _ := child.Get("x"); v.Int() != 3 {
		t.Fatalf("expected shadowed value 3, got %v", v)
	}
	if v, _ := parent.Get("x"); v.Int() != 2 {
		t.Fatalf("shadowing must not touch parent, got %v", v)
	}

	if err := child.Set("missing", IntValue(0)); !errors.Is(err, ErrUnboundVariable) {
		t.Fatalf("expected unbound error updating missing binding, got %v", err)
	}
	if _, ok := child.Lookup("missing"); ok {
		t.Fatal("Lookup should report missing binding")
	}
	if child.Parent() != parent {
		t.Fatalf("expected Parent to expose enclosing environment")
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		val  Value
		want string
	}{
		{PairValue(IntValue(1), IntValue(2)), "(1 . 2)"},
		{List(IntValue(1), IntValue(2), IntValue(3)), "(1 2 3)"},
		{List(SymbolValue("quote"), SymbolValue("x")), "'x"},
		{List(SymbolValue("quote"), SymbolValue("x"), SymbolValue("y")), "(quote x y)"},
		{StringValue("hi"), `"hi"`},
		{BoolValue(false), "#f"},
		{MacroValue(nil, "", nil, nil), "<macro>"},
		{NativeMacroValue("anaphoric-if", nil), "<macro>"},
		{NativeMacroValue("anaphoric-if", func([]Value) (Value, error) { return EmptyList, nil }), "<macro anaphoric-if>"},
		{Value{Type: ValueType(99)}, "<unknown>"},
	}
	for _, tc := range cases {
		if got := tc.val.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal(IntValue(2), RealValue(2)) {
		t.Fatal("2 and 2.0 should be equal")
	}
	if Equal(StringValue("a"), SymbolValue("a")) {
		t.Fatal("string and symbol must differ")
	}
	a := List(SymbolValue("let"), List(List(SymbolValue("it"), IntValue(1))), SymbolValue("it"))
	b := List(SymbolValue("let"), List(List(SymbolValue("it"), IntValue(1))), SymbolValue("it"))
	if !Equal(a, b) {
		t.Fatal("structurally identical lists should be equal")
	}
	if Equal(a, List(SymbolValue("let"))) {
		t.Fatal("different lists should not be equal")
	}
}
