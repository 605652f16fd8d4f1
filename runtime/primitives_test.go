package runtime

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sergev/anaphora/lang"
	"github.com/sergev/anaphora/sexpr"
)

func evalString(t *testing.T, ev *lang.Evaluator, src string) lang.Value {
	t.Helper()
	val, err := EvaluateString(ev, src)
	if err != nil {
		t.Fatalf("evaluate %q: %v", src, err)
	}
	return val
}

func TestPrimitivesThroughEvaluator(t *testing.T) {
	ev := NewEvaluator()
	tests := []struct {
		src  string
		want string
	}{
		{"(cons 1 2)", "(1 . 2)"},
		{"(first '(a b))", "a"},
		{"(rest '(a b))", "(b)"},
		{"(list 1 \"two\" 'three)", "(1 \"two\" three)"},
		{"(append '(1) '(2 3) '() '(4))", "(1 2 3 4)"},
		{"(append '(1) 2)", "(1 . 2)"},
		{"(length '(a b c))", "3"},
		{"(eq 'a 'a)", "#t"},
		{"(eq 2 2)", "#t"},
		{"(eq 2 2.0)", "#f"},
		{"(eq '(1) '(1))", "#f"},
		{"(let ((x '(1))) (eq x x))", "#t"},
		{"(equal '(1 (2)) '(1 (2)))", "#t"},
		{"(not #f)", "#t"},
		{"(not '())", "#f"},
		{"(apply + 1 2 '(3 4))", "10"},
		{"(integerp 1)", "#t"},
		{"(floatp 1)", "#f"},
		{"(floatp 1.5)", "#t"},
		{"(realp 1)", "#t"},
		{"(listp '(1 . 2))", "#f"},
		{"(listp '())", "#t"},
		{"(nullp '())", "#t"},
		{"(procedurep 'first)", "#f"},
		{"(procedurep first)", "#t"},
		{"(symbolp (gensym))", "#t"},
		{"(stringAppend \"an\" \"aphora\")", "\"anaphora\""},
		{"(stringLength \"abc\")", "3"},
		{"(stringSlice \"anaphora\" 2)", "\"aphora\""},
		{"(stringSlice \"anaphora\" 0 2)", "\"an\""},
		{"(makeString 3 \"-\")", "\"---\""},
		{"(makeString 2)", "\"  \""},
		{"(let ((p (list 1 2))) (setFirst p 'a) (setRest (rest p) '(b)) p)", "(a 2 b)"},
		{"(symbolToString 'it)", "\"it\""},
		{"(stringToSymbol \"self\")", "self"},
		{"(numberToString 2.5)", "\"2.5\""},
		{"(stringToNumber \" 42 \")", "42"},
		{"(stringToNumber \"nope\")", "#f"},
	}
	for _, tt := range tests {
		got := evalString(t, ev, tt.src)
		if got.String() != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.src, tt.want, got)
		}
	}
}

func TestPrimitiveErrors(t *testing.T) {
	ev := NewEvaluator()
	tests := []struct {
		src     string
		message string
	}{
		{"(first '())", "first expects pair, got empty-list"},
		{"(cons 1)", "cons expects 2 arguments, got 1"},
		{"(length 5)", "length expects list, got integer"},
		{"(error \"bad\" 'thing 42)", "bad thing 42"},
		{"(apply + 1)", "apply expects final argument to be a list"},
		{"(stringSlice \"abc\" 2 1)", "out of bounds"},
		{"(makeString 2 \"ab\")", "single-character fill"},
		{"(setFirst '() 1)", "setFirst expects pair, got empty-list"},
	}
	for _, tt := range tests {
		_, err := EvaluateString(ev, tt.src)
		if err == nil || !strings.Contains(err.Error(), tt.message) {
			t.Fatalf("%s: expected error containing %q, got %v", tt.src, tt.message, err)
		}
	}
}

func TestGensymCannotBeRead(t *testing.T) {
	ev := NewEvaluator()
	sym := evalString(t, ev, "(gensym)")
	other := evalString(t, ev, "(gensym)")
	if sym.Sym() == other.Sym() {
		t.Fatalf("gensym returned %s twice", sym)
	}
	if _, err := sexpr.ReadString(sym.Sym()); err == nil {
		t.Fatalf("expected %s to be unreadable", sym)
	}
}

func TestDisplayAndRead(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out)
	defer SetOutput(nil)
	SetInput(strings.NewReader("(a+ 1 2) done"))
	defer SetInput(nil)

	ev := NewEvaluator()
	evalString(t, ev, `(display "it is ") (display (read)) (newline)`)
	if out.String() != "it is (a+ 1 2)\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if got := evalString(t, ev, "(read)"); got.String() != "done" {
		t.Fatalf("expected done, got %s", got)
	}
	if got := evalString(t, ev, "(read)"); got.Type != lang.TypeEOF {
		t.Fatalf("expected eof object, got %s", got)
	}
}
