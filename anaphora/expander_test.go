package anaphora

import (
	"errors"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/sergev/anaphora/lang"
	"github.com/sergev/anaphora/sexpr"
)

func Test(t *testing.T) { TestingT(t) }

type ExpanderSuite struct{}

var _ = Suite(&ExpanderSuite{})

func readForm(c *C, src string) lang.Value {
	forms, err := sexpr.ReadString(src)
	c.Assert(err, IsNil)
	c.Assert(forms, HasLen, 1)
	return forms[0]
}

func expandCheck(c *C, src, expected string) {
	out, expanded, err := NewExpander().Expand(readForm(c, src))
	c.Assert(err, IsNil)
	c.Assert(expanded, Equals, true)
	c.Check(out.String(), Equals, expected, Commentf("expanding %s", src))
}

func expandAllCheck(c *C, src, expected string) {
	out, err := NewExpander().ExpandAll(readForm(c, src))
	c.Assert(err, IsNil)
	c.Check(out.String(), Equals, expected, Commentf("expanding %s", src))
}

func malformedCheck(c *C, src, pattern string) {
	_, _, err := NewExpander().Expand(readForm(c, src))
	c.Assert(err, ErrorMatches, pattern)
	c.Check(errors.Is(err, ErrMalformedForm), Equals, true)
	var mf *MalformedFormError
	c.Check(errors.As(err, &mf), Equals, true)
}

func (s *ExpanderSuite) Test_Expand_conditionals(c *C) {
	expandCheck(c, "(anaphoric-if (f) (g it) (h) (i))", "(let ((it (f))) (if it (g it) (begin (h) (i))))")
	expandCheck(c, "(anaphoric-if c a b)", "(let ((it c)) (if it a b))")
	expandCheck(c, "(anaphoric-if c a)", "(let ((it c)) (if it a))")
	expandCheck(c, "(anaphoric-when c a b)", "(let ((it c)) (if it (begin a b)))")
	expandCheck(c, "(anaphoric-when c)", "(let ((it c)) (if it (begin)))")
}

func (s *ExpanderSuite) Test_Expand_and(c *C) {
	expandCheck(c, "(anaphoric-and)", "#t")
	expandCheck(c, "(anaphoric-and (f it))", "(f it)")
	expandCheck(c, "(anaphoric-and x y z)", "(let ((it x)) (if it (anaphoric-and y z) it))")
}

func (s *ExpanderSuite) Test_Expand_cond(c *C) {
	expandCheck(c, "(anaphoric-cond)", "'()")
	expandCheck(c, "(anaphoric-cond (a (f it) (g it)))", "(let ((#:cond1 a)) (if #:cond1 (let ((it #:cond1)) (f it) (g it))))")
	expandCheck(c, "(anaphoric-cond (a) (b c))", "(let ((#:cond1 a)) (if #:cond1 #:cond1 (anaphoric-cond (b c))))")
}

func (s *ExpanderSuite) Test_Expand_sequencing(c *C) {
	expandCheck(c, "(anaphoric-prog1 a b c)", "(let ((it a)) b c it)")
	expandCheck(c, "(anaphoric-prog1 a)", "(let ((it a)) it)")
	expandCheck(c, "(anaphoric-prog2 a b c)", "(begin a (let ((it b)) c it))")
	expandCheck(c, "(anaphoric-while (next) (use it))", "(let ((it '())) (while (begin (set! it (next)) it) (use it)))")
}

func (s *ExpanderSuite) Test_Expand_lambdaAndBlock(c *C) {
	expandCheck(c, "(anaphoric-lambda (n) (self n))", "(letrec ((self (lambda (n) (self n)))) self)")
	expandCheck(c, "(anaphoric-lambda args (apply self args))", "(letrec ((self (lambda args (apply self args)))) self)")
	expandCheck(c, "(anaphoric-block ())", "'()")
	expandCheck(c, "(anaphoric-block () a)", "a")
	expandCheck(c, "(anaphoric-block () a (f it) (g it))", "(let ((it a)) (let ((it (f it))) (g it)))")
	expandCheck(c, "(anaphoric-block out a (out it))", "(call/cc (lambda (out) (let ((it a)) (out it))))")
}

func (s *ExpanderSuite) Test_Expand_dispatch(c *C) {
	expandCheck(c, "(anaphoric-case x (1 'one) ((2 3) 'few) (t it))",
		"(let ((it x)) (if (eq it '1) 'one (if (if (eq it '2) #t (eq it '3)) 'few it)))")
	expandCheck(c, "(anaphoric-case x (a 1))", "(let ((it x)) (if (eq it 'a) 1 '()))")
	expandCheck(c, "(anaphoric-case x (() 1) (otherwise))", "(let ((it x)) (if #f 1 '()))")
	expandCheck(c, "(anaphoric-ecase x (a 1))", "(let ((it x)) (if (eq it 'a) 1 (no-matching-clause 'anaphoric-ecase it)))")
	expandCheck(c, "(anaphoric-typecase x (integer 'i) ((string symbol) 's))",
		"(let ((it x)) (if (integerp it) 'i (if (if (stringp it) #t (symbolp it)) 's '())))")
	expandCheck(c, "(anaphoric-etypecase x (float it))",
		"(let ((it x)) (if (floatp it) it (no-matching-clause 'anaphoric-etypecase it)))")
}

func (s *ExpanderSuite) Test_Expand_bindings(c *C) {
	expandCheck(c, "(anaphoric-let ((a 1) (b a)) it)", "(let* ((a 1) (b a)) (let ((it '((a 1) (b a)))) it))")
	expandCheck(c, "(anaphoric-let (a))", "(let* (a) (let ((it '(a))) '()))")
	expandCheck(c, "(anaphoric-setq)", "'()")
	expandCheck(c, "(anaphoric-setq x (+ it 1))", "(let ((it x)) (set! x (+ it 1)))")
	expandCheck(c, "(anaphoric-setq x (+ it 1) y 2)", "(begin (let ((it x)) (set! x (+ it 1))) (let ((it y)) (set! y 2)))")
}

func (s *ExpanderSuite) Test_Expand_arithmetic(c *C) {
	expandCheck(c, "(a+)", "0")
	expandCheck(c, "(a+ x)", "x")
	expandCheck(c, "(a+ 1 2 3)", "(let ((it 1)) (+ it (a+ 2 3)))")
	expandCheck(c, "(a*)", "1")
	expandCheck(c, "(a* 2 it)", "(let ((it 2)) (* it (a* it)))")
	expandCheck(c, "(a-)", "0")
	expandCheck(c, "(a- x)", "(- x)")
	expandCheck(c, "(a- 10 1 2)", "(let ((it 10)) (- it (a+ 1 2)))")
	expandCheck(c, "(a/ 10 2)", "(let ((it 10)) (/ it (a* 2)))")
}

func (s *ExpanderSuite) Test_ExpandAll_reachesHostPrimitives(c *C) {
	expandAllCheck(c, "(a+ 1 2 3)", "(let ((it 1)) (+ it (let ((it 2)) (+ it 3))))")
	expandAllCheck(c, "(anaphoric-cond (a) (b c))",
		"(let ((#:cond1 a)) (if #:cond1 #:cond1 (let ((#:cond2 b)) (if #:cond2 (let ((it #:cond2)) c)))))")
	expandAllCheck(c, "(define (f x) (anaphoric-when x it))", "(define (f x) (let ((it x)) (if it (begin it))))")
	expandAllCheck(c, "(lambda (a+ x) (f x))", "(lambda (a+ x) (f x))")
	expandAllCheck(c, "(let ((x (a* 2 3))) x)", "(let ((x (let ((it 2)) (* it 3)))) x)")
	expandAllCheck(c, "(f '(a+ 1 2) `(a+ ,x))", "(f '(a+ 1 2) (quasiquote (a+ (unquote x))))")
}

func (s *ExpanderSuite) Test_ExpandAll_respectsLocalBindings(c *C) {
	expandAllCheck(c, "(let ((a+ list)) (a+ 1 2))", "(let ((a+ list)) (a+ 1 2))")
	expandAllCheck(c, "(lambda (a* x) (a* x 2))", "(lambda (a* x) (a* x 2))")
	expandAllCheck(c, "(lambda args (a- 1 2))", "(lambda args (let ((it 1)) (- it 2)))")
	expandAllCheck(c, "(define (f a/ . rest) (a/ rest))", "(define (f a/ . rest) (a/ rest))")
	expandAllCheck(c, "(define (f . a/) (a/ 1))", "(define (f . a/) (a/ 1))")

	// A let init still sees the operator; the let* init after the binding does not.
	expandAllCheck(c, "(let ((a+ (a+ 1 2))) (a+ 3))", "(let ((a+ (let ((it 1)) (+ it 2)))) (a+ 3))")
	expandAllCheck(c, "(let* ((x (a+ 1 2)) (a+ list) (y (a+ 3))) y)",
		"(let* ((x (let ((it 1)) (+ it 2))) (a+ list) (y (a+ 3))) y)")
	expandAllCheck(c, "(letrec ((a+ (lambda (n) (a+ n)))) (a+ 1))", "(letrec ((a+ (lambda (n) (a+ n)))) (a+ 1))")
	expandAllCheck(c, "(let a+ ((n (a* 2 3))) (a+ n))", "(let a+ ((n (let ((it 2)) (* it 3)))) (a+ n))")

	// The shadow ends with the binding form.
	expandAllCheck(c, "(f (let ((a+ g)) (a+ 1)) (a+ 1 2))", "(f (let ((a+ g)) (a+ 1)) (let ((it 1)) (+ it 2)))")
	expandAllCheck(c, "(let ((anaphoric-when g)) (anaphoric-when 1 (a+ 1 2)))",
		"(let ((anaphoric-when g)) (anaphoric-when 1 (let ((it 1)) (+ it 2))))")
}

func (s *ExpanderSuite) Test_ExpandAll_isIdempotent(c *C) {
	for _, src := range []string{
		"(anaphoric-while (next) (anaphoric-prog1 it (print it)))",
		"(anaphoric-case (f) ((a b) (a+ it 1)) (else 0))",
		"(anaphoric-block done (anaphoric-lambda (n) (self n)) (done it))",
	} {
		once, err := ExpandAll(readForm(c, src))
		c.Assert(err, IsNil)
		twice, err := ExpandAll(once)
		c.Assert(err, IsNil)
		c.Check(lang.Equal(once, twice), Equals, true, Commentf("%s => %s", once, twice))
	}
}

func (s *ExpanderSuite) Test_Expand_leavesOtherFormsAlone(c *C) {
	for _, src := range []string{"42", "it", "(let ((it 1)) it)", "((a+ 1) 2)", "(\"a+\" 1)"} {
		form := readForm(c, src)
		out, expanded, err := Expand(form)
		c.Assert(err, IsNil)
		c.Check(expanded, Equals, false)
		c.Check(lang.Equal(out, form), Equals, true)
	}
}

func (s *ExpanderSuite) Test_Expand_doesNotMutateInput(c *C) {
	form := readForm(c, "(anaphoric-cond (a b) (c d))")
	before := form.String()
	_, err := ExpandAll(form)
	c.Assert(err, IsNil)
	c.Check(form.String(), Equals, before)
}

func (s *ExpanderSuite) Test_Expand_isDeterministic(c *C) {
	form := readForm(c, "(anaphoric-cond ((f) 1) ((g) it))")
	first, err := ExpandAll(form)
	c.Assert(err, IsNil)
	second, err := ExpandAll(form)
	c.Assert(err, IsNil)
	c.Check(lang.Equal(first, second), Equals, true)
}

func (s *ExpanderSuite) Test_Expand_reportsMalformedForms(c *C) {
	malformedCheck(c, "(anaphoric-if c)", "anaphoric-if: malformed form, expected .*: got 1 operands")
	malformedCheck(c, "(anaphoric-if c . x)", "anaphoric-if: malformed form, expected a proper operand list.*")
	malformedCheck(c, "(anaphoric-when)", "anaphoric-when: malformed form.*missing condition")
	malformedCheck(c, "(anaphoric-prog1)", "anaphoric-prog1: malformed form.*")
	malformedCheck(c, "(anaphoric-prog2 a)", "anaphoric-prog2: malformed form.*")
	malformedCheck(c, "(anaphoric-while)", "anaphoric-while: malformed form.*missing test")
	malformedCheck(c, "(anaphoric-cond x)", "anaphoric-cond: malformed form.*bad clause x")
	malformedCheck(c, "(anaphoric-cond (a) ())", "anaphoric-cond: malformed form.*bad clause \\(\\)")
	malformedCheck(c, "(anaphoric-lambda (n))", "anaphoric-lambda: malformed form.*")
	malformedCheck(c, "(anaphoric-lambda (1) x)", "anaphoric-lambda: malformed form.*bad parameter list \\(1\\)")
	malformedCheck(c, "(anaphoric-block 5 x)", "anaphoric-block: malformed form.*block name 5 is not a symbol")
	malformedCheck(c, "(anaphoric-case)", "anaphoric-case: malformed form.*missing dispatch expression")
	malformedCheck(c, "(anaphoric-case x (t 1) (a 2))", "anaphoric-case: malformed form.*must be last")
	malformedCheck(c, "(anaphoric-ecase x (otherwise 1))", "anaphoric-ecase: malformed form.*not allowed")
	malformedCheck(c, "(anaphoric-typecase x (widget 1))", "anaphoric-typecase: malformed form.*unknown type widget")
	malformedCheck(c, "(anaphoric-typecase x (() 1))", "anaphoric-typecase: malformed form.*bad type \\(\\)")
	malformedCheck(c, "(anaphoric-let x)", "anaphoric-let: malformed form.*not a list")
	malformedCheck(c, "(anaphoric-let ((1 2)) x)", "anaphoric-let: malformed form.*bad binding \\(1 2\\)")
	malformedCheck(c, "(anaphoric-setq x)", "anaphoric-setq: malformed form.*odd number of operands")
	malformedCheck(c, "(anaphoric-setq 1 2)", "anaphoric-setq: malformed form.*1 is not a variable")
	malformedCheck(c, "(a/ 1)", "a/: malformed form.*got 1 operands")
}

func (s *ExpanderSuite) Test_registry(c *C) {
	names := Names()
	c.Assert(names, HasLen, 19)
	c.Check(names[0], Equals, "a*")
	for _, name := range names {
		_, ok := Lookup(name)
		c.Check(ok, Equals, true, Commentf("%s", name))
	}
	_, ok := Lookup("aif")
	c.Check(ok, Equals, false)
	c.Check(IsOperator(readForm(c, "(anaphoric-if a b)")), Equals, true)
	c.Check(IsOperator(readForm(c, "(if a b)")), Equals, false)
}
