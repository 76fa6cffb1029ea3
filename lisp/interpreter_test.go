package lisp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joomcode/errorx"

	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// reads src and evaluates it as a program in a fresh top level frame
func evalSource(t *testing.T, src string) (lisptype.Value, *lisptype.Frame, string, error) {
	t.Helper()
	program, err := Read(src)
	if err != nil {
		t.Fatalf("read %q: %v", src, err)
	}
	var debug bytes.Buffer
	frame := NewTopLevelFrame()
	v, err := NewInterpreter(&debug).EvalProgram(program, frame)
	return v, frame, debug.String(), err
}

func mustEval(t *testing.T, src string) lisptype.Value {
	t.Helper()
	v, _, _, err := evalSource(t, src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

func mustFailWith(t *testing.T, src string, errType *errorx.Type) error {
	t.Helper()
	_, _, _, err := evalSource(t, src)
	if err == nil {
		t.Fatalf("eval %q: expected %v, got no error", src, errType)
	}
	if !errorx.IsOfType(err, errType) {
		t.Fatalf("eval %q: expected %v, got %v", src, errType, err)
	}
	return err
}

func Test_Eval_Arithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"(+)", "0"},
		{"(*)", "1"},
		{"(+ 1 2 3)", "6"},
		{"(* 2 3 4)", "24"},
		{"(- 5)", "-5"},
		{"(- 10 3 2)", "5"},
		{"(/ 5)", "5"},
		{"(/ 0)", "0"},
		{"(/ 7 2)", "3"},
		{"(/ -7 2)", "-3"},
		{"(+ 1 2.5)", "3.5"},
		{"(* 2.0 3)", "6.0"},
		{"(- 1.5)", "-1.5"},
		{"(/ 1 4.0)", "0.25"},
		{"(+ (* 2 3) (- 10 4))", "12"},
	}
	for _, c := range cases {
		if got := Print(mustEval(t, c.src)); got != c.want {
			t.Errorf("%s = %s, want %s", c.src, got, c.want)
		}
	}
}

func Test_Eval_ArithmeticErrors(t *testing.T) {
	err := mustFailWith(t, "(/ 10 2 0)", lisptype.DivisionByZero)
	if v, ok := errorx.ExtractProperty(err, lisptype.PropertyValue); !ok || v != lisptype.NewInt(5) {
		t.Fatalf("dividend property = %v, %v; want 5", v, ok)
	}
	mustFailWith(t, "(/ 1.0 0.0)", lisptype.DivisionByZero)
	mustFailWith(t, `(+ 1 "two")`, lisptype.TypeMismatch)
	mustFailWith(t, "(* #t 2)", lisptype.TypeMismatch)
	mustFailWith(t, "(-)", lisptype.ArityMismatch)
	mustFailWith(t, "(/)", lisptype.ArityMismatch)
}

func Test_Eval_Literals(t *testing.T) {
	cases := map[string]lisptype.Value{
		"42":      lisptype.NewInt(42),
		"-3":      lisptype.NewInt(-3),
		"2.5":     lisptype.NewFloat(2.5),
		"#t":      lisptype.NewBool(true),
		`"hello"`: lisptype.NewStr("hello"),
		"()":      lisptype.UnitValue(),
	}
	for src, want := range cases {
		if got := mustEval(t, src); !got.Equal(want) {
			t.Errorf("%s = %s, want %s", src, Print(got), Print(want))
		}
	}
}

func Test_Eval_DefAndSet(t *testing.T) {
	v, frame, _, err := evalSource(t, "(def x 1) (set x (+ x 41)) x")
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != 42 {
		t.Fatalf("x = %s, want 42", Print(v))
	}
	if got, _ := frame.Lookup("x"); got.Int() != 42 {
		t.Fatalf("global x = %s", Print(got))
	}

	if got := mustEval(t, "(def y 3)"); got.Int() != 3 {
		t.Fatalf("def yields %s, want 3", Print(got))
	}
	if got := mustEval(t, "(def x 1) (def x 2) x"); got.Int() != 2 {
		t.Fatalf("redefinition = %s, want 2", Print(got))
	}
}

func Test_Eval_SetBeforeDefIsUnbound(t *testing.T) {
	err := mustFailWith(t, "(set y 1)", lisptype.UnboundName)
	if name, _ := errorx.ExtractProperty(err, lisptype.PropertyName); name != "y" {
		t.Fatalf("name property = %v, want y", name)
	}
}

func Test_Eval_UndefinedSymbol(t *testing.T) {
	err := mustFailWith(t, "(+ 1 nope)", lisptype.UnboundName)
	if name, _ := errorx.ExtractProperty(err, lisptype.PropertyName); name != "nope" {
		t.Fatalf("name property = %v, want nope", name)
	}
}

func Test_Eval_MalformedForms(t *testing.T) {
	mustFailWith(t, "(def x)", lisptype.ArityMismatch)
	mustFailWith(t, "(def 1 2)", lisptype.TypeMismatch)
	mustFailWith(t, "(set x 1 2)", lisptype.ArityMismatch)
	mustFailWith(t, "(if #t)", lisptype.ArityMismatch)
	mustFailWith(t, "(if #t 1 2 3)", lisptype.ArityMismatch)
	mustFailWith(t, "(fun f)", lisptype.ArityMismatch)
	mustFailWith(t, "(fun f x x)", lisptype.TypeMismatch)
	mustFailWith(t, "(fun f (1) 1)", lisptype.TypeMismatch)
	mustFailWith(t, "(fun f (a a) a)", lisptype.TypeMismatch)
}

func Test_Eval_If(t *testing.T) {
	if v := mustEval(t, "(if #t 1 2)"); v.Int() != 1 {
		t.Fatalf("(if #t 1 2) = %s", Print(v))
	}
	if v := mustEval(t, "(if #f 1 2)"); v.Int() != 2 {
		t.Fatalf("(if #f 1 2) = %s", Print(v))
	}
	if v := mustEval(t, "(if #f 1)"); v.Type != lisptype.Unit {
		t.Fatalf("(if #f 1) = %s, want unit", Print(v))
	}
	mustFailWith(t, "(if 1 2 3)", lisptype.TypeMismatch)
}

func Test_Eval_IfSkipsUntakenBranch(t *testing.T) {
	_, _, debug, err := evalSource(t, "(if #t (debug 1) (debug 2)) (if #f (undefined-thing) 3)")
	if err != nil {
		t.Fatal(err)
	}
	if debug != "int: 1\n" {
		t.Fatalf("debug output = %q", debug)
	}
}

func Test_Eval_CallFramesDoNotLeak(t *testing.T) {
	v, frame, _, err := evalSource(t, "(def x 1) (fun f (x) (+ x 1)) (f 5)")
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != 6 {
		t.Fatalf("(f 5) = %s, want 6", Print(v))
	}
	if x, _ := frame.Lookup("x"); x.Int() != 1 {
		t.Fatalf("outer x = %s, want 1", Print(x))
	}
}

func Test_Eval_Arity(t *testing.T) {
	err := mustFailWith(t, "(fun f (a b) a) (f 1)", lisptype.ArityMismatch)
	expected, _ := errorx.ExtractProperty(err, lisptype.PropertyExpected)
	got, _ := errorx.ExtractProperty(err, lisptype.PropertyGot)
	name, _ := errorx.ExtractProperty(err, lisptype.PropertyName)
	if expected != 2 || got != 1 || name != "f" {
		t.Fatalf("properties = %v %v %v", name, expected, got)
	}
	mustFailWith(t, "(fun f () 1) (f 1)", lisptype.ArityMismatch)
}

// a host supplied predicate, the language itself has no comparisons
func withZeroPredicate(frame *lisptype.Frame) {
	frame.Define("zero?", NewBuiltin("zero?", 1, func(args []lisptype.Value) (lisptype.Value, error) {
		return lisptype.NewBool(args[0].Type == lisptype.Integer && args[0].Int() == 0), nil
	}))
}

func Test_Eval_Recursion(t *testing.T) {
	program, err := Read(`
		(fun fact (n) (if (zero? n) 1 (* n (fact (- n 1)))))
		; n is read after the recursive call returns
		(fun sum (n) (if (zero? n) 0 (+ (sum (- n 1)) n)))
		(+ (fact 10) (sum 100))`)
	if err != nil {
		t.Fatal(err)
	}
	frame := NewTopLevelFrame()
	withZeroPredicate(frame)
	v, err := NewInterpreter(nil).EvalProgram(program, frame)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(3628800 + 5050); v.Int() != want {
		t.Fatalf("got %s, want %d", Print(v), want)
	}
}

func Test_Eval_ClosuresCaptureDefiningFrame(t *testing.T) {
	src := `
		(def n 0)
		(fun bump () (set n (+ n 1)))
		(bump) (bump) (bump)
		n`
	if v := mustEval(t, src); v.Int() != 3 {
		t.Fatalf("n = %s, want 3", Print(v))
	}

	// the body sees bindings made after the closure was built
	if v := mustEval(t, "(fun g () later) (def later 7) (g)"); v.Int() != 7 {
		t.Fatalf("(g) = %s, want 7", Print(v))
	}

	// inner functions capture the call frame of the outer one
	src = `
		(fun adder (k) (fun add (x) (+ x k)))
		(def add5 (adder 5))
		(def add10 (adder 10))
		(+ (add5 1) (add10 1))`
	if v := mustEval(t, src); v.Int() != 17 {
		t.Fatalf("adders = %s, want 17", Print(v))
	}
}

func Test_Eval_FunYieldsCallable(t *testing.T) {
	v := mustEval(t, "(fun square (x) (* x x))")
	if v.Type != lisptype.Function || v.Callable().Name() != "square" {
		t.Fatalf("fun yields %s", Print(v))
	}
	if v := mustEval(t, "((fun (x) (* x x)) 4)"); v.Int() != 16 {
		t.Fatalf("anonymous call = %s, want 16", Print(v))
	}
	if v := mustEval(t, "(fun noop ()) (noop)"); v.Type != lisptype.Unit {
		t.Fatalf("empty body = %s, want unit", Print(v))
	}
	if v := mustEval(t, "(fun two () 1 2) (two)"); v.Int() != 2 {
		t.Fatalf("body yields %s, want last value 2", Print(v))
	}
}

func Test_Eval_ErrorsCrossingCallsKeepTheirType(t *testing.T) {
	err := mustFailWith(t, "(fun f (x) (/ x 0)) (f 1)", lisptype.DivisionByZero)
	if !strings.Contains(err.Error(), "in call to f") {
		t.Fatalf("error should name the callee: %v", err)
	}
}

func Test_Eval_NonFunctionHead(t *testing.T) {
	err := mustFailWith(t, "(def x 1) (x 2)", lisptype.TypeMismatch)
	if name, _ := errorx.ExtractProperty(err, lisptype.PropertyName); name != "x" {
		t.Fatalf("name property = %v", name)
	}
	if v := mustEval(t, "(1 2 3)"); v.Int() != 3 {
		t.Fatalf("sequence = %s, want 3", Print(v))
	}
}

func Test_Eval_TopLevelListIsASequence(t *testing.T) {
	root, err := ReadOne("((def a 2) (def b 3) (* a b))")
	if err != nil {
		t.Fatal(err)
	}
	v, err := NewInterpreter(nil).Eval(root, NewTopLevelFrame())
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != 6 {
		t.Fatalf("got %s, want 6", Print(v))
	}
}

func Test_Eval_ProgramStartingWithFunction(t *testing.T) {
	cases := map[string]int64{
		"(fun f (x) (+ x 1)) (f 5)":           6,
		"(fun f (x) (+ x 1)) (def x 1) (f 5)": 6,
		"(def g (fun (x) (* x 2))) (g 4)":     8,
	}
	for src, want := range cases {
		root, err := Read(src)
		if err != nil {
			t.Fatal(err)
		}
		v, err := Eval(root, NewTopLevelFrame())
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if v.Type != lisptype.Integer || v.Int() != want {
			t.Errorf("%s = %s, want %d", src, Print(v), want)
		}
	}
}

func Test_Eval_ErrorAbortsRemainingForms(t *testing.T) {
	_, frame, debug, err := evalSource(t, "(debug 1) (def a (/ 1 0)) (debug 2) (def b 1)")
	if !errorx.IsOfType(err, lisptype.DivisionByZero) {
		t.Fatalf("want DivisionByZero, got %v", err)
	}
	if debug != "int: 1\n" {
		t.Fatalf("forms after the error ran: %q", debug)
	}
	if frame.Bound("a") || frame.Bound("b") {
		t.Fatalf("bindings after the error were made")
	}
}

func Test_Eval_Debug(t *testing.T) {
	v, _, debug, err := evalSource(t, `(fun f () 1) (debug 1 2.5 2.0 #t "hi" f (if #f 1))`)
	if err != nil {
		t.Fatal(err)
	}
	want := "int: 1\nfloat: 2.5\nfloat: 2.0\nboolean: true\nstring: hi\nfunction: f\nunit: ()\n"
	if debug != want {
		t.Fatalf("debug output = %q, want %q", debug, want)
	}
	if v.Type != lisptype.Unit {
		t.Fatalf("debug yields %s, want unit", Print(v))
	}
}

func Test_Eval_DebugInsideArithmeticRunsInOrder(t *testing.T) {
	_, _, debug, err := evalSource(t, "(+ (debug 1) 2)")
	if !errorx.IsOfType(err, lisptype.TypeMismatch) {
		t.Fatalf("unit operand should be a type mismatch, got %v", err)
	}
	if debug != "int: 1\n" {
		t.Fatalf("debug output = %q", debug)
	}
}

func Test_Eval_SpecialFormsCannotBeShadowed(t *testing.T) {
	if v := mustEval(t, "(def if 1) (if #t 2 3)"); v.Int() != 2 {
		t.Fatalf("if was shadowed: %s", Print(v))
	}
}
