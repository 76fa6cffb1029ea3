package lisp

import (
	"fmt"
	"io"
	"os"

	"github.com/joomcode/errorx"

	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// Interpreter walks expression trees. It holds no bindings itself,
// every evaluation runs against the frame chain the host passes in,
// so one interpreter can serve many independent chains.
type Interpreter struct {
	debug io.Writer // where debug forms print
}

// NewInterpreter returns an interpreter printing debug output to w.
// A nil writer means os.Stdout.
func NewInterpreter(w io.Writer) *Interpreter {
	if w == nil {
		w = os.Stdout
	}
	return &Interpreter{debug: w}
}

// evaluates a program root as returned by Read against frame,
// debug output goes to stdout
func Eval(root lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	return NewInterpreter(os.Stdout).EvalProgram(root, frame)
}

// EvalProgram evaluates each top-level form of a program read by Read,
// in order, and returns the value of the last one. The root is always a
// sequence, even when its first form yields a function. The first error
// aborts the remaining forms.
func (in *Interpreter) EvalProgram(program lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	if program.Type != lisptype.ListExpr {
		return in.Eval(program, frame)
	}
	result := lisptype.UnitValue()
	for _, form := range program.Children {
		var err error
		result, err = in.Eval(form, frame)
		if err != nil {
			return lisptype.UnitValue(), err
		}
	}
	return result, nil
}

// evaluates a single form and returns its result.
// a program root goes through EvalProgram instead.
func (in *Interpreter) Eval(toEvaluate lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	// how we evaluate is based on the type
	switch toEvaluate.Type {
	// literals are self-evaluating
	case lisptype.IntegerExpr:
		return lisptype.NewInt(toEvaluate.IntValue()), nil
	case lisptype.FloatExpr:
		return lisptype.NewFloat(toEvaluate.FloatValue()), nil
	case lisptype.BooleanExpr:
		return lisptype.NewBool(toEvaluate.BoolValue()), nil
	case lisptype.StringExpr:
		return lisptype.NewStr(toEvaluate.StrValue()), nil
	// symbols evaluate to their binding
	case lisptype.SymbolExpr:
		return frame.Lookup(toEvaluate.Name())
	// lists are special forms, calls or sequences
	case lisptype.ListExpr:
		return in.evalList(toEvaluate, frame)
	}
	panic(fmt.Sprintf("fell through default case on Eval: %v", toEvaluate.Type))
}

func (in *Interpreter) evalList(toEvaluate lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	listElements := toEvaluate.Children
	if len(listElements) == 0 {
		return lisptype.UnitValue(), nil
	}
	arguments := listElements[1:]

	// special forms are picked by name before anything is evaluated,
	// so an untaken if branch never runs
	if name, ok := toEvaluate.Head(); ok {
		switch name {
		case "def":
			return in.evalDef(arguments, frame)
		case "set":
			return in.evalSet(arguments, frame)
		case "if":
			return in.evalIf(arguments, frame)
		case "fun":
			return in.evalFun(arguments, frame)
		case "debug":
			return in.evalDebug(arguments, frame)
		}
	}

	firstThing, err := in.Eval(listElements[0], frame)
	if err != nil {
		return lisptype.UnitValue(), err
	}

	// the first thing determines how to evaluate the rest of the list
	if firstThing.Type == lisptype.Function {
		evaluatedArgs := make([]lisptype.Value, 0, len(arguments))
		for _, arg := range arguments {
			evaluatedArg, err := in.Eval(arg, frame)
			if err != nil {
				return lisptype.UnitValue(), err
			}
			evaluatedArgs = append(evaluatedArgs, evaluatedArg)
		}
		return apply(firstThing.Callable(), evaluatedArgs)
	}

	if listElements[0].Type == lisptype.SymbolExpr {
		name := listElements[0].Name()
		return lisptype.UnitValue(), lisptype.TypeMismatch.New("'%s' is a %s, not a function", name, firstThing.TypeName()).
			WithProperty(lisptype.PropertyName, name).
			WithProperty(lisptype.PropertyValue, firstThing)
	}

	// anything else is a sequence, evaluated for effect,
	// and yields its last value
	result := firstThing
	for _, e := range arguments {
		result, err = in.Eval(e, frame)
		if err != nil {
			return lisptype.UnitValue(), err
		}
	}
	return result, nil
}

// applies a callable to already evaluated arguments.
// errors coming out of the body are decorated with the callee name
// but keep their type and properties.
func apply(fn lisptype.Callable, args []lisptype.Value) (lisptype.Value, error) {
	if arity := fn.Arity(); arity >= 0 && arity != len(args) {
		return lisptype.UnitValue(), lisptype.NewArity(fn.Name(), arity, len(args))
	}
	result, err := fn.Call(args)
	if err != nil {
		return lisptype.UnitValue(), errorx.Decorate(err, "in call to %s", fn.Name())
	}
	return result, nil
}

// checks that a special form got the symbol it binds as its first operand
func bindingName(form string, arguments []lisptype.Expr) (string, error) {
	if len(arguments) != 2 {
		return "", lisptype.NewArity(form, 2, len(arguments))
	}
	if arguments[0].Type != lisptype.SymbolExpr {
		return "", lisptype.TypeMismatch.New("%s expected identifier, got %v", form, arguments[0].Type).
			WithProperty(lisptype.PropertyName, form)
	}
	return arguments[0].Name(), nil
}

// creates or shadows a binding in the current frame
func (in *Interpreter) evalDef(arguments []lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	name, err := bindingName("def", arguments)
	if err != nil {
		return lisptype.UnitValue(), err
	}
	toBind, err := in.Eval(arguments[1], frame)
	if err != nil {
		return lisptype.UnitValue(), err
	}
	frame.Define(name, toBind)
	return toBind, nil
}

// look up a binding and update its value
func (in *Interpreter) evalSet(arguments []lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	name, err := bindingName("set", arguments)
	if err != nil {
		return lisptype.UnitValue(), err
	}
	newValue, err := in.Eval(arguments[1], frame)
	if err != nil {
		return lisptype.UnitValue(), err
	}
	if err := frame.Set(name, newValue); err != nil {
		return lisptype.UnitValue(), err
	}
	return newValue, nil
}

// only the chosen branch is evaluated. A false condition with
// no else branch yields unit.
func (in *Interpreter) evalIf(arguments []lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	switch {
	case len(arguments) < 2:
		return lisptype.UnitValue(), lisptype.NewArity("if", 2, len(arguments))
	case len(arguments) > 3:
		return lisptype.UnitValue(), lisptype.NewArity("if", 3, len(arguments))
	}
	predicate, err := in.Eval(arguments[0], frame)
	if err != nil {
		return lisptype.UnitValue(), err
	}
	if predicate.Type != lisptype.Boolean {
		return lisptype.UnitValue(), lisptype.TypeMismatch.New("if expected boolean condition, got %s", predicate.TypeName()).
			WithProperty(lisptype.PropertyName, "if").
			WithProperty(lisptype.PropertyValue, predicate)
	}
	if predicate.Bool() {
		return in.Eval(arguments[1], frame)
	}
	if len(arguments) == 3 {
		return in.Eval(arguments[2], frame)
	}
	return lisptype.UnitValue(), nil
}

// builds a closure over the current frame. The named form also binds it
// in the current frame, which is what lets the body call itself.
func (in *Interpreter) evalFun(arguments []lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	name := "lambda"
	named := len(arguments) > 0 && arguments[0].Type == lisptype.SymbolExpr
	if named {
		name = arguments[0].Name()
		arguments = arguments[1:]
	}
	if len(arguments) == 0 {
		return lisptype.UnitValue(), lisptype.NewArity("fun", 2, 0)
	}
	if arguments[0].Type != lisptype.ListExpr {
		return lisptype.UnitValue(), lisptype.TypeMismatch.New("fun %s expected parameter list, got %v", name, arguments[0].Type).
			WithProperty(lisptype.PropertyName, name)
	}

	params := make([]string, 0, len(arguments[0].Children))
	seen := make(map[string]bool)
	for _, p := range arguments[0].Children {
		if p.Type != lisptype.SymbolExpr {
			return lisptype.UnitValue(), lisptype.TypeMismatch.New("fun %s: parameter must be a symbol, got %v", name, p.Type).
				WithProperty(lisptype.PropertyName, name)
		}
		if seen[p.Name()] {
			return lisptype.UnitValue(), lisptype.TypeMismatch.New("fun %s: duplicate parameter '%s'", name, p.Name()).
				WithProperty(lisptype.PropertyName, p.Name())
		}
		seen[p.Name()] = true
		params = append(params, p.Name())
	}

	fn := lisptype.NewFunction(&closure{
		name:   name,
		params: params,
		body:   arguments[1:],
		env:    frame,
		in:     in,
	})
	if named {
		frame.Define(name, fn)
	}
	return fn, nil
}

// prints each operand with its type tag, one per line
func (in *Interpreter) evalDebug(arguments []lisptype.Expr, frame *lisptype.Frame) (lisptype.Value, error) {
	for _, arg := range arguments {
		v, err := in.Eval(arg, frame)
		if err != nil {
			return lisptype.UnitValue(), err
		}
		if _, err := fmt.Fprintln(in.debug, DebugString(v)); err != nil {
			return lisptype.UnitValue(), lisptype.IOError.Wrap(err, "debug output")
		}
	}
	return lisptype.UnitValue(), nil
}

// a closure made by fun. env is the frame fun ran in, not a copy,
// so later definitions there are visible to the body.
type closure struct {
	name   string
	params []string
	body   []lisptype.Expr
	env    *lisptype.Frame
	in     *Interpreter
}

func (c *closure) Name() string { return c.name }
func (c *closure) Arity() int   { return len(c.params) }

// every call gets its own frame chained to the defining frame,
// so recursion never overwrites a caller's parameters.
// apply has already checked the argument count.
func (c *closure) Call(args []lisptype.Value) (lisptype.Value, error) {
	argFrame := lisptype.NewFrame(c.env)
	for i, param := range c.params {
		argFrame.Define(param, args[i])
	}

	// we only return the result of the last expression in the body
	result := lisptype.UnitValue()
	for _, toEvaluate := range c.body {
		var err error
		result, err = c.in.Eval(toEvaluate, argFrame)
		if err != nil {
			return lisptype.UnitValue(), err
		}
	}
	return result, nil
}
