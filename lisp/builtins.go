package lisp

import (
	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// a host provided function, the arithmetic operators are all builtins
type builtin struct {
	name  string
	arity int
	fn    func(args []lisptype.Value) (lisptype.Value, error)
}

func (b *builtin) Name() string { return b.name }
func (b *builtin) Arity() int   { return b.arity }

func (b *builtin) Call(args []lisptype.Value) (lisptype.Value, error) {
	return b.fn(args)
}

// NewBuiltin wraps fn as a callable a host can bind in a frame.
// arity -1 accepts any number of arguments.
func NewBuiltin(name string, arity int, fn func(args []lisptype.Value) (lisptype.Value, error)) lisptype.Value {
	return lisptype.NewFunction(&builtin{name: name, arity: arity, fn: fn})
}

// creates a new top level frame with the arithmetic operators bound
func NewTopLevelFrame() *lisptype.Frame {
	frame := lisptype.NewFrame(nil)
	for _, op := range []string{"+", "-", "*", "/"} {
		frame.Define(op, NewBuiltin(op, -1, func(args []lisptype.Value) (lisptype.Value, error) {
			return arithmetic(op, args)
		}))
	}
	return frame
}

// folds args with op. + and * start from their identity element,
// - and / start from the first operand. A lone operand to - is negated,
// a lone operand to / is returned as is.
func arithmetic(op string, args []lisptype.Value) (lisptype.Value, error) {
	for i, arg := range args {
		if !arg.IsNumeric() {
			return lisptype.UnitValue(), lisptype.TypeMismatch.New("cannot use %s value %s as argument %d of %s", arg.TypeName(), Print(arg), i+1, op).
				WithProperty(lisptype.PropertyName, op).
				WithProperty(lisptype.PropertyValue, arg)
		}
	}

	var lValue lisptype.Value
	rest := args
	switch op {
	case "+":
		lValue = lisptype.NewInt(0)
	case "*":
		lValue = lisptype.NewInt(1)
	case "-", "/":
		if len(args) == 0 {
			return lisptype.UnitValue(), lisptype.NewArity(op, 1, 0)
		}
		if len(args) == 1 && op == "-" {
			lValue = lisptype.NewInt(0)
		} else {
			lValue, rest = args[0], args[1:]
		}
	}

	for _, rValue := range rest {
		var err error
		lValue, err = combine(op, lValue, rValue)
		if err != nil {
			return lisptype.UnitValue(), err
		}
	}
	return lValue, nil
}

// applies one binary step. ints stay ints, a float on either side
// makes the result a float.
func combine(op string, l, r lisptype.Value) (lisptype.Value, error) {
	if op == "/" && isZero(r) {
		return lisptype.UnitValue(), lisptype.DivisionByZero.New("division of %s by zero", Print(l)).
			WithProperty(lisptype.PropertyName, op).
			WithProperty(lisptype.PropertyValue, l)
	}

	if l.Type == lisptype.Integer && r.Type == lisptype.Integer {
		a, b := l.Int(), r.Int()
		switch op {
		case "+":
			return lisptype.NewInt(a + b), nil
		case "-":
			return lisptype.NewInt(a - b), nil
		case "*":
			return lisptype.NewInt(a * b), nil
		default:
			return lisptype.NewInt(a / b), nil
		}
	}

	a, b := l.AsFloat(), r.AsFloat()
	switch op {
	case "+":
		return lisptype.NewFloat(a + b), nil
	case "-":
		return lisptype.NewFloat(a - b), nil
	case "*":
		return lisptype.NewFloat(a * b), nil
	default:
		return lisptype.NewFloat(a / b), nil
	}
}

func isZero(v lisptype.Value) bool {
	if v.Type == lisptype.Integer {
		return v.Int() == 0
	}
	return v.Float() == 0
}
