package lisp

import (
	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// translates arithmetic trees into emitter calls.
// slots maps each def'd name to the local slot holding it.
type assembler struct {
	emitter *Emitter
	slots   map[string]int
}

// Compile translates one expression of the arithmetic subset into a
// stack-machine program that returns its value, or returns nothing when
// the expression is a def.
//
// The subset is integer literals, the four operators with the same fold
// rules the evaluator uses, and symbols bound by an earlier def.
func Compile(expr lisptype.Expr) (*Emitter, error) {
	return newAssembler().program([]lisptype.Expr{expr})
}

// CompileProgram compiles a program root as returned by Read. Every
// top-level form but the last must be a def, which stores into a fresh
// local slot; the last form's value is returned, or nothing is returned
// when the last form is itself a def.
func CompileProgram(root lisptype.Expr) (*Emitter, error) {
	if root.Type != lisptype.ListExpr {
		return Compile(root)
	}
	return newAssembler().program(root.Children)
}

func newAssembler() *assembler {
	return &assembler{
		emitter: NewEmitter(),
		slots:   make(map[string]int),
	}
}

func (a *assembler) program(forms []lisptype.Expr) (*Emitter, error) {
	if len(forms) == 0 {
		a.emitter.EmitReturnVoid()
		return a.emitter, nil
	}

	for i, form := range forms {
		last := i == len(forms)-1
		if head, _ := form.Head(); head == "def" {
			if err := a.def(form.Children[1:]); err != nil {
				return nil, err
			}
			if last {
				a.emitter.EmitReturnVoid()
			}
			continue
		}
		if !last {
			return nil, lisptype.TypeMismatch.New("only def forms can precede the result, got %s", PrintExpr(form)).
				WithProperty(lisptype.PropertyValue, PrintExpr(form))
		}
		if err := a.expression(form); err != nil {
			return nil, err
		}
		a.emitter.EmitReturnValue()
	}
	return a.emitter, nil
}

// (def name expr) evaluates expr onto the stack and stores it.
// Redefining a name reuses its slot.
func (a *assembler) def(arguments []lisptype.Expr) error {
	name, err := bindingName("def", arguments)
	if err != nil {
		return err
	}
	if err := a.expression(arguments[1]); err != nil {
		return err
	}
	slot, ok := a.slots[name]
	if !ok {
		slot = len(a.slots)
	}
	if err := a.emitter.EmitStore(slot); err != nil {
		return err
	}
	a.slots[name] = slot
	return nil
}

// leaves the value of e on top of the stack
func (a *assembler) expression(e lisptype.Expr) error {
	switch e.Type {
	case lisptype.IntegerExpr:
		return a.emitter.EmitPushInteger(e.IntValue())
	case lisptype.SymbolExpr:
		slot, ok := a.slots[e.Name()]
		if !ok {
			return lisptype.NewUnbound(e.Name())
		}
		return a.emitter.EmitLoad(slot)
	case lisptype.ListExpr:
		return a.operation(e)
	}
	return lisptype.TypeMismatch.New("cannot compile %v literal %s", e.Type, PrintExpr(e)).
		WithProperty(lisptype.PropertyValue, PrintExpr(e))
}

func (a *assembler) operation(e lisptype.Expr) error {
	if len(e.Children) == 0 {
		return lisptype.TypeMismatch.New("cannot compile an empty list")
	}
	op, _ := e.Head()
	arguments := e.Children[1:]

	var emitOp func()
	switch op {
	case "+":
		emitOp = a.emitter.EmitAdd
	case "-":
		emitOp = a.emitter.EmitSub
	case "*":
		emitOp = a.emitter.EmitMul
	case "/":
		emitOp = a.emitter.EmitDiv
	default:
		return lisptype.TypeMismatch.New("cannot compile %s", PrintExpr(e)).
			WithProperty(lisptype.PropertyName, op).
			WithProperty(lisptype.PropertyValue, PrintExpr(e))
	}

	switch {
	case len(arguments) == 0 && op == "+":
		return a.emitter.EmitPushInteger(0)
	case len(arguments) == 0 && op == "*":
		return a.emitter.EmitPushInteger(1)
	case len(arguments) == 0:
		return lisptype.NewArity(op, 1, 0)
	case len(arguments) == 1 && op == "-":
		// negation is 0 - x
		if err := a.emitter.EmitPushInteger(0); err != nil {
			return err
		}
		if err := a.expression(arguments[0]); err != nil {
			return err
		}
		a.emitter.EmitSub()
		return nil
	}

	if err := a.expression(arguments[0]); err != nil {
		return err
	}
	for _, arg := range arguments[1:] {
		if err := a.expression(arg); err != nil {
			return err
		}
		emitOp()
	}
	return nil
}
