package lisp

import (
	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// number of local slots a program can address
const localSlots = 256

// Result is what a program hands back when it returns.
// HasValue is false for RETURN_VOID.
type Result struct {
	Value    int32
	HasValue bool
}

// Exec runs an opcode payload on a fresh stack frame. locals seeds the
// first slots, the rest start at zero. Arithmetic is 32 bit and wraps,
// like the JVM integer operations these opcodes mirror.
func Exec(code []byte, locals ...int32) (Result, error) {
	instructions, err := Decode(code)
	if err != nil {
		return Result{}, err
	}
	if len(locals) > localSlots {
		return Result{}, lisptype.RangeError.New("%d locals passed, at most %d slots exist", len(locals), localSlots)
	}

	frame := lisptype.NewStackFrame(localSlots)
	copy(frame.Locals, locals)

	// pops n operands, bottom first
	pop := func(ins lisptype.Instruction, n int) ([]int32, error) {
		values := make([]int32, n)
		for i := n - 1; i >= 0; i-- {
			v, ok := frame.Pop()
			if !ok {
				return nil, lisptype.RangeError.New("stack underflow in %v at offset %d", ins.Class, ins.Offset).
					WithProperty(lisptype.PropertyOffset, ins.Offset)
			}
			values[i] = v
		}
		return values, nil
	}

	for frame.IP < len(instructions) {
		instruction := instructions[frame.IP]
		frame.IP++

		pops, _ := instruction.Class.StackEffect()
		operands, err := pop(instruction, pops)
		if err != nil {
			return Result{}, err
		}

		switch instruction.Class {
		case lisptype.Nop:
		case lisptype.Push0, lisptype.Push1, lisptype.Push2, lisptype.Push3, lisptype.Push4, lisptype.Push5,
			lisptype.PushByte, lisptype.PushShort:
			v, _ := instruction.Pushed()
			frame.Push(v)
		case lisptype.Load:
			frame.Push(frame.Locals[instruction.Operand])
		case lisptype.Store:
			frame.Locals[instruction.Operand] = operands[0]
		case lisptype.Add:
			frame.Push(operands[0] + operands[1])
		case lisptype.Sub:
			frame.Push(operands[0] - operands[1])
		case lisptype.Mul:
			frame.Push(operands[0] * operands[1])
		case lisptype.Div:
			if operands[1] == 0 {
				return Result{}, lisptype.DivisionByZero.New("division of %d by zero at offset %d", operands[0], instruction.Offset).
					WithProperty(lisptype.PropertyOffset, instruction.Offset).
					WithProperty(lisptype.PropertyValue, operands[0])
			}
			frame.Push(operands[0] / operands[1])
		case lisptype.ReturnValue:
			return Result{Value: operands[0], HasValue: true}, nil
		case lisptype.ReturnVoid:
			return Result{}, nil
		}
	}

	return Result{}, lisptype.RangeError.New("program ended without a return")
}
