package lisp

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	lisptype "github.com/ian-bird/flisp/lisp_type"
)

// Emitter builds a stack-machine program one opcode at a time.
// The stream is append-only: there are no labels or jumps, so the
// stack depth at every point follows from the tags alone.
type Emitter struct {
	bytecode []byte
}

func NewEmitter() *Emitter {
	return &Emitter{bytecode: make([]byte, 0, 64)}
}

func (e *Emitter) emit(class lisptype.InstructionClass, operands ...byte) {
	e.bytecode = append(e.bytecode, byte(class))
	e.bytecode = append(e.bytecode, operands...)
}

func (e *Emitter) EmitNop()         { e.emit(lisptype.Nop) }
func (e *Emitter) EmitAdd()         { e.emit(lisptype.Add) }
func (e *Emitter) EmitSub()         { e.emit(lisptype.Sub) }
func (e *Emitter) EmitMul()         { e.emit(lisptype.Mul) }
func (e *Emitter) EmitDiv()         { e.emit(lisptype.Div) }
func (e *Emitter) EmitReturnValue() { e.emit(lisptype.ReturnValue) }
func (e *Emitter) EmitReturnVoid()  { e.emit(lisptype.ReturnVoid) }

// EmitPushInteger pushes value using the shortest encoding that holds it:
// a dedicated tag for 0 to 5, one operand byte up to int8, two up to int16.
// Anything wider is a RangeError, the value is never truncated.
func (e *Emitter) EmitPushInteger(value int64) error {
	switch {
	case value >= 0 && value <= 5:
		e.emit(lisptype.Push0 + lisptype.InstructionClass(value))
	case value >= math.MinInt8 && value <= math.MaxInt8:
		e.emit(lisptype.PushByte, byte(int8(value)))
	case value >= math.MinInt16 && value <= math.MaxInt16:
		var operand [2]byte
		binary.BigEndian.PutUint16(operand[:], uint16(int16(value)))
		e.emit(lisptype.PushShort, operand[:]...)
	default:
		return lisptype.RangeError.New("value %d out of range for an integer push", value).
			WithProperty(lisptype.PropertyValue, value)
	}
	return nil
}

func (e *Emitter) EmitLoad(slot int) error {
	if err := checkSlot("load", slot); err != nil {
		return err
	}
	e.emit(lisptype.Load, byte(slot))
	return nil
}

func (e *Emitter) EmitStore(slot int) error {
	if err := checkSlot("store", slot); err != nil {
		return err
	}
	e.emit(lisptype.Store, byte(slot))
	return nil
}

// slots are addressed by a single unsigned byte
func checkSlot(op string, slot int) error {
	if slot < 0 || slot > math.MaxUint8 {
		return lisptype.RangeError.New("%s slot %d out of range", op, slot).
			WithProperty(lisptype.PropertyName, op).
			WithProperty(lisptype.PropertyValue, slot)
	}
	return nil
}

// Bytes returns a copy of the emitted program.
func (e *Emitter) Bytes() []byte {
	out := make([]byte, len(e.bytecode))
	copy(out, e.bytecode)
	return out
}

func (e *Emitter) Len() int { return len(e.bytecode) }

// Trace renders the program as a listing, one instruction per line:
// offset, raw bytes, then the mnemonic and operand.
func (e *Emitter) Trace() string {
	return Disassemble(e.bytecode)
}

// Disassemble renders any opcode payload the way Trace does.
// Bytes that fail to decode are reported on a final line.
func Disassemble(code []byte) string {
	var b strings.Builder
	instructions, err := Decode(code)
	for _, ins := range instructions {
		width := 1 + ins.Class.Operand().Width()
		raw := make([]string, 0, width)
		for _, c := range code[ins.Offset : ins.Offset+width] {
			raw = append(raw, fmt.Sprintf("%02X", c))
		}
		fmt.Fprintf(&b, "%04d  %-9s %v\n", ins.Offset, strings.Join(raw, " "), ins)
	}
	if err != nil {
		fmt.Fprintf(&b, "error: %v\n", err)
	}
	return b.String()
}

// Decode splits an opcode payload back into instructions. Unknown tags
// and operands cut short by the end of the payload are RangeErrors; the
// instructions decoded before the bad byte are still returned.
func Decode(code []byte) ([]lisptype.Instruction, error) {
	instructions := make([]lisptype.Instruction, 0, len(code))
	for pc := 0; pc < len(code); {
		class := lisptype.InstructionClass(code[pc])
		if !class.Valid() {
			return instructions, lisptype.RangeError.New("unknown opcode 0x%02X at offset %d", code[pc], pc).
				WithProperty(lisptype.PropertyOffset, pc).
				WithProperty(lisptype.PropertyValue, code[pc])
		}
		operandClass := class.Operand()
		if pc+1+operandClass.Width() > len(code) {
			return instructions, lisptype.RangeError.New("truncated %v operand at offset %d", class, pc).
				WithProperty(lisptype.PropertyOffset, pc)
		}

		ins := lisptype.Instruction{Offset: pc, Class: class}
		switch operandClass {
		case lisptype.ByteOperand:
			ins.Operand = int32(int8(code[pc+1]))
		case lisptype.ShortOperand:
			ins.Operand = int32(int16(binary.BigEndian.Uint16(code[pc+1:])))
		case lisptype.SlotOperand:
			ins.Operand = int32(code[pc+1])
		}
		instructions = append(instructions, ins)
		pc += 1 + operandClass.Width()
	}
	return instructions, nil
}
