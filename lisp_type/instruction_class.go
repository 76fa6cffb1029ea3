package lisptype

import "fmt"

// the opcode tag of an instruction. The numeric values are the
// on-disk bytes and match the JVM encodings for the same operations,
// so they must never be renumbered.
type InstructionClass uint8

const (
	Nop         InstructionClass = 0x00
	Push0       InstructionClass = 0x03
	Push1       InstructionClass = 0x04
	Push2       InstructionClass = 0x05
	Push3       InstructionClass = 0x06
	Push4       InstructionClass = 0x07
	Push5       InstructionClass = 0x08
	PushByte    InstructionClass = 0x10 // followed by one signed byte
	PushShort   InstructionClass = 0x11 // followed by a big-endian int16
	Load        InstructionClass = 0x15 // followed by an unsigned slot byte
	Store       InstructionClass = 0x36 // followed by an unsigned slot byte
	Add         InstructionClass = 0x60
	Sub         InstructionClass = 0x64
	Mul         InstructionClass = 0x68
	Div         InstructionClass = 0x6C
	ReturnValue InstructionClass = 0xAC
	ReturnVoid  InstructionClass = 0xB1
)

type classInfo struct {
	mnemonic string
	operand  InstructionValueClass
	pops     int
	pushes   int
}

var classes = map[InstructionClass]classInfo{
	Nop:         {"NOP", NoOperand, 0, 0},
	Push0:       {"PUSH_0", NoOperand, 0, 1},
	Push1:       {"PUSH_1", NoOperand, 0, 1},
	Push2:       {"PUSH_2", NoOperand, 0, 1},
	Push3:       {"PUSH_3", NoOperand, 0, 1},
	Push4:       {"PUSH_4", NoOperand, 0, 1},
	Push5:       {"PUSH_5", NoOperand, 0, 1},
	PushByte:    {"PUSH_BYTE", ByteOperand, 0, 1},
	PushShort:   {"PUSH_SHORT", ShortOperand, 0, 1},
	Load:        {"LOAD", SlotOperand, 0, 1},
	Store:       {"STORE", SlotOperand, 1, 0},
	Add:         {"ADD", NoOperand, 2, 1},
	Sub:         {"SUB", NoOperand, 2, 1},
	Mul:         {"MUL", NoOperand, 2, 1},
	Div:         {"DIV", NoOperand, 2, 1},
	ReturnValue: {"RETURN_VALUE", NoOperand, 1, 0},
	ReturnVoid:  {"RETURN_VOID", NoOperand, 0, 0},
}

// Valid reports whether b is a tag the emitter can produce.
func (c InstructionClass) Valid() bool {
	_, ok := classes[c]
	return ok
}

func (c InstructionClass) String() string {
	if info, ok := classes[c]; ok {
		return info.mnemonic
	}
	return fmt.Sprintf("UNKNOWN_%02X", uint8(c))
}

// Operand tells how many inline bytes follow the tag and how to read them.
func (c InstructionClass) Operand() InstructionValueClass {
	return classes[c].operand
}

// StackEffect is the number of operands consumed and produced.
func (c InstructionClass) StackEffect() (pops, pushes int) {
	info := classes[c]
	return info.pops, info.pushes
}

// an instruction is a decoded opcode together with its inline operand.
// Operand is zero for classes that carry none.
type Instruction struct {
	Offset  int              // byte position of the tag in the program
	Class   InstructionClass // what to do
	Operand int32            // immediate or slot number
}

func (i Instruction) String() string {
	if i.Class.Operand() == NoOperand {
		return i.Class.String()
	}
	return fmt.Sprintf("%v %d", i.Class, i.Operand)
}

// Pushed returns the constant a push instruction places on the stack.
func (i Instruction) Pushed() (int32, bool) {
	switch {
	case i.Class >= Push0 && i.Class <= Push5:
		return int32(i.Class - Push0), true
	case i.Class == PushByte || i.Class == PushShort:
		return i.Operand, true
	}
	return 0, false
}
