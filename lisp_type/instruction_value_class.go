package lisptype

// describes the inline operand that follows an opcode tag
type InstructionValueClass int

const (
	NoOperand    InstructionValueClass = iota // tag only
	ByteOperand                               // one signed byte
	ShortOperand                              // two bytes, big-endian signed
	SlotOperand                               // one unsigned byte naming a local slot
)

// Width is the number of operand bytes after the tag.
func (c InstructionValueClass) Width() int {
	switch c {
	case ByteOperand, SlotOperand:
		return 1
	case ShortOperand:
		return 2
	}
	return 0
}
