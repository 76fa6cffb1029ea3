package lisptype

// the stackframe contains all information
// regarding the working state of a program run by the vm
type StackFrame struct {
	Operands []int32 // the operand stack, top is the last element
	Locals   []int32 // slots addressed by LOAD and STORE
	IP       int     // index of the next instruction to run
}

func NewStackFrame(slots int) *StackFrame {
	return &StackFrame{
		Operands: make([]int32, 0, 16),
		Locals:   make([]int32, slots),
	}
}

func (s *StackFrame) Push(v int32) {
	s.Operands = append(s.Operands, v)
}

// Pop returns false when the stack is empty.
func (s *StackFrame) Pop() (int32, bool) {
	if len(s.Operands) == 0 {
		return 0, false
	}
	v := s.Operands[len(s.Operands)-1]
	s.Operands = s.Operands[:len(s.Operands)-1]
	return v, true
}
