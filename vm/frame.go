package vm

import (
	"nilan/code"
	"nilan/object"
)

// Frame is one call's activation record: the closure being executed, the
// instruction pointer into that closure's bytecode, and the base pointer
// marking where this call's locals begin on the operand stack.
type Frame struct {
	closure     *object.Closure
	ip          int
	basePointer int
}

// NewFrame creates a Frame for invoking closure, with its locals starting
// at basePointer on the operand stack.
func NewFrame(closure *object.Closure, basePointer int) *Frame {
	return &Frame{closure: closure, ip: -1, basePointer: basePointer}
}

// Instructions returns the bytecode this frame is executing.
func (f *Frame) Instructions() code.Instructions {
	return f.closure.Fn.Instructions
}
