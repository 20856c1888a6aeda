// Package vm executes Nilan bytecode: a stack-based virtual machine with a
// fixed operand stack, a fixed call-frame stack, and a flat globals array.
package vm

import (
	"nilan/code"
	"nilan/compiler"
	"nilan/object"
)

// GlobalsSize bounds how many distinct top-level let-bindings (across a
// whole REPL session, not just one program) the VM can address.
const GlobalsSize = 65536

// MaxFrames bounds call depth, catching runaway or accidental infinite
// recursion before the Go process itself runs out of stack.
const MaxFrames = 1024

// VM is the runtime environment where compiled Nilan bytecode executes.
// Across REPL turns, globals are carried forward by building a new VM with
// NewWithGlobalsStore.
type VM struct {
	constants []object.Object
	stack     Stack
	globals   []object.Object

	frames      [MaxFrames]*Frame
	framesIndex int
}

// New creates a VM ready to run bytecode, with an empty globals store.
func New(bytecode *compiler.Bytecode) *VM {
	mainFn := &object.CompiledFunction{Instructions: bytecode.Instructions}
	mainClosure := &object.Closure{Fn: mainFn}
	mainFrame := NewFrame(mainClosure, 0)

	vm := &VM{
		constants: bytecode.Constants,
		globals:   make([]object.Object, GlobalsSize),
	}
	vm.frames[0] = mainFrame
	vm.framesIndex = 1
	return vm
}

// NewWithGlobalsStore creates a VM that continues executing against an
// already-populated globals store, the shape a REPL needs so each line's
// let-bindings stay visible to the next line.
func NewWithGlobalsStore(bytecode *compiler.Bytecode, globals []object.Object) *VM {
	vm := New(bytecode)
	vm.globals = globals
	return vm
}

// LastPoppedStackElement returns the value most recently popped off the
// operand stack — the result of the program's final expression statement,
// which the compiler always emits a trailing OpPop for.
func (vm *VM) LastPoppedStackElement() object.Object {
	return vm.stack.Top()
}

func (vm *VM) currentFrame() *Frame {
	return vm.frames[vm.framesIndex-1]
}

func (vm *VM) pushFrame(f *Frame) error {
	if vm.framesIndex >= MaxFrames {
		return newRuntimeErrorf("call stack exceeded max depth %d", MaxFrames)
	}
	vm.frames[vm.framesIndex] = f
	vm.framesIndex++
	return nil
}

func (vm *VM) popFrame() *Frame {
	vm.framesIndex--
	return vm.frames[vm.framesIndex]
}

// Run executes the VM's bytecode from the main frame until it returns,
// fetching and decoding one instruction at a time and mutating the
// operand stack, globals, and frame stack accordingly.
func (vm *VM) Run() error {
	for vm.currentFrame().ip < len(vm.currentFrame().Instructions())-1 {
		vm.currentFrame().ip++

		ip := vm.currentFrame().ip
		ins := vm.currentFrame().Instructions()
		op := code.Opcode(ins[ip])

		switch op {
		case code.OpConstant:
			constIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			if err := vm.push(vm.constants[constIndex]); err != nil {
				return err
			}

		case code.OpAdd, code.OpSub, code.OpMul, code.OpDiv:
			if err := vm.executeBinaryOperation(op); err != nil {
				return err
			}

		case code.OpPop:
			vm.stack.Pop()

		case code.OpTrue:
			if err := vm.push(object.TRUE); err != nil {
				return err
			}

		case code.OpFalse:
			if err := vm.push(object.FALSE); err != nil {
				return err
			}

		case code.OpNull:
			if err := vm.push(object.NULL); err != nil {
				return err
			}

		case code.OpEqual, code.OpNotEqual, code.OpGreaterThan:
			if err := vm.executeComparison(op); err != nil {
				return err
			}

		case code.OpBang:
			if err := vm.executeBangOperator(); err != nil {
				return err
			}

		case code.OpMinus:
			if err := vm.executeMinusOperator(); err != nil {
				return err
			}

		case code.OpJump:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip = pos - 1

		case code.OpJumpNotTruthy:
			pos := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2

			condition, _ := vm.stack.Pop()
			if !isTruthy(condition) {
				vm.currentFrame().ip = pos - 1
			}

		case code.OpSetGlobal:
			globalIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			value, _ := vm.stack.Pop()
			vm.globals[globalIndex] = value

		case code.OpGetGlobal:
			globalIndex := code.ReadUint16(ins[ip+1:])
			vm.currentFrame().ip += 2
			if err := vm.push(vm.globals[globalIndex]); err != nil {
				return err
			}

		case code.OpSetLocal:
			localIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			frame := vm.currentFrame()
			value, _ := vm.stack.Pop()
			vm.stack.slots[frame.basePointer+int(localIndex)] = value

		case code.OpGetLocal:
			localIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			frame := vm.currentFrame()
			if err := vm.push(vm.stack.slots[frame.basePointer+int(localIndex)]); err != nil {
				return err
			}

		case code.OpGetBuiltin:
			builtinIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			builtin := object.Builtins[builtinIndex]
			if err := vm.push(builtin); err != nil {
				return err
			}

		case code.OpArray:
			numElements := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2

			array := vm.buildArray(vm.stack.sp-numElements, vm.stack.sp)
			vm.stack.sp -= numElements
			if err := vm.push(array); err != nil {
				return err
			}

		case code.OpHash:
			numElements := int(code.ReadUint16(ins[ip+1:]))
			vm.currentFrame().ip += 2

			hash, err := vm.buildHash(vm.stack.sp-numElements, vm.stack.sp)
			if err != nil {
				return err
			}
			vm.stack.sp -= numElements
			if err := vm.push(hash); err != nil {
				return err
			}

		case code.OpIndex:
			index, _ := vm.stack.Pop()
			left, _ := vm.stack.Pop()
			if err := vm.executeIndexExpression(left, index); err != nil {
				return err
			}

		case code.OpCall:
			numArgs := int(code.ReadUint8(ins[ip+1:]))
			vm.currentFrame().ip += 1
			if err := vm.executeCall(numArgs); err != nil {
				return err
			}

		case code.OpReturnValue:
			returnValue, _ := vm.stack.Pop()

			frame := vm.popFrame()
			vm.stack.sp = frame.basePointer - 1

			if err := vm.push(returnValue); err != nil {
				return err
			}

		case code.OpReturn:
			frame := vm.popFrame()
			vm.stack.sp = frame.basePointer - 1

			if err := vm.push(object.NULL); err != nil {
				return err
			}

		case code.OpClosure:
			constIndex := code.ReadUint16(ins[ip+1:])
			numFree := int(code.ReadUint8(ins[ip+3:]))
			vm.currentFrame().ip += 3
			if err := vm.pushClosure(int(constIndex), numFree); err != nil {
				return err
			}

		case code.OpGetFree:
			freeIndex := code.ReadUint8(ins[ip+1:])
			vm.currentFrame().ip += 1
			currentClosure := vm.currentFrame().closure
			if err := vm.push(currentClosure.Free[freeIndex]); err != nil {
				return err
			}

		case code.OpCurrentClosure:
			currentClosure := vm.currentFrame().closure
			if err := vm.push(currentClosure); err != nil {
				return err
			}

		default:
			return newRuntimeErrorf("unknown opcode %d at ip %d", op, ip)
		}
	}
	return nil
}

func (vm *VM) push(obj object.Object) error {
	return vm.stack.Push(obj)
}

func (vm *VM) executeBinaryOperation(op code.Opcode) error {
	right, _ := vm.stack.Pop()
	left, _ := vm.stack.Pop()

	leftInt, leftIsInt := left.(*object.Integer)
	rightInt, rightIsInt := right.(*object.Integer)

	switch {
	case leftIsInt && rightIsInt:
		return vm.executeBinaryIntegerOperation(op, leftInt, rightInt)
	case left.Type() == object.StringObj && right.Type() == object.StringObj:
		return vm.executeBinaryStringOperation(op, left.(*object.String), right.(*object.String))
	default:
		return newRuntimeErrorf("unsupported types for binary operation: %s %s", left.Type(), right.Type())
	}
}

func (vm *VM) executeBinaryIntegerOperation(op code.Opcode, left, right *object.Integer) error {
	var result int64
	switch op {
	case code.OpAdd:
		result = left.Value + right.Value
	case code.OpSub:
		result = left.Value - right.Value
	case code.OpMul:
		result = left.Value * right.Value
	case code.OpDiv:
		if right.Value == 0 {
			return newRuntimeErrorf("division by zero")
		}
		result = left.Value / right.Value
	default:
		return newRuntimeErrorf("unknown integer operator: %d", op)
	}
	return vm.push(&object.Integer{Value: result})
}

func (vm *VM) executeBinaryStringOperation(op code.Opcode, left, right *object.String) error {
	if op != code.OpAdd {
		return newRuntimeErrorf("unknown string operator: %d", op)
	}
	return vm.push(&object.String{Value: left.Value + right.Value})
}

func (vm *VM) executeComparison(op code.Opcode) error {
	right, _ := vm.stack.Pop()
	left, _ := vm.stack.Pop()

	leftInt, leftIsInt := left.(*object.Integer)
	rightInt, rightIsInt := right.(*object.Integer)

	if leftIsInt && rightIsInt {
		return vm.executeIntegerComparison(op, leftInt, rightInt)
	}

	switch op {
	case code.OpEqual:
		return vm.push(nativeBoolToBooleanObject(object.Equal(left, right)))
	case code.OpNotEqual:
		return vm.push(nativeBoolToBooleanObject(!object.Equal(left, right)))
	default:
		return newRuntimeErrorf("unknown operator: %d (%s %s)", op, left.Type(), right.Type())
	}
}

func (vm *VM) executeIntegerComparison(op code.Opcode, left, right *object.Integer) error {
	switch op {
	case code.OpEqual:
		return vm.push(nativeBoolToBooleanObject(left.Value == right.Value))
	case code.OpNotEqual:
		return vm.push(nativeBoolToBooleanObject(left.Value != right.Value))
	case code.OpGreaterThan:
		return vm.push(nativeBoolToBooleanObject(left.Value > right.Value))
	default:
		return newRuntimeErrorf("unknown operator: %d", op)
	}
}

func (vm *VM) executeBangOperator() error {
	operand, _ := vm.stack.Pop()
	switch operand {
	case object.TRUE:
		return vm.push(object.FALSE)
	case object.FALSE:
		return vm.push(object.TRUE)
	case object.NULL:
		return vm.push(object.TRUE)
	default:
		return vm.push(object.FALSE)
	}
}

func (vm *VM) executeMinusOperator() error {
	operand, _ := vm.stack.Pop()
	intObj, ok := operand.(*object.Integer)
	if !ok {
		return newRuntimeErrorf("unsupported type for negation: %s", operand.Type())
	}
	return vm.push(&object.Integer{Value: -intObj.Value})
}

func (vm *VM) buildArray(startIndex, endIndex int) object.Object {
	elements := make([]object.Object, endIndex-startIndex)
	for i := startIndex; i < endIndex; i++ {
		elements[i-startIndex] = vm.stack.slots[i]
	}
	return &object.Array{Elements: elements}
}

func (vm *VM) buildHash(startIndex, endIndex int) (object.Object, error) {
	pairs := make(map[object.HashKey]object.HashPair)

	for i := startIndex; i < endIndex; i += 2 {
		key := vm.stack.slots[i]
		value := vm.stack.slots[i+1]

		hashable, ok := key.(object.Hashable)
		if !ok {
			return nil, newRuntimeErrorf("unusable as hash key: %s", key.Type())
		}
		pairs[hashable.HashKey()] = object.HashPair{Key: key, Value: value}
	}
	return &object.Hash{Pairs: pairs}, nil
}

func (vm *VM) executeIndexExpression(left, index object.Object) error {
	switch {
	case left.Type() == object.ArrayObj && index.Type() == object.IntegerObj:
		return vm.executeArrayIndex(left.(*object.Array), index.(*object.Integer))
	case left.Type() == object.HashObj:
		return vm.executeHashIndex(left.(*object.Hash), index)
	default:
		return newRuntimeErrorf("index operator not supported: %s", left.Type())
	}
}

func (vm *VM) executeArrayIndex(array *object.Array, index *object.Integer) error {
	max := int64(len(array.Elements) - 1)
	if index.Value < 0 || index.Value > max {
		return vm.push(object.NULL)
	}
	return vm.push(array.Elements[index.Value])
}

func (vm *VM) executeHashIndex(hash *object.Hash, index object.Object) error {
	key, ok := index.(object.Hashable)
	if !ok {
		return newRuntimeErrorf("unusable as hash key: %s", index.Type())
	}
	pair, ok := hash.Pairs[key.HashKey()]
	if !ok {
		return vm.push(object.NULL)
	}
	return vm.push(pair.Value)
}

func (vm *VM) executeCall(numArgs int) error {
	calleeIndex := vm.stack.sp - 1 - numArgs
	if calleeIndex < 0 {
		return newRuntimeErrorf("call to empty stack")
	}
	callee := vm.stack.slots[calleeIndex]

	switch callee := callee.(type) {
	case *object.Closure:
		return vm.callClosure(callee, numArgs)
	case *object.Builtin:
		return vm.callBuiltin(callee, numArgs)
	default:
		return newRuntimeErrorf("calling non-function and non-builtin: %s", callee.Type())
	}
}

func (vm *VM) callClosure(closure *object.Closure, numArgs int) error {
	if numArgs != closure.Fn.NumParameters {
		return newRuntimeErrorf("wrong number of arguments: want=%d, got=%d", closure.Fn.NumParameters, numArgs)
	}

	frame := NewFrame(closure, vm.stack.sp-numArgs)
	if err := vm.pushFrame(frame); err != nil {
		return err
	}
	vm.stack.sp = frame.basePointer + closure.Fn.NumLocals
	return nil
}

func (vm *VM) callBuiltin(builtin *object.Builtin, numArgs int) error {
	args := make([]object.Object, numArgs)
	copy(args, vm.stack.slots[vm.stack.sp-numArgs:vm.stack.sp])

	result, err := builtin.Fn(args...)
	vm.stack.sp = vm.stack.sp - numArgs - 1

	if err != nil {
		return newRuntimeErrorf("%s", err)
	}
	if result == nil {
		return vm.push(object.NULL)
	}
	return vm.push(result)
}

func (vm *VM) pushClosure(constIndex, numFree int) error {
	constant := vm.constants[constIndex]
	fn, ok := constant.(*object.CompiledFunction)
	if !ok {
		return newRuntimeErrorf("not a function: %+v", constant)
	}

	free := make([]object.Object, numFree)
	for i := 0; i < numFree; i++ {
		free[i] = vm.stack.slots[vm.stack.sp-numFree+i]
	}
	vm.stack.sp = vm.stack.sp - numFree

	return vm.push(&object.Closure{Fn: fn, Free: free})
}

func isTruthy(obj object.Object) bool {
	switch obj := obj.(type) {
	case *object.Boolean:
		return obj.Value
	case *object.Null:
		return false
	default:
		return true
	}
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return object.TRUE
	}
	return object.FALSE
}
