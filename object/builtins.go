package object

import "fmt"

// Builtins is the stable, order-significant list of builtin functions.
// Its index IS the operand of OpGetBuiltin, so entries are only ever
// appended, never reordered or removed.
var Builtins = []*Builtin{
	{Name: "len", Fn: builtinLen},
	{Name: "first", Fn: builtinFirst},
	{Name: "last", Fn: builtinLast},
	{Name: "rest", Fn: builtinRest},
	{Name: "push", Fn: builtinPush},
	{Name: "puts", Fn: builtinPuts},
}

func builtinLen(args ...Object) (Object, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("wrong number of arguments to len: got=%d, want=1", len(args))
	}
	switch arg := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len(arg.Value))}, nil
	case *Array:
		return &Integer{Value: int64(len(arg.Elements))}, nil
	default:
		return nil, fmt.Errorf("argument to len not supported, got %s", arg.Type())
	}
}

func builtinFirst(args ...Object) (Object, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("wrong number of arguments to first: got=%d, want=1", len(args))
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("argument to first must be ARRAY, got %s", args[0].Type())
	}
	if len(arr.Elements) == 0 {
		return NULL, nil
	}
	return arr.Elements[0], nil
}

func builtinLast(args ...Object) (Object, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("wrong number of arguments to last: got=%d, want=1", len(args))
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("argument to last must be ARRAY, got %s", args[0].Type())
	}
	if len(arr.Elements) == 0 {
		return NULL, nil
	}
	return arr.Elements[len(arr.Elements)-1], nil
}

func builtinRest(args ...Object) (Object, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("wrong number of arguments to rest: got=%d, want=1", len(args))
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("argument to rest must be ARRAY, got %s", args[0].Type())
	}
	length := len(arr.Elements)
	if length == 0 {
		return NULL, nil
	}
	newElements := make([]Object, length-1)
	copy(newElements, arr.Elements[1:length])
	return &Array{Elements: newElements}, nil
}

func builtinPush(args ...Object) (Object, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("wrong number of arguments to push: got=%d, want=2", len(args))
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return nil, fmt.Errorf("argument to push must be ARRAY, got %s", args[0].Type())
	}
	length := len(arr.Elements)
	newElements := make([]Object, length+1)
	copy(newElements, arr.Elements)
	newElements[length] = args[1]
	return &Array{Elements: newElements}, nil
}

func builtinPuts(args ...Object) (Object, error) {
	for _, arg := range args {
		fmt.Println(arg.Inspect())
	}
	return NULL, nil
}
