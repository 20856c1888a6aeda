package compiler

import "fmt"

// CompileError reports a semantic failure caught at compile time — in this
// language, an undefined variable reference.
type CompileError struct {
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("💥 CompileError: %s", e.Message)
}
