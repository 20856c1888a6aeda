package interpreter

import "fmt"

// RuntimeError reports a failure raised while tree-walking: an undefined
// variable, a type mismatch, or a language feature the legacy evaluator
// predates (functions, arrays, hashes).
type RuntimeError struct {
	Message string
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("💥 Nilan Runtime error: %s", e.Message)
}
