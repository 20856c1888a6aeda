package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefineGlobal(t *testing.T) {
	global := New()

	a := global.Define("a")
	assert.Equal(t, Symbol{Name: "a", Scope: GlobalScope, Index: 0}, a)

	b := global.Define("b")
	assert.Equal(t, Symbol{Name: "b", Scope: GlobalScope, Index: 1}, b)
}

func TestDefineLocal(t *testing.T) {
	global := New()
	global.Define("a")

	local := NewEnclosed(global)
	b := local.Define("b")
	assert.Equal(t, Symbol{Name: "b", Scope: LocalScope, Index: 0}, b)
}

func TestResolveGlobal(t *testing.T) {
	global := New()
	global.Define("a")
	global.Define("b")

	a, ok := global.Resolve("a")
	assert.True(t, ok)
	assert.Equal(t, Symbol{Name: "a", Scope: GlobalScope, Index: 0}, a)
}

func TestResolveLocal(t *testing.T) {
	global := New()
	global.Define("a")

	local := NewEnclosed(global)
	local.Define("b")

	a, ok := local.Resolve("a")
	assert.True(t, ok)
	assert.Equal(t, Symbol{Name: "a", Scope: GlobalScope, Index: 0}, a)

	b, ok := local.Resolve("b")
	assert.True(t, ok)
	assert.Equal(t, Symbol{Name: "b", Scope: LocalScope, Index: 0}, b)
}

func TestDefineBuiltin(t *testing.T) {
	global := New()
	global.DefineBuiltin(0, "len")

	sym, ok := global.Resolve("len")
	assert.True(t, ok)
	assert.Equal(t, Symbol{Name: "len", Scope: BuiltinScope, Index: 0}, sym)
}

func TestDefineFunctionSelf(t *testing.T) {
	global := New()
	local := NewEnclosed(global)
	local.DefineFunctionSelf("fib")

	sym, ok := local.Resolve("fib")
	assert.True(t, ok)
	assert.Equal(t, Symbol{Name: "fib", Scope: FunctionSelfScope}, sym)
}

// TestResolveFunctionSelfFromNestedScopeIsUnchanged checks that a
// Function-Self symbol resolved from a scope nested below the function
// that defines it (e.g. a closure literal inside a recursive function's
// body) is returned unchanged rather than promoted to Free.
func TestResolveFunctionSelfFromNestedScopeIsUnchanged(t *testing.T) {
	global := New()
	local := NewEnclosed(global)
	local.DefineFunctionSelf("fib")

	nested := NewEnclosed(local)
	sym, ok := nested.Resolve("fib")
	assert.True(t, ok)
	assert.Equal(t, Symbol{Name: "fib", Scope: FunctionSelfScope}, sym)
	assert.Empty(t, nested.FreeSymbols)
}

// TestResolveFreePromotesNestedClosures walks a three-level scope nest (as
// produced by a function literal defined inside another function literal)
// and checks that a name defined in the outermost function is captured as a
// Free variable at every intervening scope.
func TestResolveFreePromotesNestedClosures(t *testing.T) {
	global := New()
	global.Define("a")

	firstLocal := NewEnclosed(global)
	firstLocal.Define("b")

	secondLocal := NewEnclosed(firstLocal)
	secondLocal.Define("c")

	thirdLocal := NewEnclosed(secondLocal)
	thirdLocal.Define("d")

	// Resolving "b" from secondLocal and then from thirdLocal promotes it
	// to Free at both scopes; the global "a" stays Global at every level.
	expectedSecond := []Symbol{
		{Name: "a", Scope: GlobalScope, Index: 0},
		{Name: "b", Scope: FreeScope, Index: 0},
	}
	for _, want := range expectedSecond {
		got, ok := secondLocal.Resolve(want.Name)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Len(t, secondLocal.FreeSymbols, 1)
	assert.Equal(t, Symbol{Name: "b", Scope: LocalScope, Index: 0}, secondLocal.FreeSymbols[0])

	expectedThird := []Symbol{
		{Name: "a", Scope: GlobalScope, Index: 0},
		{Name: "b", Scope: FreeScope, Index: 0},
		{Name: "c", Scope: FreeScope, Index: 1},
		{Name: "d", Scope: LocalScope, Index: 0},
	}
	for _, want := range expectedThird {
		got, ok := thirdLocal.Resolve(want.Name)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Len(t, thirdLocal.FreeSymbols, 2)
}

// TestResolveFreeIsIdempotent checks that resolving the same free variable
// twice from the same scope returns the identical Free symbol rather than
// capturing it a second time.
func TestResolveFreeIsIdempotent(t *testing.T) {
	global := New()
	global.Define("a")

	local := NewEnclosed(global)
	inner := NewEnclosed(local)
	local.Define("b")

	first, ok := inner.Resolve("b")
	assert.True(t, ok)
	second, ok := inner.Resolve("b")
	assert.True(t, ok)

	assert.Equal(t, first, second)
	assert.Len(t, inner.FreeSymbols, 1)
}
