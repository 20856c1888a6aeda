package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringHashKeyEquality(t *testing.T) {
	hello1 := &String{Value: "Hello World"}
	hello2 := &String{Value: "Hello World"}
	diff1 := &String{Value: "My name is johnny"}
	diff2 := &String{Value: "My name is johnny"}

	assert.Equal(t, hello1.HashKey(), hello2.HashKey())
	assert.Equal(t, diff1.HashKey(), diff2.HashKey())
	assert.NotEqual(t, hello1.HashKey(), diff1.HashKey())
}

func TestIntegerHashKeyEquality(t *testing.T) {
	one1 := &Integer{Value: 1}
	one2 := &Integer{Value: 1}
	two := &Integer{Value: 2}

	assert.Equal(t, one1.HashKey(), one2.HashKey())
	assert.NotEqual(t, one1.HashKey(), two.HashKey())
}

func TestBooleanHashKeyEquality(t *testing.T) {
	assert.Equal(t, TRUE.HashKey(), (&Boolean{Value: true}).HashKey())
	assert.NotEqual(t, TRUE.HashKey(), FALSE.HashKey())
}

func TestEqualIsStructuralNotPointerIdentity(t *testing.T) {
	assert.True(t, Equal(&String{Value: "foo"}, &String{Value: "foo"}))
	assert.False(t, Equal(&String{Value: "foo"}, &String{Value: "bar"}))

	left := &Array{Elements: []Object{&Integer{Value: 1}, &String{Value: "a"}}}
	right := &Array{Elements: []Object{&Integer{Value: 1}, &String{Value: "a"}}}
	assert.True(t, Equal(left, right))

	leftHash := &Hash{Pairs: map[HashKey]HashPair{
		(&String{Value: "k"}).HashKey(): {Key: &String{Value: "k"}, Value: &Integer{Value: 1}},
	}}
	rightHash := &Hash{Pairs: map[HashKey]HashPair{
		(&String{Value: "k"}).HashKey(): {Key: &String{Value: "k"}, Value: &Integer{Value: 1}},
	}}
	assert.True(t, Equal(leftHash, rightHash))

	assert.False(t, Equal(&Integer{Value: 1}, &String{Value: "1"}))
}

func TestInspect(t *testing.T) {
	assert.Equal(t, "5", (&Integer{Value: 5}).Inspect())
	assert.Equal(t, "true", TRUE.Inspect())
	assert.Equal(t, "null", NULL.Inspect())
	assert.Equal(t, "[1, 2]", (&Array{Elements: []Object{&Integer{Value: 1}, &Integer{Value: 2}}}).Inspect())
}
