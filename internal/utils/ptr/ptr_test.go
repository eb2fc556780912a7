package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	s := "Berhasil"
	p := String(s)
	if assert.NotNil(t, p) {
		assert.Equal(t, s, *p)
		assert.NotSame(t, &s, p)
	}
}

func TestValue(t *testing.T) {
	assert.Equal(t, "", Value[string](nil))
	assert.Equal(t, 0, Value[int](nil))
	assert.Equal(t, "r1", Value(String("r1")))

	n := 42
	assert.Equal(t, 42, Value(&n))
}
