package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bitfield(n int, value bool) []bool {
	b := make([]bool, n)
	for i := range b {
		b[i] = value
	}

	return b
}

func TestCompleteAllPresent(t *testing.T) {
	pieces := bitfield(10, true)

	has := func(i int) bool { return pieces[i] }

	assert.True(t, Complete(10, has))
	assert.Zero(t, Missing(10, has))
}

func TestCompleteAnySingleMissing(t *testing.T) {
	for missing := 0; missing < 10; missing++ {
		pieces := bitfield(10, true)
		pieces[missing] = false

		has := func(i int) bool { return pieces[i] }

		assert.False(t, Complete(10, has), "piece %v missing", missing)
		assert.Equal(t, 1, Missing(10, has))
	}
}

func TestCompleteNoPieces(t *testing.T) {
	assert.True(t, Complete(0, func(int) bool { return false }))
}

func TestCompleteNothingPresent(t *testing.T) {
	assert.False(t, Complete(3, func(int) bool { return false }))
	assert.Equal(t, 3, Missing(3, func(int) bool { return false }))
}
