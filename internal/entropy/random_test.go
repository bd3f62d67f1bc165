package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeeded_Deterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}
}

func TestSeeded_UnitRange(t *testing.T) {
	s := NewSeeded(1)
	for i := 0; i < 1000; i++ {
		v := s.Float()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSequence_ReplaysThenRepeats(t *testing.T) {
	s := NewSequence(0.1, 0.2, 0.3)
	assert.Equal(t, 0.1, s.Float())
	assert.Equal(t, 0.2, s.Float())
	assert.Equal(t, 0.3, s.Float())
	// Past the script, the last value repeats.
	assert.Equal(t, 0.3, s.Float())
	assert.Equal(t, 0.3, s.Float())
}

func TestConstant(t *testing.T) {
	c := Constant(0.7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 0.7, c.Float())
	}
}

func TestCryptoFloat_UnitRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := CryptoFloat()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
