package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "US", ToString("US"))
	assert.Equal(t, "90210", ToString(float64(90210)))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "42", ToString([]byte("42")))
	assert.Equal(t, "true", ToString(true))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 42, ToInt(42))
	assert.Equal(t, 42, ToInt("42"))
	assert.Equal(t, 42, ToInt(float64(42.9)))
	assert.Equal(t, 0, ToInt("not a number"))
}
