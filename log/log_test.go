package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GetLogger_ReturnsSameInstance(t *testing.T) {
	l1 := GetLogger("test-logger", true)
	l2 := GetLogger("test-logger", true)
	assert.Equal(t, l1, l2)
}

func Test_GetLogger_DifferentNames(t *testing.T) {
	l1 := GetLogger("test-logger-a", true)
	l2 := GetLogger("test-logger-b", true)
	assert.NotEqual(t, l1, l2)
}
