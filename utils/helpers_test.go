package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestRandomStringLength(t *testing.T) {
	assert.Len(t, RandomString(8), 8)
	assert.Len(t, RandomString(0), 0)
}
