package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("demo123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "demo123", hash)

	assert.NoError(t, ComparePassword(hash, "demo123"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
