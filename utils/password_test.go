package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCompare(t *testing.T) {
	ps := NewPasswordService()

	hash, err := ps.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, ps.ComparePassword(hash, "correct horse battery staple"))
	assert.Error(t, ps.ComparePassword(hash, "wrong password"))
}

func TestHashPasswordEmpty(t *testing.T) {
	ps := NewPasswordService()

	_, err := ps.HashPassword("")
	assert.Error(t, err)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	ps := NewPasswordService()

	first, err := ps.HashPassword("same password")
	require.NoError(t, err)
	second, err := ps.HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, ps.ComparePassword(first, "same password"))
	assert.NoError(t, ps.ComparePassword(second, "same password"))
}
