package common

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	s, err := MakeRandHexString(SessionTokenSize)
	require.NoError(t, err)
	assert.Len(t, s, SessionTokenSize*2)

	_, err = hex.DecodeString(s)
	assert.NoError(t, err, "must be valid hex")

	other, err := MakeRandHexString(SessionTokenSize)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(SaltSize)
	b := GenerateRandByteArray(SaltSize)

	require.Len(t, a, SaltSize)
	require.Len(t, b, SaltSize)
	assert.False(t, bytes.Equal(a, b), "two salts must differ")
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 6), buf)

	WipeByteArray(nil)
}
