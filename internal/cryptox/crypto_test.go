package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastKDF = KDFParams{Time: 1, Memory: 8 * 1024, Threads: 1}

func TestDeriveKey_Deterministic(t *testing.T) {
	pass := []byte("secret-password")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveKey(pass, salt, fastKDF)
	key2 := DeriveKey(pass, salt, fastKDF)

	assert.Len(t, key1, KeyLen)
	assert.True(t, bytes.Equal(key1, key2), "same inputs must give same key")
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	pass := []byte("secret-password")

	key1 := DeriveKey(pass, []byte("salt-1"), fastKDF)
	key2 := DeriveKey(pass, []byte("salt-2"), fastKDF)

	assert.False(t, bytes.Equal(key1, key2))
}

func TestNewSalt(t *testing.T) {
	s1, s2 := NewSalt(), NewSalt()
	assert.Len(t, s1, SaltLen)
	assert.NotEqual(t, s1, s2)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), NewSalt(), fastKDF)
	secret := []byte("0x4c0883a69102937d6231471b5dbb6204fe512961708279f1d5b1f4f1ad2d6f6e")

	ct, nonce, err := Seal(key, secret)
	require.NoError(t, err)
	assert.NotEqual(t, secret, ct)

	got, err := Open(key, nonce, ct)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestOpen_Failures(t *testing.T) {
	salt := NewSalt()
	key := DeriveKey([]byte("right"), salt, fastKDF)
	wrong := DeriveKey([]byte("wrong"), salt, fastKDF)

	ct, nonce, err := Seal(key, []byte("payload"))
	require.NoError(t, err)

	_, err = Open(wrong, nonce, ct)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = Open(key, nonce[:4], ct)
	assert.ErrorIs(t, err, ErrDecrypt)

	tampered := append([]byte(nil), ct...)
	tampered[0] ^= 0xff
	_, err = Open(key, nonce, tampered)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, _, err = Seal([]byte("short"), []byte("x"))
	assert.Error(t, err)
}
