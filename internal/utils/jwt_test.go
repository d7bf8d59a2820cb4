package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret"
	testRefreshSecret = "refresh-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, 42, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := VerifyAccessToken(testAccessSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Alice A", claims.FullName)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tok, err := NewRefreshToken(testRefreshSecret, 42, 7)
	require.NoError(t, err)

	id, err := VerifyRefreshToken(testRefreshSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	// Back-to-back mints land in the same second, so iat/exp alone would
	// make them byte-identical. The jti keeps each one distinct, which is
	// what rotation depends on.
	r1, err := NewRefreshToken(testRefreshSecret, 42, 7)
	require.NoError(t, err)
	r2, err := NewRefreshToken(testRefreshSecret, 42, 7)
	require.NoError(t, err)
	assert.NotEqual(t, r1.Token, r2.Token)
	assert.NotEqual(t, HashToken(r1.Token), HashToken(r2.Token))

	a1, err := NewAccessToken(testAccessSecret, 42, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)
	a2, err := NewAccessToken(testAccessSecret, 42, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)
	assert.NotEqual(t, a1.Token, a2.Token)
}

func TestVerifyExpiredToken(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, 42, "a@x.com", "alice", "Alice A", -1)
	require.NoError(t, err)

	_, err = VerifyAccessToken(testAccessSecret, tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, 42, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)

	_, err = VerifyAccessToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyWrongKind(t *testing.T) {
	// Distinct secrets per kind mean an access token never verifies as a
	// refresh token and vice versa.
	access, err := NewAccessToken(testAccessSecret, 42, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)
	refresh, err := NewRefreshToken(testRefreshSecret, 42, 7)
	require.NoError(t, err)

	_, err = VerifyRefreshToken(testRefreshSecret, access.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = VerifyAccessToken(testAccessSecret, refresh.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := VerifyAccessToken(testAccessSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = VerifyRefreshToken(testRefreshSecret, "")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTamperedToken(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, 42, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)

	tampered := tok.Token[:len(tok.Token)-2] + "xx"
	_, err = VerifyAccessToken(testAccessSecret, tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHashToken(t *testing.T) {
	h := HashToken("some-raw-token")
	assert.Len(t, h, 64) // sha256 hex
	assert.Equal(t, h, HashToken("some-raw-token"))
	assert.NotEqual(t, h, HashToken("other-token"))
}
