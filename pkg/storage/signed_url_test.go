package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)

	token, expiresAt, err := signer.Generate("teacher@school.test", "profile-images/teacher@school.test.jpg")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	owner, path, _, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "teacher@school.test", owner)
	assert.Equal(t, "profile-images/teacher@school.test.jpg", path)
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)

	token, _, err := signer.Generate("admin@school.test", "exports/courses.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token + "x")
	assert.Error(t, err)

	other := NewSignedURLSigner("other-secret", time.Hour)
	_, _, _, err = other.Parse(token)
	assert.Error(t, err)
}

func TestSignedURLExpires(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)
	signer.ttl = -time.Minute

	token, _, err := signer.Generate("admin@school.test", "exports/users.pdf")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token)
	assert.Error(t, err)
}
