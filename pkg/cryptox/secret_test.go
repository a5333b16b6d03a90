package cryptox_test

import (
	"strings"
	"testing"

	"github.com/flightbay/flightbay/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := cryptox.HashSecret("demo-secret")
	require.NoError(t, err)
	require.True(t, cryptox.IsHashed(hash))

	require.NoError(t, cryptox.VerifySecret("demo-secret", hash))
	require.ErrorIs(t, cryptox.VerifySecret("wrong-secret", hash), cryptox.ErrSecretMismatch)
}

func TestHashSecretSaltsDiffer(t *testing.T) {
	a, err := cryptox.HashSecret("same-input")
	require.NoError(t, err)
	b, err := cryptox.HashSecret("same-input")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestVerifySecretRejectsMangledHash(t *testing.T) {
	hash, err := cryptox.HashSecret("demo-secret")
	require.NoError(t, err)

	t.Run("truncated", func(t *testing.T) {
		err := cryptox.VerifySecret("demo-secret", hash[:len(hash)/2])
		require.Error(t, err)
		require.NotErrorIs(t, err, cryptox.ErrSecretMismatch)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		mangled := strings.Replace(hash, "argon2id", "argon2i", 1)
		require.Error(t, cryptox.VerifySecret("demo-secret", mangled))
	})
}
