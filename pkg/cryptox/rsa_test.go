package cryptox_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseRSAKey(t *testing.T) {
	pemKey, err := cryptox.GenerateRSAKey(2048)
	require.NoError(t, err)
	require.Contains(t, string(pemKey), "BEGIN PRIVATE KEY")

	key, err := cryptox.ParseRSAPrivateKey(pemKey)
	require.NoError(t, err)
	require.Equal(t, 2048, key.N.BitLen())

	_, err = cryptox.GenerateRSAKey(1024)
	require.Error(t, err)

	_, err = cryptox.ParseRSAPrivateKey([]byte("nope"))
	require.Error(t, err)
}

func TestDecodePEMEnv(t *testing.T) {
	pemKey, err := cryptox.GenerateRSAKey(2048)
	require.NoError(t, err)

	t.Run("base64", func(t *testing.T) {
		got, err := cryptox.DecodePEMEnv(base64.StdEncoding.EncodeToString(pemKey))
		require.NoError(t, err)
		require.Equal(t, pemKey, got)
	})

	t.Run("escaped newlines", func(t *testing.T) {
		escaped := strings.ReplaceAll(string(pemKey), "\n", `\n`)
		got, err := cryptox.DecodePEMEnv(escaped)
		require.NoError(t, err)
		require.Equal(t, pemKey, got)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := cryptox.DecodePEMEnv(base64.StdEncoding.EncodeToString([]byte("hello")))
		require.Error(t, err)
		_, err = cryptox.DecodePEMEnv("")
		require.Error(t, err)
	})
}
