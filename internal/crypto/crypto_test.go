package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSaltBase64(t *testing.T) {
	a, err := GenerateSaltBase64()
	require.NoError(t, err)
	b, err := GenerateSaltBase64()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, SaltSize)
	assert.NotEqual(t, a, b, "соли должны различаться")
}

func TestDeriveAuthKey(t *testing.T) {
	salt, err := GenerateSaltBase64()
	require.NoError(t, err)

	k1, err := DeriveAuthKey("correct horse", "alice", salt)
	require.NoError(t, err)
	assert.Len(t, k1, Argon2KeyLen)

	k2, err := DeriveAuthKey("correct horse", "alice", salt)
	require.NoError(t, err)
	assert.Equal(t, k1, k2, "деривация детерминирована")

	k3, err := DeriveAuthKey("correct horse", "bob", salt)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	tests := []struct {
		name     string
		password string
		username string
		salt     string
	}{
		{name: "empty password", password: "", username: "alice", salt: salt},
		{name: "empty username", password: "pw", username: "", salt: salt},
		{name: "bad base64", password: "pw", username: "alice", salt: "%%%"},
		{name: "short salt", password: "pw", username: "alice", salt: base64.StdEncoding.EncodeToString([]byte("short"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveAuthKey(tt.password, tt.username, tt.salt)
			assert.Error(t, err)
		})
	}
}

func TestHashAuthKey(t *testing.T) {
	h, err := HashAuthKey([]byte("key"))
	require.NoError(t, err)
	assert.Len(t, h, 64)

	_, err = HashAuthKey(nil)
	assert.Error(t, err)

	assert.True(t, EqualHashes(h, h))
	assert.False(t, EqualHashes(h, HashToken("other")))
	assert.Equal(t, HashToken("t"), HashToken("t"))
}
