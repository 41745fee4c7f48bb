package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigningCredentials_HMAC(t *testing.T) {
	t.Parallel()
	creds, err := NewSigningCredentials("HS512", []byte("secret"))
	require.NoError(t, err)

	assert.Equal(t, jwt.SigningMethodHS512, creds.Method)
	key, err := creds.VerificationKey()
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), key)
}

func TestNewSigningCredentials_RSA(t *testing.T) {
	t.Parallel()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	creds, err := NewSigningCredentials("RS256", pemBytes)
	require.NoError(t, err)

	key, err := creds.VerificationKey()
	require.NoError(t, err)
	pub, ok := key.(*rsa.PublicKey)
	require.True(t, ok)
	assert.True(t, privateKey.PublicKey.Equal(pub))
}

func TestNewSigningCredentials_EdDSA(t *testing.T) {
	t.Parallel()
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	creds, err := NewSigningCredentials("EdDSA", pemBytes)
	require.NoError(t, err)

	key, err := creds.VerificationKey()
	require.NoError(t, err)
	assert.IsType(t, ed25519.PublicKey{}, key)
}

func TestNewSigningCredentials_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		alg     string
		key     []byte
		wantErr error
	}{
		{"unknown algorithm", "XX999", []byte("secret"), ErrUnsupportedSigningMethod},
		{"none algorithm", "none", []byte("secret"), ErrUnsupportedSigningMethod},
		{"empty key", "HS256", nil, ErrInvalidKey},
		{"rsa without pem", "RS256", []byte("not pem"), ErrInvalidKey},
		{"ecdsa without pem", "ES256", []byte("not pem"), ErrInvalidKey},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			creds, err := NewSigningCredentials(tt.alg, tt.key)

			assert.Nil(t, creds)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadSigningCredentials_FromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "signing.key")
	require.NoError(t, os.WriteFile(path, []byte("file-secret"), 0o600))

	creds, err := LoadSigningCredentials("HS256", "ignored", path)
	require.NoError(t, err)
	assert.Equal(t, []byte("file-secret"), creds.Key)
}

func TestLoadSigningCredentials_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadSigningCredentials("HS256", "", filepath.Join(t.TempDir(), "missing.pem"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVerificationKey_NilCredentials(t *testing.T) {
	t.Parallel()
	var creds *SigningCredentials

	_, err := creds.VerificationKey()
	assert.ErrorIs(t, err, ErrInvalidKey)
}
