package auth

import (
	"crypto"
	"errors"
	"fmt"
	"os"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrUnsupportedSigningMethod = errors.New("unsupported signing method")
	ErrInvalidKey               = errors.New("invalid key")
)

// SigningCredentials pairs a signing algorithm with the private key material
// it signs with.
type SigningCredentials struct {
	Method jwt.SigningMethod
	Key    any
}

// NewSigningCredentials parses keyData for the named algorithm. HMAC methods
// take the raw secret; RSA, ECDSA and EdDSA methods take a PEM private key.
func NewSigningCredentials(alg string, keyData []byte) (*SigningCredentials, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil || method == jwt.SigningMethodNone {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSigningMethod, alg)
	}
	if len(keyData) == 0 {
		return nil, fmt.Errorf("%w: empty key for %s", ErrInvalidKey, alg)
	}

	var (
		key any
		err error
	)
	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		key = keyData
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		key, err = jwt.ParseRSAPrivateKeyFromPEM(keyData)
	case *jwt.SigningMethodECDSA:
		key, err = jwt.ParseECPrivateKeyFromPEM(keyData)
	case *jwt.SigningMethodEd25519:
		key, err = jwt.ParseEdPrivateKeyFromPEM(keyData)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSigningMethod, alg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &SigningCredentials{Method: method, Key: key}, nil
}

// LoadSigningCredentials reads a PEM private key from path when it is set,
// otherwise it uses secret as key material.
func LoadSigningCredentials(alg, secret, path string) (*SigningCredentials, error) {
	if path == "" {
		return NewSigningCredentials(alg, []byte(secret))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key %s: %w", path, err)
	}
	return NewSigningCredentials(alg, data)
}

// VerificationKey returns the key a verifier needs for tokens signed with
// these credentials: the shared secret for HMAC, the public half otherwise.
func (c *SigningCredentials) VerificationKey() (any, error) {
	if c == nil || c.Key == nil {
		return nil, ErrInvalidKey
	}
	switch key := c.Key.(type) {
	case []byte:
		return key, nil
	case crypto.Signer:
		return key.Public(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported key type %T", ErrInvalidKey, c.Key)
	}
}
