package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrTokenSigning is returned when a token cannot be signed with the configured credentials.
var ErrTokenSigning = errors.New("failed to sign token")

// AccessClaims describes the JWT payload of an access token.
type AccessClaims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"rol,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints signed access tokens. It is immutable after construction
// and safe for concurrent use.
type TokenIssuer struct {
	opts IssuerOptions
}

// NewTokenIssuer validates opts and returns an issuer, or an error wrapping
// ErrInvalidIssuerOptions.
func NewTokenIssuer(opts *IssuerOptions) (*TokenIssuer, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}
	return &TokenIssuer{opts: *opts}, nil
}

// ValidFor returns the lifetime of issued tokens.
func (ti *TokenIssuer) ValidFor() time.Duration {
	return ti.opts.ValidFor
}

// Issue builds and signs a token for userName carrying the role and user id
// claims of identity. Claims missing from identity are left out of the token.
// Errors from the jti generator are returned as is.
func (ti *TokenIssuer) Issue(ctx context.Context, userName string, identity *ClaimsIdentity) (string, error) {
	issuedAt := ti.opts.IssuedAt()
	iat := toUnixEpochDate(issuedAt)

	jti, err := ti.opts.JTIGenerator.Generate(ctx)
	if err != nil {
		return "", err
	}

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userName,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Unix(iat, 0)),
			Issuer:    ti.opts.Issuer,
			NotBefore: jwt.NewNumericDate(ti.opts.NotBefore(issuedAt)),
			ExpiresAt: jwt.NewNumericDate(ti.opts.Expiration(issuedAt)),
		},
	}
	if ti.opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{ti.opts.Audience}
	}
	if role, ok := identity.FindFirst(ClaimRole); ok {
		claims.Role = role.Value
	}
	if id, ok := identity.FindFirst(ClaimUserID); ok {
		claims.UserID = id.Value
	}

	creds := ti.opts.SigningCredentials
	token := jwt.NewWithClaims(creds.Method, claims)
	encoded, err := token.SignedString(creds.Key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenSigning, err)
	}
	return encoded, nil
}

// toUnixEpochDate converts t to seconds since the Unix epoch, rounded to the
// nearest second with exact halves going to the even second.
func toUnixEpochDate(t time.Time) int64 {
	sec, nsec := t.Unix(), t.Nanosecond()
	const half = int(time.Second / 2)
	if nsec > half || (nsec == half && sec%2 != 0) {
		sec++
	}
	return sec
}
