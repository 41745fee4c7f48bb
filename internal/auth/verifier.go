package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is wrapped by every verification failure.
var ErrInvalidToken = errors.New("invalid token")

// VerifierOptions configures a TokenVerifier.
type VerifierOptions struct {
	Issuer   string
	Audience string
	Method   jwt.SigningMethod
	Key      any
	Leeway   time.Duration
	Clock    func() time.Time
}

// TokenVerifier turns access tokens minted by a TokenIssuer back into claims identities.
type TokenVerifier struct {
	key    any
	parser *jwt.Parser
}

// NewTokenVerifier builds a verifier accepting only opts.Method.
func NewTokenVerifier(opts VerifierOptions) (*TokenVerifier, error) {
	if opts.Method == nil {
		return nil, ErrUnsupportedSigningMethod
	}
	if opts.Key == nil {
		return nil, ErrInvalidKey
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{opts.Method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(opts.Leeway),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	if opts.Clock != nil {
		parserOpts = append(parserOpts, jwt.WithTimeFunc(opts.Clock))
	}

	return &TokenVerifier{key: opts.Key, parser: jwt.NewParser(parserOpts...)}, nil
}

// NewTokenVerifierFor builds a verifier matching the configuration of an issuer.
func NewTokenVerifierFor(opts *IssuerOptions, leeway time.Duration) (*TokenVerifier, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}
	key, err := opts.SigningCredentials.VerificationKey()
	if err != nil {
		return nil, err
	}
	return NewTokenVerifier(VerifierOptions{
		Issuer:   opts.Issuer,
		Audience: opts.Audience,
		Method:   opts.SigningCredentials.Method,
		Key:      key,
		Leeway:   leeway,
		Clock:    opts.Clock,
	})
}

// Verify checks the signature and validity window of tokenString and returns
// the identity it describes along with the raw claims.
func (v *TokenVerifier) Verify(tokenString string) (*ClaimsIdentity, *AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	identity := &ClaimsIdentity{
		Name:               claims.Subject,
		AuthenticationType: AuthenticationTypeToken,
	}
	if claims.UserID != "" {
		identity.Claims = append(identity.Claims, Claim{Name: ClaimUserID, Value: claims.UserID})
	}
	if claims.Role != "" {
		identity.Claims = append(identity.Claims, Claim{Name: ClaimRole, Value: claims.Role})
	}
	return identity, claims, nil
}
