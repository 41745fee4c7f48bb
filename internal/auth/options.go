package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidIssuerOptions is wrapped by every construction-time failure.
	ErrInvalidIssuerOptions = errors.New("invalid token issuer options")

	ErrNilIssuerOptions          = fmt.Errorf("%w: options are required", ErrInvalidIssuerOptions)
	ErrNonPositiveValidFor       = fmt.Errorf("%w: valid_for must be a non-zero positive duration", ErrInvalidIssuerOptions)
	ErrMissingSigningCredentials = fmt.Errorf("%w: signing credentials are required", ErrInvalidIssuerOptions)
	ErrMissingJTIGenerator       = fmt.Errorf("%w: jti generator is required", ErrInvalidIssuerOptions)
)

// IssuerOptions configures a TokenIssuer. The issuer keeps its own copy, so
// later changes to the value passed in have no effect.
type IssuerOptions struct {
	Issuer             string
	Audience           string
	ValidFor           time.Duration
	SigningCredentials *SigningCredentials
	JTIGenerator       IdentifierSource

	// Clock returns the issue instant. Defaults to time.Now.
	Clock func() time.Time
}

// IssuedAt returns the current issue instant.
func (o *IssuerOptions) IssuedAt() time.Time {
	if o.Clock == nil {
		return time.Now()
	}
	return o.Clock()
}

// NotBefore returns the start of the validity window for a token issued at issuedAt.
func (o *IssuerOptions) NotBefore(issuedAt time.Time) time.Time {
	return issuedAt
}

// Expiration returns the end of the validity window for a token issued at issuedAt.
func (o *IssuerOptions) Expiration(issuedAt time.Time) time.Time {
	return issuedAt.Add(o.ValidFor)
}

// ValidateOptions checks the preconditions a TokenIssuer relies on.
func ValidateOptions(opts *IssuerOptions) error {
	if opts == nil {
		return ErrNilIssuerOptions
	}
	if opts.ValidFor <= 0 {
		return ErrNonPositiveValidFor
	}
	if opts.SigningCredentials == nil || opts.SigningCredentials.Method == nil || opts.SigningCredentials.Key == nil {
		return ErrMissingSigningCredentials
	}
	if opts.JTIGenerator == nil {
		return ErrMissingJTIGenerator
	}
	return nil
}
