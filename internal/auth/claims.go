package auth

// ClaimName identifies one of the well-known claims carried by an access token.
type ClaimName string

const (
	// ClaimUserID carries the identity-store id of the user.
	ClaimUserID ClaimName = "id"
	// ClaimRole carries the access role granted to the token holder.
	ClaimRole ClaimName = "rol"
)

const (
	// RoleAPIAccess is the role every token-authenticated user receives.
	RoleAPIAccess = "api_access"
	// AuthenticationTypeToken tags identities built for bearer tokens.
	AuthenticationTypeToken = "Token"
)

// Claim is a single named attribute of an identity.
type Claim struct {
	Name  ClaimName
	Value string
}

// ClaimsIdentity is a principal name plus an ordered set of claims.
type ClaimsIdentity struct {
	Name               string
	AuthenticationType string
	Claims             []Claim
}

// FindFirst returns the first claim with the given name.
func (ci *ClaimsIdentity) FindFirst(name ClaimName) (Claim, bool) {
	if ci == nil {
		return Claim{}, false
	}
	for _, claim := range ci.Claims {
		if claim.Name == name {
			return claim, true
		}
	}
	return Claim{}, false
}

// HasClaim reports whether the identity carries name with the given value.
func (ci *ClaimsIdentity) HasClaim(name ClaimName, value string) bool {
	if ci == nil {
		return false
	}
	for _, claim := range ci.Claims {
		if claim.Name == name && claim.Value == value {
			return true
		}
	}
	return false
}

// BuildClaimsIdentity creates the identity handed to the token issuer after a
// successful login.
func BuildClaimsIdentity(userName, userID string) *ClaimsIdentity {
	return &ClaimsIdentity{
		Name:               userName,
		AuthenticationType: AuthenticationTypeToken,
		Claims: []Claim{
			{Name: ClaimUserID, Value: userID},
			{Name: ClaimRole, Value: RoleAPIAccess},
		},
	}
}
