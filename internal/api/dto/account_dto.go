package dto

// RegistrationRequest payload for new accounts.
type RegistrationRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CredentialsRequest payload for login.
type CredentialsRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// AccountResponse describes a created account.
type AccountResponse struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TokenResponse is returned by a successful login. ExpiresIn is in seconds.
type TokenResponse struct {
	ID        string `json:"id"`
	AuthToken string `json:"auth_token"`
	ExpiresIn int64  `json:"expires_in"`
}
