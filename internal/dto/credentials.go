package dto

// CredentialsRequest sets an org's shared feature-service account.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=200"`
	Password string `json:"password" validate:"required,max=500"`
}

// CredentialsStatus reports whether the shared account is configured. The
// password never leaves the server.
type CredentialsStatus struct {
	Configured bool   `json:"configured"`
	Username   string `json:"username,omitempty"`
}
