package entities

// User is the identity observed from the identity provider
type User struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	// Token is the signed id token for the session; never persisted.
	Token string `json:"token,omitempty"`
}
