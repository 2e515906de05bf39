package model

// Identity is the authenticated caller extracted from a bearer token.
// Tokens are issued by the SSO gateway; this API only validates them.
type Identity struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email,omitempty"`
}
