package domain

// TokenPayload is the identity asserted by the external auth provider's JWT.
// The local user row is resolved from ExternalID once per request.
type TokenPayload struct {
	ExternalID string
	Email      string
	Name       string
	ImageURL   string
}
