package auth

import (
	"errors"
	"net/http"
)

// RequestAuthorizer attaches credentials to an outbound platform API request.
// The platform client never reads credentials from ambient state; whoever
// constructs the client decides how each call class is authorized.
type RequestAuthorizer interface {
	Authorize(req *http.Request) error
}

// APIKeyAuthorizer sets the X-Admin-Key header expected by admin-privileged
// platform endpoints such as the participant status update.
type APIKeyAuthorizer struct {
	Key string
}

// Authorize sets the admin key header on req.
func (a APIKeyAuthorizer) Authorize(req *http.Request) error {
	if a.Key == "" {
		return errors.New("admin api key not configured")
	}
	req.Header.Set("X-Admin-Key", a.Key)
	return nil
}

// BearerAuthorizer forwards a bearer token on the Authorization header.
type BearerAuthorizer struct {
	Token string
}

// Authorize sets the Authorization header on req.
func (a BearerAuthorizer) Authorize(req *http.Request) error {
	if a.Token == "" {
		return errors.New("bearer token not set")
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// NoopAuthorizer leaves the request untouched. Development platform
// deployments accept unauthenticated reads.
type NoopAuthorizer struct{}

// Authorize is a no-op.
func (NoopAuthorizer) Authorize(*http.Request) error { return nil }

// PlatformAuthorizer picks the read-path authorizer from the configured
// platform service token: bearer auth when a token is set, unauthenticated
// otherwise.
func PlatformAuthorizer(token string) RequestAuthorizer {
	if token == "" {
		return NoopAuthorizer{}
	}
	return BearerAuthorizer{Token: token}
}
