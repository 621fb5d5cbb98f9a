package notify

import (
	"strings"
	"time"
)

// AuthReason says why a handshake was rejected.
type AuthReason string

const (
	ReasonMissingToken AuthReason = "MISSING_TOKEN"
	ReasonInvalidToken AuthReason = "INVALID_TOKEN"
)

// AuthError is terminal for the connection attempt; the client must
// reconnect with a fresh token.
type AuthError struct {
	Reason AuthReason
}

func (e *AuthError) Error() string {
	return "handshake rejected: " + string(e.Reason)
}

// TokenVerifier is the collaborator that validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (userID string, expiry time.Time, err error)
}

// Authenticator runs before a connection is admitted. A rejected socket
// is never handed to the registry or the room router.
type Authenticator struct {
	verifier TokenVerifier
}

func NewAuthenticator(v TokenVerifier) *Authenticator {
	return &Authenticator{verifier: v}
}

func (a *Authenticator) Authenticate(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", &AuthError{Reason: ReasonMissingToken}
	}
	userID, _, err := a.verifier.Verify(token)
	if err != nil || userID == "" {
		return "", &AuthError{Reason: ReasonInvalidToken}
	}
	return userID, nil
}
