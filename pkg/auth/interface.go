package auth

import (
	"time"
)

// Claims represents the verified payload of an access token
type Claims struct {
	UserID    string
	Username  string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Raw       map[string]interface{}
}

// Identity is the subject an issuer signs into a new token
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// Verifier checks an access token and returns its claims
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// Issuer mints signed access tokens. Verifiers backed by a shared secret
// implement it; verifiers that only hold public material do not.
type Issuer interface {
	Issue(identity Identity) (token string, expiresAt time.Time, err error)
}
