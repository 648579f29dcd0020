package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// ErrInvalidToken covers malformed, unsigned, expired, or otherwise
// unverifiable bearer tokens.
var ErrInvalidToken = errors.New("invalid bearer token")

// Identity is the authenticated caller extracted from identity-provider
// bearer claims.
type Identity struct {
	Subject   string
	Email     string
	Groups    []string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP string
}

// Claims is the bearer-token claim set staffdir consumes. Everything else
// the identity provider sends is ignored.
type Claims struct {
	jwt.RegisteredClaims
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
}

// FromBearerToken verifies a bearer token against the shared signing secret
// and extracts the caller identity.
func FromBearerToken(tokenStr string, secret []byte) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	id := &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Groups:  claims.Groups,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// InGroup reports whether the caller carries the named group claim.
func (i *Identity) InGroup(name string) bool {
	for _, g := range i.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// Actor is the audit-facing representation of the caller.
func (i *Identity) Actor() string {
	if i.Email != "" {
		return i.Email
	}
	return i.Subject
}

// Set stores the identity in the context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// Get retrieves the identity from the context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}
