package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified buyer. Claims mirror what the session issuer (an
// external collaborator) puts in its tokens: subject, email, optional phone
// and role.
type Identity struct {
	ID    string
	Email string
	Phone string
	Role  string
}

// Verifier checks a bearer token. Token issuance, registration and password
// handling live outside this service.
type Verifier interface {
	Verify(token string) (Identity, error)
}

type ctxKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
