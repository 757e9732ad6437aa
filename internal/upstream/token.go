package upstream

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider supplies the caller's opaque bearer token. An empty token
// means the call is made without an Authorization header.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenProvider.
type TokenFunc func(ctx context.Context) (string, error)

// Token implements TokenProvider.
func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token.
func StaticToken(tok string) TokenProvider {
	return TokenFunc(func(context.Context) (string, error) { return tok, nil })
}

type tokenCtxKey struct{}

// WithToken returns a context carrying a per-request bearer token, read back
// by ContextToken.
func WithToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, tok)
}

// ContextToken reads the token stored by WithToken. It is the provider the
// gateway uses, since each inbound request carries its own credentials.
func ContextToken() TokenProvider {
	return TokenFunc(func(ctx context.Context) (string, error) {
		tok, _ := ctx.Value(tokenCtxKey{}).(string)
		return tok, nil
	})
}

// TokenExpired reports whether tok is a JWT whose exp claim is at or before
// now. The signature is not verified; the services do that. Opaque
// (non-JWT) tokens and tokens without exp are never considered expired.
func TokenExpired(tok string, now time.Time) bool {
	if tok == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
