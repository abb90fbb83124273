// Package auth verifies bearer credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

// BearerPrefix is the optional scheme tag stripped before verification.
const BearerPrefix = "Bearer "

// RevocationChecker reports whether a token id was revoked before expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticator turns an Authorization header into verified claims.
type Authenticator struct {
	secret      []byte
	issuer      string
	now         func() time.Time
	revocations RevocationChecker
	logger      *slog.Logger
	parser      *jwt.Parser
}

// Option customizes an Authenticator.
type Option func(*Authenticator)

// WithIssuer requires the iss claim to match.
func WithIssuer(issuer string) Option {
	return func(a *Authenticator) {
		a.issuer = strings.TrimSpace(issuer)
	}
}

// WithClock overrides the time source used for exp/nbf checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithRevocations enables the revoked-token check. Tokens without a jti are
// then rejected, since they could never be revoked.
func WithRevocations(r RevocationChecker) Option {
	return func(a *Authenticator) {
		a.revocations = r
	}
}

// WithLogger attaches a logger for verification diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = logger
	}
}

// NewAuthenticator builds an HS256 verifier bound to secret.
func NewAuthenticator(secret []byte, opts ...Option) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	a := &Authenticator{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(a.issuer))
	}
	a.parser = jwt.NewParser(parserOpts...)
	return a, nil
}

// Authenticate verifies the raw header value. A missing header yields
// shared.ErrAuthenticationMissing; every verification failure yields
// shared.ErrAuthenticationInvalid without the underlying cause.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*Claims, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, shared.ErrAuthenticationMissing
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, BearerPrefix))
	if raw == "" {
		return nil, shared.ErrAuthenticationInvalid
	}

	var claims Claims
	_, err := a.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		a.debug(ctx, "token rejected", slog.String("reason", rejectReason(err)))
		return nil, shared.ErrAuthenticationInvalid
	}
	if strings.TrimSpace(claims.PrincipalID) == "" || strings.TrimSpace(claims.Type) == "" {
		a.debug(ctx, "token rejected", slog.String("reason", "missing id or type"))
		return nil, shared.ErrAuthenticationInvalid
	}

	if a.revocations != nil {
		if claims.TokenID() == "" {
			a.debug(ctx, "token rejected", slog.String("reason", "missing jti"))
			return nil, shared.ErrAuthenticationInvalid
		}
		revoked, err := a.revocations.IsRevoked(ctx, claims.TokenID())
		if err != nil {
			return nil, fmt.Errorf("auth: revocation check: %w", err)
		}
		if revoked {
			a.debug(ctx, "token rejected", slog.String("reason", "revoked"))
			return nil, shared.ErrAuthenticationInvalid
		}
	}
	return &claims, nil
}

func (a *Authenticator) debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if a.logger == nil {
		return
	}
	a.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "not yet valid"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "issuer"
	default:
		return "invalid"
	}
}
