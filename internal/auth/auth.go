// Package auth verifies bearer JWTs on the trip routes. Verification keys
// come from the issuer's JWKS endpoint; validated claims ride on the request
// context for handlers and the audit log.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/justinas/alice"

	"github.com/voyago/travel-bridge/internal/audit"
	"github.com/voyago/travel-bridge/internal/config"
)

// Middleware returns HTTP middleware that verifies the JWT and enforces the
// issuer and audience claims. The retrieved claims are set on the request
// context and can be retrieved by calling auth.ClaimsFromContext(ctx).
func Middleware(cfg config.AuthorizationConfig, options ...jwtmiddleware.Option) (func(http.Handler) http.Handler, error) {
	issuerURL, err := url.Parse(cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer URL: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Audience},
		validator.WithAllowedClockSkew(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the validator: %w", err)
	}

	// Auditing of the validation process uses a combination of the error
	// handler and the audit middleware: the first marks validation failures
	// in the audit log, the second records the claims of a valid token.
	options = append(options, jwtmiddleware.WithErrorHandler(auditErrorHandler()))

	middleware := jwtmiddleware.New(jwtValidator.ValidateToken, options...)

	return alice.New(middleware.CheckJWT, auditClaimsMiddleware()).Then, nil
}

// ContextWithClaims returns a context with the provided validated claims
// added under the middleware's key. This is primarily for test usage.
func ContextWithClaims(ctx context.Context, claims *validator.ValidatedClaims) context.Context {
	return context.WithValue(ctx, jwtmiddleware.ContextKey{}, claims)
}

// ClaimsFromContext returns the validated claims as set by the JWT
// middleware, or nil outside the middleware. Handlers behind the middleware
// should treat nil as an error.
func ClaimsFromContext(ctx context.Context) *validator.ValidatedClaims {
	claims, _ := ctx.Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	return claims
}

// SubjectFromContext returns the authenticated subject, or "" when the
// request carries no validated claims.
func SubjectFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.RegisteredClaims.Subject
}

func auditClaimsMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := audit.Log(r.Context())
			claims := ClaimsFromContext(r.Context())

			if claims == nil {
				entry.Error = "JWT claims missing from context"
			} else {
				reg := claims.RegisteredClaims
				entry.Authorized = true
				entry.AuthSubject = reg.Subject
				entry.AuthIssuer = reg.Issuer
				entry.AuthAudience = reg.Audience
				entry.AuthExpirySecs = reg.Expiry
			}

			next.ServeHTTP(w, r)
		})
	}
}

func auditErrorHandler() jwtmiddleware.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		entry := audit.Log(r.Context())
		entry.Error = fmt.Sprintf("JWT authorization failure: %s", err.Error())

		// The default error handler writes the appropriate response status;
		// the audit middleware records it centrally.
		jwtmiddleware.DefaultErrorHandler(w, r, err)
	}
}
