package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jbweber/homelab/northwind/internal/envelope"
	"github.com/jbweber/homelab/northwind/internal/logging"
)

// Authenticate resolves the bearer token, if any, into a RequestContext.
// Requests without an Authorization header continue anonymously; a header
// that cannot be verified is rejected with 401.
func Authenticate(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				envelope.WriteError(w, http.StatusUnauthorized, "Invalid authorization format")
				return
			}

			rc, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				logging.FromContext(r.Context()).Debug("token rejected", "error", err)
				if errors.Is(err, ErrExpiredToken) {
					envelope.WriteError(w, http.StatusUnauthorized, "Token expired")
					return
				}
				envelope.WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
		})
	}
}

// Authorize admits callers holding at least one of roles. Anonymous callers
// get ErrUnauthenticated, authenticated callers without a matching role get
// ErrForbidden. No roles means any authenticated caller.
func Authorize(rc RequestContext, roles ...string) error {
	if !rc.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if len(roles) > 0 && !rc.HasAnyRole(roles...) {
		return ErrForbidden
	}
	return nil
}
