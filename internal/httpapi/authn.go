package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"beneficios.club/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/v1/auth/register",
	"/v1/auth/login",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

// withAuth parses the bearer token and attaches the caller identity to
// the request context. The cached admin claim travels with the identity;
// it is only trusted after the gate re-verifies it against the registry.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		ident, err := auth.ParseAndValidate(token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), ident)))
	})
}

// gated runs the drift verifier before an administrative handler. On
// success it marks the context so the capture wrapper knows the caller
// was verified for this request.
func (a *API) gated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := auth.IdentityFromContext(r.Context())
		if err := a.verifier.Verify(r.Context(), ident); err != nil {
			switch {
			case errors.Is(err, auth.ErrUnauthenticated):
				writeError(w, r, http.StatusUnauthorized, "authentication required")
			case errors.Is(err, auth.ErrRevoked):
				writeError(w, r, http.StatusForbidden, "administrative access revoked")
			case errors.Is(err, auth.ErrForbidden):
				writeError(w, r, http.StatusForbidden, "admin access required")
			case errors.Is(err, auth.ErrRegistryUnavailable):
				writeError(w, r, http.StatusServiceUnavailable, "could not verify admin access")
			default:
				writeError(w, r, http.StatusInternalServerError, "authorization error")
			}
			return
		}
		next(w, r.WithContext(auth.ContextWithVerifiedAdmin(r.Context())))
	}
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
