package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rekrut-id/apiserver/internal/services"
)

const bearerPrefix = "Bearer "

type contextKey string

const contextIdentityKey contextKey = "identity"

// identityHandlerFunc is a handler that receives the request identity
// as an argument.
type identityHandlerFunc func(w http.ResponseWriter, r *http.Request, identity services.Identity)

// Authenticate resolves the Authorization header of every request to an
// identity and stores it on the request context. Requests without a valid
// token continue as anonymous. In strict mode a header without the
// "Bearer " scheme is ignored; otherwise the whole header is the token.
func Authenticate(auth *services.AuthService, strict bool, reporter *Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromHeader(r.Header.Get("Authorization"), strict)
			if token == "" {
				next.ServeHTTP(w, r.WithContext(withIdentityValue(r.Context(), services.Anonymous())))
				return
			}

			identity, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				reporter.Internal(w, r, "Authentication", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withIdentityValue(r.Context(), identity)))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFromContext(r.Context()).IsAuthenticated() {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func passThrough(next http.Handler) http.Handler {
	return next
}

// IdentityFromContext returns the identity set by Authenticate, or
// anonymous when the middleware did not run.
func IdentityFromContext(ctx context.Context) services.Identity {
	identity, _ := ctx.Value(contextIdentityKey).(services.Identity)
	return identity
}

func withIdentityValue(ctx context.Context, identity services.Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, identity)
}

func withIdentity(h identityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, IdentityFromContext(r.Context()))
	}
}

func tokenFromHeader(header string, strict bool) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	if strict {
		return ""
	}
	return header
}
